package main

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/qrtitle/internal/model"
)

func TestOpenReports(t *testing.T) {
	t.Parallel()

	reports := []*model.ScanReport{
		{Source: "a", URL: "https://a.test"},
		nil,
		{Source: "b", Scan: "user_cancelled"},
		{Source: "c", URL: "https://broken.test"},
		{Source: "d", URL: "https://a.test"},
		{Source: "e", URL: "http://e.test"},
	}

	var calls []string
	open := func(url string) error {
		calls = append(calls, url)
		if strings.Contains(url, "broken") {
			return errors.New("no browser")
		}
		return nil
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	got := openReports(reports, open, logger)
	if got != 2 {
		t.Errorf("openReports() = %d, want 2", got)
	}

	want := []string{"https://a.test", "https://broken.test", "http://e.test"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("opened URLs mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "failed to open URL") {
		t.Errorf("expected failure to be logged, got %q", logs.String())
	}
}
