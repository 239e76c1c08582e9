package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/nao1215/qrtitle/internal/model"
)

func TestStatusText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result model.FetchResult
		want   string
	}{
		{"title", model.TitleResult("Example Domain"), "Example Domain"},
		{"empty", model.EmptyResult(), "No title found"},
		{"empty title string", model.TitleResult(""), "No title found"},
		{"network error", model.FailedResult(model.NetworkError), "Error fetching title"},
		{"parse error", model.FailedResult(model.ParseError), "Error fetching title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := StatusText(tt.result); got != tt.want {
				t.Errorf("StatusText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status model.DisplayStatus
		want   string
	}{
		{"none", model.NoStatus(), ""},
		{"pending", model.PendingStatus(), TextPending},
		{"result", model.ResultStatus(model.TitleResult("Hi")), "Hi"},
		{"failed", model.ResultStatus(model.FailedResult(model.NetworkError)), TextFetchError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DisplayText(tt.status); got != tt.want {
				t.Errorf("DisplayText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNoticeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status model.ScanStatus
		want   string
	}{
		{"permission denied", model.StatusPermissionDenied(), "Camera permission is required to scan QR codes"},
		{"cancelled", model.StatusUserCancelled(), "Cancelled"},
		{"invalid payload", model.StatusInvalidPayload(), "No URL to open"},
		{"scanned", model.StatusScanned(model.MustNormalizeURL("example.com")), "Scanned: https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NoticeText(tt.status); got != tt.want {
				t.Errorf("NoticeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPermissionText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state model.PermissionState
		want  string
	}{
		{"granted", model.PermissionGranted, "Camera permission granted"},
		{"denied", model.PermissionDenied, "Camera permission denied"},
		{"unknown", model.PermissionUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PermissionText(tt.state); got != tt.want {
				t.Errorf("PermissionText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewScanReport(t *testing.T) {
	t.Parallel()

	url := model.MustNormalizeURL("example.com")

	tests := []struct {
		name string
		snap model.Snapshot
		want model.ScanReport
	}{
		{
			name: "no scan",
			snap: model.Snapshot{},
			want: model.ScanReport{Source: "src"},
		},
		{
			name: "cancelled",
			snap: model.Snapshot{HasScan: true, LastScan: model.StatusUserCancelled()},
			want: model.ScanReport{Source: "src", Scan: "user_cancelled", Notice: "Cancelled"},
		},
		{
			name: "cancelled keeps no previous url",
			snap: model.Snapshot{
				HasScan:  true,
				LastScan: model.StatusInvalidPayload(),
				URL:      url,
				Status:   model.ResultStatus(model.TitleResult("old")),
			},
			want: model.ScanReport{Source: "src", Scan: "invalid_payload", Notice: "No URL to open"},
		},
		{
			name: "title",
			snap: model.Snapshot{
				HasScan:  true,
				LastScan: model.StatusScanned(url),
				URL:      url,
				Status:   model.ResultStatus(model.TitleResult("Example Domain")),
			},
			want: model.ScanReport{
				Source:  "src",
				Scan:    "scanned",
				Notice:  "Scanned: https://example.com",
				URL:     "https://example.com",
				Result:  "title",
				Title:   "Example Domain",
				Display: "Example Domain",
			},
		},
		{
			name: "empty title with description",
			snap: model.Snapshot{
				HasScan:  true,
				LastScan: model.StatusScanned(url),
				URL:      url,
				Status:   model.ResultStatus(model.EmptyResult().WithDescription("About us")),
			},
			want: model.ScanReport{
				Source:      "src",
				Scan:        "scanned",
				Notice:      "Scanned: https://example.com",
				URL:         "https://example.com",
				Result:      "empty",
				Description: "About us",
				Display:     TextNoTitle,
			},
		},
		{
			name: "parse error",
			snap: model.Snapshot{
				HasScan:  true,
				LastScan: model.StatusScanned(url),
				URL:      url,
				Status:   model.ResultStatus(model.FailedResult(model.ParseError)),
			},
			want: model.ScanReport{
				Source:        "src",
				Scan:          "scanned",
				Notice:        "Scanned: https://example.com",
				URL:           "https://example.com",
				Result:        "failed",
				FailureReason: "parse_error",
				Display:       "Error fetching title",
			},
		},
		{
			name: "still pending",
			snap: model.Snapshot{
				HasScan:  true,
				LastScan: model.StatusScanned(url),
				URL:      url,
				Status:   model.PendingStatus(),
			},
			want: model.ScanReport{
				Source:  "src",
				Scan:    "scanned",
				Notice:  "Scanned: https://example.com",
				URL:     "https://example.com",
				Display: TextPending,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NewScanReport("src", tt.snap)
			if got.ID == "" {
				t.Error("NewScanReport() ID is empty")
			}
			if diff := cmp.Diff(tt.want, *got, cmpopts.IgnoreFields(model.ScanReport{}, "ID")); diff != "" {
				t.Errorf("NewScanReport() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewScanReportUniqueIDs(t *testing.T) {
	t.Parallel()

	a := NewScanReport("a", model.Snapshot{})
	b := NewScanReport("a", model.Snapshot{})
	if a.ID == b.ID {
		t.Errorf("expected distinct IDs, both were %q", a.ID)
	}
}

func TestFormatSnapshot(t *testing.T) {
	t.Parallel()

	url := model.MustNormalizeURL("http://a.test")

	tests := []struct {
		name string
		snap model.Snapshot
		want string
	}{
		{"empty", model.Snapshot{}, ""},
		{
			"pending",
			model.Snapshot{HasScan: true, LastScan: model.StatusScanned(url), URL: url, Status: model.PendingStatus()},
			"Scanned: http://a.test | http://a.test | Fetching title...",
		},
		{
			"cancel after title",
			model.Snapshot{HasScan: true, LastScan: model.StatusUserCancelled(), URL: url, Status: model.ResultStatus(model.EmptyResult())},
			"Cancelled | http://a.test | No title found",
		},
		{
			"cancel before any url",
			model.Snapshot{HasScan: true, LastScan: model.StatusUserCancelled()},
			"Cancelled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatSnapshot(tt.snap); got != tt.want {
				t.Errorf("FormatSnapshot() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	reports := []*model.ScanReport{
		{Scan: "scanned", Result: "title"},
		{Scan: "scanned", Result: "title"},
		{Scan: "scanned", Result: "empty"},
		{Scan: "scanned", Result: "failed"},
		{Scan: "user_cancelled"},
		{Scan: "invalid_payload"},
		{Scan: "permission_denied"},
		{Error: "context canceled"},
		nil,
	}

	want := Summary{Total: 8, Titles: 2, Empty: 1, Failed: 1, Cancelled: 1, Invalid: 1, Denied: 1, Interrupted: 1}
	if diff := cmp.Diff(want, Summarize(reports)); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}
