package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/qrtitle/internal/model"
)

// SimpleWriter outputs plain text for terminals and pipes.
type SimpleWriter struct {
	baseWriter

	// verbose adds IDs, timings and failure kinds.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one block per report followed by a summary line when there
// is more than one report.
func (w *SimpleWriter) Write(reports []*model.ScanReport) (int, error) {
	reports = nonNil(reports)

	var sb strings.Builder
	for i, r := range reports {
		if i > 0 {
			sb.WriteString("\n")
		}
		w.writeReport(&sb, r)
	}

	if len(reports) > 1 {
		s := Summarize(reports)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%d scanned: %d titles, %d without title, %d failed, %d not opened\n",
			s.Total, s.Titles, s.Empty, s.Failed, s.Cancelled+s.Invalid+s.Denied+s.Interrupted)
	}

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeReport(sb *strings.Builder, r *model.ScanReport) {
	fmt.Fprintf(sb, "Source:  %s\n", r.Source)
	if r.Notice != "" {
		fmt.Fprintf(sb, "Notice:  %s\n", r.Notice)
	}
	if r.URL != "" {
		fmt.Fprintf(sb, "URL:     %s\n", r.URL)
	}
	if r.Display != "" {
		fmt.Fprintf(sb, "Title:   %s\n", r.Display)
	}
	if r.Error != "" {
		fmt.Fprintf(sb, "Error:   %s\n", r.Error)
	}

	if !w.verbose {
		return
	}
	fmt.Fprintf(sb, "ID:      %s\n", r.ID)
	if r.Description != "" {
		fmt.Fprintf(sb, "About:   %s\n", r.Description)
	}
	if r.Payload != "" {
		fmt.Fprintf(sb, "Payload: %q\n", r.Payload)
	}
	if r.FailureReason != "" {
		fmt.Fprintf(sb, "Reason:  %s\n", r.FailureReason)
	}
	if !r.StartedAt.IsZero() {
		fmt.Fprintf(sb, "Started: %s\n", r.StartedAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(sb, "Took:    %s\n", r.Duration.Round(time.Millisecond))
}

// FormatSnapshot renders one live update: the notice of the last scan and the
// displayed URL and title.
func FormatSnapshot(s model.Snapshot) string {
	if !s.HasScan {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(NoticeText(s.LastScan))
	if !s.URL.IsZero() {
		fmt.Fprintf(&sb, " | %s", s.URL)
		if text := DisplayText(s.Status); text != "" {
			fmt.Fprintf(&sb, " | %s", text)
		}
	}
	return sb.String()
}
