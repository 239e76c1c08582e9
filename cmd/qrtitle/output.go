package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/qrtitle/internal/config"
	"github.com/nao1215/qrtitle/internal/model"
	"github.com/nao1215/qrtitle/internal/report"
)

// newReportWriter selects the report format requested by cfg.
func newReportWriter(w io.Writer, cfg *config.Config) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(w, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
	}
}

// writeReports writes reports to --output, or to the command's stdout.
// A JSON or Markdown report written to a file is echoed as plain text.
func writeReports(cmd *cobra.Command, cfg *config.Config, reports []*model.ScanReport) error {
	var output io.Writer = cmd.OutOrStdout()

	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports list every scanned URL; keep them owner-readable only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	w := newReportWriter(output, cfg)
	if cfg.ReportFile != "" && (cfg.JSONReport || cfg.MarkdownReport) {
		// The file gets the structured report, the terminal the plain results.
		w = report.NewMultiWriter(w, report.NewSimpleWriter(cmd.OutOrStdout(), report.WithVerbose(cfg.Verbose)))
	}

	if _, err := w.Write(reports); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
