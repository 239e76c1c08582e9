package main

import (
	"log/slog"

	"github.com/nao1215/qrtitle/internal/model"
)

// openReports opens the URL of every successful scan once, in report order.
// It returns the number of URLs opened. Failures are logged and skipped.
func openReports(reports []*model.ScanReport, open func(url string) error, logger *slog.Logger) int {
	seen := make(map[string]bool, len(reports))
	opened := 0
	for _, r := range reports {
		if r == nil || r.URL == "" || seen[r.URL] {
			continue
		}
		seen[r.URL] = true

		if err := open(r.URL); err != nil {
			logger.Warn("failed to open URL", "url", r.URL, "error", err)
			continue
		}
		opened++
	}
	return opened
}
