package report

import (
	"io"

	"github.com/nao1215/qrtitle/internal/model"
)

// Writer formats a batch of scan reports.
type Writer interface {
	// Write outputs the reports and returns the number of bytes written.
	Write(reports []*model.ScanReport) (int, error)
}

// MultiWriter writes to multiple Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the reports to every Writer, stopping on the first error.
func (m *MultiWriter) Write(reports []*model.ScanReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(reports)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// nonNil drops nil entries.
func nonNil(reports []*model.ScanReport) []*model.ScanReport {
	out := make([]*model.ScanReport, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
