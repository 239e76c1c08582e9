package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/qrtitle/internal/model"
)

// JSONWriter outputs reports as a JSON array.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the reports as a JSON array.
func (w *JSONWriter) Write(reports []*model.ScanReport) (int, error) {
	return w.writeJSON(nonNil(reports))
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}

// JSONReport wraps a batch with version and summary metadata.
type JSONReport struct {
	Version     string              `json:"version"`
	GeneratedAt time.Time           `json:"generated_at"`
	Summary     Summary             `json:"summary"`
	Reports     []*model.ScanReport `json:"reports"`
}

// NewJSONReport creates a JSONReport for reports.
func NewJSONReport(reports []*model.ScanReport, version string, generatedAt time.Time) *JSONReport {
	reports = nonNil(reports)
	return &JSONReport{
		Version:     version,
		GeneratedAt: generatedAt,
		Summary:     Summarize(reports),
		Reports:     reports,
	}
}

// FullJSONWriter outputs a JSONReport instead of a bare array.
type FullJSONWriter struct {
	*JSONWriter

	version string
	now     func() time.Time
}

// NewFullJSONWriter creates a writer for batches with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
		now:        time.Now,
	}
}

// Write outputs the reports wrapped with metadata.
func (w *FullJSONWriter) Write(reports []*model.ScanReport) (int, error) {
	return w.writeJSON(NewJSONReport(reports, w.version, w.now().UTC()))
}
