package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/qrtitle/internal/model"
)

// MarkdownWriter outputs reports as GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs a results table, a summary with a result chart, and one
// section per report.
func (w *MarkdownWriter) Write(reports []*model.ScanReport) (int, error) {
	reports = nonNil(reports)
	md := markdown.NewMarkdown(w.output)

	md.H1("qrtitle Report")
	md.PlainText("")

	w.writeResults(md, reports)
	w.writeSummary(md, reports)
	w.writeDetails(md, reports)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeResults(md *markdown.Markdown, reports []*model.ScanReport) {
	md.H2("Results")
	md.PlainText("")

	if len(reports) == 0 {
		md.PlainText("No sources were scanned.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(reports))
	for i, r := range reports {
		rows[i] = []string{
			escapeCell(truncateString(r.Source, 40)),
			codeOrDash(r.URL),
			orDash(escapeCell(r.Display)),
			resultIcon(r),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Source", "URL", "Title", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, reports []*model.ScanReport) {
	s := Summarize(reports)

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"✅ Title", strconv.Itoa(s.Titles)},
			{"⚪ No title", strconv.Itoa(s.Empty)},
			{"❌ Fetch failed", strconv.Itoa(s.Failed)},
			{"➖ Not opened", strconv.Itoa(s.Cancelled + s.Invalid + s.Denied + s.Interrupted)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
		},
	})
	md.PlainText("")

	if s.Titles+s.Empty+s.Failed > 0 {
		w.writePieChart(md, s)
	}

	switch {
	case s.Denied > 0:
		md.Warningf("%s.", NoticePermission)
	case s.Failed > 0:
		md.Importantf("%d page(s) could not be fetched.", s.Failed)
	case s.Total > 0 && s.Titles == s.Total:
		md.Tip("Every page title was resolved.")
	default:
		md.Note("Some sources did not resolve to a page title.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fetch Results"),
		piechart.WithShowData(true),
	)

	if s.Titles > 0 {
		chart.LabelAndIntValue("Title", uint64(s.Titles))
	}
	if s.Empty > 0 {
		chart.LabelAndIntValue("No title", uint64(s.Empty))
	}
	if s.Failed > 0 {
		chart.LabelAndIntValue("Failed", uint64(s.Failed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeDetails(md *markdown.Markdown, reports []*model.ScanReport) {
	if len(reports) == 0 {
		return
	}

	md.H2("Details")
	md.PlainText("")

	for _, r := range reports {
		items := []string{
			"ID: `" + r.ID + "`",
			"Notice: " + orDash(r.Notice),
		}
		if r.Payload != "" {
			items = append(items, "Payload: `"+r.Payload+"`")
		}
		if r.Description != "" {
			items = append(items, "Description: "+r.Description)
		}
		if r.FailureReason != "" {
			items = append(items, "Failure: "+r.FailureReason)
		}
		if r.Error != "" {
			items = append(items, "Error: "+r.Error)
		}
		items = append(items, "Duration: "+r.Duration.String())

		md.H3(r.Source)
		md.PlainText("")
		md.BulletList(items...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [qrtitle](https://github.com/nao1215/qrtitle)*")
}

// resultIcon summarizes a report in the results table.
func resultIcon(r *model.ScanReport) string {
	switch {
	case r.Error != "":
		return "⚠️ Interrupted"
	case r.Result == model.FetchTitle.String():
		return "✅ Title"
	case r.Result == model.FetchEmpty.String():
		return "⚪ No title"
	case r.Result == model.FetchFailed.String():
		return "❌ Failed"
	default:
		return "➖ " + orDash(r.Notice)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func codeOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return "`" + s + "`"
}

// escapeCell keeps pipes from splitting a table cell.
func escapeCell(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '|' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

// truncateString truncates s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
