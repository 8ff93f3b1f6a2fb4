package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/vncfetch/internal/model"
)

// MarkdownWriter outputs the result set as a Markdown page: a title, then
// one section per record with its screenshot and a Key/Value table.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result set in Markdown format.
func (w *MarkdownWriter) Write(rs *model.ResultSet) (int, error) {
	md := markdown.NewMarkdown(w.output)

	title := "VNC Resolver Results"
	if rs.Country != "" {
		title += " for " + rs.Country
	}
	md.H1(title)
	md.PlainText("")
	md.PlainTextf("%d result(s).", rs.Count())
	md.PlainText("")

	if rs.IsEmpty() {
		md.Note("The search returned no results.")
		md.PlainText("")
	}

	for i, rec := range rs.Results {
		w.writeRecord(md, i, rec)
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [vncfetch](https://github.com/nao1215/vncfetch)*")

	return len(md.String()), md.Build()
}

// writeRecord writes one record section.
func (w *MarkdownWriter) writeRecord(md *markdown.Markdown, index int, rec *model.Record) {
	heading := fmt.Sprintf("Result %d", index+1)
	if rec.HasID() {
		heading = "Result " + rec.ID()
	}
	md.H2(heading)
	md.PlainText("")

	if link := rec.ImageLink(); link != "" {
		md.PlainText(fmt.Sprintf("![screenshot %s](%s)", escapeCell(rec.ID()), link))
		md.PlainText("")
	}

	fields := visibleFields(rec)
	rows := make([][]string, len(fields))
	for j, f := range fields {
		rows[j] = []string{escapeCell(f.Key), escapeCell(f.Value.String())}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Key", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// cellReplacer keeps a value inside a single table cell.
var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// escapeCell escapes characters that would break a Markdown table row.
func escapeCell(s string) string {
	return cellReplacer.Replace(s)
}
