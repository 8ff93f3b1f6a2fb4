package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/vncfetch/internal/model"
)

// DefaultJSONIndent is the indentation of exported JSON.
const DefaultJSONIndent = "    "

// JSONWriter outputs the result set as {"results": [...]}.
// Record keys keep the order the API sent them in.
type JSONWriter struct {
	baseWriter

	// indent is the per-level indentation; empty means compact output.
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent sets the indentation string. An empty string gives compact output.
func WithIndent(indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = indent
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// Output is indented with four spaces unless WithIndent says otherwise.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		indent:     DefaultJSONIndent,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the result set in JSON format. Values are written as
// they are; <, > and & are not escaped.
func (w *JSONWriter) Write(rs *model.ResultSet) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", w.indent)

	if err := enc.Encode(rs); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
