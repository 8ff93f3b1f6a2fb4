package report

import (
	"io"

	"github.com/nao1215/vncfetch/internal/model"
)

// Writer defines the interface for report output.
// Implementations write a result set in one format to the destination
// given at construction time.
type Writer interface {
	// Write renders the result set and returns the number of bytes written.
	Write(rs *model.ResultSet) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// visibleFields returns the fields of rec shown in tables, which is every
// field except the derived image link.
func visibleFields(rec *model.Record) []model.Field {
	fields := rec.Fields()
	out := fields[:0]
	for _, f := range fields {
		if f.Key == model.FieldImageLink {
			continue
		}
		out = append(out, f)
	}
	return out
}
