package report

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"unicode"

	"github.com/nao1215/vncfetch/internal/model"
)

// XML element names of the document.
const (
	xmlRootElement = "results"
	xmlItemElement = "item"
)

// XMLWriter outputs a <results> document with one <item> per record and
// one child element per field.
type XMLWriter struct {
	baseWriter
}

// NewXMLWriter creates an XMLWriter that outputs to the given writer.
func NewXMLWriter(output io.Writer) *XMLWriter {
	return &XMLWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result set as XML.
func (w *XMLWriter) Write(rs *model.ResultSet) (int, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: xmlRootElement}}
	if err := enc.EncodeToken(root); err != nil {
		return 0, err
	}

	for _, rec := range rs.Results {
		item := xml.StartElement{Name: xml.Name{Local: xmlItemElement}}
		if err := enc.EncodeToken(item); err != nil {
			return 0, err
		}
		for _, f := range rec.Fields() {
			if err := encodeField(enc, f); err != nil {
				return 0, err
			}
		}
		if err := enc.EncodeToken(item.End()); err != nil {
			return 0, err
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return 0, err
	}
	if err := enc.Flush(); err != nil {
		return 0, err
	}
	buf.WriteByte('\n')

	return w.output.Write(buf.Bytes())
}

// encodeField writes <key>value</key>. The encoder escapes the text.
func encodeField(enc *xml.Encoder, f model.Field) error {
	start := xml.StartElement{Name: xml.Name{Local: XMLName(f.Key)}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if text := f.Value.String(); text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// XMLName turns a field name into a valid XML element name.
// Invalid characters become "_", and a name that cannot start an element
// (a digit, "-" or ".") gets a leading "_". Colons are replaced so that no
// namespace prefix is implied.
func XMLName(key string) string {
	if key == "" {
		return "_"
	}

	var b strings.Builder
	for i, r := range key {
		nameStart := r == '_' || unicode.IsLetter(r)
		nameChar := nameStart || unicode.IsDigit(r) || r == '-' || r == '.'

		switch {
		case i == 0 && nameStart:
			b.WriteRune(r)
		case i == 0 && nameChar:
			b.WriteByte('_')
			b.WriteRune(r)
		case i > 0 && nameChar:
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
