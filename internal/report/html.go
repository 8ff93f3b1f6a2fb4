package report

import (
	"bytes"
	"html/template"
	"io"

	"github.com/nao1215/vncfetch/internal/model"
)

// htmlTemplate is the page layout. html/template escapes every field value
// and image source.
var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>VNC resolver results{{if .Country}} for {{.Country}}{{end}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 0;
            background-color: #f4f4f9;
        }
        .container {
            width: 80%;
            margin: 20px auto;
            background-color: #fff;
            padding: 20px;
            box-shadow: 0 0 10px rgba(0, 0, 0, 0.1);
        }
        .item {
            display: flex;
            align-items: center;
            margin-bottom: 20px;
            border-bottom: 1px solid #ddd;
            padding-bottom: 10px;
        }
        .item img {
            min-width: 650px;
            max-width: 650px;
            margin-right: 20px;
        }
        .item table {
            width: 100%;
            border-collapse: collapse;
        }
        .item table, .item th, .item td {
            border: 1px solid #ddd;
        }
        .item th, .item td {
            padding: 8px;
            text-align: left;
        }
        .item th {
            background-color: #f2f2f2;
        }
    </style>
</head>
<body>
    <div class="container">
{{- range .Items}}
        <div class="item"><img src="{{.Src}}" alt="Image"><table>
            <tr><th>Key</th><th>Value</th></tr>
{{- range .Fields}}
            <tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
{{- end}}
        </table></div>
{{- else}}
        <p class="empty">No results.</p>
{{- end}}
{{- if .EmbedScript}}
        <script>
            document.querySelectorAll('img').forEach(img => {
                const src = img.getAttribute('src');
                fetch(src)
                    .then(response => response.blob())
                    .then(blob => {
                        img.src = URL.createObjectURL(blob);
                    });
            });
        </script>
{{- end}}
    </div>
</body>
</html>
`))

// htmlPage is the data handed to htmlTemplate.
type htmlPage struct {
	Country     string
	Items       []htmlItem
	EmbedScript bool
}

// htmlItem is one record block of the page.
type htmlItem struct {
	Src    string
	Fields []htmlField
}

// htmlField is one table row.
type htmlField struct {
	Key   string
	Value string
}

// HTMLWriter outputs a self-contained HTML page.
// Without local images, each <img> points at the record's imagelink and the
// page swaps it for a blob URL once loaded, which works around hosts that
// refuse hotlinked images.
type HTMLWriter struct {
	baseWriter

	// sources, when non-nil, holds the image source of each record by index.
	sources []string
}

// HTMLWriterOption configures an HTMLWriter.
type HTMLWriterOption func(*HTMLWriter)

// WithImageSources sets the <img> source of each record, by index in the
// result set. It is used for locally downloaded screenshots and disables
// the blob-swap script.
func WithImageSources(sources []string) HTMLWriterOption {
	return func(w *HTMLWriter) {
		w.sources = sources
	}
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...HTMLWriterOption) *HTMLWriter {
	w := &HTMLWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the result set as an HTML page.
func (w *HTMLWriter) Write(rs *model.ResultSet) (int, error) {
	page := htmlPage{
		Country:     rs.Country,
		Items:       make([]htmlItem, 0, rs.Count()),
		EmbedScript: w.sources == nil,
	}

	for i, rec := range rs.Results {
		item := htmlItem{Src: rec.ImageLink()}
		if w.sources != nil && i < len(w.sources) {
			item.Src = w.sources[i]
		}
		for _, f := range visibleFields(rec) {
			item.Fields = append(item.Fields, htmlField{Key: f.Key, Value: f.Value.String()})
		}
		page.Items = append(page.Items, item)
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, page); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
