package model

import (
	"fmt"
	"strings"
)

// Format is an output format an exporter can produce.
type Format int

const (
	// FormatHTML is a self-contained HTML report.
	FormatHTML Format = iota + 1

	// FormatJSON is a pretty-printed JSON dump.
	FormatJSON

	// FormatXML is an XML document with one item per record.
	FormatXML

	// FormatMarkdown is a Markdown report. It is only reachable from the
	// non-interactive export command.
	FormatMarkdown
)

// String returns the lower-case format name.
func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	case FormatXML:
		return "xml"
	case FormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// Extension returns the file extension, including the leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatJSON:
		return ".json"
	case FormatXML:
		return ".xml"
	case FormatMarkdown:
		return ".md"
	default:
		return ""
	}
}

// ParseFormat parses a format name such as "html" or "md".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "htm":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	case "xml":
		return FormatXML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return 0, fmt.Errorf("unknown output format %q (expected html, json, xml or markdown)", s)
	}
}

// ExportTarget is the output chosen for one run.
type ExportTarget struct {
	// Format is the output format.
	Format Format

	// DownloadImages stores screenshots locally instead of hotlinking them.
	// Only meaningful for FormatHTML.
	DownloadImages bool
}

// Filename appends the format extension to base.
func (t ExportTarget) Filename(base string) string {
	return base + t.Format.Extension()
}
