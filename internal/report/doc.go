// Package report renders a model.ResultSet to the output formats of vncfetch.
//
// This package contains writers for the following formats:
//   - HTMLWriter: a self-contained page with one screenshot and table per record
//   - JSONWriter: the result set as indented JSON
//   - XMLWriter: a results document with one item element per record
//   - MarkdownWriter: a Markdown page for sharing in issues or wikis
//
// Writers only render; Exporter drives them. It downloads screenshots when
// the HTML target asks for local images, and writes every file through a
// temporary file that is renamed into place on success, so a failed export
// never leaves a partial file behind.
package report
