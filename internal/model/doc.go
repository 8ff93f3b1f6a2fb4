// Package model defines the data structures shared by the fetcher, the
// exporters and the interactive shell.
//
// This package contains the following main types:
//   - Value: a single JSON scalar (or nested value) returned by the API
//   - Record: one search result, an ordered field mapping
//   - ResultSet: every record returned by one search, in API order
//   - ExportTarget: the output format chosen for a run
//
// The API does not publish a fixed schema, so records are kept as ordered
// mappings rather than structs. Key order is the order the API sent and is
// what the HTML table and the XML item children follow.
package model
