// Package history keeps a journal of completed vncfetch runs in SQLite.
//
// Each run stores its metadata only: when it ran, which country and
// format were requested, how many records came back and where the report
// was written. Record content is never stored, because records carry
// VNC passwords.
//
// The database lives in a single file (vncfetch.db) under the XDG data
// directory and uses modernc.org/sqlite, which needs no cgo.
package history
