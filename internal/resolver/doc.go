// Package resolver is the HTTP client for the VNC resolver API.
//
// It issues the single search request of a run and the screenshot requests
// of the HTML exporter. Every failure is reported as a wrapped ErrNetwork
// or ErrParse so callers can tell transport problems from bad payloads
// with errors.Is. Nothing is retried.
package resolver
