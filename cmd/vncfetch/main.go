// Package main provides the entry point for the vncfetch CLI.
//
// vncfetch searches a VNC resolver for every open VNC server in a country
// and exports the results as an HTML, JSON, XML or Markdown report.
//
// Usage:
//
//	vncfetch
//	vncfetch export -C DE -f html --images
//
// See --help for all available options.
package main

// main is the entry point for vncfetch.
func main() {
	Execute()
}
