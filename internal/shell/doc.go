// Package shell implements the interactive vncfetch session.
//
// A session is a straight line: ask for a country code, fetch every
// matching record, ask for an output format, write the report and print
// how long it took. There is no way back to an earlier step; an invalid
// format choice ends the session without writing anything.
package shell
