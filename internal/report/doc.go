// Package report assembles the relay diagnostics report and writes it out.
//
// The JSON form is the machine-readable record of a run and is always
// written. The Markdown form is an optional summary meant for pasting into
// issues or chat when asking for help with a relay setup.
package report
