// Package console prints operator-facing progress lines.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

// Printer receives human-readable diagnostic lines.
type Printer interface {
	Headingf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Successf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Console writes progress to Out and failures to Err.
type Console struct {
	Out io.Writer
	Err io.Writer
}

// New returns a Console writing to out and errOut.
func New(out, errOut io.Writer) *Console {
	return &Console{Out: out, Err: errOut}
}

// Discard returns a Console that drops everything.
func Discard() *Console {
	return New(io.Discard, io.Discard)
}

// Headingf prints the line that opens a check.
func (c *Console) Headingf(format string, args ...interface{}) {
	fmt.Fprintln(c.Out, colorInfo(fmt.Sprintf(format, args...)))
}

func (c *Console) Infof(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format+"\n", args...)
}

func (c *Console) Successf(format string, args ...interface{}) {
	fmt.Fprintln(c.Out, colorSuccess(fmt.Sprintf(format, args...)))
}

func (c *Console) Warnf(format string, args ...interface{}) {
	fmt.Fprintln(c.Out, colorWarn(fmt.Sprintf(format, args...)))
}

// Errorf prints to the error stream.
func (c *Console) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(c.Err, colorError(fmt.Sprintf(format, args...)))
}

// Status colors a one-word check status for summary lines.
func Status(status string) string {
	switch strings.ToLower(status) {
	case "ok", "found":
		return colorSuccess(status)
	case "error", "failed":
		return colorError(status)
	case "missing":
		return colorWarn(status)
	default:
		return status
	}
}
