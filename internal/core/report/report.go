// Package report prints the user-facing outcome of a command: files created,
// infrastructure reused, files skipped and warnings.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter writes coloured, one-line notices. A nil *Reporter discards.
type Reporter struct {
	out io.Writer

	created *color.Color
	reused  *color.Color
	skipped *color.Color
	warn    *color.Color
	info    *color.Color
	done    *color.Color
}

// New returns a Reporter writing to out.
func New(out io.Writer) *Reporter {
	return &Reporter{
		out:     out,
		created: color.New(color.FgGreen),
		reused:  color.New(color.FgCyan),
		skipped: color.New(color.FgHiBlack),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgWhite),
		done:    color.New(color.FgGreen, color.Bold),
	}
}

func (r *Reporter) line(c *color.Color, label, format string, args ...any) {
	if r.out == nil {
		return
	}
	_, _ = fmt.Fprintf(r.out, "%s %s\n", c.Sprint(label), fmt.Sprintf(format, args...))
}

// Created reports a new file.
func (r *Reporter) Created(path string) {
	if r != nil {
		r.line(r.created, "created", "%s", path)
	}
}

// Reused reports infrastructure that was found instead of generated.
func (r *Reporter) Reused(message string) {
	if r != nil {
		r.line(r.reused, "reused ", "%s", message)
	}
}

// Skipped reports a file left untouched.
func (r *Reporter) Skipped(message string) {
	if r != nil {
		r.line(r.skipped, "skipped", "%s", message)
	}
}

// Info reports a neutral notice.
func (r *Reporter) Info(format string, args ...any) {
	if r != nil {
		r.line(r.info, "   note", format, args...)
	}
}

// Warn reports a non-fatal problem.
func (r *Reporter) Warn(format string, args ...any) {
	if r != nil {
		r.line(r.warn, "warning", format, args...)
	}
}

// Done reports the overall outcome.
func (r *Reporter) Done(format string, args ...any) {
	if r != nil {
		r.line(r.done, "   done", format, args...)
	}
}
