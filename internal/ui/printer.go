package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Printer writes human-readable progress lines.
type Printer struct {
	out      io.Writer
	styles   styles
	verbose  bool
	progress *Progress
}

// NewPrinter creates a Printer on w. Colors are emitted only when w is a
// color-capable terminal.
func NewPrinter(w io.Writer, verbose bool) *Printer {
	return &Printer{
		out:     w,
		styles:  newStyles(lipgloss.NewRenderer(w)),
		verbose: verbose,
	}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Verbose reports whether debug lines are printed.
func (p *Printer) Verbose() bool {
	return p.verbose
}

// AttachProgress makes the printer clear the bar before each line so the
// two do not interleave on one terminal line.
func (p *Printer) AttachProgress(bar *Progress) {
	p.progress = bar
}

// Title prints a bold heading.
func (p *Printer) Title(format string, args ...any) {
	p.line(p.styles.title.Render(fmt.Sprintf(format, args...)))
}

// Step announces the start of a unit of work.
func (p *Printer) Step(icon, format string, args ...any) {
	p.line(icon + " " + p.styles.step.Render(fmt.Sprintf(format, args...)))
}

// Info prints a plain indented note.
func (p *Printer) Info(format string, args ...any) {
	p.line("   " + fmt.Sprintf(format, args...))
}

// Detail prints a subtle indented note.
func (p *Printer) Detail(format string, args ...any) {
	p.line("   " + p.styles.subtle.Render(fmt.Sprintf(format, args...)))
}

// Debug prints only in verbose mode.
func (p *Printer) Debug(format string, args ...any) {
	if p.verbose {
		p.Detail(format, args...)
	}
}

// Success prints a green check line.
func (p *Printer) Success(format string, args ...any) {
	p.line(IconSuccess + " " + p.styles.success.Render(fmt.Sprintf(format, args...)))
}

// Warn prints a yellow warning line.
func (p *Printer) Warn(format string, args ...any) {
	p.line(IconWarning + " " + p.styles.warning.Render(fmt.Sprintf(format, args...)))
}

// Error prints a red failure line. Multi-line messages keep their
// continuation lines indented under the icon.
func (p *Printer) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	lines := strings.Split(msg, "\n")
	p.line(IconError + " " + p.styles.err.Render(lines[0]))
	for _, l := range lines[1:] {
		p.line("   " + l)
	}
}

func (p *Printer) line(s string) {
	if p.progress != nil {
		p.progress.Clear()
	}
	fmt.Fprintln(p.out, s)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
