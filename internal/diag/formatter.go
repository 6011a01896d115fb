package diag

import (
	"fmt"
	"io"
	"strings"
)

// Formatter renders diagnostics with source snippets and caret underlines.
type Formatter struct {
	w io.Writer
}

// NewFormatter creates a formatter writing to w.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

// Format prints one diagnostic against the source it was produced from.
func (f *Formatter) Format(d Diagnostic, source string) {
	f.printHeader(d)

	lines := strings.Split(source, "\n")
	line := d.Span.Start.Line
	if line < 0 || line >= len(lines) {
		f.printTrailer(d)
		return
	}

	name := d.Filename
	if name == "" {
		name = "<input>"
	}
	fmt.Fprintf(f.w, "  --> %s:%d:%d\n", name, line+1, d.Span.Start.Column+1)

	lineNumWidth := len(fmt.Sprintf("%d", line+1))
	pad := strings.Repeat(" ", lineNumWidth)

	fmt.Fprintf(f.w, " %s |\n", pad)
	fmt.Fprintf(f.w, " %*d | %s\n", lineNumWidth, line+1, lines[line])
	fmt.Fprintf(f.w, " %s | %s\n", pad, underline(d.Span.Start.Column, spanWidth(d, lines[line])))

	f.printTrailer(d)
}

// FormatAll prints every diagnostic in order.
func (f *Formatter) FormatAll(diags []Diagnostic, source string) {
	for _, d := range diags {
		f.Format(d, source)
	}
}

func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = string(SeverityError)
	}
	if d.Code != "" {
		fmt.Fprintf(f.w, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.w, "%s: %s\n", severity, d.Message)
	}
}

func (f *Formatter) printTrailer(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.w, "  = note: %s\n", note)
	}
	if d.Suggestion != "" {
		fmt.Fprintf(f.w, "  = suggestion: %s\n", d.Suggestion)
	}
	if d.Help != "" {
		fmt.Fprintf(f.w, "help: %s\n", d.Help)
	}
	fmt.Fprintln(f.w)
}

func spanWidth(d Diagnostic, line string) int {
	width := d.Span.End.Offset - d.Span.Start.Offset
	if d.Span.End.Line != d.Span.Start.Line || width <= 0 {
		width = len(line) - d.Span.Start.Column
	}
	if width < 1 {
		width = 1
	}
	return width
}

func underline(column, width int) string {
	if column < 0 {
		column = 0
	}
	return strings.Repeat(" ", column) + strings.Repeat("^", width)
}
