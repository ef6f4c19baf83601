package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Snippet reproduces the offending source text bracketed with corner
// brackets, the plain (non-colored) form used when color is off.
func Snippet(src string, span Span) string {
	if span.End.Offset <= span.Start.Offset {
		span.End = span.Start
	}

	lineStart := strings.LastIndexByte(src[:span.Start.Offset], '\n') + 1
	if span.Start.Line == span.End.Line {
		lineEnd := strings.IndexByte(src[span.End.Offset:], '\n')
		if lineEnd == -1 {
			lineEnd = len(src)
		} else {
			lineEnd += span.End.Offset
		}
		prefix := src[lineStart:span.Start.Offset]
		snip := src[span.Start.Offset:span.End.Offset]
		suffix := src[span.End.Offset:lineEnd]
		return prefix + "「" + snip + "」" + suffix
	}

	lineEnd := strings.IndexByte(src[span.Start.Offset:span.End.Offset], '\n')
	if lineEnd == -1 {
		lineEnd = len(src)
	} else {
		lineEnd += span.Start.Offset
	}
	prefix := src[lineStart:span.Start.Offset]
	snip := src[span.Start.Offset:lineEnd]
	return prefix + "「" + snip + "...⋯"
}

// RenderHuman writes a colorized, caret-underlined rendering of d to out.
// This is the "human mode" alternative to the stable JSON envelope.
func RenderHuman(out io.Writer, d *Diagnostic, src string) {
	sev := color.New(color.FgRed, color.Bold)
	loc := color.New(color.FgCyan)
	hint := color.New(color.FgYellow)

	sev.Fprintf(out, "error[%s]", d.Code)
	fmt.Fprintf(out, ": %s\n", d.Message)

	if d.Span != nil {
		loc.Fprintf(out, "  --> %s\n", d.Span.Start)
		if src != "" {
			line := lineAt(src, d.Span.Start)
			fmt.Fprintf(out, "   | %s\n", line)
			fmt.Fprintf(out, "   | %s%s\n", strings.Repeat(" ", d.Span.Start.Col-1), carets(d.Span))
		}
	}

	if d.Found != nil && d.Expected != nil {
		fmt.Fprintf(out, "  found %s, expected %s\n", *d.Found, *d.Expected)
	}
	for _, s := range d.Suggestions {
		hint.Fprintf(out, "  hint[%s]: %s\n", s.Kind, s.Message)
	}
	for _, f := range d.Fixits {
		hint.Fprintf(out, "  fixit: replace with %q\n", f.Replacement)
	}
}

func carets(span Span) string {
	n := span.End.Col - span.Start.Col
	if n < 1 {
		n = 1
	}
	return strings.Repeat("^", n)
}

func lineAt(src string, pos Position) string {
	lineStart := strings.LastIndexByte(src[:pos.Offset], '\n') + 1
	lineEndRel := strings.IndexByte(src[pos.Offset:], '\n')
	lineEnd := len(src)
	if lineEndRel != -1 {
		lineEnd = pos.Offset + lineEndRel
	}
	return src[lineStart:lineEnd]
}
