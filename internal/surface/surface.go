// Package surface implements the surface-form validator:
// whole-file textual rules enforced on raw source bytes before the
// lexer ever runs. Failure here is fatal and carries a precise
// line/column - the rationale is byte-for-byte reproducibility, so
// every valid program has exactly one textual representation.
package surface

import (
	"strings"

	"github.com/sigil-lang/sigilc/internal/diag"
)

// Validate runs the surface-form rules over the whole of src one rule
// at a time, in the order below, and reports the first violation of
// the first rule that fails. Rules, each with a distinct error code:
//   - tab characters are forbidden anywhere
//   - a lone carriage return (not followed by newline) is forbidden
//   - no line may end with space or tab
//   - no two consecutive blank lines
//   - the file must end with a newline (U+000A)
func Validate(src string) *diag.Diagnostic {
	if d := checkTabs(src); d != nil {
		return d
	}
	if d := checkLoneCR(src); d != nil {
		return d
	}
	if d := checkTrailingWhitespace(src); d != nil {
		return d
	}
	if d := checkBlankLines(src); d != nil {
		return d
	}
	if d := checkFinalNewline(src); d != nil {
		return d
	}
	return nil
}

// position walks src up to byte offset and computes its line/col,
// both 1-based - the same coordinate convention internal/lexer uses.
func position(src string, offset int) diag.Position {
	line, col := 1, 1
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return diag.Position{Line: line, Col: col, Offset: offset}
}

func pointDiag(code, message string, src string, offset int) *diag.Diagnostic {
	pos := position(src, offset)
	return diag.New(diag.PhaseSurface, code, message).At(diag.Span{Start: pos, End: pos})
}

func checkTabs(src string) *diag.Diagnostic {
	if i := strings.IndexByte(src, '\t'); i >= 0 {
		return pointDiag("SIGIL-SURFACE-TAB", "tab characters are forbidden", src, i)
	}
	return nil
}

func checkLoneCR(src string) *diag.Diagnostic {
	for i := 0; i < len(src); i++ {
		if src[i] != '\r' {
			continue
		}
		if i+1 < len(src) && src[i+1] == '\n' {
			continue
		}
		return pointDiag("SIGIL-SURFACE-LONE-CR", "lone carriage return is forbidden", src, i)
	}
	return nil
}

func checkTrailingWhitespace(src string) *diag.Diagnostic {
	lines := strings.Split(src, "\n")
	offset := 0
	for _, line := range lines {
		l := strings.TrimSuffix(line, "\r")
		if len(l) > 0 {
			last := l[len(l)-1]
			if last == ' ' || last == '\t' {
				return pointDiag("SIGIL-SURFACE-TRAILING-WHITESPACE",
					"line ends with trailing whitespace", src, offset+len(l)-1)
			}
		}
		offset += len(line) + 1
	}
	return nil
}

func checkBlankLines(src string) *diag.Diagnostic {
	lines := strings.Split(src, "\n")
	offset := 0
	blankRun := 0
	for _, line := range lines {
		if strings.TrimSuffix(line, "\r") == "" {
			blankRun++
			if blankRun >= 2 {
				return pointDiag("SIGIL-SURFACE-BLANK-LINES",
					"no two consecutive blank lines are allowed", src, offset)
			}
		} else {
			blankRun = 0
		}
		offset += len(line) + 1
	}
	return nil
}

func checkFinalNewline(src string) *diag.Diagnostic {
	if !strings.HasSuffix(src, "\n") {
		return pointDiag("SIGIL-SURFACE-FINAL-NEWLINE", "file must end with a single newline", src, len(src))
	}
	return nil
}
