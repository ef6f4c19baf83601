package surface

import "testing"

func TestValidate_AcceptsCleanFile(t *testing.T) {
	src := "λmain()→ℤ=1\n"
	if d := Validate(src); d != nil {
		t.Fatalf("expected no diagnostic, got %v", d)
	}
}

func TestValidate_RejectsMissingFinalNewline(t *testing.T) {
	src := "λmain()→ℤ=1"
	d := Validate(src)
	if d == nil || d.Code != "SIGIL-SURFACE-FINAL-NEWLINE" {
		t.Fatalf("expected SIGIL-SURFACE-FINAL-NEWLINE, got %v", d)
	}
}

func TestValidate_RejectsTrailingWhitespace(t *testing.T) {
	src := "λmain()→ℤ=1 \n"
	d := Validate(src)
	if d == nil || d.Code != "SIGIL-SURFACE-TRAILING-WHITESPACE" {
		t.Fatalf("expected SIGIL-SURFACE-TRAILING-WHITESPACE, got %v", d)
	}
}

func TestValidate_RejectsConsecutiveBlankLines(t *testing.T) {
	src := "λa()→ℤ=1\n\n\nλb()→ℤ=2\n"
	d := Validate(src)
	if d == nil || d.Code != "SIGIL-SURFACE-BLANK-LINES" {
		t.Fatalf("expected SIGIL-SURFACE-BLANK-LINES, got %v", d)
	}
}

func TestValidate_RejectsTabs(t *testing.T) {
	src := "λmain()→ℤ=\t1\n"
	d := Validate(src)
	if d == nil || d.Code != "SIGIL-SURFACE-TAB" {
		t.Fatalf("expected SIGIL-SURFACE-TAB, got %v", d)
	}
}

func TestValidate_RejectsLoneCR(t *testing.T) {
	src := "λmain()→ℤ=1\r \n"
	d := Validate(src)
	if d == nil {
		t.Fatalf("expected a diagnostic")
	}
}
