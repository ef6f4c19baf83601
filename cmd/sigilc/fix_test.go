package main

import (
	"testing"

	"github.com/sigil-lang/sigilc/internal/diag"
)

func span(startOff, endOff int) diag.Span {
	return diag.Span{
		Start: diag.Position{Offset: startOff},
		End:   diag.Position{Offset: endOff},
	}
}

func TestApplyFixits_SingleReplacement(t *testing.T) {
	src := "c x: Int = 1\n"
	out := applyFixits(src, []diag.Fixit{{Span: span(0, 1), Replacement: "export c"}})
	want := "export c x: Int = 1\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestApplyFixits_AppliesInReverseOffsetOrder(t *testing.T) {
	src := "ab"
	fixits := []diag.Fixit{
		{Span: span(0, 1), Replacement: "X"},
		{Span: span(1, 2), Replacement: "Y"},
	}
	out := applyFixits(src, fixits)
	if out != "XY" {
		t.Fatalf("got %q, want %q", out, "XY")
	}
}

func TestApplyFixits_SkipsOutOfRangeSpan(t *testing.T) {
	src := "ab"
	out := applyFixits(src, []diag.Fixit{{Span: span(0, 100), Replacement: "Z"}})
	if out != src {
		t.Fatalf("expected src unchanged for an out-of-range span, got %q", out)
	}
}
