package main

import (
	"errors"
	"testing"

	"github.com/sigil-lang/sigilc/internal/diag"
)

func TestDiagFromErr_ConfigErrorsMapToSurfacePhase(t *testing.T) {
	d := diagFromErr("SIGIL-CONFIG-INVALID", errors.New("bad layout"))
	if d.Phase != diag.PhaseSurface {
		t.Fatalf("expected PhaseSurface, got %s", d.Phase)
	}
}

func TestDiagFromErr_OtherErrorsMapToCodegenPhase(t *testing.T) {
	d := diagFromErr("SIGIL-CODEGEN-WRITE-FAILED", errors.New("disk full"))
	if d.Phase != diag.PhaseCodegen {
		t.Fatalf("expected PhaseCodegen, got %s", d.Phase)
	}
}

func TestLexSource_RejectsUnexpectedCharacter(t *testing.T) {
	_, d := lexSource("c x: Int = `\n")
	if d == nil {
		t.Fatal("expected a lexer diagnostic for a stray backtick")
	}
	if d.Phase != diag.PhaseLexer {
		t.Fatalf("expected PhaseLexer, got %s", d.Phase)
	}
}

func TestLexSource_TokenizesValidSource(t *testing.T) {
	toks, d := lexSource("export c answer: Int = 1\n")
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	if len(toks) == 0 {
		t.Fatal("expected at least one token")
	}
}

func TestParseSource_ReturnsFileForValidSource(t *testing.T) {
	file, d := parseSource("export c answer: Int = 1\n")
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	if len(file.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(file.Decls))
	}
}
