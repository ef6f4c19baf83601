package semmap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sigil-lang/sigilc/internal/ast"
)

func TestBuild_FillsSpanNameAndType(t *testing.T) {
	file := &ast.File{Decls: []ast.Decl{
		&ast.FunctionDecl{Name: ast.Ident{Name: "main"}, Body: &ast.IntLit{Value: 1}},
		&ast.ConstDecl{Name: ast.Ident{Name: "answer"}, Value: &ast.IntLit{Value: 42}},
	}}

	m := Build(file, "main.sigil", "2026-07-30T00:00:00Z")

	if m.FormatVersion != 1 || m.File != "main.sigil" {
		t.Fatalf("unexpected map header: %+v", m)
	}
	if m.Mappings["main"] == nil || m.Mappings["main"].Type != "function" {
		t.Fatalf("expected main entry with type function, got %+v", m.Mappings["main"])
	}
	if m.Mappings["answer"] == nil || m.Mappings["answer"].Type != "const" {
		t.Fatalf("expected answer entry with type const, got %+v", m.Mappings["answer"])
	}
	if m.Mappings["main"].Summary != "" {
		t.Fatalf("basic extractor should never fill summary, got %q", m.Mappings["main"].Summary)
	}
}

func TestEnhance_NeverBlocksPastTimeout(t *testing.T) {
	m := Build(&ast.File{}, "x.sigil", "now")
	start := time.Now()
	Enhance(m, 20*time.Millisecond, func(ctx context.Context, m *Map) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if time.Since(start) > time.Second {
		t.Fatalf("Enhance did not respect its timeout")
	}
}

func TestEnhance_SwallowsError(t *testing.T) {
	m := Build(&ast.File{}, "x.sigil", "now")
	Enhance(m, time.Second, func(ctx context.Context, m *Map) error {
		return errors.New("boom")
	})
	// no panic, map left untouched besides whatever fn already mutated
}
