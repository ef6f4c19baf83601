// Package semmap implements the semantic map emitter: a
// fixed-schema JSON artifact associating source ranges with names,
// synthesized types, and (optionally) human-readable summaries.
package semmap

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

// Entry is one mapping value, keyed by identifier or a synthetic range
// tag in Map.Mappings.
type Entry struct {
	Range       [2]diag.Position       `json:"range"`
	Summary     string                  `json:"summary"`
	Explanation string                  `json:"explanation"`
	Type        string                  `json:"type,omitempty"`
	Complexity  string                  `json:"complexity,omitempty"`
	Warnings    []string                `json:"warnings"`
	Examples    []string                `json:"examples"`
	Related     []string                `json:"related"`
	Metadata    map[string]interface{}  `json:"metadata"`
}

// Map is the semantic map's fixed top-level schema.
type Map struct {
	FormatVersion int               `json:"version"`
	File          string            `json:"file"`
	GeneratedBy   string            `json:"generated_by"`
	GeneratedAt   string            `json:"generated_at"`
	Mappings      map[string]*Entry `json:"mappings"`
	Metadata      map[string]interface{} `json:"metadata"`
}

const formatVersion = 1

// Build runs the basic extractor: one Entry per top-level declaration,
// filling only span, name, and a best-effort type string - never
// summary/explanation, which only the optional enhancement hook fills.
func Build(file *ast.File, filePath, generatedAt string) *Map {
	m := &Map{
		FormatVersion: formatVersion,
		File:          filePath,
		GeneratedBy:   "sigilc",
		GeneratedAt:   generatedAt,
		Mappings:      map[string]*Entry{},
		Metadata:      map[string]interface{}{},
	}
	for _, decl := range file.Decls {
		name, rng, typ := describeDecl(decl)
		if name == "" {
			continue
		}
		m.Mappings[name] = &Entry{
			Range:    rng,
			Type:     typ,
			Warnings: []string{},
			Examples: []string{},
			Related:  []string{},
			Metadata: map[string]interface{}{},
		}
	}
	return m
}

func describeDecl(decl ast.Decl) (name string, rng [2]diag.Position, typ string) {
	switch decl := decl.(type) {
	case *ast.FunctionDecl:
		return decl.Name.Name, [2]diag.Position{decl.SpanStart(), decl.SpanEnd()}, "function"
	case *ast.ConstDecl:
		return decl.Name.Name, [2]diag.Position{decl.SpanStart(), decl.SpanEnd()}, "const"
	case *ast.TypeDecl:
		return decl.Name.Name, [2]diag.Position{decl.SpanStart(), decl.SpanEnd()}, "type"
	case *ast.ExternDecl:
		return decl.Name.Name, [2]diag.Position{decl.SpanStart(), decl.SpanEnd()}, "extern"
	case *ast.TestDecl:
		return decl.Name, [2]diag.Position{decl.SpanStart(), decl.SpanEnd()}, "test"
	}
	return "", [2]diag.Position{}, ""
}

// Enhancer fills in summary/explanation (and optionally complexity,
// warnings, examples) for entries the basic extractor left blank. Its
// ctx is cancelled when Enhance's timeout passes, and its error
// (including a timeout) is never fatal to compilation.
type Enhancer func(ctx context.Context, m *Map) error

// Enhance invokes fn on m in a goroutine and waits at most timeout for
// it. fn edits m in place, so changes it made before failing or timing
// out stay in m; on error or timeout a warning is printed to stderr.
// Enhance does not stop fn after a timeout beyond cancelling its ctx,
// and never blocks or fails compilation.
func Enhance(m *Map, timeout time.Duration, fn Enhancer) {
	if fn == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(ctx, m) }()

	select {
	case err := <-done:
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: semantic map enhancement failed: %v\n", err)
		}
	case <-ctx.Done():
		fmt.Fprintf(os.Stderr, "warning: semantic map enhancement timed out after %s\n", timeout)
	}
}

// Write marshals m as indented JSON to path (conventionally
// `<output>.mint.map`).
func Write(path string, m *Map) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
