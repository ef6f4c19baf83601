package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCompile_WritesJSAndSemanticMap(t *testing.T) {
	dir := t.TempDir()
	src := "export c answer: ℤ = 1\n"
	inputPath := filepath.Join(dir, "main.sigil")
	if err := os.WriteFile(inputPath, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	env, err := runCompile(inputPath, "")
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if !env.OK {
		t.Fatalf("expected a successful compile, got error envelope: %+v", env.Error)
	}
	data, ok := env.Data.(compileData)
	if !ok {
		t.Fatalf("expected compileData, got %T", env.Data)
	}

	jsOut, err := os.ReadFile(data.OutputFile)
	if err != nil {
		t.Fatalf("expected output file to exist: %v", err)
	}
	if !strings.Contains(string(jsOut), "const answer = 1;") {
		t.Fatalf("expected emitted const decl, got:\n%s", jsOut)
	}

	if _, err := os.Stat(data.MapFile); err != nil {
		t.Fatalf("expected semantic map file to exist: %v", err)
	}
}

func TestRunCompile_ReportsParseErrorsAsEnvelope(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "broken.sigil")
	if err := os.WriteFile(inputPath, []byte("c x: Int =\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	env, err := runCompile(inputPath, "")
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if env.OK {
		t.Fatal("expected compile to fail on malformed source")
	}
	if env.Error == nil {
		t.Fatal("expected an error envelope")
	}
}
