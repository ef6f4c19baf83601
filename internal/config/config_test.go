package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenNoConfigFilePresent(t *testing.T) {
	dir := t.TempDir()
	p, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Layout.Src != "src" || p.Layout.Tests != "tests" || p.Layout.Out != "out" {
		t.Fatalf("expected default layout, got %+v", p.Layout)
	}
	if p.SrcDir() != filepath.Join(dir, "src") {
		t.Fatalf("unexpected SrcDir: %s", p.SrcDir())
	}
}

func TestLoad_PrefersJSONOverYAML(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "sigil.json"), []byte(`{"layout":{"src":"from-json"}}`), 0o644)
	os.WriteFile(filepath.Join(dir, "sigil.yaml"), []byte("layout:\n  src: from-yaml\n"), 0o644)

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Layout.Src != "from-json" {
		t.Fatalf("expected JSON config to win, got src=%s", p.Layout.Src)
	}
}

func TestLoad_FallsBackToYAML(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "sigil.yaml"), []byte("layout:\n  src: from-yaml\n  tests: spec\n"), 0o644)

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Layout.Src != "from-yaml" || p.Layout.Tests != "spec" {
		t.Fatalf("unexpected layout: %+v", p.Layout)
	}
	if p.Layout.Out != "out" {
		t.Fatalf("expected unset field to default, got %q", p.Layout.Out)
	}
}
