package graph

import (
	"os"
	"path/filepath"
	"testing"
)

func writeModule(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".sigil"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover_OrdersDependenciesBeforeDependents(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "base", "export c answer: Int = 1\n")
	entry := "i src⋅base\n\nc result: Int = 1\n"

	d := &Driver{Resolver: Resolver{SrcDir: dir}}
	g, dg := d.Discover("entry", entry)
	if dg != nil {
		t.Fatalf("unexpected diagnostic: %v", dg)
	}

	baseIdx, entryIdx := -1, -1
	for i, p := range g.Order {
		if p == "src.base" {
			baseIdx = i
		}
		if p == "entry" {
			entryIdx = i
		}
	}
	if baseIdx == -1 || entryIdx == -1 || baseIdx > entryIdx {
		t.Fatalf("expected src.base before entry, got order %v", g.Order)
	}
}

func TestDiscover_DetectsImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a", "i src⋅b\n\nc x: Int = 1\n")
	writeModule(t, dir, "b", "i src⋅a\n\nc y: Int = 1\n")

	d := &Driver{Resolver: Resolver{SrcDir: dir}}
	_, dg := d.Discover("src.a", "i src⋅b\n\nc x: Int = 1\n")
	if dg == nil || dg.Code != "SIGIL-GRAPH-CYCLE" {
		t.Fatalf("expected SIGIL-GRAPH-CYCLE, got %v", dg)
	}
}

func TestDiscover_ReportsUnresolvedImport(t *testing.T) {
	d := &Driver{Resolver: Resolver{SrcDir: t.TempDir()}}
	_, dg := d.Discover("entry", "i src⋅missing\n\nc x: Int = 1\n")
	if dg == nil || dg.Code != "SIGIL-GRAPH-UNRESOLVED-IMPORT" {
		t.Fatalf("expected SIGIL-GRAPH-UNRESOLVED-IMPORT, got %v", dg)
	}
}
