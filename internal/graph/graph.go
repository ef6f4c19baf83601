// Package graph implements the module-graph driver: resolving
// `ImportDecl`s to files on disk, discovering the dependency DAG,
// detecting cycles, and compiling modules in topological order so
// every importer sees its dependencies' exported types and values
// before its own body is checked.
//
// Discovery resolves each import's search path and walks the
// dependency set the way a directory-scoped importer would; compiling
// generalizes that single up-front recursive load into a two-phase
// discover-then-compile driver so cross-module exports are available
// before an importer's own body is checked.
package graph

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/canon"
	"github.com/sigil-lang/sigilc/internal/check"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/extern"
	"github.com/sigil-lang/sigilc/internal/lexer"
	"github.com/sigil-lang/sigilc/internal/parser"
	"github.com/sigil-lang/sigilc/internal/surface"
)

// Resolver turns an import's dotted path (e.g. "stdlib.list") into an
// absolute file path on disk, the way directoryImporter walked a
// fixed set of search directories.
type Resolver struct {
	// SrcDir is searched for `src.*` import paths.
	SrcDir string
	// StdlibDir is searched for `stdlib.*` import paths.
	StdlibDir string
}

func (r Resolver) resolve(segments []string) (string, bool) {
	if len(segments) == 0 {
		return "", false
	}
	root, rest := segments[0], segments[1:]
	var base string
	switch root {
	case "stdlib":
		base = r.StdlibDir
	case "src":
		base = r.SrcDir
	default:
		base = r.SrcDir
	}
	if base == "" {
		return "", false
	}
	rel := filepath.Join(rest...) + ".sigil"
	return filepath.Join(base, rel), true
}

// Module is one discovered, parsed file plus its dependency paths.
type Module struct {
	Path     string // canonical dotted import path, e.g. "stdlib.list"
	FilePath string
	Source   string
	File     *ast.File
	Imports  []string // canonical dotted paths of direct dependencies
}

// Graph is the full discovered dependency set, keyed by canonical path.
type Graph struct {
	Modules map[string]*Module
	Order   []string // topological order, dependencies before dependents
}

// Driver discovers, orders, and compiles a module graph starting from
// one entry file.
type Driver struct {
	Resolver      Resolver
	ExternLoader  extern.Loader
}

// Discover recursively parses entry and every module it (transitively)
// imports, memoizing by canonical path and detecting import cycles the
// moment a path re-enters its own in-progress discovery stack.
func (d *Driver) Discover(entryPath, entrySource string) (*Graph, *diag.Diagnostic) {
	g := &Graph{Modules: map[string]*Module{}}
	inProgress := map[string]bool{}
	stack := []string{}

	var visit func(path, filePath, source string) *diag.Diagnostic
	visit = func(path, filePath, source string) *diag.Diagnostic {
		if _, done := g.Modules[path]; done {
			return nil
		}
		if inProgress[path] {
			cycle := append(append([]string{}, stack...), path)
			return diag.New(diag.PhaseGraph, "SIGIL-GRAPH-CYCLE",
				"import cycle: "+strings.Join(cycle, " -> "))
		}
		inProgress[path] = true
		stack = append(stack, path)
		defer func() {
			stack = stack[:len(stack)-1]
			delete(inProgress, path)
		}()

		if dg := surface.Validate(source); dg != nil {
			return dg
		}
		lex := lexer.New(strings.NewReader(source))
		file, dg := parser.ParseFile(lex)
		if dg != nil {
			return dg
		}

		// mod is only registered in g.Modules once its own imports have
		// finished discovering - while that recursion is in flight, path
		// stays absent from g.Modules and present in inProgress, so a
		// cyclic import re-entering path below is caught by the
		// inProgress check at the top of visit, not masked by an early
		// "already discovered" hit.
		mod := &Module{Path: path, FilePath: filePath, Source: source, File: file}

		for _, decl := range file.Decls {
			id, ok := decl.(*ast.ImportDecl)
			if !ok {
				continue
			}
			depPath := strings.Join(id.Path.Segments, ".")
			mod.Imports = append(mod.Imports, depPath)

			if _, done := g.Modules[depPath]; done {
				continue
			}
			depFile, ok := d.Resolver.resolve(id.Path.Segments)
			if !ok {
				return diag.New(diag.PhaseGraph, "SIGIL-GRAPH-UNRESOLVED-IMPORT",
					"cannot resolve import `"+depPath+"`: no search directory configured").
					At(diag.Span{Start: id.SpanStart(), End: id.SpanEnd()})
			}
			depSource, err := os.ReadFile(depFile)
			if err != nil {
				return diag.New(diag.PhaseGraph, "SIGIL-GRAPH-UNRESOLVED-IMPORT",
					"cannot resolve import `"+depPath+"`: "+err.Error()).
					At(diag.Span{Start: id.SpanStart(), End: id.SpanEnd()})
			}
			if dg := visit(depPath, depFile, string(depSource)); dg != nil {
				return dg
			}
		}
		g.Modules[path] = mod
		return nil
	}

	if dg := visit(entryPath, entryPath, entrySource); dg != nil {
		return nil, dg
	}

	order, dg := topoSort(g)
	if dg != nil {
		return nil, dg
	}
	g.Order = order
	return g, nil
}

// topoSort orders g.Modules dependencies-before-dependents via
// recursive depth-first postorder. Discover has already rejected any
// cycle, so this never needs to detect one itself.
func topoSort(g *Graph) ([]string, *diag.Diagnostic) {
	visited := map[string]bool{}
	var order []string
	var visit func(path string)
	visit = func(path string) {
		if visited[path] {
			return
		}
		visited[path] = true
		mod := g.Modules[path]
		if mod != nil {
			for _, dep := range mod.Imports {
				visit(dep)
			}
		}
		order = append(order, path)
	}
	for path := range g.Modules {
		visit(path)
	}
	return order, nil
}

// Compile runs canonical validation and type checking over every
// module in g.Order, feeding each module's ModuleExports into the
// checker for every module that imports it before that importer's own
// body is checked - load by path, resolve by reference. Every module
// except the last in topological order is a library file: g.Order's
// dependency-first ordering puts the entry point last, since nothing
// in the graph imports it.
func (d *Driver) Compile(g *Graph) (map[string]*check.ModuleExports, *diag.Diagnostic) {
	exports := map[string]*check.ModuleExports{}
	for i, path := range g.Order {
		mod := g.Modules[path]
		isLibrary := i != len(g.Order)-1
		if dg := canon.Validate(mod.File, canon.Options{IsLibraryFile: isLibrary}); dg != nil {
			return nil, dg
		}

		imports := map[string]*check.ModuleExports{}
		for _, dep := range mod.Imports {
			if e, ok := exports[dep]; ok {
				imports[dep] = e
			}
		}
		if dg := check.CheckFile(mod.File, imports); dg != nil {
			return nil, dg
		}
		exports[path] = check.ExportRegistry(mod.File)
	}
	return exports, nil
}
