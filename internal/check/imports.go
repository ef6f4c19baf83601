package check

import (
	"strings"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/types"
)

// ExportedType mirrors typeInfo but is the form a module publishes to
// its importers - the module graph driver (internal/graph) builds one
// of these per exported internal/ast.TypeDecl after a dependency
// finishes checking, and threads it into every importer's Checker.
type ExportedType struct {
	TypeParams   []string
	Newtype      types.Type
	Fields       map[string]types.Type
	FieldOrder   []string
	Variants     map[string][]types.Type
	VariantOrder []string
}

// ModuleExports is one compiled module's exported-type and
// exported-value registries, keyed by unqualified name within that
// module - a module graph node.
type ModuleExports struct {
	Types  map[string]*ExportedType
	Values map[string]types.Type
}

// dottedPath joins a QualPath's segments the same way
// types.FromSyntax does when lowering a QualifiedType, so a type
// registered under an import's canonical path resolves identically
// whether it arrived via `ns⋅sub.Name` syntax or a `QualifiedType` AST
// node.
func dottedPath(segments []string) string {
	return strings.Join(segments, ".")
}

// CheckFile runs the two-pass bidirectional check over file. imports,
// when supplied, maps a canonical import path (the dotted form of an
// ImportDecl's QualPath) to the already-compiled dependency's
// exported registries - fed in by internal/graph once every
// dependency has a populated registry. A file with no
// imports, or checked standalone (as in this package's own tests),
// passes no imports map at all and every qualified access into an
// unresolved namespace stays in Any trust mode.
func CheckFile(file *ast.File, imports ...map[string]*ModuleExports) *diag.Diagnostic {
	c := newChecker()
	for _, m := range imports {
		for path, exports := range m {
			c.importMods[path] = exports
		}
	}
	if d := c.collect(file); d != nil {
		return d
	}

	for _, decl := range file.Decls {
		switch decl := decl.(type) {
		case *ast.ConstDecl:
			wantT := c.consts[decl.Name.Name]
			if _, d := c.check(decl.Value, wantT, newScope(nil)); d != nil {
				return d
			}
		case *ast.FunctionDecl:
			if d := c.checkFunctionBody(decl); d != nil {
				return d
			}
		case *ast.TestDecl:
			if _, _, d := c.synth(decl.Body, newScope(nil)); d != nil {
				return d
			}
		}
	}
	return nil
}

// ExportRegistry collects the file's own exported types and values
// into a ModuleExports after a successful CheckFile, for the module
// graph driver to thread into this module's importers. Calling this
// before CheckFile succeeds yields an incomplete or zero-value result
// - the driver only calls it after CheckFile returns a nil diagnostic.
func ExportRegistry(file *ast.File) *ModuleExports {
	c := newChecker()
	if d := c.collect(file); d != nil {
		return &ModuleExports{Types: map[string]*ExportedType{}, Values: map[string]types.Type{}}
	}
	reg := &ModuleExports{Types: map[string]*ExportedType{}, Values: map[string]types.Type{}}
	for _, decl := range file.Decls {
		switch decl := decl.(type) {
		case *ast.TypeDecl:
			if !decl.Exported {
				continue
			}
			ti := c.typesByName[decl.Name.Name]
			if ti == nil {
				continue
			}
			reg.Types[decl.Name.Name] = &ExportedType{
				TypeParams:   ti.typeParams,
				Newtype:      ti.newtype,
				Fields:       ti.fields,
				FieldOrder:   ti.fieldOrder,
				Variants:     ti.variants,
				VariantOrder: ti.variantOrd,
			}
			if ti.variants != nil {
				for _, v := range ti.variantOrd {
					reg.Values[v] = types.Function{Params: ti.variants[v], Return: types.Constructor{Name: decl.Name.Name}}
				}
			}
		case *ast.FunctionDecl:
			if decl.Exported {
				reg.Values[decl.Name.Name] = c.funcs[decl.Name.Name]
			}
		case *ast.ConstDecl:
			if decl.Exported {
				reg.Values[decl.Name.Name] = c.consts[decl.Name.Name]
			}
		}
	}
	return reg
}

// registerImportedTypes seeds c.typesByName with every type an
// already-resolved import re-exports, keyed under the dotted
// qualified name types.FromSyntax produces for a QualifiedType - so a
// later resolveType call over `ns⋅sub.Name` finds exactly the same
// entry a bare `QualifiedType` AST node would resolve to.
func (c *Checker) registerImportedTypes(path string, exports *ModuleExports) {
	for name, et := range exports.Types {
		key := path + "." + name
		c.typesByName[key] = &typeInfo{
			typeParams: et.TypeParams,
			newtype:    et.Newtype,
			fields:     et.Fields,
			fieldOrder: et.FieldOrder,
			variants:   et.Variants,
			variantOrd: et.VariantOrder,
		}
	}
}

func moduleNotExported(path, member string, at ast.Node, mod *ModuleExports) *diag.Diagnostic {
	d := diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-MODULE-NOT-EXPORTED",
		"module `"+path+"` does not export `"+member+"`").
		At(diag.Span{Start: at.SpanStart(), End: at.SpanEnd()})
	d = d.WithSuggestion(diag.Suggestion{
		Kind:    "export_member",
		Message: "export `" + member + "` from `" + path + "` if it was meant to be public",
	})
	if mod != nil && len(mod.Values) > 0 {
		names := make([]string, 0, len(mod.Values))
		for n := range mod.Values {
			names = append(names, n)
		}
		d = d.WithDetail("exportedMembers", names)
		d = d.WithSuggestion(diag.Suggestion{
			Kind:    "select_exported_member",
			Message: "did you mean one of the names this module does export?",
		})
	}
	return d
}
