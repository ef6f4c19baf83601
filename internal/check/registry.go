// Package check implements the bidirectional type checker: two-pass
// module checking (collect signature, then check bodies), effect
// inference against declared effect sets, and pattern exhaustiveness.
package check

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/types"
)

// typeInfo records what a user type declaration means for the parts
// of checking that need to see inside it: field lookup on a struct,
// variant lookup on a union, the underlying type of a newtype.
type typeInfo struct {
	typeParams []string
	newtype    types.Type
	fields     map[string]types.Type // struct
	fieldOrder []string
	variants   map[string][]types.Type // union: variant name -> field types, in order
	variantOrd []string
}

// externInfo records a host module binding's known member types; an
// untyped extern (no Members in the source) answers every member
// lookup with Any.
type externInfo struct {
	untyped bool
	members map[string]types.Type
}

// Checker holds the whole-module symbol table built in the collection
// pass and used to check every declaration's body in the second pass.
type Checker struct {
	typesByName map[string]*typeInfo
	funcs       map[string]types.Function
	funcDecls   map[string]*ast.FunctionDecl
	consts      map[string]types.Type
	externs     map[string]*externInfo

	// importMods holds every dependency's exported registry, keyed by
	// its canonical dotted import path, as supplied by internal/graph.
	// importedNS additionally remembers which of those paths an
	// ImportDecl in *this* file actually bound, so a qualified access
	// rooted at an unimported path still falls back to Any trust mode
	// rather than silently resolving.
	importMods map[string]*ModuleExports
	importedNS map[string]bool
}

func newChecker() *Checker {
	return &Checker{
		typesByName: map[string]*typeInfo{},
		funcs:       map[string]types.Function{},
		funcDecls:   map[string]*ast.FunctionDecl{},
		consts:      map[string]types.Type{},
		externs:     map[string]*externInfo{},
		importMods:  map[string]*ModuleExports{},
		importedNS:  map[string]bool{},
	}
}

// LookupType implements types.Registry.
func (c *Checker) LookupType(name string) (params []string, ok bool) {
	ti, ok := c.typesByName[name]
	if !ok {
		return nil, false
	}
	return ti.typeParams, true
}

// resolveType lowers a syntactic type expression to the checker's
// internal representation, reporting an error if it names a user type
// that was never declared.
func (c *Checker) resolveType(te ast.TypeExpr, typeParams []string) (types.Type, *diag.Diagnostic) {
	t := types.FromSyntax(te, typeParams, c)
	if ctor, ok := t.(types.Constructor); ok {
		if _, known := c.typesByName[ctor.Name]; !known {
			return nil, diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-001",
				"unknown type `"+ctor.Name+"`").
				At(diag.Span{Start: te.SpanStart(), End: te.SpanEnd()})
		}
	}
	return t, nil
}

// collect runs the signature-only first pass: every type, extern,
// const, and function declaration is registered before any body is
// checked, so forward references within a file resolve correctly.
func (c *Checker) collect(file *ast.File) *diag.Diagnostic {
	for _, decl := range file.Decls {
		if id, ok := decl.(*ast.ImportDecl); ok {
			path := dottedPath(id.Path.Segments)
			c.importedNS[path] = true
			if mod, ok := c.importMods[path]; ok {
				c.registerImportedTypes(path, mod)
			}
		}
	}
	for _, decl := range file.Decls {
		if td, ok := decl.(*ast.TypeDecl); ok {
			c.typesByName[td.Name.Name] = &typeInfo{typeParams: td.TypeParams}
		}
	}
	for _, decl := range file.Decls {
		td, ok := decl.(*ast.TypeDecl)
		if !ok {
			continue
		}
		ti := c.typesByName[td.Name.Name]
		switch body := td.Body.(type) {
		case *ast.NewtypeBody:
			t, d := c.resolveType(body.Underlying, td.TypeParams)
			if d != nil {
				return d
			}
			ti.newtype = t
		case *ast.StructBody:
			ti.fields = map[string]types.Type{}
			for _, f := range body.Fields {
				t, d := c.resolveType(f.Type, td.TypeParams)
				if d != nil {
					return d
				}
				ti.fields[f.Name.Name] = t
				ti.fieldOrder = append(ti.fieldOrder, f.Name.Name)
			}
		case *ast.UnionBody:
			ti.variants = map[string][]types.Type{}
			for _, v := range body.Variants {
				fieldTypes := make([]types.Type, len(v.Fields))
				for i, f := range v.Fields {
					t, d := c.resolveType(f.Type, td.TypeParams)
					if d != nil {
						return d
					}
					fieldTypes[i] = t
				}
				ti.variants[v.Name.Name] = fieldTypes
				ti.variantOrd = append(ti.variantOrd, v.Name.Name)
			}
		}
	}

	for _, decl := range file.Decls {
		ed, ok := decl.(*ast.ExternDecl)
		if !ok {
			continue
		}
		ei := &externInfo{untyped: ed.Members == nil, members: map[string]types.Type{}}
		for _, m := range ed.Members {
			t, d := c.resolveType(m.Type, nil)
			if d != nil {
				return d
			}
			ei.members[m.Name.Name] = t
		}
		c.externs[ed.Name.Name] = ei
	}

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		params := make([]types.Type, len(fd.Params))
		for i, p := range fd.Params {
			t, d := c.resolveType(p.Type, fd.TypeParams)
			if d != nil {
				return d
			}
			params[i] = t
		}
		ret, d := c.resolveType(fd.Return, fd.TypeParams)
		if d != nil {
			return d
		}
		c.funcs[fd.Name.Name] = types.Function{Params: params, Return: ret, Effects: fd.Effects}
		c.funcDecls[fd.Name.Name] = fd
	}

	for _, decl := range file.Decls {
		cd, ok := decl.(*ast.ConstDecl)
		if !ok {
			continue
		}
		t, d := c.resolveType(cd.Type, nil)
		if d != nil {
			return d
		}
		c.consts[cd.Name.Name] = t
	}
	return nil
}
