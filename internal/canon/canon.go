// Package canon implements the canonical-form validator: it runs
// after parsing and before type checking, rejecting any program that
// is not in its one unique canonical shape. Every rule reports the
// first violation found in a fixed traversal order; there is no
// partial-acceptance or warning mode.
package canon

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

// Category is a declaration's position in the required category
// order: types → externs → imports → consts → functions → tests.
type Category int

const (
	CategoryType Category = iota
	CategoryExtern
	CategoryImport
	CategoryConst
	CategoryFunction
	CategoryTest
)

func categoryOf(d ast.Decl) Category {
	switch d.(type) {
	case *ast.TypeDecl:
		return CategoryType
	case *ast.ExternDecl:
		return CategoryExtern
	case *ast.ImportDecl:
		return CategoryImport
	case *ast.ConstDecl:
		return CategoryConst
	case *ast.FunctionDecl:
		return CategoryFunction
	case *ast.TestDecl:
		return CategoryTest
	}
	return CategoryTest
}

func categoryName(c Category) string {
	switch c {
	case CategoryType:
		return "type"
	case CategoryExtern:
		return "extern"
	case CategoryImport:
		return "import"
	case CategoryConst:
		return "const"
	case CategoryFunction:
		return "function"
	case CategoryTest:
		return "test"
	}
	return "declaration"
}

// Options configures project-layer facts the file-purpose rule needs;
// the rest of the validator only consumes the AST.
type Options struct {
	IsLibraryFile bool
}

// Validate runs every canonical-form rule over file in a fixed order:
// declaration ordering and duplicates first (whole-file shape), then
// per-function recursion and pattern-match rules in file order, then
// the file-purpose rule last.
func Validate(file *ast.File, opts Options) *diag.Diagnostic {
	if d := checkDeclOrder(file); d != nil {
		return d
	}
	if d := checkDuplicates(file); d != nil {
		return d
	}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		if d := checkRecursionShape(fn, file); d != nil {
			return d
		}
		if d := checkMatchCanonicality(fn); d != nil {
			return d
		}
	}
	if d := checkFilePurpose(file, opts); d != nil {
		return d
	}
	return nil
}

func declName(d ast.Decl) (name string, exported bool) {
	switch d := d.(type) {
	case *ast.TypeDecl:
		return d.Name.Name, d.Exported
	case *ast.ExternDecl:
		return d.Name.Name, d.Exported
	case *ast.ImportDecl:
		if len(d.Path.Segments) == 0 {
			return "", false
		}
		path := d.Path.Segments[0]
		for _, s := range d.Path.Segments[1:] {
			path += "." + s
		}
		return path, false
	case *ast.ConstDecl:
		return d.Name.Name, d.Exported
	case *ast.FunctionDecl:
		return d.Name.Name, d.Exported
	case *ast.TestDecl:
		return d.Name, false
	}
	return "", false
}

func declSpan(d ast.Decl) diag.Span {
	return diag.Span{Start: d.SpanStart(), End: d.SpanEnd()}
}
