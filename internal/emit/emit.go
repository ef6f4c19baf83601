// Package emit lowers a type-checked, canonical Sigil file to a single
// JS module. Every declaration is rendered into its own *bytes.Buffer
// and the buffers are concatenated in canonical order; there is no
// go/format.Source equivalent for JS, so the concatenated buffers are
// the final output.
package emit

import (
	"bytes"

	"github.com/sigil-lang/sigilc/internal/ast"
)

// Options configures one emission run.
type Options struct {
	// ImportPath resolves an ImportDecl's segments to the ES module
	// specifier it should emit (e.g. ["stdlib","list"] -> "./stdlib/list.js").
	// A nil ImportPath joins segments with "/" and appends ".js".
	ImportPath func(segments []string) string
}

func defaultImportPath(segments []string) string {
	return "./" + joinSlash(segments) + ".js"
}

func joinSlash(segments []string) string {
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}

// EmitFile lowers file to a complete JS source unit: the runtime
// prelude, then every declaration (imports and externs included) in
// the order canon has already guaranteed is deterministic, then a trailing
// `__sigil_tests` array when the file declares any tests.
func EmitFile(file *ast.File, opts Options) string {
	if opts.ImportPath == nil {
		opts.ImportPath = defaultImportPath
	}
	e := &emitter{
		mockable:     collectMockable(file),
		constructors: collectConstructors(file),
		importPath:   opts.ImportPath,
	}

	var out bytes.Buffer
	out.WriteString(runtimePrelude)
	out.WriteString("\n")

	for _, decl := range file.Decls {
		var buf bytes.Buffer
		switch decl := decl.(type) {
		case *ast.ImportDecl:
			buf.WriteString(e.emitImportDecl(decl))
		case *ast.ExternDecl:
			buf.WriteString(e.emitExternDecl(decl))
		case *ast.TypeDecl:
			buf.WriteString(e.emitTypeDecl(decl))
		case *ast.ConstDecl:
			buf.WriteString(e.emitConstDecl(decl))
			if decl.Exported {
				buf.WriteString("\nexport { " + decl.Name.Name + " };")
			}
		case *ast.FunctionDecl:
			buf.WriteString(e.emitFunctionDecl(decl))
			if decl.Exported {
				buf.WriteString("\nexport { " + decl.Name.Name + " };")
			}
		default:
			continue
		}
		if buf.Len() == 0 {
			continue
		}
		out.Write(buf.Bytes())
		out.WriteString("\n\n")
	}

	tests := collectTests(file)
	if len(tests) > 0 {
		out.WriteString(e.emitTestsArray(tests))
		out.WriteString("\n")
	}

	return out.String()
}

func collectMockable(file *ast.File) map[string]bool {
	out := map[string]bool{}
	for _, decl := range file.Decls {
		if fd, ok := decl.(*ast.FunctionDecl); ok && fd.IsMockable {
			out[fd.Name.Name] = true
		}
	}
	return out
}

func collectConstructors(file *ast.File) map[string]bool {
	out := map[string]bool{}
	for _, decl := range file.Decls {
		td, ok := decl.(*ast.TypeDecl)
		if !ok {
			continue
		}
		union, ok := td.Body.(*ast.UnionBody)
		if !ok {
			continue
		}
		for _, v := range union.Variants {
			out[v.Name.Name] = true
		}
	}
	return out
}

func collectTests(file *ast.File) []*ast.TestDecl {
	var out []*ast.TestDecl
	for _, decl := range file.Decls {
		if td, ok := decl.(*ast.TestDecl); ok {
			out = append(out, td)
		}
	}
	return out
}

func (e *emitter) emitTestsArray(tests []*ast.TestDecl) string {
	var b bytes.Buffer
	b.WriteString("export const __sigil_tests = [\n")
	for _, td := range tests {
		b.WriteString("  " + e.emitTestDecl(td) + ",\n")
	}
	b.WriteString("];")
	return b.String()
}
