package emit

import (
	"fmt"
	"strings"

	"github.com/sigil-lang/sigilc/internal/ast"
)

func (e *emitter) emitFunctionDecl(fd *ast.FunctionDecl) string {
	names := make([]string, len(fd.Params))
	for i, p := range fd.Params {
		names[i] = p.Name.Name
	}
	var b strings.Builder
	fmt.Fprintf(&b, "async function %s(%s) {\n", fd.Name.Name, strings.Join(names, ", "))
	fmt.Fprintf(&b, "  return %s;\n", e.emitExpr(fd.Body))
	b.WriteString("}")
	return b.String()
}

func (e *emitter) emitConstDecl(cd *ast.ConstDecl) string {
	return fmt.Sprintf("const %s = %s;", cd.Name.Name, e.emitExpr(cd.Value))
}

// emitTypeDecl emits a union type's variant constructors as tagged
// object factories; newtypes and structs carry no runtime
// representation of their own (plain values / record literals already
// suffice) and emit nothing.
func (e *emitter) emitTypeDecl(td *ast.TypeDecl) string {
	union, ok := td.Body.(*ast.UnionBody)
	if !ok {
		return ""
	}
	var b strings.Builder
	for i, v := range union.Variants {
		if i > 0 {
			b.WriteString("\n")
		}
		names := make([]string, len(v.Fields))
		for j, f := range v.Fields {
			names[j] = f.Name.Name
		}
		fmt.Fprintf(&b, "function %s(%s) {\n", v.Name.Name, strings.Join(names, ", "))
		fmt.Fprintf(&b, "  return { __tag: %q, __fields: [%s] };\n", v.Name.Name, strings.Join(names, ", "))
		b.WriteString("}")
	}
	return b.String()
}

// testResultExpr lowers a test body to the `__sigil_tests` entry's
// result thunk. A top-level comparison (`a = b`, `a ≠ b`, ...) reports
// a structured comparison failure with a diff hint; every other body
// is treated as a plain boolean assertion.
func (e *emitter) testResultExpr(body ast.Expr) string {
	if cmp, ok := body.(*ast.BinaryOp); ok {
		switch cmp.Op {
		case "=", "≠", "<", ">", "≤", "≥":
			left, right := e.emitExpr(cmp.Left), e.emitExpr(cmp.Right)
			return fmt.Sprintf("__sigil_test_compare_result(%q, %s, %s)", cmp.Op, left, right)
		}
	}
	return fmt.Sprintf("__sigil_test_bool_result(%s)", e.emitExpr(body))
}

func (e *emitter) emitTestDecl(td *ast.TestDecl) string {
	return fmt.Sprintf("{ name: %q, run: async () => { return %s; } }", td.Name, e.testResultExpr(td.Body))
}

func (e *emitter) emitImportDecl(id *ast.ImportDecl) string {
	path := e.importPath(id.Path.Segments)
	return fmt.Sprintf("import * as %s from %q;", jsIdent(id.Path.Segments), path)
}

func (e *emitter) emitExternDecl(ed *ast.ExternDecl) string {
	return fmt.Sprintf("import * as %s from %q;", ed.Name.Name, ed.HostPath)
}
