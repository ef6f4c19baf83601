package emit

import (
	"strings"
	"testing"

	"github.com/sigil-lang/sigilc/internal/ast"
)

func ident(name string) ast.Ident { return ast.Ident{Name: name} }

func intLit(v int64) *ast.IntLit { return &ast.IntLit{Value: v} }

func TestEmitFile_FunctionAndConstDecl(t *testing.T) {
	file := &ast.File{Decls: []ast.Decl{
		&ast.ConstDecl{Name: ident("answer"), Exported: true, Value: intLit(42)},
		&ast.FunctionDecl{
			Name:     ident("identity"),
			Exported: true,
			Params:   []ast.Param{{Name: ident("x"), Type: &ast.PrimitiveType{Name: ast.PrimInt}}},
			Body:     &ast.IdentExpr{Name: "x"},
		},
	}}

	out := EmitFile(file, Options{})

	if !strings.Contains(out, "const answer = 42;") {
		t.Fatalf("expected const emission, got:\n%s", out)
	}
	if !strings.Contains(out, "export { answer };") {
		t.Fatalf("expected exported const to be re-exported, got:\n%s", out)
	}
	if !strings.Contains(out, "async function identity(x) {") {
		t.Fatalf("expected async function signature, got:\n%s", out)
	}
	if !strings.Contains(out, "return x;") {
		t.Fatalf("expected identity body, got:\n%s", out)
	}
}

func TestEmitFile_MockableCallRoutesThroughSigilCall(t *testing.T) {
	file := &ast.File{Decls: []ast.Decl{
		&ast.FunctionDecl{Name: ident("fetchUser"), IsMockable: true, Params: nil, Body: intLit(1)},
		&ast.FunctionDecl{
			Name: ident("main"),
			Body: &ast.CallExpr{Callee: &ast.IdentExpr{Name: "fetchUser"}, Args: nil},
		},
	}}

	out := EmitFile(file, Options{})

	if !strings.Contains(out, `__sigil_call("fetchUser", fetchUser, [])`) {
		t.Fatalf("expected mock-routed call, got:\n%s", out)
	}
}

func TestEmitFile_ConstructorCallIsSynchronousAndNotMockRouted(t *testing.T) {
	file := &ast.File{Decls: []ast.Decl{
		&ast.TypeDecl{Name: ident("Option"), Body: &ast.UnionBody{Variants: []ast.UnionVariant{
			{Name: ident("Some"), Fields: []ast.FieldDef{{Name: ident("value"), Type: &ast.PrimitiveType{Name: ast.PrimInt}}}},
			{Name: ident("None")},
		}}},
		&ast.FunctionDecl{
			Name: ident("wrap"),
			Body: &ast.CallExpr{Callee: &ast.IdentExpr{Name: "Some"}, Args: []ast.Expr{intLit(1)}},
		},
	}}

	out := EmitFile(file, Options{})

	if !strings.Contains(out, "function Some(value) {") {
		t.Fatalf("expected Some constructor factory, got:\n%s", out)
	}
	if !strings.Contains(out, `__tag: "Some"`) {
		t.Fatalf("expected tagged object body, got:\n%s", out)
	}
	if !strings.Contains(out, "return Some(1);") {
		t.Fatalf("expected synchronous, non-awaited constructor call, got:\n%s", out)
	}
}

func TestEmitFile_MatchLowersToAwaitedIIFEWithThrow(t *testing.T) {
	file := &ast.File{Decls: []ast.Decl{
		&ast.FunctionDecl{
			Name: ident("describe"),
			Params: []ast.Param{{Name: ident("n"), Type: &ast.PrimitiveType{Name: ast.PrimInt}}},
			Body: &ast.MatchExpr{
				Scrutinee: &ast.IdentExpr{Name: "n"},
				Arms: []ast.MatchArm{
					{Pattern: &ast.LitPattern{Value: intLit(0)}, Body: &ast.StringLit{Value: "zero"}},
					{Pattern: &ast.IdentPattern{Name: "x"}, Body: &ast.IdentExpr{Name: "x"}},
				},
			},
		},
	}}

	out := EmitFile(file, Options{})

	if !strings.Contains(out, "Match failed: no pattern matched") {
		t.Fatalf("expected exhaustiveness-backstop throw, got:\n%s", out)
	}
	if !strings.Contains(out, `(__match === 0)`) {
		t.Fatalf("expected literal pattern condition, got:\n%s", out)
	}
}

func TestEmitFile_TestDeclLowersComparisonAndBooleanForms(t *testing.T) {
	file := &ast.File{Decls: []ast.Decl{
		&ast.TestDecl{Name: "adds", Body: &ast.BinaryOp{Op: "=", Left: intLit(2), Right: intLit(2)}},
		&ast.TestDecl{Name: "holds", Body: &ast.BoolLit{Value: true}},
	}}

	out := EmitFile(file, Options{})

	if !strings.Contains(out, "__sigil_test_compare_result(\"=\", 2, 2)") {
		t.Fatalf("expected comparison test lowering, got:\n%s", out)
	}
	if !strings.Contains(out, "__sigil_test_bool_result(true)") {
		t.Fatalf("expected boolean test lowering, got:\n%s", out)
	}
	if !strings.Contains(out, "export const __sigil_tests = [") {
		t.Fatalf("expected tests array export, got:\n%s", out)
	}
}

func TestEmitFile_ImportAndExternEmitModuleSpecifiers(t *testing.T) {
	file := &ast.File{Decls: []ast.Decl{
		&ast.ImportDecl{Path: ast.QualPath{Segments: []string{"stdlib", "list"}}},
		&ast.ExternDecl{Name: ident("fsHost"), HostPath: "node:fs"},
	}}

	out := EmitFile(file, Options{})

	if !strings.Contains(out, `import * as stdlib_list from "./stdlib/list.js";`) {
		t.Fatalf("expected default import path resolution, got:\n%s", out)
	}
	if !strings.Contains(out, `import * as fsHost from "node:fs";`) {
		t.Fatalf("expected extern host import, got:\n%s", out)
	}
}
