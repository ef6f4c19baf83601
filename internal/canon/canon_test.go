package canon

import (
	"testing"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

func ident(name string) ast.Ident { return ast.Ident{Name: name} }

func identExpr(name string) *ast.IdentExpr { return &ast.IdentExpr{Name: name} }

func intLit(v int64) *ast.IntLit { return &ast.IntLit{Value: v} }

func intParam(name string) ast.Param {
	return ast.Param{Name: ident(name), Type: &ast.PrimitiveType{Name: ast.PrimInt}}
}

func fnDecl(name string, exported bool, params []ast.Param, ret ast.TypeExpr, body ast.Expr) *ast.FunctionDecl {
	return &ast.FunctionDecl{Name: ident(name), Exported: exported, Params: params, Return: ret, Body: body}
}

func TestCheckDeclOrder(t *testing.T) {
	t.Run("rejects a function before a type", func(t *testing.T) {
		file := &ast.File{Decls: []ast.Decl{
			fnDecl("f", true, nil, &ast.PrimitiveType{Name: ast.PrimInt}, intLit(1)),
			&ast.TypeDecl{Name: ident("T"), Exported: true, Body: &ast.NewtypeBody{Underlying: &ast.PrimitiveType{Name: ast.PrimInt}}},
		}}
		d := checkDeclOrder(file)
		if d == nil || d.Code != "SIGIL-CANON-001" {
			t.Fatalf("expected SIGIL-CANON-001, got %v", d)
		}
	})

	t.Run("rejects out-of-alphabetical-order functions", func(t *testing.T) {
		file := &ast.File{Decls: []ast.Decl{
			fnDecl("zeta", true, nil, &ast.PrimitiveType{Name: ast.PrimInt}, intLit(1)),
			fnDecl("alpha", true, nil, &ast.PrimitiveType{Name: ast.PrimInt}, intLit(1)),
		}}
		d := checkDeclOrder(file)
		if d == nil || d.Code != "SIGIL-CANON-003" {
			t.Fatalf("expected SIGIL-CANON-003, got %v", d)
		}
	})

	t.Run("accepts a correctly ordered file", func(t *testing.T) {
		file := &ast.File{Decls: []ast.Decl{
			fnDecl("alpha", true, nil, &ast.PrimitiveType{Name: ast.PrimInt}, intLit(1)),
			fnDecl("zeta", true, nil, &ast.PrimitiveType{Name: ast.PrimInt}, intLit(1)),
		}}
		if d := checkDeclOrder(file); d != nil {
			t.Fatalf("expected no diagnostic, got %v", d)
		}
	})
}

func TestCheckDuplicates(t *testing.T) {
	file := &ast.File{Decls: []ast.Decl{
		&ast.ConstDecl{Name: ident("x"), Type: &ast.PrimitiveType{Name: ast.PrimInt}, Value: intLit(1), Exported: true},
		&ast.ConstDecl{Name: ident("x"), Type: &ast.PrimitiveType{Name: ast.PrimInt}, Value: intLit(2), Exported: true},
	}}
	d := checkDuplicates(file)
	if d == nil || d.Code != "SIGIL-CANON-004" {
		t.Fatalf("expected SIGIL-CANON-004, got %v", d)
	}
}

// recursiveCall builds `name(args...)`.
func recursiveCall(name string, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Callee: identExpr(name), Args: args}
}

func TestCheckRecursionShape(t *testing.T) {
	t.Run("accepts structural decrement recursion", func(t *testing.T) {
		// fact(n) = if n = 0 then 1 else n * fact(n - 1)
		body := &ast.IfExpr{
			Cond: &ast.BinaryOp{Op: "=", Left: identExpr("n"), Right: intLit(0)},
			Then: intLit(1),
			Else: &ast.BinaryOp{
				Op:   "*",
				Left: identExpr("n"),
				Right: recursiveCall("fact",
					&ast.BinaryOp{Op: "-", Left: identExpr("n"), Right: intLit(1)}),
			},
		}
		fn := fnDecl("fact", true, []ast.Param{intParam("n")}, &ast.PrimitiveType{Name: ast.PrimInt}, body)
		if d := checkRecursionShape(fn, &ast.File{}); d != nil {
			t.Fatalf("expected no diagnostic, got %v", d)
		}
	})

	t.Run("rejects an accumulator parameter threaded across calls", func(t *testing.T) {
		// sum(acc, n) = if n = 0 then acc else sum(acc + n, n - 1)
		body := &ast.IfExpr{
			Cond: &ast.BinaryOp{Op: "=", Left: identExpr("n"), Right: intLit(0)},
			Then: identExpr("acc"),
			Else: recursiveCall("sum",
				&ast.BinaryOp{Op: "+", Left: identExpr("acc"), Right: identExpr("n")},
				&ast.BinaryOp{Op: "-", Left: identExpr("n"), Right: intLit(1)}),
		}
		fn := fnDecl("sum", true, []ast.Param{intParam("acc"), intParam("n")}, &ast.PrimitiveType{Name: ast.PrimInt}, body)
		d := checkRecursionShape(fn, &ast.File{})
		if d == nil || d.Code != "SIGIL-CANON-011" {
			t.Fatalf("expected SIGIL-CANON-011, got %v", d)
		}
	})

	t.Run("rejects a recursive function returning a function type", func(t *testing.T) {
		retFn := &ast.FunctionType{Params: []ast.TypeExpr{&ast.PrimitiveType{Name: ast.PrimInt}}, Return: &ast.PrimitiveType{Name: ast.PrimInt}}
		body := recursiveCall("loop", identExpr("n"))
		fn := fnDecl("loop", true, []ast.Param{intParam("n")}, retFn, body)
		d := checkRecursionShape(fn, &ast.File{})
		if d == nil || d.Code != "SIGIL-CANON-010" {
			t.Fatalf("expected SIGIL-CANON-010, got %v", d)
		}
	})

	t.Run("non-recursive function is never checked", func(t *testing.T) {
		fn := fnDecl("identity", true, []ast.Param{intParam("n")}, &ast.PrimitiveType{Name: ast.PrimInt}, identExpr("n"))
		if d := checkRecursionShape(fn, &ast.File{}); d != nil {
			t.Fatalf("expected no diagnostic, got %v", d)
		}
	})
}

func listParam(name string) ast.Param {
	return ast.Param{Name: ident(name), Type: &ast.ListType{Elem: &ast.PrimitiveType{Name: ast.PrimInt}}}
}

func TestCheckCollectionState(t *testing.T) {
	t.Run("rejects a sole collection parameter never matched", func(t *testing.T) {
		// sumAll(xs) = if true then 0 else sumAll([])
		fn := fnDecl("sumAll", true, []ast.Param{listParam("xs")},
			&ast.PrimitiveType{Name: ast.PrimInt},
			&ast.IfExpr{
				Cond: identExpr("true"),
				Then: intLit(0),
				Else: recursiveCall("sumAll", &ast.ListLit{}),
			})
		d := checkRecursionShape(fn, &ast.File{})
		if d == nil || d.Code != "SIGIL-CANON-012" {
			t.Fatalf("expected SIGIL-CANON-012, got %v", d)
		}
	})

	t.Run("rejects passing the parameter unchanged to the recursive call", func(t *testing.T) {
		// loop(xs) = match xs { [] -> 0 | [x, .rest] -> loop(xs) }
		body := &ast.MatchExpr{
			Scrutinee: identExpr("xs"),
			Arms: []ast.MatchArm{
				{Pattern: &ast.ListPattern{}, Body: intLit(0)},
				{Pattern: &ast.ListPattern{Elements: []ast.Pattern{&ast.IdentPattern{Name: "x"}}, Rest: "rest"},
					Body: recursiveCall("loop", identExpr("xs"))},
			},
		}
		fn := fnDecl("loop", true, []ast.Param{listParam("xs")}, &ast.PrimitiveType{Name: ast.PrimInt}, body)
		d := checkRecursionShape(fn, &ast.File{})
		if d == nil || d.Code != "SIGIL-CANON-012" {
			t.Fatalf("expected SIGIL-CANON-012, got %v", d)
		}
	})

	t.Run("rejects a fixed-size no-rest list pattern as state-encoding", func(t *testing.T) {
		// loop(xs) = match xs { [n, acc] -> loop(acc) | _ -> 0 }
		body := &ast.MatchExpr{
			Scrutinee: identExpr("xs"),
			Arms: []ast.MatchArm{
				{Pattern: &ast.ListPattern{Elements: []ast.Pattern{&ast.IdentPattern{Name: "n"}, &ast.IdentPattern{Name: "acc"}}},
					Body: recursiveCall("loop", identExpr("acc"))},
				{Pattern: &ast.WildcardPattern{}, Body: intLit(0)},
			},
		}
		fn := fnDecl("loop", true, []ast.Param{listParam("xs")}, &ast.PrimitiveType{Name: ast.PrimInt}, body)
		d := checkRecursionShape(fn, &ast.File{})
		if d == nil || d.Code != "SIGIL-CANON-012" {
			t.Fatalf("expected SIGIL-CANON-012, got %v", d)
		}
	})

	t.Run("accepts a rest-binding destructure recursing on the tail", func(t *testing.T) {
		// len(xs) = match xs { [] -> 0 | [x, .rest] -> 1 + len(rest) }
		body := &ast.MatchExpr{
			Scrutinee: identExpr("xs"),
			Arms: []ast.MatchArm{
				{Pattern: &ast.ListPattern{}, Body: intLit(0)},
				{Pattern: &ast.ListPattern{Elements: []ast.Pattern{&ast.IdentPattern{Name: "x"}}, Rest: "rest"},
					Body: &ast.BinaryOp{Op: "+", Left: intLit(1), Right: recursiveCall("len", identExpr("rest"))}},
			},
		}
		fn := fnDecl("len", true, []ast.Param{listParam("xs")}, &ast.PrimitiveType{Name: ast.PrimInt}, body)
		if d := checkRecursionShape(fn, &ast.File{}); d != nil {
			t.Fatalf("expected no diagnostic, got %v", d)
		}
	})
}

func TestCheckMatchCanonicality(t *testing.T) {
	t.Run("rejects matching an equality-to-boolean scrutinee", func(t *testing.T) {
		body := &ast.MatchExpr{
			Scrutinee: &ast.BinaryOp{Op: "=", Left: identExpr("done"), Right: &ast.BoolLit{Value: true}},
			Arms: []ast.MatchArm{
				{Pattern: &ast.LitPattern{Value: &ast.BoolLit{Value: true}}, Body: intLit(1)},
				{Pattern: &ast.WildcardPattern{}, Body: intLit(0)},
			},
		}
		fn := fnDecl("f", true, nil, &ast.PrimitiveType{Name: ast.PrimInt}, body)
		d := checkMatchCanonicality(fn)
		if d == nil || d.Code != "SIGIL-CANON-020" {
			t.Fatalf("expected SIGIL-CANON-020, got %v", d)
		}
	})

	t.Run("accepts matching the boolean directly", func(t *testing.T) {
		body := &ast.MatchExpr{
			Scrutinee: identExpr("done"),
			Arms: []ast.MatchArm{
				{Pattern: &ast.LitPattern{Value: &ast.BoolLit{Value: true}}, Body: intLit(1)},
				{Pattern: &ast.LitPattern{Value: &ast.BoolLit{Value: false}}, Body: intLit(0)},
			},
		}
		fn := fnDecl("f", true, nil, &ast.PrimitiveType{Name: ast.PrimInt}, body)
		if d := checkMatchCanonicality(fn); d != nil {
			t.Fatalf("expected no diagnostic, got %v", d)
		}
	})
}

func TestValidate_StopsAtFirstViolation(t *testing.T) {
	file := &ast.File{Decls: []ast.Decl{
		fnDecl("zeta", true, nil, &ast.PrimitiveType{Name: ast.PrimInt}, intLit(1)),
		fnDecl("alpha", true, nil, &ast.PrimitiveType{Name: ast.PrimInt}, intLit(1)),
	}}
	d := Validate(file, Options{})
	if d == nil {
		t.Fatal("expected a diagnostic")
	}
	if d.Phase != diag.PhaseCanonical {
		t.Fatalf("expected phase %q, got %q", diag.PhaseCanonical, d.Phase)
	}
}
