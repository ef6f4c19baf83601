package check

import (
	"testing"

	"github.com/sigil-lang/sigilc/internal/ast"
)

func ident(name string) ast.Ident { return ast.Ident{Name: name} }

func identExpr(name string) *ast.IdentExpr { return &ast.IdentExpr{Name: name} }

func intLit(v int64) *ast.IntLit { return &ast.IntLit{Value: v} }

func boolLit(v bool) *ast.BoolLit { return &ast.BoolLit{Value: v} }

func intT() *ast.PrimitiveType  { return &ast.PrimitiveType{Name: ast.PrimInt} }
func boolT() *ast.PrimitiveType { return &ast.PrimitiveType{Name: ast.PrimBool} }

func intParam(name string) ast.Param {
	return ast.Param{Name: ident(name), Type: intT()}
}

func TestCheckFile_StructuralFactorialRoundTrips(t *testing.T) {
	// fact(n: Int) -> Int = if n = 0 then 1 else n * fact(n - 1)
	body := &ast.IfExpr{
		Cond: &ast.BinaryOp{Op: "=", Left: identExpr("n"), Right: intLit(0)},
		Then: intLit(1),
		Else: &ast.BinaryOp{
			Op:   "*",
			Left: identExpr("n"),
			Right: &ast.CallExpr{Callee: identExpr("fact"), Args: []ast.Expr{
				&ast.BinaryOp{Op: "-", Left: identExpr("n"), Right: intLit(1)},
			}},
		},
	}
	file := &ast.File{Decls: []ast.Decl{
		&ast.FunctionDecl{Name: ident("fact"), Exported: true, Params: []ast.Param{intParam("n")}, Return: intT(), Body: body},
	}}
	if d := CheckFile(file); d != nil {
		t.Fatalf("expected no diagnostic, got %v", d)
	}
}

func TestCheckFile_ReturnTypeMismatchRejected(t *testing.T) {
	file := &ast.File{Decls: []ast.Decl{
		&ast.FunctionDecl{Name: ident("f"), Exported: true, Return: intT(), Body: &ast.StringLit{Value: "oops"}},
	}}
	d := CheckFile(file)
	if d == nil || d.Code != "SIGIL-TYPE-002" {
		t.Fatalf("expected SIGIL-TYPE-002, got %v", d)
	}
}

func TestCheckFile_EmptyListNeedsAscription(t *testing.T) {
	// synthesize mode (a test body has no expected type to check
	// against) is where a bare empty list literal has nothing to
	// infer its element type from.
	file := &ast.File{Decls: []ast.Decl{
		&ast.TestDecl{Name: "empty", Body: &ast.ListLit{}},
	}}
	d := CheckFile(file)
	if d == nil || d.Code != "SIGIL-TYPE-020" {
		t.Fatalf("expected SIGIL-TYPE-020, got %v", d)
	}
}

func TestCheckFile_BooleanMatchMustCoverBothArms(t *testing.T) {
	body := &ast.MatchExpr{
		Scrutinee: identExpr("flag"),
		Arms: []ast.MatchArm{
			{Pattern: &ast.LitPattern{Value: boolLit(true)}, Body: intLit(1)},
		},
	}
	file := &ast.File{Decls: []ast.Decl{
		&ast.FunctionDecl{Name: ident("f"), Exported: true, Params: []ast.Param{{Name: ident("flag"), Type: boolT()}}, Return: intT(), Body: body},
	}}
	d := CheckFile(file)
	if d == nil || d.Code != "SIGIL-TYPE-070" {
		t.Fatalf("expected SIGIL-TYPE-070 (non-exhaustive match), got %v", d)
	}
}

func TestCheckFile_BooleanMatchBothArmsAccepted(t *testing.T) {
	body := &ast.MatchExpr{
		Scrutinee: identExpr("flag"),
		Arms: []ast.MatchArm{
			{Pattern: &ast.LitPattern{Value: boolLit(true)}, Body: intLit(1)},
			{Pattern: &ast.LitPattern{Value: boolLit(false)}, Body: intLit(0)},
		},
	}
	file := &ast.File{Decls: []ast.Decl{
		&ast.FunctionDecl{Name: ident("f"), Exported: true, Params: []ast.Param{{Name: ident("flag"), Type: boolT()}}, Return: intT(), Body: body},
	}}
	if d := CheckFile(file); d != nil {
		t.Fatalf("expected no diagnostic, got %v", d)
	}
}

func TestCheckFile_UnionMatchMustCoverEveryVariant(t *testing.T) {
	unionDecl := &ast.TypeDecl{
		Name:     ident("Shape"),
		Exported: true,
		Body: &ast.UnionBody{Variants: []ast.UnionVariant{
			{Name: ident("Circle"), Fields: []ast.FieldDef{{Name: ident("radius"), Type: intT()}}},
			{Name: ident("Square"), Fields: []ast.FieldDef{{Name: ident("side"), Type: intT()}}},
		}},
	}
	body := &ast.MatchExpr{
		Scrutinee: identExpr("s"),
		Arms: []ast.MatchArm{
			{Pattern: &ast.ConstructorPattern{Name: "Circle", Args: []ast.Pattern{&ast.IdentPattern{Name: "r"}}}, Body: identExpr("r")},
		},
	}
	fn := &ast.FunctionDecl{
		Name: ident("area"), Exported: true,
		Params: []ast.Param{{Name: ident("s"), Type: &ast.ConstructorType{Name: ident("Shape")}}},
		Return: intT(), Body: body,
	}
	file := &ast.File{Decls: []ast.Decl{unionDecl, fn}}
	d := CheckFile(file)
	if d == nil || d.Code != "SIGIL-TYPE-070" {
		t.Fatalf("expected SIGIL-TYPE-070 (missing Square variant), got %v", d)
	}
}

func TestCheckFile_ListMatchMissingRestArmRejected(t *testing.T) {
	// len(xs: [Int]) -> Int = match xs { [] -> 0 }
	body := &ast.MatchExpr{
		Scrutinee: identExpr("xs"),
		Arms: []ast.MatchArm{
			{Pattern: &ast.ListPattern{}, Body: intLit(0)},
		},
	}
	fn := &ast.FunctionDecl{
		Name: ident("len"), Exported: true,
		Params: []ast.Param{{Name: ident("xs"), Type: &ast.ListType{Elem: intT()}}},
		Return: intT(), Body: body,
	}
	file := &ast.File{Decls: []ast.Decl{fn}}
	d := CheckFile(file)
	if d == nil || d.Code != "SIGIL-TYPE-070" {
		t.Fatalf("expected SIGIL-TYPE-070 (missing rest-binding arm), got %v", d)
	}
}

func TestCheckFile_ListMatchEmptyAndRestArmsAccepted(t *testing.T) {
	// len(xs: [Int]) -> Int = match xs { [] -> 0 | [x, .rest] -> 1 + len(rest) }
	body := &ast.MatchExpr{
		Scrutinee: identExpr("xs"),
		Arms: []ast.MatchArm{
			{Pattern: &ast.ListPattern{}, Body: intLit(0)},
			{
				Pattern: &ast.ListPattern{Elements: []ast.Pattern{&ast.IdentPattern{Name: "x"}}, Rest: "rest"},
				Body: &ast.BinaryOp{Op: "+", Left: intLit(1),
					Right: &ast.CallExpr{Callee: identExpr("len"), Args: []ast.Expr{identExpr("rest")}}},
			},
		},
	}
	fn := &ast.FunctionDecl{
		Name: ident("len"), Exported: true,
		Params: []ast.Param{{Name: ident("xs"), Type: &ast.ListType{Elem: intT()}}},
		Return: intT(), Body: body,
	}
	file := &ast.File{Decls: []ast.Decl{fn}}
	if d := CheckFile(file); d != nil {
		t.Fatalf("expected no diagnostic, got %v", d)
	}
}

func TestCheckFile_WithMockRejectsIneligibleTarget(t *testing.T) {
	// f() -> Int = with_mock(notMockable, notMockable, 0)
	file := &ast.File{Decls: []ast.Decl{
		&ast.FunctionDecl{Name: ident("notMockable"), Exported: true, Return: intT(), Body: intLit(1)},
		&ast.FunctionDecl{
			Name: ident("f"), Exported: true, Return: intT(),
			Body: &ast.WithMockExpr{
				Target:      identExpr("notMockable"),
				Replacement: identExpr("notMockable"),
				Body:        intLit(0),
			},
		},
	}}
	d := CheckFile(file)
	if d == nil || d.Code != "SIGIL-TYPE-043" {
		t.Fatalf("expected SIGIL-TYPE-043 (ineligible with_mock target), got %v", d)
	}
}

func TestCheckFile_WithMockAcceptsMockableFunctionTarget(t *testing.T) {
	// fetchUser() -> Int = 1  [mockable]
	// stub() -> Int = 2
	// f() -> Int = with_mock(fetchUser, stub, fetchUser())
	file := &ast.File{Decls: []ast.Decl{
		&ast.FunctionDecl{Name: ident("fetchUser"), Exported: true, IsMockable: true, Return: intT(), Body: intLit(1)},
		&ast.FunctionDecl{Name: ident("stub"), Exported: true, Return: intT(), Body: intLit(2)},
		&ast.FunctionDecl{
			Name: ident("f"), Exported: true, Return: intT(),
			Body: &ast.WithMockExpr{
				Target:      identExpr("fetchUser"),
				Replacement: identExpr("stub"),
				Body:        &ast.CallExpr{Callee: identExpr("fetchUser"), Args: nil},
			},
		},
	}}
	if d := CheckFile(file); d != nil {
		t.Fatalf("expected no diagnostic, got %v", d)
	}
}

func TestCheckFile_WithMockRejectsAnyReplacementOnExternTarget(t *testing.T) {
	// e net/http
	// f() -> Int = with_mock(http.get, http.get, 0)
	externDecl := &ast.ExternDecl{
		Name: ident("http"), Exported: false,
	}
	file := &ast.File{Decls: []ast.Decl{
		externDecl,
		&ast.FunctionDecl{
			Name: ident("f"), Exported: true, Return: intT(),
			Body: &ast.WithMockExpr{
				Target:      &ast.QualifiedAccess{Path: ast.QualPath{Segments: []string{"http"}}, Member: "get"},
				Replacement: &ast.QualifiedAccess{Path: ast.QualPath{Segments: []string{"http"}}, Member: "get"},
				Body:        intLit(0),
			},
		},
	}}
	d := CheckFile(file)
	if d == nil || d.Code != "SIGIL-TYPE-044" {
		t.Fatalf("expected SIGIL-TYPE-044 (Any replacement on extern target), got %v", d)
	}
}

func TestCheckFile_UndeclaredEffectRejected(t *testing.T) {
	file := &ast.File{Decls: []ast.Decl{
		&ast.FunctionDecl{
			Name: ident("readInput"), Exported: true, Return: intT(),
			Effects: ast.NewEffectSet(ast.EffectIO),
			Body:    intLit(0),
		},
		&ast.FunctionDecl{
			Name: ident("useIt"), Exported: true, Return: intT(),
			Body: &ast.CallExpr{Callee: identExpr("readInput"), Args: nil},
		},
	}}
	d := CheckFile(file)
	if d == nil || d.Code != "SIGIL-TYPE-050" {
		t.Fatalf("expected SIGIL-TYPE-050 (undeclared effect), got %v", d)
	}
}

func TestCheckFile_DeclaredEffectAccepted(t *testing.T) {
	file := &ast.File{Decls: []ast.Decl{
		&ast.FunctionDecl{
			Name: ident("readInput"), Exported: true, Return: intT(),
			Effects: ast.NewEffectSet(ast.EffectIO),
			Body:    intLit(0),
		},
		&ast.FunctionDecl{
			Name: ident("useIt"), Exported: true, Return: intT(),
			Effects: ast.NewEffectSet(ast.EffectIO),
			Body:    &ast.CallExpr{Callee: identExpr("readInput"), Args: nil},
		},
	}}
	if d := CheckFile(file); d != nil {
		t.Fatalf("expected no diagnostic, got %v", d)
	}
}
