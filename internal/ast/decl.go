package ast

import "github.com/sigil-lang/sigilc/internal/diag"

// Decl is the closed set of top-level declaration kinds. Canonical
// ordering groups them as types → externs → imports → consts →
// functions → tests; that ordering is enforced by internal/canon, not
// by this package.
type Decl interface {
	Node
	decl()
}

// FunctionDecl is a λ declaration: name, generic params, parameter
// list, return type, declared effects, and a body that is either a
// value expression (`=`) or a match expression (`≡`).
type FunctionDecl struct {
	Name       Ident
	TypeParams []string
	Params     []Param
	Return     TypeExpr
	Effects    EffectSet
	IsMockable bool
	Exported   bool
	Body       Expr
	diag.Span
}

func (*FunctionDecl) decl() {}

// ImportDecl binds a namespace alias to a qualified module path, e.g.
// `i stdlib⋅list`.
type ImportDecl struct {
	Path QualPath
	diag.Span
}

func (*ImportDecl) decl() {}

// ExternDecl binds a name to a foreign host module. Members is nil
// for an untyped (fully trust-mode) extern and populated when the
// declaration also types its exports.
type ExternDecl struct {
	Name     Ident
	HostPath string
	Members  []FieldDef
	Exported bool
	diag.Span
}

func (*ExternDecl) decl() {}

// ConstDecl is a top-level `c` binding.
type ConstDecl struct {
	Name     Ident
	Type     TypeExpr
	Value    Expr
	Exported bool
	diag.Span
}

func (*ConstDecl) decl() {}

// TestDecl is a `test "name" { body }` declaration. Tests may never
// be exported.
type TestDecl struct {
	Name string
	Body Expr
	diag.Span
}

func (*TestDecl) decl() {}
