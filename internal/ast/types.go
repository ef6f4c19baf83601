package ast

import "github.com/sigil-lang/sigilc/internal/diag"

// TypeExpr is the closed set of syntactic type forms a type annotation
// can take. This is the surface-syntax tree; internal/types holds the
// checker's own simplified representation built from these nodes.
type TypeExpr interface {
	Node
	typeExpr()
}

type Primitive string

const (
	PrimInt    Primitive = "Int"
	PrimFloat  Primitive = "Float"
	PrimBool   Primitive = "Bool"
	PrimString Primitive = "String"
	PrimChar   Primitive = "Char"
	PrimUnit   Primitive = "Unit"
	PrimNever  Primitive = "Never"
)

type PrimitiveType struct {
	Name Primitive
	diag.Span
}

func (*PrimitiveType) typeExpr() {}

type ListType struct {
	Elem TypeExpr
	diag.Span
}

func (*ListType) typeExpr() {}

type MapType struct {
	Key, Value TypeExpr
	diag.Span
}

func (*MapType) typeExpr() {}

type TupleType struct {
	Elems []TypeExpr
	diag.Span
}

func (*TupleType) typeExpr() {}

// FunctionType is a signature's type shape: parameter types, a return
// type, and the declared effect set.
type FunctionType struct {
	Params  []TypeExpr
	Return  TypeExpr
	Effects EffectSet
	diag.Span
}

func (*FunctionType) typeExpr() {}

// ConstructorType names a user-defined type, applied to zero or more
// type arguments (generics).
type ConstructorType struct {
	Name Ident
	Args []TypeExpr
	diag.Span
}

func (*ConstructorType) typeExpr() {}

// TypeVarType is a generic parameter reference, e.g. the T in λfoo[T].
type TypeVarType struct {
	Name string
	diag.Span
}

func (*TypeVarType) typeExpr() {}

// QualifiedType names a type exported from another module.
type QualifiedType struct {
	ModulePath QualPath
	Name       string
	Args       []TypeExpr
	diag.Span
}

func (*QualifiedType) typeExpr() {}

// RecordType is a structural field→type mapping; FieldOrder preserves
// the declared source order for diagnostics and emission.
type RecordType struct {
	Fields     map[string]TypeExpr
	FieldOrder []string
	diag.Span
}

func (*RecordType) typeExpr() {}

// TypeDecl introduces a user type: a newtype, a struct, a union
// (tagged sum), or an enum (nullary sum).
type TypeDecl struct {
	Name       Ident
	TypeParams []string
	Exported   bool
	Body       TypeDeclBody
	diag.Span
}

func (*TypeDecl) decl() {}

type TypeDeclBody interface {
	Node
	typeDeclBody()
}

type NewtypeBody struct {
	Underlying TypeExpr
	diag.Span
}

func (*NewtypeBody) typeDeclBody() {}

type StructBody struct {
	Fields []FieldDef
	diag.Span
}

func (*StructBody) typeDeclBody() {}

type FieldDef struct {
	Name Ident
	Type TypeExpr
	diag.Span
}

// UnionVariant is one constructor of a tagged-union type declaration;
// Fields is empty for a nullary (enum-like) variant.
type UnionVariant struct {
	Name   Ident
	Fields []FieldDef
	diag.Span
}

type UnionBody struct {
	Variants []UnionVariant
	diag.Span
}

func (*UnionBody) typeDeclBody() {}
