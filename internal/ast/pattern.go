package ast

import "github.com/sigil-lang/sigilc/internal/diag"

// Pattern is the closed set of 7 pattern forms.
type Pattern interface {
	Node
	pattern()
}

// LitPattern matches a literal value exactly: int, float, string,
// char, or bool.
type LitPattern struct {
	Value Expr // one of IntLit, FloatLit, StringLit, CharLit, BoolLit
	diag.Span
}

func (*LitPattern) pattern() {}

// IdentPattern binds the scrutinee (or sub-scrutinee) to a name.
type IdentPattern struct {
	Name string
	diag.Span
}

func (*IdentPattern) pattern() {}

// WildcardPattern is `_`: matches anything, binds nothing.
type WildcardPattern struct {
	diag.Span
}

func (*WildcardPattern) pattern() {}

// ListPattern is `[p0, p1, .rest]`; Rest is empty when there is no
// rest binding, in which case the pattern matches only a list of
// exactly len(Elements).
type ListPattern struct {
	Elements []Pattern
	Rest     string
	diag.Span
}

func (*ListPattern) pattern() {}

type TuplePattern struct {
	Elements []Pattern
	diag.Span
}

func (*TuplePattern) pattern() {}

// RecordFieldPattern is one `field: pattern` entry of a record
// pattern; when Pattern is nil the field is matched by a same-named
// binding shorthand.
type RecordFieldPattern struct {
	Name    string
	Pattern Pattern
	diag.Span
}

type RecordPattern struct {
	Fields []RecordFieldPattern
	diag.Span
}

func (*RecordPattern) pattern() {}

// ConstructorPattern matches a named sum-type variant, destructuring
// its fields positionally.
type ConstructorPattern struct {
	Name string
	Args []Pattern
	diag.Span
}

func (*ConstructorPattern) pattern() {}
