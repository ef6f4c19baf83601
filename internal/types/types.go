// Package types holds the bidirectional checker's internal type
// representation - simpler than internal/ast's syntactic TypeExpr
// tree, since by the time a type reaches here every qualified
// reference has been resolved to a named Constructor; a generic
// parameter remains as a TypeVar.
package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sigil-lang/sigilc/internal/ast"
)

// Type is the closed sum the checker operates over.
type Type interface {
	fmt.Stringer
	typ()
}

type Primitive struct{ Name ast.Primitive }

func (Primitive) typ() {}
func (p Primitive) String() string { return string(p.Name) }

// Function is a callable's type: parameter types, a return type, and
// the effects calling it may perform.
type Function struct {
	Params  []Type
	Return  Type
	Effects ast.EffectSet
}

func (Function) typ() {}
func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("λ(%s)→%s", strings.Join(parts, ","), f.Return)
}

type List struct{ Elem Type }

func (List) typ() {}
func (l List) String() string { return "[" + l.Elem.String() + "]" }

type MapType struct{ Key, Value Type }

func (MapType) typ() {}
func (m MapType) String() string { return "[" + m.Key.String() + ":" + m.Value.String() + "]" }

type Tuple struct{ Elems []Type }

func (Tuple) typ() {}
func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// Record is a structural field→type mapping; Name is non-empty when
// the record came from a named struct type declaration, which allows
// the checker to require it exactly (no extra fields) rather than
// structurally (only required fields, extras tolerated).
type Record struct {
	Name   string
	Fields map[string]Type
}

func (Record) typ() {}
func (r Record) String() string {
	if r.Name != "" {
		return r.Name
	}
	names := make([]string, 0, len(r.Fields))
	for n := range r.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + ":" + r.Fields[n].String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Constructor is a user-defined named type (sum, newtype) applied to
// its resolved type arguments.
type Constructor struct {
	Name string
	Args []Type
}

func (Constructor) typ() {}
func (c Constructor) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + "[" + strings.Join(parts, ",") + "]"
}

// TypeVar is an unresolved generic parameter; by the time checking
// completes for a monomorphic call site every TypeVar has been
// substituted, but it can appear transiently while checking a generic
// function's own body against its own parameter names.
type TypeVar struct{ ID string }

func (TypeVar) typ() {}
func (t TypeVar) String() string { return t.ID }

// Any is the trust-bypass type for foreign (extern) values: it
// unifies with anything in checking mode but is never synthesized
// spontaneously - only an extern member access, a call through one, or
// a member access on an imported module whose exports were not
// supplied produces it.
type Any struct{}

func (Any) typ() {}
func (Any) String() string { return "Any" }

var (
	Int    = Primitive{ast.PrimInt}
	Float  = Primitive{ast.PrimFloat}
	Bool   = Primitive{ast.PrimBool}
	String = Primitive{ast.PrimString}
	Char   = Primitive{ast.PrimChar}
	Unit   = Primitive{ast.PrimUnit}
	Never  = Primitive{ast.PrimNever}
)

// Equal reports structural equality. Any is never implicitly equal to
// anything except itself here - callers that want Any's unify-with-
// everything behavior use Unifies instead.
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case Primitive:
		b, ok := b.(Primitive)
		return ok && a.Name == b.Name
	case Function:
		b, ok := b.(Function)
		if !ok || len(a.Params) != len(b.Params) || !Equal(a.Return, b.Return) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return effectsEqual(a.Effects, b.Effects)
	case List:
		b, ok := b.(List)
		return ok && Equal(a.Elem, b.Elem)
	case MapType:
		b, ok := b.(MapType)
		return ok && Equal(a.Key, b.Key) && Equal(a.Value, b.Value)
	case Tuple:
		b, ok := b.(Tuple)
		if !ok || len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !Equal(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case Record:
		b, ok := b.(Record)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		for name, t := range a.Fields {
			bt, ok := b.Fields[name]
			if !ok || !Equal(t, bt) {
				return false
			}
		}
		return true
	case Constructor:
		b, ok := b.(Constructor)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case TypeVar:
		b, ok := b.(TypeVar)
		return ok && a.ID == b.ID
	case Any:
		_, ok := b.(Any)
		return ok
	}
	return false
}

func effectsEqual(a, b ast.EffectSet) bool {
	if len(a) != len(b) {
		return false
	}
	for e := range a {
		if !b[e] {
			return false
		}
	}
	return true
}

// Unifies reports whether check-mode expected type `want` accepts a
// value of synthesized type `got`, honoring Any's trust-bypass in
// both directions.
func Unifies(got, want Type) bool {
	if _, ok := got.(Any); ok {
		return true
	}
	if _, ok := want.(Any); ok {
		return true
	}
	return Equal(got, want)
}

// IsNumeric reports whether t is Int or Float - the two types kept
// fully disjoint by the checker (no implicit widening between them).
func IsNumeric(t Type) bool {
	p, ok := t.(Primitive)
	return ok && (p.Name == ast.PrimInt || p.Name == ast.PrimFloat)
}
