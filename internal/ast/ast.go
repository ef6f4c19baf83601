// Package ast defines the tagged-union tree the parser produces. Every
// node carries a span; nothing in this tree is mutated after the
// parser returns it, and nothing in the tree points back into a
// diagnostic.
package ast

import "github.com/sigil-lang/sigilc/internal/diag"

// Node is carried by every tree element so a single walker can recover
// a span from an interface value regardless of its concrete variant.
type Node interface {
	diag.Spannable
}

// Ident is a lowercase-leading name together with the span it was
// spelled at.
type Ident struct {
	Name string
	diag.Span
}

// File is the root of one parsed source file.
type File struct {
	Decls []Decl
	diag.Span
}

// Effect is one tag from the fixed effect lattice a function signature
// may declare.
type Effect string

const (
	EffectIO      Effect = "IO"
	EffectNetwork Effect = "Network"
	EffectAsync   Effect = "Async"
	EffectError   Effect = "Error"
	EffectMut     Effect = "Mut"
)

// EffectSet is an unordered collection of Effect tags; order never
// matters for equality, so comparisons go through Contains/Equal.
type EffectSet map[Effect]bool

func NewEffectSet(effects ...Effect) EffectSet {
	s := make(EffectSet, len(effects))
	for _, e := range effects {
		s[e] = true
	}
	return s
}

func (s EffectSet) Contains(e Effect) bool { return s[e] }

func (s EffectSet) Subset(of EffectSet) bool {
	for e := range s {
		if !of[e] {
			return false
		}
	}
	return true
}

func (s EffectSet) Union(other EffectSet) EffectSet {
	out := make(EffectSet, len(s)+len(other))
	for e := range s {
		out[e] = true
	}
	for e := range other {
		out[e] = true
	}
	return out
}

// Missing returns the effects present in s but absent from declared,
// in a stable order, for use in "undeclared effect" diagnostics.
func (s EffectSet) Missing(declared EffectSet) []Effect {
	var out []Effect
	for _, e := range []Effect{EffectIO, EffectNetwork, EffectAsync, EffectError, EffectMut} {
		if s[e] && !declared[e] {
			out = append(out, e)
		}
	}
	return out
}

// Param is one function or lambda parameter: mandatory name, mandatory
// type annotation, and an optional mutability flag.
type Param struct {
	Name      Ident
	Type      TypeExpr
	IsMutable bool
	diag.Span
}

// QualPath is a namespace path such as stdlib⋅list, stored as its
// dot-free segments (⋅ is the separator, never part of a segment).
type QualPath struct {
	Segments []string
	diag.Span
}
