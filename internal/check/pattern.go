package check

import (
	"strconv"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/types"
)

func (c *Checker) synthMatch(e *ast.MatchExpr, sc *scope) (types.Type, ast.EffectSet, *diag.Diagnostic) {
	scrutT, eff, d := c.synth(e.Scrutinee, sc)
	if d != nil {
		return nil, nil, d
	}
	if d := c.checkExhaustiveness(e, scrutT); d != nil {
		return nil, nil, d
	}

	var resultT types.Type
	for i, arm := range e.Arms {
		inner := newScope(sc)
		if d := c.bindPattern(arm.Pattern, scrutT, inner); d != nil {
			return nil, nil, d
		}
		if arm.Guard != nil {
			geff, d := c.check(arm.Guard, types.Bool, inner)
			if d != nil {
				return nil, nil, d
			}
			eff = eff.Union(geff)
		}
		if i == 0 {
			bt, beff, d := c.synth(arm.Body, inner)
			if d != nil {
				return nil, nil, d
			}
			resultT = bt
			eff = eff.Union(beff)
			continue
		}
		beff, d := c.check(arm.Body, resultT, inner)
		if d != nil {
			return nil, nil, d
		}
		eff = eff.Union(beff)
	}
	return resultT, eff, nil
}

func (c *Checker) checkMatchAgainst(e *ast.MatchExpr, want types.Type, sc *scope) (ast.EffectSet, *diag.Diagnostic) {
	scrutT, eff, d := c.synth(e.Scrutinee, sc)
	if d != nil {
		return nil, d
	}
	if d := c.checkExhaustiveness(e, scrutT); d != nil {
		return nil, d
	}
	for _, arm := range e.Arms {
		inner := newScope(sc)
		if d := c.bindPattern(arm.Pattern, scrutT, inner); d != nil {
			return nil, d
		}
		if arm.Guard != nil {
			geff, d := c.check(arm.Guard, types.Bool, inner)
			if d != nil {
				return nil, d
			}
			eff = eff.Union(geff)
		}
		beff, d := c.check(arm.Body, want, inner)
		if d != nil {
			return nil, d
		}
		eff = eff.Union(beff)
	}
	return eff, nil
}

// bindPattern destructures scrutinee's type against p, defining every
// name p introduces in sc. It reports a mismatch diagnostic the
// moment a pattern shape cannot possibly match the scrutinee's type -
// this is a static check, not a runtime match attempt.
func (c *Checker) bindPattern(p ast.Pattern, scrutinee types.Type, sc *scope) *diag.Diagnostic {
	switch p := p.(type) {
	case *ast.LitPattern:
		lt, _, d := c.synth(p.Value, sc)
		if d != nil {
			return d
		}
		if !types.Unifies(lt, scrutinee) {
			return patternMismatch(p, scrutinee, lt)
		}
		return nil

	case *ast.IdentPattern:
		sc.define(p.Name, scrutinee, false)
		return nil

	case *ast.WildcardPattern:
		return nil

	case *ast.ListPattern:
		lst, ok := asList(scrutinee)
		if !ok {
			return patternMismatch(p, scrutinee, types.List{Elem: types.Any{}})
		}
		for _, el := range p.Elements {
			if d := c.bindPattern(el, lst.Elem, sc); d != nil {
				return d
			}
		}
		if p.Rest != "" {
			sc.define(p.Rest, types.List{Elem: lst.Elem}, false)
		}
		return nil

	case *ast.TuplePattern:
		tup, ok := scrutinee.(types.Tuple)
		if !ok {
			if _, ok := scrutinee.(types.Any); !ok {
				return patternMismatch(p, scrutinee, types.Tuple{})
			}
			for _, el := range p.Elements {
				if d := c.bindPattern(el, types.Any{}, sc); d != nil {
					return d
				}
			}
			return nil
		}
		if len(tup.Elems) != len(p.Elements) {
			return diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-060",
				"tuple pattern has a different arity than its scrutinee type").
				At(diag.Span{Start: p.SpanStart(), End: p.SpanEnd()})
		}
		for i, el := range p.Elements {
			if d := c.bindPattern(el, tup.Elems[i], sc); d != nil {
				return d
			}
		}
		return nil

	case *ast.RecordPattern:
		rec, ok := scrutinee.(types.Record)
		if !ok {
			if _, ok := scrutinee.(types.Any); !ok {
				return patternMismatch(p, scrutinee, types.Record{})
			}
			rec = types.Record{Fields: map[string]types.Type{}}
		}
		for _, fp := range p.Fields {
			ft, known := rec.Fields[fp.Name]
			if !known {
				if _, ok := scrutinee.(types.Any); ok {
					ft = types.Any{}
				} else {
					return diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-061",
						"record pattern references unknown field `"+fp.Name+"`").
						At(diag.Span{Start: fp.SpanStart(), End: fp.SpanEnd()})
				}
			}
			if fp.Pattern == nil {
				sc.define(fp.Name, ft, false)
				continue
			}
			if d := c.bindPattern(fp.Pattern, ft, sc); d != nil {
				return d
			}
		}
		return nil

	case *ast.ConstructorPattern:
		ctor, ok := scrutinee.(types.Constructor)
		if !ok {
			if _, ok := scrutinee.(types.Any); ok {
				for _, a := range p.Args {
					if d := c.bindPattern(a, types.Any{}, sc); d != nil {
						return d
					}
				}
				return nil
			}
			return patternMismatch(p, scrutinee, types.Constructor{Name: p.Name})
		}
		ti, ok := c.typesByName[ctor.Name]
		if !ok || ti.variants == nil {
			return diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-062",
				"`"+ctor.Name+"` is not a union type").
				At(diag.Span{Start: p.SpanStart(), End: p.SpanEnd()})
		}
		fieldTypes, ok := ti.variants[p.Name]
		if !ok {
			return diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-063",
				"`"+ctor.Name+"` has no variant `"+p.Name+"`").
				At(diag.Span{Start: p.SpanStart(), End: p.SpanEnd()})
		}
		if len(fieldTypes) != len(p.Args) {
			return diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-064",
				"variant `"+p.Name+"` takes "+strconv.Itoa(len(fieldTypes))+" argument(s)").
				At(diag.Span{Start: p.SpanStart(), End: p.SpanEnd()})
		}
		for i, a := range p.Args {
			if d := c.bindPattern(a, fieldTypes[i], sc); d != nil {
				return d
			}
		}
		return nil
	}
	return nil
}

func asList(t types.Type) (types.List, bool) {
	switch t := t.(type) {
	case types.List:
		return t, true
	case types.Any:
		return types.List{Elem: types.Any{}}, true
	}
	return types.List{}, false
}

func patternMismatch(p ast.Pattern, scrutinee, patShape types.Type) *diag.Diagnostic {
	return diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-065",
		"pattern shape `"+patShape.String()+"` cannot match scrutinee type `"+scrutinee.String()+"`").
		At(diag.Span{Start: p.SpanStart(), End: p.SpanEnd()})
}

// checkExhaustiveness rejects a match whose arms provably fail to
// cover every value of scrutinee's type: missing a boolean arm,
// missing a union variant, missing either the `[]` arm or a
// rest-binding arm on a list, or - for every other (effectively
// infinite) domain - missing a catch-all arm entirely. An `Any`
// scrutinee is never rejected.
func (c *Checker) checkExhaustiveness(e *ast.MatchExpr, scrutinee types.Type) *diag.Diagnostic {
	for _, arm := range e.Arms {
		if arm.Guard != nil {
			continue
		}
		switch arm.Pattern.(type) {
		case *ast.WildcardPattern, *ast.IdentPattern:
			return nil
		}
	}

	switch t := scrutinee.(type) {
	case types.Primitive:
		if t.Name != ast.PrimBool {
			return nonExhaustive(e, "add a wildcard arm (`_`) to cover every other value")
		}
		var coversTrue, coversFalse bool
		for _, arm := range e.Arms {
			lit, ok := arm.Pattern.(*ast.LitPattern)
			if !ok {
				continue
			}
			if b, ok := lit.Value.(*ast.BoolLit); ok {
				if b.Value {
					coversTrue = true
				} else {
					coversFalse = true
				}
			}
		}
		if coversTrue && coversFalse {
			return nil
		}
		return nonExhaustive(e, "cover both `true` and `false`")

	case types.Constructor:
		ti, ok := c.typesByName[t.Name]
		if !ok || ti.variants == nil {
			return nonExhaustive(e, "add a wildcard arm (`_`) to cover every other value")
		}
		covered := map[string]bool{}
		for _, arm := range e.Arms {
			cp, ok := arm.Pattern.(*ast.ConstructorPattern)
			if !ok {
				continue
			}
			covered[cp.Name] = true
		}
		for _, v := range ti.variantOrd {
			if !covered[v] {
				return nonExhaustive(e, "cover the `"+v+"` variant")
			}
		}
		return nil

	case types.List:
		var coversEmpty, coversRest bool
		for _, arm := range e.Arms {
			lp, ok := arm.Pattern.(*ast.ListPattern)
			if !ok {
				continue
			}
			if len(lp.Elements) == 0 && lp.Rest == "" {
				coversEmpty = true
			}
			if lp.Rest != "" {
				coversRest = true
			}
		}
		if coversEmpty && coversRest {
			return nil
		}
		return nonExhaustive(e, "cover both `[]` and a rest-binding arm (e.g. `[x, .xs]`)")

	case types.Any:
		return nil
	}
	return nonExhaustive(e, "add a wildcard arm (`_`) to cover every other value")
}

func nonExhaustive(e *ast.MatchExpr, hint string) *diag.Diagnostic {
	return diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-070", "match is not exhaustive").
		At(diag.Span{Start: e.SpanStart(), End: e.SpanEnd()}).
		WithSuggestion(diag.Suggestion{Kind: "exhaustiveness", Message: hint})
}
