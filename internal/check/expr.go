package check

import (
	"strconv"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/types"
)

// synth infers an expression's type and the effects evaluating it may
// perform ("synthesize" mode in the bidirectional discipline - used
// whenever no expected type is available from context).
func (c *Checker) synth(e ast.Expr, sc *scope) (types.Type, ast.EffectSet, *diag.Diagnostic) {
	switch e := e.(type) {
	case *ast.IntLit:
		return types.Int, nil, nil
	case *ast.FloatLit:
		return types.Float, nil, nil
	case *ast.StringLit:
		return types.String, nil, nil
	case *ast.CharLit:
		return types.Char, nil, nil
	case *ast.BoolLit:
		return types.Bool, nil, nil
	case *ast.UnitLit:
		return types.Unit, nil, nil

	case *ast.IdentExpr:
		if t, ok := sc.lookup(e.Name); ok {
			return t, nil, nil
		}
		if fn, ok := c.funcs[e.Name]; ok {
			return fn, nil, nil
		}
		if t, ok := c.consts[e.Name]; ok {
			return t, nil, nil
		}
		return nil, nil, undefined(e.Name, e)

	case *ast.QualifiedAccess:
		if len(e.Path.Segments) == 0 {
			return types.Any{}, nil, nil
		}
		if ei, ok := c.externs[e.Path.Segments[0]]; ok {
			if ei.untyped {
				return types.Any{}, nil, nil
			}
			if t, ok := ei.members[e.Member]; ok {
				return t, nil, nil
			}
			return nil, nil, diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-010",
				"extern `"+e.Path.Segments[0]+"` has no member `"+e.Member+"`").
				At(diag.Span{Start: e.SpanStart(), End: e.SpanEnd()})
		}
		path := dottedPath(e.Path.Segments)
		if mod, ok := c.importMods[path]; ok && c.importedNS[path] {
			if t, ok := mod.Values[e.Member]; ok {
				return t, nil, nil
			}
			return nil, nil, moduleNotExported(path, e.Member, e, mod)
		}
		return types.Any{}, nil, nil

	case *ast.FieldAccess:
		rt, eff, d := c.synth(e.Receiver, sc)
		if d != nil {
			return nil, nil, d
		}
		if _, ok := rt.(types.Any); ok {
			return types.Any{}, eff, nil
		}
		rec, ok := rt.(types.Record)
		if !ok {
			return nil, nil, diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-011",
				"field access on a non-record type `"+rt.String()+"`").
				At(diag.Span{Start: e.SpanStart(), End: e.SpanEnd()})
		}
		ft, ok := rec.Fields[e.Field]
		if !ok {
			return nil, nil, diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-012",
				"type `"+rec.String()+"` has no field `"+e.Field+"`").
				At(diag.Span{Start: e.SpanStart(), End: e.SpanEnd()})
		}
		return ft, eff, nil

	case *ast.IndexAccess:
		rt, eff1, d := c.synth(e.Receiver, sc)
		if d != nil {
			return nil, nil, d
		}
		eff2, d := c.check(e.Index, types.Int, sc)
		if d != nil {
			return nil, nil, d
		}
		switch rt := rt.(type) {
		case types.List:
			return rt.Elem, eff1.Union(eff2), nil
		case types.MapType:
			return rt.Value, eff1.Union(eff2), nil
		case types.Any:
			return types.Any{}, eff1.Union(eff2), nil
		}
		return nil, nil, diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-013",
			"cannot index into type `"+rt.String()+"`").
			At(diag.Span{Start: e.SpanStart(), End: e.SpanEnd()})

	case *ast.UnaryOp:
		return c.synthUnary(e, sc)

	case *ast.BinaryOp:
		return c.synthBinary(e, sc)

	case *ast.CallExpr:
		return c.synthCall(e, sc)

	case *ast.LambdaExpr:
		return c.synthLambda(e, sc)

	case *ast.MatchExpr:
		return c.synthMatch(e, sc)

	case *ast.IfExpr:
		condEff, d := c.check(e.Cond, types.Bool, sc)
		if d != nil {
			return nil, nil, d
		}
		if e.Else == nil {
			thenEff, d := c.check(e.Then, types.Unit, sc)
			if d != nil {
				return nil, nil, d
			}
			return types.Unit, condEff.Union(thenEff), nil
		}
		thenT, thenEff, d := c.synth(e.Then, sc)
		if d != nil {
			return nil, nil, d
		}
		elseEff, d := c.check(e.Else, thenT, sc)
		if d != nil {
			return nil, nil, d
		}
		return thenT, condEff.Union(thenEff).Union(elseEff), nil

	case *ast.LetExpr:
		vt, veff, d := c.synth(e.Value, sc)
		if d != nil {
			return nil, nil, d
		}
		inner := newScope(sc)
		if d := c.bindPattern(e.Pattern, vt, inner); d != nil {
			return nil, nil, d
		}
		bt, beff, d := c.synth(e.Body, inner)
		if d != nil {
			return nil, nil, d
		}
		return bt, veff.Union(beff), nil

	case *ast.ListLit:
		if len(e.Elements) == 0 {
			return nil, nil, diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-020",
				"empty list literal needs a type ascription to synthesize a type").
				At(diag.Span{Start: e.SpanStart(), End: e.SpanEnd()})
		}
		elemT, eff, d := c.synth(e.Elements[0], sc)
		if d != nil {
			return nil, nil, d
		}
		for _, el := range e.Elements[1:] {
			eeff, d := c.check(el, elemT, sc)
			if d != nil {
				return nil, nil, d
			}
			eff = eff.Union(eeff)
		}
		return types.List{Elem: elemT}, eff, nil

	case *ast.TupleLit:
		elems := make([]types.Type, len(e.Elements))
		var eff ast.EffectSet
		for i, el := range e.Elements {
			t, el2eff, d := c.synth(el, sc)
			if d != nil {
				return nil, nil, d
			}
			elems[i] = t
			eff = eff.Union(el2eff)
		}
		return types.Tuple{Elems: elems}, eff, nil

	case *ast.RecordLit:
		return c.synthRecordLit(e, sc)

	case *ast.ListOpExpr:
		return c.synthListOp(e, sc)

	case *ast.WithMockExpr:
		return c.synthWithMock(e, sc)

	case *ast.AscriptionExpr:
		t, d := c.resolveType(e.Type, nil)
		if d != nil {
			return nil, nil, d
		}
		eff, d := c.check(e.Value, t, sc)
		if d != nil {
			return nil, nil, d
		}
		return t, eff, nil
	}
	return types.Any{}, nil, nil
}

// check verifies e against an expected type ("check" mode), falling
// back to synth-then-unify for every shape that has no check-specific
// rule of its own.
func (c *Checker) check(e ast.Expr, want types.Type, sc *scope) (ast.EffectSet, *diag.Diagnostic) {
	switch e := e.(type) {
	case *ast.ListLit:
		wantList, ok := want.(types.List)
		if !ok {
			return nil, mismatch(e, want, "list")
		}
		var eff ast.EffectSet
		for _, el := range e.Elements {
			eleff, d := c.check(el, wantList.Elem, sc)
			if d != nil {
				return nil, d
			}
			eff = eff.Union(eleff)
		}
		return eff, nil

	case *ast.LambdaExpr:
		wantFn, ok := want.(types.Function)
		if !ok {
			return nil, mismatch(e, want, "function")
		}
		return c.checkLambdaAgainst(e, wantFn, sc)

	case *ast.IfExpr:
		if e.Else == nil {
			break // synthesized as Unit, then unified with want below
		}
		condEff, d := c.check(e.Cond, types.Bool, sc)
		if d != nil {
			return nil, d
		}
		thenEff, d := c.check(e.Then, want, sc)
		if d != nil {
			return nil, d
		}
		if e.Else == nil {
			return condEff.Union(thenEff), nil
		}
		elseEff, d := c.check(e.Else, want, sc)
		if d != nil {
			return nil, d
		}
		return condEff.Union(thenEff).Union(elseEff), nil

	case *ast.LetExpr:
		vt, veff, d := c.synth(e.Value, sc)
		if d != nil {
			return nil, d
		}
		inner := newScope(sc)
		if d := c.bindPattern(e.Pattern, vt, inner); d != nil {
			return nil, d
		}
		beff, d := c.check(e.Body, want, inner)
		if d != nil {
			return nil, d
		}
		return veff.Union(beff), nil

	case *ast.MatchExpr:
		return c.checkMatchAgainst(e, want, sc)
	}

	got, eff, d := c.synth(e, sc)
	if d != nil {
		return nil, d
	}
	if !types.Unifies(got, want) {
		return nil, mismatch(e, want, got.String())
	}
	return eff, nil
}

func mismatch(e ast.Expr, want types.Type, gotDesc string) *diag.Diagnostic {
	foundS, wantS := gotDesc, want.String()
	return diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-002",
		"expected type `"+wantS+"`, found `"+foundS+"`").
		At(diag.Span{Start: e.SpanStart(), End: e.SpanEnd()}).
		WithFoundExpected(foundS, wantS)
}

func undefined(name string, e ast.Expr) *diag.Diagnostic {
	return diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-000", "undefined name `"+name+"`").
		At(diag.Span{Start: e.SpanStart(), End: e.SpanEnd()})
}

func (c *Checker) synthUnary(e *ast.UnaryOp, sc *scope) (types.Type, ast.EffectSet, *diag.Diagnostic) {
	switch e.Op {
	case "-":
		t, eff, d := c.synth(e.Operand, sc)
		if d != nil {
			return nil, nil, d
		}
		if !types.IsNumeric(t) {
			return nil, nil, mismatch(e.Operand, types.Int, t.String())
		}
		return t, eff, nil
	case "¬":
		eff, d := c.check(e.Operand, types.Bool, sc)
		return types.Bool, eff, d
	case "#":
		t, eff, d := c.synth(e.Operand, sc)
		if d != nil {
			return nil, nil, d
		}
		if _, ok := t.(types.List); !ok {
			if _, ok := t.(types.Any); !ok {
				return nil, nil, mismatch(e.Operand, types.List{Elem: types.Any{}}, t.String())
			}
		}
		return types.Int, eff, nil
	}
	return types.Any{}, nil, nil
}

func (c *Checker) synthBinary(e *ast.BinaryOp, sc *scope) (types.Type, ast.EffectSet, *diag.Diagnostic) {
	switch e.Op {
	case "+", "-", "*", "/", "%", "^":
		lt, leff, d := c.synth(e.Left, sc)
		if d != nil {
			return nil, nil, d
		}
		if !types.IsNumeric(lt) {
			return nil, nil, mismatch(e.Left, types.Int, lt.String())
		}
		reff, d := c.check(e.Right, lt, sc)
		if d != nil {
			return nil, nil, d
		}
		return lt, leff.Union(reff), nil

	case "⧺", "++":
		lt, leff, d := c.synth(e.Left, sc)
		if d != nil {
			return nil, nil, d
		}
		if _, ok := lt.(types.List); !ok {
			if _, ok := lt.(types.Any); !ok {
				return nil, nil, mismatch(e.Left, types.List{Elem: types.Any{}}, lt.String())
			}
		}
		reff, d := c.check(e.Right, lt, sc)
		if d != nil {
			return nil, nil, d
		}
		return lt, leff.Union(reff), nil

	case "=", "≠":
		lt, leff, d := c.synth(e.Left, sc)
		if d != nil {
			return nil, nil, d
		}
		reff, d := c.check(e.Right, lt, sc)
		if d != nil {
			return nil, nil, d
		}
		return types.Bool, leff.Union(reff), nil

	case "<", ">", "≤", "≥":
		lt, leff, d := c.synth(e.Left, sc)
		if d != nil {
			return nil, nil, d
		}
		if !types.IsNumeric(lt) {
			return nil, nil, mismatch(e.Left, types.Int, lt.String())
		}
		reff, d := c.check(e.Right, lt, sc)
		if d != nil {
			return nil, nil, d
		}
		return types.Bool, leff.Union(reff), nil

	case "∧", "∨":
		leff, d := c.check(e.Left, types.Bool, sc)
		if d != nil {
			return nil, nil, d
		}
		reff, d := c.check(e.Right, types.Bool, sc)
		if d != nil {
			return nil, nil, d
		}
		return types.Bool, leff.Union(reff), nil

	case "|>":
		argT, leff, d := c.synth(e.Left, sc)
		if d != nil {
			return nil, nil, d
		}
		fnT, reff, d := c.synth(e.Right, sc)
		if d != nil {
			return nil, nil, d
		}
		fn, ok := fnT.(types.Function)
		if !ok {
			if _, ok := fnT.(types.Any); ok {
				return types.Any{}, leff.Union(reff), nil
			}
			return nil, nil, mismatch(e.Right, types.Function{}, fnT.String())
		}
		if len(fn.Params) != 1 || !types.Unifies(argT, fn.Params[0]) {
			return nil, nil, mismatch(e.Left, fn.Params[0], argT.String())
		}
		return fn.Return, leff.Union(reff).Union(fn.Effects), nil
	}
	return types.Any{}, nil, nil
}

func (c *Checker) synthCall(e *ast.CallExpr, sc *scope) (types.Type, ast.EffectSet, *diag.Diagnostic) {
	fnT, eff, d := c.synth(e.Callee, sc)
	if d != nil {
		return nil, nil, d
	}
	fn, ok := fnT.(types.Function)
	if !ok {
		if _, ok := fnT.(types.Any); ok {
			for _, a := range e.Args {
				_, aeff, d := c.synth(a, sc)
				if d != nil {
					return nil, nil, d
				}
				eff = eff.Union(aeff)
			}
			return types.Any{}, eff, nil
		}
		return nil, nil, diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-030",
			"called value of type `"+fnT.String()+"` is not a function").
			At(diag.Span{Start: e.SpanStart(), End: e.SpanEnd()})
	}
	if len(e.Args) != len(fn.Params) {
		return nil, nil, diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-031",
			"expected "+strconv.Itoa(len(fn.Params))+" argument(s), found "+strconv.Itoa(len(e.Args))).
			At(diag.Span{Start: e.SpanStart(), End: e.SpanEnd()})
	}
	for i, a := range e.Args {
		aeff, d := c.check(a, fn.Params[i], sc)
		if d != nil {
			return nil, nil, d
		}
		eff = eff.Union(aeff)
	}
	return fn.Return, eff.Union(fn.Effects), nil
}

func (c *Checker) synthLambda(e *ast.LambdaExpr, sc *scope) (types.Type, ast.EffectSet, *diag.Diagnostic) {
	inner := newScope(sc)
	params := make([]types.Type, len(e.Params))
	for i, p := range e.Params {
		t, d := c.resolveType(p.Type, e.TypeParams)
		if d != nil {
			return nil, nil, d
		}
		params[i] = t
		inner.define(p.Name.Name, t, p.IsMutable)
	}
	ret, d := c.resolveType(e.Return, e.TypeParams)
	if d != nil {
		return nil, nil, d
	}
	beff, d := c.check(e.Body, ret, inner)
	if d != nil {
		return nil, nil, d
	}
	if missing := beff.Missing(e.Effects); len(missing) > 0 {
		return nil, nil, effectDiag(e, missing)
	}
	return types.Function{Params: params, Return: ret, Effects: e.Effects}, nil, nil
}

func (c *Checker) checkLambdaAgainst(e *ast.LambdaExpr, want types.Function, sc *scope) (ast.EffectSet, *diag.Diagnostic) {
	got, _, d := c.synthLambda(e, sc)
	if d != nil {
		return nil, d
	}
	if !types.Unifies(got, want) {
		return nil, mismatch(e, want, got.String())
	}
	return nil, nil
}

func (c *Checker) synthRecordLit(e *ast.RecordLit, sc *scope) (types.Type, ast.EffectSet, *diag.Diagnostic) {
	var eff ast.EffectSet
	fields := map[string]types.Type{}
	if e.TypeName != "" {
		ti, ok := c.typesByName[e.TypeName]
		if !ok || ti.fields == nil {
			return nil, nil, diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-040",
				"`"+e.TypeName+"` is not a struct type").
				At(diag.Span{Start: e.SpanStart(), End: e.SpanEnd()})
		}
		for _, fv := range e.Fields {
			want, ok := ti.fields[fv.Name]
			if !ok {
				return nil, nil, diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-041",
					"`"+e.TypeName+"` has no field `"+fv.Name+"`").
					At(diag.Span{Start: e.SpanStart(), End: e.SpanEnd()})
			}
			feff, d := c.check(fv.Value, want, sc)
			if d != nil {
				return nil, nil, d
			}
			fields[fv.Name] = want
			eff = eff.Union(feff)
		}
		return types.Record{Name: e.TypeName, Fields: ti.fields}, eff, nil
	}
	for _, fv := range e.Fields {
		t, feff, d := c.synth(fv.Value, sc)
		if d != nil {
			return nil, nil, d
		}
		fields[fv.Name] = t
		eff = eff.Union(feff)
	}
	return types.Record{Fields: fields}, eff, nil
}

func (c *Checker) synthListOp(e *ast.ListOpExpr, sc *scope) (types.Type, ast.EffectSet, *diag.Diagnostic) {
	listT, leff, d := c.synth(e.List, sc)
	if d != nil {
		return nil, nil, d
	}
	lst, ok := listT.(types.List)
	if !ok {
		if _, ok := listT.(types.Any); ok {
			lst = types.List{Elem: types.Any{}}
		} else {
			return nil, nil, mismatch(e.List, types.List{Elem: types.Any{}}, listT.String())
		}
	}
	fnT, feff, d := c.synth(e.Fn, sc)
	if d != nil {
		return nil, nil, d
	}
	fn, ok := fnT.(types.Function)
	if !ok {
		if _, ok := fnT.(types.Any); ok {
			return types.Any{}, leff.Union(feff), nil
		}
		return nil, nil, mismatch(e.Fn, types.Function{}, fnT.String())
	}

	switch e.Kind {
	case ast.ListOpMap:
		if len(fn.Params) != 1 || !types.Unifies(lst.Elem, fn.Params[0]) {
			return nil, nil, mismatch(e.Fn, types.Function{Params: []types.Type{lst.Elem}}, fnT.String())
		}
		return types.List{Elem: fn.Return}, leff.Union(feff).Union(fn.Effects), nil
	case ast.ListOpFilter:
		if len(fn.Params) != 1 || !types.Unifies(lst.Elem, fn.Params[0]) || !types.Equal(fn.Return, types.Bool) {
			return nil, nil, mismatch(e.Fn, types.Function{Params: []types.Type{lst.Elem}, Return: types.Bool}, fnT.String())
		}
		return lst, leff.Union(feff).Union(fn.Effects), nil
	case ast.ListOpFold:
		initT, ieff, d := c.synth(e.Init, sc)
		if d != nil {
			return nil, nil, d
		}
		if len(fn.Params) != 2 || !types.Unifies(initT, fn.Params[0]) || !types.Unifies(lst.Elem, fn.Params[1]) || !types.Unifies(fn.Return, initT) {
			return nil, nil, diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-042",
				"fold function shape does not match accumulator and element types").
				At(diag.Span{Start: e.Fn.SpanStart(), End: e.Fn.SpanEnd()})
		}
		return initT, leff.Union(feff).Union(ieff).Union(fn.Effects), nil
	}
	return types.Any{}, nil, nil
}

// synthWithMock enforces with_mock's target-eligibility rule before
// checking the replacement: the target must be a member access on an
// extern namespace (replacement must then be a Sigil-typed function,
// not `Any`) or a reference to a function declared `mockable`
// (replacement must then match that function's type exactly).
func (c *Checker) synthWithMock(e *ast.WithMockExpr, sc *scope) (types.Type, ast.EffectSet, *diag.Diagnostic) {
	eligible, isExternTarget := c.mockTargetKind(e.Target)
	if !eligible {
		return nil, nil, diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-043",
			"with_mock target must be a member access on an extern namespace or a reference to a function declared `mockable`").
			At(diag.Span{Start: e.Target.SpanStart(), End: e.Target.SpanEnd()})
	}

	targetT, teff, d := c.synth(e.Target, sc)
	if d != nil {
		return nil, nil, d
	}

	var reff ast.EffectSet
	if isExternTarget {
		repT, reffSynth, d := c.synth(e.Replacement, sc)
		if d != nil {
			return nil, nil, d
		}
		if _, isAny := repT.(types.Any); isAny {
			return nil, nil, diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-044",
				"with_mock replacement for an extern target must be a Sigil-typed function, not `Any`").
				At(diag.Span{Start: e.Replacement.SpanStart(), End: e.Replacement.SpanEnd()})
		}
		reff = reffSynth
	} else {
		reffCheck, d := c.check(e.Replacement, targetT, sc)
		if d != nil {
			return nil, nil, d
		}
		reff = reffCheck
	}

	bt, beff, d := c.synth(e.Body, sc)
	if d != nil {
		return nil, nil, d
	}
	return bt, teff.Union(reff).Union(beff), nil
}

// mockTargetKind reports whether target is an eligible with_mock
// target and, if so, whether it names an extern namespace member
// rather than a mockable function reference.
func (c *Checker) mockTargetKind(target ast.Expr) (eligible, isExternTarget bool) {
	switch t := target.(type) {
	case *ast.QualifiedAccess:
		if len(t.Path.Segments) > 0 {
			if _, ok := c.externs[t.Path.Segments[0]]; ok {
				return true, true
			}
		}
	case *ast.IdentExpr:
		if fd, ok := c.funcDecls[t.Name]; ok && fd.IsMockable {
			return true, false
		}
	}
	return false, false
}

func effectDiag(e ast.Node, missing []ast.Effect) *diag.Diagnostic {
	names := ""
	for i, m := range missing {
		if i > 0 {
			names += ", "
		}
		names += string(m)
	}
	return diag.New(diag.PhaseTypechecker, "SIGIL-TYPE-050",
		"body performs undeclared effect(s): "+names).
		At(diag.Span{Start: e.SpanStart(), End: e.SpanEnd()})
}
