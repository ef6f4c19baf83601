package canon

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

// checkRecursionShape rejects the non-canonical recursive shapes:
// accumulator-style parameter threading, continuation-passing style,
// and collection-encoded state. A function that never calls itself has
// nothing to check here - its shape is whatever the type checker
// decides.
func checkRecursionShape(fn *ast.FunctionDecl, file *ast.File) *diag.Diagnostic {
	calls := selfCalls(fn.Body, fn.Name.Name)
	if len(calls) == 0 {
		return nil
	}

	if ret, ok := fn.Return.(*ast.FunctionType); ok {
		return diag.New(diag.PhaseCanonical, "SIGIL-CANON-010",
			"recursive function `"+fn.Name.Name+"` returns a function type").
			At(diag.Span{Start: ret.SpanStart(), End: ret.SpanEnd()}).
			WithSuggestion(diag.Suggestion{Kind: "rewrite", Message: "continuation-passing recursion is not canonical form; return the result directly"})
	}

	for _, call := range calls {
		for i, arg := range call.Args {
			if i >= len(fn.Params) {
				break
			}
			param := fn.Params[i].Name.Name
			if accumulatorOperand(arg, param) {
				return diag.New(diag.PhaseCanonical, "SIGIL-CANON-011",
					"parameter `"+param+"` of `"+fn.Name.Name+"` is threaded as an accumulator").
					At(diag.Span{Start: arg.SpanStart(), End: arg.SpanEnd()}).
					WithSuggestion(diag.Suggestion{Kind: "rewrite", Message: "express this recursion structurally - recurse on a sub-part of the input and combine results on the way back out"})
			}
		}
	}

	if d := checkCollectionState(fn, calls, file); d != nil {
		return d
	}
	return nil
}

// checkCollectionState enforces structural recursion on a sole
// collection-like parameter (list, tuple, map, or user record with 2+
// fields): fn.Body must contain a match directly on that parameter
// with at least one destructuring arm, no recursive call may pass the
// parameter through unchanged, and a fixed-size no-rest list pattern
// like `[n, acc]` is rejected as state-encoding rather than structural
// decomposition.
func checkCollectionState(fn *ast.FunctionDecl, calls []*ast.CallExpr, file *ast.File) *diag.Diagnostic {
	if len(fn.Params) != 1 {
		return nil
	}
	param := fn.Params[0]
	if !isCollectionLikeType(param.Type, file) {
		return nil
	}
	name := param.Name.Name

	for _, call := range calls {
		if len(call.Args) != 1 {
			continue
		}
		if n, ok := identName(call.Args[0]); ok && n == name {
			return diag.New(diag.PhaseCanonical, "SIGIL-CANON-012",
				"parameter `"+name+"` of `"+fn.Name.Name+"` is passed unchanged to a recursive call").
				At(diag.Span{Start: call.Args[0].SpanStart(), End: call.Args[0].SpanEnd()}).
				WithSuggestion(diag.Suggestion{Kind: "rewrite", Message: "structural recursion over a collection parameter must recurse on a destructured sub-part of it, not the original value"})
		}
	}

	var matchOnParam *ast.MatchExpr
	walkExpr(fn.Body, func(e ast.Expr) {
		if matchOnParam != nil {
			return
		}
		m, ok := e.(*ast.MatchExpr)
		if !ok {
			return
		}
		if n, ok := identName(m.Scrutinee); ok && n == name {
			matchOnParam = m
		}
	})
	if matchOnParam == nil {
		return diag.New(diag.PhaseCanonical, "SIGIL-CANON-012",
			"recursive function `"+fn.Name.Name+"` takes a collection-like sole parameter `"+name+"` but never matches it").
			At(diag.Span{Start: fn.SpanStart(), End: fn.SpanEnd()}).
			WithSuggestion(diag.Suggestion{Kind: "rewrite", Message: "add a match on `" + name + "` with at least one arm that destructures it"})
	}

	destructures := false
	for _, arm := range matchOnParam.Arms {
		if lp, ok := arm.Pattern.(*ast.ListPattern); ok && lp.Rest == "" && len(lp.Elements) > 0 {
			return diag.New(diag.PhaseCanonical, "SIGIL-CANON-012",
				"fixed-size list pattern in `"+fn.Name.Name+"` encodes state instead of destructuring `"+name+"` structurally").
				At(diag.Span{Start: lp.SpanStart(), End: lp.SpanEnd()}).
				WithSuggestion(diag.Suggestion{Kind: "rewrite", Message: "use a rest binding (e.g. `[x, .xs]`) rather than a fixed-size list pattern to carry accumulator state"})
		}
		if isDestructuringPattern(arm.Pattern) {
			destructures = true
		}
	}
	if !destructures {
		return diag.New(diag.PhaseCanonical, "SIGIL-CANON-012",
			"match on `"+name+"` in `"+fn.Name.Name+"` has no arm that destructures it").
			At(diag.Span{Start: matchOnParam.SpanStart(), End: matchOnParam.SpanEnd()}).
			WithSuggestion(diag.Suggestion{Kind: "rewrite", Message: "add an arm that destructures `" + name + "` (e.g. `[x, .xs]`, a tuple pattern, or a record pattern)"})
	}
	return nil
}

// isDestructuringPattern reports whether p decomposes its scrutinee
// into sub-parts, as opposed to binding or ignoring it wholesale.
func isDestructuringPattern(p ast.Pattern) bool {
	switch p.(type) {
	case *ast.ListPattern, *ast.TuplePattern, *ast.RecordPattern, *ast.ConstructorPattern:
		return true
	}
	return false
}

// isCollectionLikeType reports whether t is one of the four shapes the
// collection-encoded-state rule treats as collection-like: a list,
// tuple, map, or user record with 2 or more fields. canon runs before
// internal/types exists, so a named record reference is resolved
// syntactically against file's own type declarations.
func isCollectionLikeType(t ast.TypeExpr, file *ast.File) bool {
	switch t := t.(type) {
	case *ast.ListType, *ast.TupleType, *ast.MapType:
		return true
	case *ast.RecordType:
		return len(t.FieldOrder) >= 2
	case *ast.ConstructorType:
		if len(t.Args) > 0 {
			return false
		}
		return namedRecordHasMultipleFields(t.Name.Name, file)
	}
	return false
}

func namedRecordHasMultipleFields(name string, file *ast.File) bool {
	for _, decl := range file.Decls {
		td, ok := decl.(*ast.TypeDecl)
		if !ok || td.Name.Name != name {
			continue
		}
		sb, ok := td.Body.(*ast.StructBody)
		if !ok {
			return false
		}
		return len(sb.Fields) >= 2
	}
	return false
}
