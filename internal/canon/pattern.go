package canon

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

// checkMatchCanonicality rejects the one redundant match shape the
// grammar otherwise permits: matching on `x = true` / `x = false`
// instead of matching x itself with boolean-literal patterns. Both
// forms are semantically identical, so canonical form picks one.
func checkMatchCanonicality(fn *ast.FunctionDecl) *diag.Diagnostic {
	var found *diag.Diagnostic
	walkExpr(fn.Body, func(e ast.Expr) {
		if found != nil {
			return
		}
		m, ok := e.(*ast.MatchExpr)
		if !ok {
			return
		}
		bin, ok := m.Scrutinee.(*ast.BinaryOp)
		if !ok || bin.Op != "=" {
			return
		}
		if isBoolLitOverIdent(bin.Left, bin.Right) || isBoolLitOverIdent(bin.Right, bin.Left) {
			found = diag.New(diag.PhaseCanonical, "SIGIL-CANON-020",
				"match scrutinee compares a value to a boolean literal instead of matching it directly").
				At(diag.Span{Start: bin.SpanStart(), End: bin.SpanEnd()}).
				WithSuggestion(diag.Suggestion{Kind: "rewrite", Message: "match the value itself with true/false patterns instead of matching on an equality comparison"})
		}
	})
	return found
}

func isBoolLitOverIdent(ident, lit ast.Expr) bool {
	if _, ok := ident.(*ast.IdentExpr); !ok {
		return false
	}
	_, ok := lit.(*ast.BoolLit)
	return ok
}
