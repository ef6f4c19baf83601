package check

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

// checkFunctionBody checks one function's body against its own
// declared return type and effect set, called once per declaration by
// CheckFile (internal/check/imports.go).
func (c *Checker) checkFunctionBody(fd *ast.FunctionDecl) *diag.Diagnostic {
	sc := newScope(nil)
	fn := c.funcs[fd.Name.Name]
	for i, p := range fd.Params {
		sc.define(p.Name.Name, fn.Params[i], p.IsMutable)
	}
	eff, d := c.check(fd.Body, fn.Return, sc)
	if d != nil {
		return d
	}
	if missing := eff.Missing(fd.Effects); len(missing) > 0 {
		return effectDiag(fd, missing)
	}
	return nil
}
