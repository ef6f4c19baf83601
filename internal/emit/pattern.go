package emit

import (
	"fmt"
	"strings"

	"github.com/sigil-lang/sigilc/internal/ast"
)

// patternLowering is a compiled pattern: cond is a JS boolean
// expression (possibly "true") that must hold for path to match, and
// binds is the ordered list of `const name = ...;` statements that
// introduce the pattern's bindings - valid to emit only once cond is
// known true.
type patternLowering struct {
	cond  string
	binds []string
}

// lowerPattern recursively compiles p against path, a JS expression
// string referring to the value being matched (e.g. "__match" or
// "__match.__fields[0]").
func (e *emitter) lowerPattern(path string, p ast.Pattern) patternLowering {
	switch p := p.(type) {
	case *ast.LitPattern:
		return patternLowering{cond: fmt.Sprintf("(%s === %s)", path, e.emitExpr(p.Value))}

	case *ast.IdentPattern:
		return patternLowering{cond: "true", binds: []string{fmt.Sprintf("const %s = %s;", p.Name, path)}}

	case *ast.WildcardPattern:
		return patternLowering{cond: "true"}

	case *ast.ListPattern:
		n := len(p.Elements)
		var lenCheck string
		if p.Rest != "" {
			lenCheck = fmt.Sprintf("Array.isArray(%s) && %s.length >= %d", path, path, n)
		} else {
			lenCheck = fmt.Sprintf("Array.isArray(%s) && %s.length === %d", path, path, n)
		}
		conds := []string{lenCheck}
		var binds []string
		for i, el := range p.Elements {
			sub := e.lowerPattern(fmt.Sprintf("%s[%d]", path, i), el)
			if sub.cond != "true" {
				conds = append(conds, sub.cond)
			}
			binds = append(binds, sub.binds...)
		}
		if p.Rest != "" {
			binds = append(binds, fmt.Sprintf("const %s = %s.slice(%d);", p.Rest, path, n))
		}
		return patternLowering{cond: joinConds(conds), binds: binds}

	case *ast.TuplePattern:
		conds := []string{fmt.Sprintf("Array.isArray(%s) && %s.length === %d", path, path, len(p.Elements))}
		var binds []string
		for i, el := range p.Elements {
			sub := e.lowerPattern(fmt.Sprintf("%s[%d]", path, i), el)
			if sub.cond != "true" {
				conds = append(conds, sub.cond)
			}
			binds = append(binds, sub.binds...)
		}
		return patternLowering{cond: joinConds(conds), binds: binds}

	case *ast.RecordPattern:
		var conds []string
		var binds []string
		for _, fp := range p.Fields {
			fieldPath := fmt.Sprintf("%s.%s", path, fp.Name)
			if fp.Pattern == nil {
				binds = append(binds, fmt.Sprintf("const %s = %s;", fp.Name, fieldPath))
				continue
			}
			sub := e.lowerPattern(fieldPath, fp.Pattern)
			if sub.cond != "true" {
				conds = append(conds, sub.cond)
			}
			binds = append(binds, sub.binds...)
		}
		return patternLowering{cond: joinConds(conds), binds: binds}

	case *ast.ConstructorPattern:
		conds := []string{fmt.Sprintf("%s && %s.__tag === %q", path, path, p.Name)}
		var binds []string
		for i, a := range p.Args {
			sub := e.lowerPattern(fmt.Sprintf("%s.__fields[%d]", path, i), a)
			if sub.cond != "true" {
				conds = append(conds, sub.cond)
			}
			binds = append(binds, sub.binds...)
		}
		return patternLowering{cond: joinConds(conds), binds: binds}
	}
	return patternLowering{cond: "true"}
}

func joinConds(conds []string) string {
	nonTrivial := conds[:0:0]
	for _, c := range conds {
		if c != "" {
			nonTrivial = append(nonTrivial, c)
		}
	}
	if len(nonTrivial) == 0 {
		return "true"
	}
	return "(" + strings.Join(nonTrivial, " && ") + ")"
}
