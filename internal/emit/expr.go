package emit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/sigil-lang/sigilc/internal/ast"
)

// emitter carries the small amount of whole-file context expression
// lowering needs: which function names are mockable (so a call
// routes through __sigil_call) and which identifiers name a sum-type
// constructor (so a call is a plain synchronous factory invocation,
// never awaited, never mock-routed).
type emitter struct {
	mockable     map[string]bool
	constructors map[string]bool
	importPath   func(segments []string) string
}

func isUpper(name string) bool {
	if name == "" {
		return false
	}
	r := []rune(name)[0]
	return unicode.IsUpper(r)
}

func jsIdent(segments []string) string {
	return strings.Join(segments, "_")
}

// emitExpr lowers e to a single self-contained JS expression string.
// Every sub-call is already `await`-wrapped where needed, so the
// result can always be embedded directly into a larger expression.
func (e *emitter) emitExpr(expr ast.Expr) string {
	switch expr := expr.(type) {
	case *ast.IntLit:
		return strconv.FormatInt(expr.Value, 10)
	case *ast.FloatLit:
		return strconv.FormatFloat(expr.Value, 'g', -1, 64)
	case *ast.StringLit:
		return strconv.Quote(expr.Value)
	case *ast.CharLit:
		return strconv.Quote(string(expr.Value))
	case *ast.BoolLit:
		if expr.Value {
			return "true"
		}
		return "false"
	case *ast.UnitLit:
		return "undefined"

	case *ast.IdentExpr:
		return expr.Name

	case *ast.QualifiedAccess:
		return fmt.Sprintf("%s.%s", jsIdent(expr.Path.Segments), expr.Member)

	case *ast.FieldAccess:
		return fmt.Sprintf("%s.%s", e.emitExpr(expr.Receiver), expr.Field)

	case *ast.IndexAccess:
		return fmt.Sprintf("%s[%s]", e.emitExpr(expr.Receiver), e.emitExpr(expr.Index))

	case *ast.UnaryOp:
		return e.emitUnary(expr)

	case *ast.BinaryOp:
		return e.emitBinary(expr)

	case *ast.CallExpr:
		return e.emitCall(expr)

	case *ast.LambdaExpr:
		return e.emitLambda(expr)

	case *ast.MatchExpr:
		return e.emitMatch(expr)

	case *ast.IfExpr:
		return e.emitIf(expr)

	case *ast.LetExpr:
		return e.emitLet(expr)

	case *ast.ListLit:
		return e.emitListLit(expr)

	case *ast.TupleLit:
		parts := make([]string, len(expr.Elements))
		for i, el := range expr.Elements {
			parts[i] = e.emitExpr(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"

	case *ast.RecordLit:
		return e.emitRecordLit(expr)

	case *ast.ListOpExpr:
		return e.emitListOp(expr)

	case *ast.WithMockExpr:
		return e.emitWithMock(expr)

	case *ast.AscriptionExpr:
		return e.emitExpr(expr.Value)
	}
	return "undefined"
}

func (e *emitter) emitUnary(u *ast.UnaryOp) string {
	operand := e.emitExpr(u.Operand)
	switch u.Op {
	case "-":
		return "(-" + operand + ")"
	case "¬":
		return "(!" + operand + ")"
	case "#":
		return "__sigil_len(" + operand + ")"
	case ".rest":
		return "..." + operand
	}
	return operand
}

var jsBinaryOp = map[string]string{
	"+": "+", "-": "-", "*": "*", "/": "/", "%": "%", "^": "**",
	"∧": "&&", "∨": "||",
	"=": "===", "≠": "!==",
	"<": "<", ">": ">", "≤": "<=", "≥": ">=",
}

func (e *emitter) emitBinary(b *ast.BinaryOp) string {
	left, right := e.emitExpr(b.Left), e.emitExpr(b.Right)
	switch b.Op {
	case "⧺", "++":
		return fmt.Sprintf("__sigil_concat(%s, %s)", left, right)
	case "|>":
		return fmt.Sprintf("(await (%s)(%s))", right, left)
	}
	if op, ok := jsBinaryOp[b.Op]; ok {
		return fmt.Sprintf("(%s %s %s)", left, op, right)
	}
	return fmt.Sprintf("(%s %s %s)", left, b.Op, right)
}

func (e *emitter) emitCall(c *ast.CallExpr) string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = e.emitExpr(a)
	}
	argList := strings.Join(args, ", ")

	if callee, ok := c.Callee.(*ast.IdentExpr); ok {
		if isUpper(callee.Name) && e.constructors[callee.Name] {
			return fmt.Sprintf("%s(%s)", callee.Name, argList)
		}
		if e.mockable[callee.Name] {
			return fmt.Sprintf("(await __sigil_call(%q, %s, [%s]))", callee.Name, callee.Name, argList)
		}
	}
	return fmt.Sprintf("(await (%s)(%s))", e.emitExpr(c.Callee), argList)
}

func (e *emitter) emitLambda(l *ast.LambdaExpr) string {
	names := make([]string, len(l.Params))
	for i, p := range l.Params {
		names[i] = p.Name.Name
	}
	return fmt.Sprintf("(async (%s) => { return %s; })", strings.Join(names, ", "), e.emitExpr(l.Body))
}

func (e *emitter) emitMatch(m *ast.MatchExpr) string {
	var b strings.Builder
	b.WriteString("(await (async () => {\n")
	b.WriteString("  const __match = " + e.emitExpr(m.Scrutinee) + ";\n")
	for _, arm := range m.Arms {
		lw := e.lowerPattern("__match", arm.Pattern)
		b.WriteString("  if (" + lw.cond + ") {\n")
		for _, bind := range lw.binds {
			b.WriteString("    " + bind + "\n")
		}
		body := "    return " + e.emitExpr(arm.Body) + ";\n"
		if arm.Guard != nil {
			b.WriteString("    if (" + e.emitExpr(arm.Guard) + ") {\n")
			b.WriteString("  " + body)
			b.WriteString("    }\n")
		} else {
			b.WriteString(body)
		}
		b.WriteString("  }\n")
	}
	b.WriteString("  throw new Error('Match failed: no pattern matched');\n")
	b.WriteString("})())")
	return b.String()
}

func (e *emitter) emitIf(i *ast.IfExpr) string {
	cond := e.emitExpr(i.Cond)
	then := e.emitExpr(i.Then)
	if i.Else == nil {
		return fmt.Sprintf("(%s ? (%s) : undefined)", cond, then)
	}
	return fmt.Sprintf("(%s ? (%s) : (%s))", cond, then, e.emitExpr(i.Else))
}

func (e *emitter) emitLet(l *ast.LetExpr) string {
	var b strings.Builder
	b.WriteString("(await (async () => {\n")
	b.WriteString("  const __let = " + e.emitExpr(l.Value) + ";\n")
	lw := e.lowerPattern("__let", l.Pattern)
	for _, bind := range lw.binds {
		b.WriteString("  " + bind + "\n")
	}
	b.WriteString("  return " + e.emitExpr(l.Body) + ";\n")
	b.WriteString("})())")
	return b.String()
}

func (e *emitter) emitListLit(l *ast.ListLit) string {
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = e.emitExpr(el)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (e *emitter) emitRecordLit(r *ast.RecordLit) string {
	if r.TypeName != "" {
		parts := make([]string, len(r.Fields))
		for i, f := range r.Fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, e.emitExpr(f.Value))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	}
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, e.emitExpr(f.Value))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (e *emitter) emitListOp(l *ast.ListOpExpr) string {
	list := e.emitExpr(l.List)
	fn := e.emitExpr(l.Fn)
	switch l.Kind {
	case ast.ListOpMap:
		return fmt.Sprintf("(await __sigil_map(%s, %s))", list, fn)
	case ast.ListOpFilter:
		return fmt.Sprintf("(await __sigil_filter(%s, %s))", list, fn)
	case ast.ListOpFold:
		return fmt.Sprintf("(await __sigil_fold(%s, %s, %s))", list, fn, e.emitExpr(l.Init))
	}
	return "undefined"
}

func (e *emitter) emitWithMock(w *ast.WithMockExpr) string {
	bodyFn := fmt.Sprintf("(async () => { return %s; })", e.emitExpr(w.Body))
	if qa, ok := w.Target.(*ast.QualifiedAccess); ok {
		ns := jsIdent(qa.Path.Segments)
		return fmt.Sprintf("(await __sigil_with_mock_extern(%s, %q, %s, %s))",
			ns, qa.Member, e.emitExpr(w.Replacement), bodyFn)
	}
	if id, ok := w.Target.(*ast.IdentExpr); ok {
		return fmt.Sprintf("(await __sigil_with_mock(%q, %s, %s))", id.Name, e.emitExpr(w.Replacement), bodyFn)
	}
	return bodyFn + "()"
}
