package canon

import "github.com/sigil-lang/sigilc/internal/ast"

// walkExpr visits e and every expression reachable from it, calling
// visit on each node in pre-order. It exists only for the shallow
// lookups canonicalization needs (finding self-calls, scanning for a
// shape); it is not a general-purpose tree transform.
func walkExpr(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch e := e.(type) {
	case *ast.FieldAccess:
		walkExpr(e.Receiver, visit)
	case *ast.IndexAccess:
		walkExpr(e.Receiver, visit)
		walkExpr(e.Index, visit)
	case *ast.BinaryOp:
		walkExpr(e.Left, visit)
		walkExpr(e.Right, visit)
	case *ast.UnaryOp:
		walkExpr(e.Operand, visit)
	case *ast.CallExpr:
		walkExpr(e.Callee, visit)
		for _, a := range e.Args {
			walkExpr(a, visit)
		}
	case *ast.LambdaExpr:
		walkExpr(e.Body, visit)
	case *ast.MatchExpr:
		walkExpr(e.Scrutinee, visit)
		for _, arm := range e.Arms {
			walkExpr(arm.Guard, visit)
			walkExpr(arm.Body, visit)
		}
	case *ast.IfExpr:
		walkExpr(e.Cond, visit)
		walkExpr(e.Then, visit)
		walkExpr(e.Else, visit)
	case *ast.LetExpr:
		walkExpr(e.Value, visit)
		walkExpr(e.Body, visit)
	case *ast.ListLit:
		for _, el := range e.Elements {
			walkExpr(el, visit)
		}
	case *ast.TupleLit:
		for _, el := range e.Elements {
			walkExpr(el, visit)
		}
	case *ast.RecordLit:
		for _, f := range e.Fields {
			walkExpr(f.Value, visit)
		}
	case *ast.ListOpExpr:
		walkExpr(e.List, visit)
		walkExpr(e.Fn, visit)
		walkExpr(e.Init, visit)
	case *ast.WithMockExpr:
		walkExpr(e.Target, visit)
		walkExpr(e.Replacement, visit)
		walkExpr(e.Body, visit)
	case *ast.AscriptionExpr:
		walkExpr(e.Value, visit)
	}
}

// selfCalls returns every CallExpr within body whose callee is a bare
// reference to name.
func selfCalls(body ast.Expr, name string) []*ast.CallExpr {
	var calls []*ast.CallExpr
	walkExpr(body, func(e ast.Expr) {
		call, ok := e.(*ast.CallExpr)
		if !ok {
			return
		}
		callee, ok := call.Callee.(*ast.IdentExpr)
		if ok && callee.Name == name {
			calls = append(calls, call)
		}
	})
	return calls
}

func identName(e ast.Expr) (string, bool) {
	id, ok := e.(*ast.IdentExpr)
	if !ok {
		return "", false
	}
	return id.Name, true
}

// accumulatorOperand reports whether arg is shaped like an in-place
// fold update of param - `param op other` or `other op param`, where
// other is itself a non-constant expression (another binding, not a
// literal). That distinction is what separates an accumulator update
// (`acc + n`, folding another variable's value in) from an ordinary
// structural decrement of a recursion measure (`n - 1`, shrinking the
// parameter by a constant) - only the former is non-canonical.
func accumulatorOperand(arg ast.Expr, param string) bool {
	bin, ok := arg.(*ast.BinaryOp)
	if !ok {
		return false
	}
	switch bin.Op {
	case "+", "-", "*", "⧺", "++":
	default:
		return false
	}
	if n, ok := identName(bin.Left); ok && n == param && !isConstantOperand(bin.Right) {
		return true
	}
	if n, ok := identName(bin.Right); ok && n == param && !isConstantOperand(bin.Left) {
		return true
	}
	return false
}

// isConstantOperand reports whether e is a literal constant - the
// shape a structural recursion measure shrinks by (`n - 1`), as
// opposed to folding in another binding's current value.
func isConstantOperand(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.StringLit, *ast.CharLit, *ast.BoolLit:
		return true
	}
	return false
}
