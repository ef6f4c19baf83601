package emit

import (
	"testing"

	"github.com/sigil-lang/sigilc/internal/ast"
)

func TestLowerPattern_ListWithRest(t *testing.T) {
	e := &emitter{}
	lw := e.lowerPattern("__match", &ast.ListPattern{
		Elements: []ast.Pattern{&ast.IdentPattern{Name: "head"}},
		Rest:     "tail",
	})

	if lw.cond != "(Array.isArray(__match) && __match.length >= 1)" {
		t.Fatalf("unexpected cond: %s", lw.cond)
	}
	if len(lw.binds) != 2 {
		t.Fatalf("expected head and tail binds, got %v", lw.binds)
	}
	if lw.binds[0] != "const head = __match[0];" {
		t.Fatalf("unexpected head bind: %s", lw.binds[0])
	}
	if lw.binds[1] != "const tail = __match.slice(1);" {
		t.Fatalf("unexpected tail bind: %s", lw.binds[1])
	}
}

func TestLowerPattern_ConstructorDestructures(t *testing.T) {
	e := &emitter{}
	lw := e.lowerPattern("__match", &ast.ConstructorPattern{
		Name: "Some",
		Args: []ast.Pattern{&ast.IdentPattern{Name: "v"}},
	})

	if lw.cond != `(__match && __match.__tag === "Some")` {
		t.Fatalf("unexpected cond: %s", lw.cond)
	}
	if len(lw.binds) != 1 || lw.binds[0] != "const v = __match.__fields[0];" {
		t.Fatalf("unexpected binds: %v", lw.binds)
	}
}

func TestLowerPattern_RecordShorthandAndNested(t *testing.T) {
	e := &emitter{}
	lw := e.lowerPattern("__match", &ast.RecordPattern{Fields: []ast.RecordFieldPattern{
		{Name: "x"},
		{Name: "y", Pattern: &ast.LitPattern{Value: &ast.IntLit{Value: 0}}},
	}})

	if lw.cond != "((__match.y === 0))" {
		t.Fatalf("unexpected cond: %s", lw.cond)
	}
	if len(lw.binds) != 1 || lw.binds[0] != "const x = __match.x;" {
		t.Fatalf("unexpected binds: %v", lw.binds)
	}
}

func TestLowerPattern_WildcardAlwaysMatches(t *testing.T) {
	e := &emitter{}
	lw := e.lowerPattern("__match", &ast.WildcardPattern{})
	if lw.cond != "true" || len(lw.binds) != 0 {
		t.Fatalf("expected trivial match, got %+v", lw)
	}
}
