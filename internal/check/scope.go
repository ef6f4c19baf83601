package check

import "github.com/sigil-lang/sigilc/internal/types"

// scope is a chain of lexical binding frames: lambda params, let
// bindings, and match-arm pattern bindings each push one frame.
type scope struct {
	parent *scope
	vars   map[string]types.Type
	mut    map[string]bool
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: map[string]types.Type{}, mut: map[string]bool{}}
}

func (s *scope) define(name string, t types.Type, mutable bool) {
	s.vars[name] = t
	s.mut[name] = mutable
}

func (s *scope) lookup(name string) (types.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (s *scope) isMutable(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			return cur.mut[name]
		}
	}
	return false
}
