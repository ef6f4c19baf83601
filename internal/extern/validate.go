package extern

import (
	"bytes"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

// Validator runs the link-time extern check over one file, caching
// every manifest it loads this compilation (the compiler's own
// module-level mutable state, besides the loaded-module cache itself,
// is otherwise empty - this avoids global mutable state,
// this cache is safe to reset per compilation and is never shared
// across Validator instances).
type Validator struct {
	Loader Loader

	cache map[string]*Manifest
	// Cache, when non-nil, receives one varint-framed DescriptorProto
	// per distinct host module loaded this run - the on-disk
	// `.sigil-extern-cache` protocol from descriptor.go. Left nil, no
	// descriptor cache is written (e.g. in tests).
	Cache *bytes.Buffer
}

func NewValidator(loader Loader) *Validator {
	return &Validator{Loader: loader, cache: map[string]*Manifest{}}
}

// Validate walks file for every ExternDecl, loads its manifest, and
// checks every QualifiedAccess rooted at that extern's name against
// the manifest's declared members. It reports the first violation in
// declaration order, each as SIGIL-LINK-UNKNOWN-MEMBER with
// Levenshtein-nearest candidate names from the loaded namespace.
func (v *Validator) Validate(file *ast.File) *diag.Diagnostic {
	externs := map[string]string{} // decl name -> host path
	for _, decl := range file.Decls {
		ed, ok := decl.(*ast.ExternDecl)
		if !ok {
			continue
		}
		externs[ed.Name.Name] = ed.HostPath
		if _, err := v.load(ed.HostPath); err != nil {
			return diag.New(diag.PhaseLinker, "SIGIL-LINK-MANIFEST-NOT-FOUND",
				"could not load host module manifest for extern `"+ed.Name.Name+"` ("+ed.HostPath+")").
				At(diag.Span{Start: ed.SpanStart(), End: ed.SpanEnd()})
		}
	}

	var found *diag.Diagnostic
	for _, decl := range file.Decls {
		if found != nil {
			break
		}
		var body ast.Expr
		switch decl := decl.(type) {
		case *ast.FunctionDecl:
			body = decl.Body
		case *ast.ConstDecl:
			body = decl.Value
		case *ast.TestDecl:
			body = decl.Body
		default:
			continue
		}
		walkExpr(body, func(e ast.Expr) {
			if found != nil {
				return
			}
			qa, ok := e.(*ast.QualifiedAccess)
			if !ok || len(qa.Path.Segments) == 0 {
				return
			}
			hostPath, isExtern := externs[qa.Path.Segments[0]]
			if !isExtern {
				return
			}
			m, _ := v.load(hostPath)
			if m.Has(qa.Member) {
				return
			}
			found = unknownMember(qa, m)
		})
	}
	return found
}

func (v *Validator) load(hostPath string) (*Manifest, error) {
	if m, ok := v.cache[hostPath]; ok {
		return m, nil
	}
	m, err := v.Loader.Load(hostPath)
	if err != nil {
		return nil, err
	}
	v.cache[hostPath] = m
	if v.Cache != nil {
		_ = WriteCacheEntry(v.Cache, BuildDescriptor(m))
	}
	return m, nil
}

func unknownMember(qa *ast.QualifiedAccess, m *Manifest) *diag.Diagnostic {
	d := diag.New(diag.PhaseLinker, "SIGIL-LINK-UNKNOWN-MEMBER",
		"host module has no exported member `"+qa.Member+"`").
		At(diag.Span{Start: qa.SpanStart(), End: qa.SpanEnd()})
	candidates := nearestCandidates(qa.Member, m.Names(), 3)
	if len(candidates) > 0 {
		d = d.WithDetail("candidates", candidates)
		for _, c := range candidates {
			d = d.WithSuggestion(diag.Suggestion{Kind: "replace_symbol", Message: "did you mean `" + c + "`?"})
		}
	}
	return d
}

// walkExpr visits e and every expression reachable from it. Mirrors
// internal/canon's private walker - this package needs the same
// shallow full-tree visit for a different purpose (qualified-access
// discovery rather than recursive-call discovery) and has no access
// to canon's unexported helper.
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
