package extern

import (
	"testing"

	"github.com/sigil-lang/sigilc/internal/ast"
)

func TestValidate_AcceptsKnownMember(t *testing.T) {
	loader := StaticLoader{"stdlib/list": {Members: []Member{{Name: "map", Arity: 2}}}}
	file := &ast.File{Decls: []ast.Decl{
		&ast.ExternDecl{Name: ast.Ident{Name: "list"}, HostPath: "stdlib/list"},
		&ast.FunctionDecl{Name: ast.Ident{Name: "main"}, Body: &ast.QualifiedAccess{
			Path: ast.QualPath{Segments: []string{"list"}}, Member: "map",
		}},
	}}
	if d := NewValidator(loader).Validate(file); d != nil {
		t.Fatalf("expected no diagnostic, got %v", d)
	}
}

func TestValidate_RejectsUnknownMemberWithSuggestion(t *testing.T) {
	loader := StaticLoader{"stdlib/list": {Members: []Member{{Name: "map", Arity: 2}, {Name: "filter", Arity: 2}}}}
	file := &ast.File{Decls: []ast.Decl{
		&ast.ExternDecl{Name: ast.Ident{Name: "list"}, HostPath: "stdlib/list"},
		&ast.FunctionDecl{Name: ast.Ident{Name: "main"}, Body: &ast.QualifiedAccess{
			Path: ast.QualPath{Segments: []string{"list"}}, Member: "mapp",
		}},
	}}
	d := NewValidator(loader).Validate(file)
	if d == nil || d.Code != "SIGIL-LINK-UNKNOWN-MEMBER" {
		t.Fatalf("expected SIGIL-LINK-UNKNOWN-MEMBER, got %v", d)
	}
	if len(d.Suggestions) == 0 || d.Suggestions[0].Message != "did you mean `map`?" {
		t.Fatalf("expected nearest-candidate suggestion, got %v", d.Suggestions)
	}
}

func TestValidate_MissingManifestIsFatal(t *testing.T) {
	loader := StaticLoader{}
	file := &ast.File{Decls: []ast.Decl{
		&ast.ExternDecl{Name: ast.Ident{Name: "list"}, HostPath: "stdlib/list"},
	}}
	d := NewValidator(loader).Validate(file)
	if d == nil || d.Code != "SIGIL-LINK-MANIFEST-NOT-FOUND" {
		t.Fatalf("expected SIGIL-LINK-MANIFEST-NOT-FOUND, got %v", d)
	}
}
