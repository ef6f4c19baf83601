package canon

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
)

// checkDeclOrder enforces the one required top-level shape: every
// declaration category appears in full before the next one begins
// (types, externs, imports, consts, functions, tests), and within a
// category exported declarations precede unexported ones, each bucket
// sorted alphabetically by name.
func checkDeclOrder(file *ast.File) *diag.Diagnostic {
	lastCategory := CategoryType
	var lastExported *bool
	var lastName string

	for _, decl := range file.Decls {
		cat := categoryOf(decl)
		name, exported := declName(decl)
		span := declSpan(decl)

		if cat < lastCategory {
			return diag.New(diag.PhaseCanonical, "SIGIL-CANON-001",
				categoryName(cat)+" declaration `"+name+"` appears after "+categoryName(lastCategory)+" declarations").
				At(span).
				WithSuggestion(diag.Suggestion{Kind: "reorder", Message: "required order is types, externs, imports, consts, functions, tests"})
		}
		if cat > lastCategory {
			lastCategory = cat
			lastExported = nil
			lastName = ""
		}

		if lastExported != nil {
			if exported && !*lastExported {
				return diag.New(diag.PhaseCanonical, "SIGIL-CANON-002",
					"exported "+categoryName(cat)+" `"+name+"` appears after an unexported one in the same category").
					At(span).
					WithSuggestion(diag.Suggestion{Kind: "reorder", Message: "exported declarations must precede unexported ones within a category"})
			}
			if exported == *lastExported && lastName != "" && name < lastName {
				return diag.New(diag.PhaseCanonical, "SIGIL-CANON-003",
					categoryName(cat)+" `"+name+"` is out of alphabetical order (after `"+lastName+"`)").
					At(span).
					WithSuggestion(diag.Suggestion{Kind: "reorder", Message: "declarations within a visibility bucket must be sorted alphabetically"})
			}
		}

		lastExported = &exported
		lastName = name
	}
	return nil
}

// checkDuplicates rejects a second declaration of the same name within
// a category - the grammar allows it, canonical form does not, since
// there is never a reason to shadow a top-level name in this language.
func checkDuplicates(file *ast.File) *diag.Diagnostic {
	seen := map[Category]map[string]diag.Span{}
	for _, decl := range file.Decls {
		cat := categoryOf(decl)
		name, _ := declName(decl)
		if name == "" {
			continue
		}
		span := declSpan(decl)
		if seen[cat] == nil {
			seen[cat] = map[string]diag.Span{}
		}
		if prior, ok := seen[cat][name]; ok {
			return diag.New(diag.PhaseCanonical, "SIGIL-CANON-004",
				categoryName(cat)+" `"+name+"` is declared more than once").
				At(span).
				WithDetail("first_declared_at", prior.Start.String())
		}
		seen[cat][name] = span
	}
	return nil
}

// checkFilePurpose enforces that a file compiled as a library exports
// at least one declaration - a library file that exports nothing can
// never be imported for anything, so it is always a mistake.
func checkFilePurpose(file *ast.File, opts Options) *diag.Diagnostic {
	if !opts.IsLibraryFile {
		return nil
	}
	for _, decl := range file.Decls {
		_, exported := declName(decl)
		if exported {
			return nil
		}
	}
	return diag.New(diag.PhaseCanonical, "SIGIL-CANON-005", "library file exports nothing").
		At(file.Span).
		WithSuggestion(diag.Suggestion{Kind: "export", Message: "a library file must export at least one type, extern, const, or function"})
}
