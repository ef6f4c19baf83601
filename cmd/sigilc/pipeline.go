package main

import (
	"os"
	"strings"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/canon"
	"github.com/sigil-lang/sigilc/internal/check"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/extern"
	"github.com/sigil-lang/sigilc/internal/lexer"
	"github.com/sigil-lang/sigilc/internal/parser"
	"github.com/sigil-lang/sigilc/internal/surface"
)

// tokenDump is one entry of the `lex` subcommand's Data payload (the
// full token stream), each entry JSON-friendly on its own.
type tokenDump struct {
	Type   string     `json:"type"`
	Lexeme string     `json:"lexeme"`
	Start  diag.Position `json:"start"`
	End    diag.Position `json:"end"`
}

// diagFromErr wraps a plain Go error (config parse failure, file write
// failure) as a Diagnostic so every pipeline failure - not only the
// typed-stage ones - flows through the same envelope shape.
func diagFromErr(code string, err error) *diag.Diagnostic {
	phase := diag.PhaseCodegen
	if strings.HasPrefix(code, "SIGIL-CONFIG") {
		phase = diag.PhaseSurface
	}
	return diag.New(phase, code, err.Error())
}

func writeTextFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}

func readSource(path string) (string, *diag.Diagnostic) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", diag.New(diag.PhaseSurface, "SIGIL-SURFACE-READ-FAILED", err.Error())
	}
	return string(data), nil
}

// lexSource validates the surface form then tokenizes to completion;
// it stops at the first lexer error (the lexer's own contract), but
// never at a parse error since no parsing happens here.
func lexSource(src string) ([]tokenDump, *diag.Diagnostic) {
	if d := surface.Validate(src); d != nil {
		return nil, d
	}
	var lexErr *diag.Diagnostic
	lex := lexer.New(strings.NewReader(src))
	lex.Error = func(at diag.Position, unexpected rune, notes ...string) {
		if lexErr == nil {
			lexErr = diag.New(diag.PhaseLexer, "SIGIL-LEX-UNEXPECTED", "unexpected character").
				At(diag.Span{Start: at, End: at})
		}
	}

	var toks []tokenDump
	for {
		tok := lex.Next()
		if lexErr != nil {
			return nil, lexErr
		}
		toks = append(toks, tokenDump{Type: tok.TypeString(), Lexeme: tok.Lexeme, Start: tok.Start, End: tok.End})
		if tok.Type == lexer.EOF {
			break
		}
	}
	return toks, nil
}

// parseSource runs surface validation then the parser, handing back
// the first diagnostic from whichever stage produced it.
func parseSource(src string) (*ast.File, *diag.Diagnostic) {
	if d := surface.Validate(src); d != nil {
		return nil, d
	}
	lex := lexer.New(strings.NewReader(src))
	return parser.ParseFile(lex)
}

// checkSource runs every stage up to (not including) code emission:
// surface, parse, canonical validation, type checking, extern
// validation. imports feeds cross-module exports into the checker
// per the module graph driver; pass nil when checking a single file
// with no dependencies.
func checkSource(src string, isLibrary bool, externLoader extern.Loader, imports map[string]*check.ModuleExports) (*ast.File, *diag.Diagnostic) {
	file, d := parseSource(src)
	if d != nil {
		return nil, d
	}
	if d := canon.Validate(file, canon.Options{IsLibraryFile: isLibrary}); d != nil {
		return nil, d
	}
	var importList []map[string]*check.ModuleExports
	if imports != nil {
		importList = append(importList, imports)
	}
	if d := check.CheckFile(file, importList...); d != nil {
		return nil, d
	}
	if externLoader != nil {
		if d := extern.NewValidator(externLoader).Validate(file); d != nil {
			return nil, d
		}
	}
	return file, nil
}
