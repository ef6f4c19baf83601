// Package parser implements Sigil's hand-written recursive-descent
// parser: Pratt-precedence expressions over a token stream from
// internal/lexer with a small lookahead buffer (up to three tokens),
// producing an internal/ast tree.
//
// Error recovery is intentionally minimal, per the canonical-form
// philosophy: the first parse error stops the parser and is returned
// as the single reportable diagnostic. There is no error-token
// insertion or skip-to-resync logic here.
package parser

import (
	"fmt"
	"strconv"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/lexer"
)

// Parser holds a small lookahead buffer over a lexer.Lexer, filled on
// demand: the common path only ever touches buf[0].
type Parser struct {
	lex *lexer.Lexer
	buf []lexer.Token

	err *diag.Diagnostic
}

// New primes the lookahead buffer and wires the lexer's own Error
// hook into the parser's diagnostic, so a scan error surfaces exactly
// like a parse error.
func New(lex *lexer.Lexer) *Parser {
	p := &Parser{lex: lex}
	lex.Error = func(at diag.Position, unexpected rune, notes ...string) {
		if p.err != nil {
			return
		}
		p.err = diag.New(diag.PhaseLexer, "SIGIL-LEX-UNEXPECTED",
			fmt.Sprintf("unexpected %s", lexer.TokenString(unexpected))).
			At(diag.Span{Start: at, End: at})
	}
	p.fill(1)
	return p
}

func tokSpan(t lexer.Token) diag.Span { return diag.Span{Start: t.Start, End: t.End} }

// scanNonComment pulls a token straight from the lexer, discarding
// comments: the parser never sees them.
func (p *Parser) scanNonComment() lexer.Token {
	for {
		t := p.lex.Next()
		if t.Type == lexer.Comment {
			continue
		}
		return t
	}
}

// fill ensures at least n tokens are buffered.
func (p *Parser) fill(n int) {
	for len(p.buf) < n {
		p.buf = append(p.buf, p.scanNonComment())
	}
}

// advance returns the current token and shifts the lookahead buffer
// forward by one.
func (p *Parser) advance() lexer.Token {
	p.fill(1)
	cur := p.buf[0]
	p.buf = p.buf[1:]
	p.fill(1)
	return cur
}

func (p *Parser) peek() lexer.Token { p.fill(1); return p.buf[0] }

// peekN returns the nth token ahead without consuming any (peekN(0) is
// peek() itself, peekN(1) is the following token, and so on).
func (p *Parser) peekN(n int) lexer.Token {
	p.fill(n + 1)
	return p.buf[n]
}

func (p *Parser) failed() bool { return p.err != nil }

func (p *Parser) fail(code, message string, span diag.Span) {
	if p.err != nil {
		return // first error wins
	}
	p.err = diag.New(diag.PhaseParser, code, message).At(span)
}

func (p *Parser) failExpected(code string, expected string) {
	tok := p.peek()
	p.fail(code, fmt.Sprintf("expected %s, found %s", expected, tok.TypeString()), tokSpan(tok))
}

// expect consumes the current token if it has the given type,
// otherwise records a diagnostic and leaves the token stream
// untouched (the caller is expected to stop descending).
func (p *Parser) expect(typ rune, expected string) lexer.Token {
	tok := p.peek()
	if tok.Type != typ {
		p.failExpected("SIGIL-PARSE-UNEXPECTED-TOKEN", expected)
		return lexer.Token{Type: lexer.Unexpected}
	}
	return p.advance()
}

func (p *Parser) at(typ rune) bool { return p.peek().Type == typ }

// ParseFile parses one complete source file. On the first error it
// returns a nil File and the single diagnostic describing it.
func ParseFile(lex *lexer.Lexer) (*ast.File, *diag.Diagnostic) {
	p := New(lex)
	file := p.parseFile()
	if p.err != nil {
		return nil, p.err
	}
	return file, nil
}

func (p *Parser) parseFile() *ast.File {
	start := p.peek().Start
	var decls []ast.Decl
	for !p.at(lexer.EOF) && !p.failed() {
		d := p.parseDecl()
		if p.failed() {
			break
		}
		decls = append(decls, d)
	}
	end := p.peek().End
	return &ast.File{Decls: decls, Span: diag.Span{Start: start, End: end}}
}

func (p *Parser) parseDecl() ast.Decl {
	start := p.peek().Start
	exported := false
	if p.at(lexer.KWExport) {
		exported = true
		p.advance()
	}

	switch p.peek().Type {
	case lexer.KWTypes:
		return p.parseTypeDecl(start, exported)
	case lexer.KWExtern:
		return p.parseExternDecl(start, exported)
	case lexer.KWImport:
		if exported {
			p.fail("SIGIL-PARSE-IMPORT-EXPORT", "imports may not be exported", tokSpan(p.peek()))
			return nil
		}
		return p.parseImportDecl(start)
	case lexer.KWConst:
		return p.parseConstDecl(start, exported)
	case 'λ':
		return p.parseFunctionDecl(start, exported)
	case lexer.KWTest:
		if exported {
			p.fail("SIGIL-PARSE-TEST-EXPORT", "tests may not be exported", tokSpan(p.peek()))
			return nil
		}
		return p.parseTestDecl(start)
	default:
		p.failExpected("SIGIL-PARSE-DECL", "a declaration (t, e, i, c, λ, or test)")
		return nil
	}
}

// parseIdent reads a lowercase-leading identifier as an ast.Ident.
func (p *Parser) parseIdent() ast.Ident {
	tok := p.expect(lexer.Ident, "an identifier")
	return ast.Ident{Name: tok.Lexeme, Span: tokSpan(tok)}
}

func (p *Parser) parseUpperIdent() ast.Ident {
	tok := p.expect(lexer.UpperIdent, "a capitalized name")
	return ast.Ident{Name: tok.Lexeme, Span: tokSpan(tok)}
}

// parseQualPath reads `ns⋅sub` segments separated by ⋅.
func (p *Parser) parseQualPath() ast.QualPath {
	start := p.peek().Start
	first := p.parseIdent()
	segs := []string{first.Name}
	end := first.End
	for p.at('⋅') {
		p.advance()
		seg := p.parseIdent()
		segs = append(segs, seg.Name)
		end = seg.End
	}
	return ast.QualPath{Segments: segs, Span: diag.Span{Start: start, End: end}}
}

func (p *Parser) parseEffectSet() ast.EffectSet {
	set := ast.EffectSet{}
	if !p.at('[') {
		return set
	}
	p.advance()
	for !p.at(']') && !p.at(lexer.EOF) && !p.failed() {
		tok := p.expect(lexer.UpperIdent, "an effect name (IO, Network, Async, Error, Mut)")
		set[ast.Effect(tok.Lexeme)] = true
		if p.at(',') {
			p.advance()
		} else {
			break
		}
	}
	p.expect(']', "]")
	return set
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect('(', "(")
	var params []ast.Param
	for !p.at(')') && !p.at(lexer.EOF) && !p.failed() {
		start := p.peek().Start
		isMut := false
		if p.at(lexer.Ident) && p.peek().Lexeme == "mut" {
			isMut = true
			p.advance()
		}
		name := p.parseIdent()
		p.expect(':', ": (a mandatory parameter type annotation)")
		typ := p.parseType()
		params = append(params, ast.Param{
			Name: name, Type: typ, IsMutable: isMut,
			Span: diag.Span{Start: start, End: typ.SpanEnd()},
		})
		if p.at(',') {
			p.advance()
		} else {
			break
		}
	}
	p.expect(')', ")")
	return params
}

func (p *Parser) parseTypeParams() []string {
	if !p.at('[') {
		return nil
	}
	p.advance()
	var names []string
	for !p.at(']') && !p.at(lexer.EOF) && !p.failed() {
		tok := p.expect(lexer.UpperIdent, "a type parameter name")
		names = append(names, tok.Lexeme)
		if p.at(',') {
			p.advance()
		} else {
			break
		}
	}
	p.expect(']', "]")
	return names
}

// parseFunctionDecl parses `λname[T,U](params)→ret(=value|≡match)`.
func (p *Parser) parseFunctionDecl(start diag.Position, exported bool) ast.Decl {
	p.expect('λ', "λ")
	mockable := false
	if p.at(lexer.KWMockable) {
		mockable = true
		p.advance()
	}
	name := p.parseIdent()
	typeParams := p.parseTypeParams()
	params := p.parseParamList()
	p.expect('→', "→ (a mandatory return type)")
	ret := p.parseType()
	effects := p.parseEffectSet()

	body := p.parseFunctionBody()

	return &ast.FunctionDecl{
		Name: name, TypeParams: typeParams, Params: params,
		Return: ret, Effects: effects, IsMockable: mockable,
		Exported: exported, Body: body,
		Span: diag.Span{Start: start, End: nodeEnd(body)},
	}
}

// parseFunctionBody enforces the equals/match-marker rule: `=` must
// precede a value body, `≡` must precede a match expression, and the
// two are never interchangeable.
func (p *Parser) parseFunctionBody() ast.Expr {
	switch p.peek().Type {
	case '=':
		p.advance()
		return p.parseExpr()
	case '≡':
		p.advance()
		return p.parseMatchBody()
	default:
		p.failExpected("SIGIL-PARSE-BODY-MARKER", "= (value body) or ≡ (match body)")
		return nil
	}
}

// parseMatchBody parses the scrutinee + arm-block that follows ≡,
// returning it directly as a *ast.MatchExpr (≡ never introduces
// anything but a match).
func (p *Parser) parseMatchBody() ast.Expr {
	start := p.peek().Start
	scrutinee := p.parseExpr()
	arms := p.parseMatchArms()
	return &ast.MatchExpr{Scrutinee: scrutinee, Arms: arms,
		Span: diag.Span{Start: start, End: p.peek().Start}}
}

func (p *Parser) parseMatchArms() []ast.MatchArm {
	p.expect('{', "{")
	var arms []ast.MatchArm
	for !p.at('}') && !p.at(lexer.EOF) && !p.failed() {
		arms = append(arms, p.parseMatchArm())
		if p.at('|') {
			p.advance()
		} else {
			break
		}
	}
	p.expect('}', "}")
	return arms
}

func (p *Parser) parseMatchArm() ast.MatchArm {
	start := p.peek().Start
	pat := p.parsePattern()
	var guard ast.Expr
	if p.at(lexer.Ident) && p.peek().Lexeme == "if" {
		p.advance()
		guard = p.parseExpr()
	}
	p.expect('→', "→")
	body := p.parseExpr()
	return ast.MatchArm{Pattern: pat, Guard: guard, Body: body,
		Span: diag.Span{Start: start, End: nodeEnd(body)}}
}

func (p *Parser) parseTypeDecl(start diag.Position, exported bool) ast.Decl {
	p.expect(lexer.KWTypes, "t")
	name := p.parseUpperIdent()
	typeParams := p.parseTypeParams()
	p.expect('=', "=")

	var body ast.TypeDeclBody
	switch {
	case p.at('{'):
		body = p.parseStructOrUnionBody()
	default:
		underlying := p.parseType()
		body = &ast.NewtypeBody{Underlying: underlying, Span: diag.Span{Start: underlying.SpanStart(), End: underlying.SpanEnd()}}
	}

	return &ast.TypeDecl{Name: name, TypeParams: typeParams, Exported: exported, Body: body,
		Span: diag.Span{Start: start, End: bodyEnd(body)}}
}

func bodyEnd(b ast.TypeDeclBody) diag.Position {
	if b == nil {
		return diag.Position{}
	}
	return b.SpanEnd()
}

// parseStructOrUnionBody disambiguates a struct (plain field list)
// from a union (`Variant{...}`-shaped entries) by looking at whether
// entries are `name: type` pairs or `Name { ... }` variants.
func (p *Parser) parseStructOrUnionBody() ast.TypeDeclBody {
	start := p.peek().Start
	p.expect('{', "{")

	if p.at(lexer.UpperIdent) {
		var variants []ast.UnionVariant
		for !p.at('}') && !p.at(lexer.EOF) && !p.failed() {
			variants = append(variants, p.parseUnionVariant())
			if p.at(',') {
				p.advance()
			} else {
				break
			}
		}
		p.expect('}', "}")
		return &ast.UnionBody{Variants: variants, Span: diag.Span{Start: start, End: p.peek().Start}}
	}

	var fields []ast.FieldDef
	for !p.at('}') && !p.at(lexer.EOF) && !p.failed() {
		fields = append(fields, p.parseFieldDef())
		if p.at(',') {
			p.advance()
		} else {
			break
		}
	}
	p.expect('}', "}")
	return &ast.StructBody{Fields: fields, Span: diag.Span{Start: start, End: p.peek().Start}}
}

func (p *Parser) parseFieldDef() ast.FieldDef {
	start := p.peek().Start
	name := p.parseIdent()
	p.expect(':', ":")
	typ := p.parseType()
	return ast.FieldDef{Name: name, Type: typ, Span: diag.Span{Start: start, End: typ.SpanEnd()}}
}

func (p *Parser) parseUnionVariant() ast.UnionVariant {
	start := p.peek().Start
	name := p.parseUpperIdent()
	var fields []ast.FieldDef
	end := name.End
	if p.at('{') {
		p.advance()
		for !p.at('}') && !p.at(lexer.EOF) && !p.failed() {
			fields = append(fields, p.parseFieldDef())
			if p.at(',') {
				p.advance()
			} else {
				break
			}
		}
		end = p.peek().End
		p.expect('}', "}")
	}
	return ast.UnionVariant{Name: name, Fields: fields, Span: diag.Span{Start: start, End: end}}
}

func (p *Parser) parseImportDecl(start diag.Position) ast.Decl {
	p.expect(lexer.KWImport, "i")
	path := p.parseQualPath()
	return &ast.ImportDecl{Path: path, Span: diag.Span{Start: start, End: path.End}}
}

func (p *Parser) parseExternDecl(start diag.Position, exported bool) ast.Decl {
	p.expect(lexer.KWExtern, "e")
	name := p.parseIdent()
	p.expect(':', ":")
	hostTok := p.expect(lexer.StringLit, "a quoted host module path")
	end := hostTok.End

	var members []ast.FieldDef
	if p.at('{') {
		p.advance()
		for !p.at('}') && !p.at(lexer.EOF) && !p.failed() {
			members = append(members, p.parseFieldDef())
			if p.at(',') {
				p.advance()
			} else {
				break
			}
		}
		end = p.peek().End
		p.expect('}', "}")
	}

	return &ast.ExternDecl{Name: name, HostPath: unquote(hostTok.Lexeme), Members: members,
		Exported: exported, Span: diag.Span{Start: start, End: end}}
}

func (p *Parser) parseConstDecl(start diag.Position, exported bool) ast.Decl {
	p.expect(lexer.KWConst, "c")
	name := p.parseIdent()
	p.expect(':', ": (a mandatory const type annotation)")
	typ := p.parseType()
	p.expect('=', "=")
	value := p.parseExpr()
	return &ast.ConstDecl{Name: name, Type: typ, Value: value, Exported: exported,
		Span: diag.Span{Start: start, End: nodeEnd(value)}}
}

func (p *Parser) parseTestDecl(start diag.Position) ast.Decl {
	p.expect(lexer.KWTest, "test")
	nameTok := p.expect(lexer.StringLit, "a quoted test name")
	p.expect('{', "{")
	body := p.parseExpr()
	end := p.peek().End
	p.expect('}', "}")
	return &ast.TestDecl{Name: unquote(nameTok.Lexeme), Body: body, Span: diag.Span{Start: start, End: end}}
}

func nodeEnd(n ast.Node) diag.Position {
	if n == nil {
		return diag.Position{}
	}
	return n.SpanEnd()
}

// unquote strips the surrounding quote characters a string/char
// literal lexeme carries; escape decoding already happened nowhere
// yet, so this also resolves the lexer's recognized escape set.
func unquote(lexeme string) string {
	if len(lexeme) < 2 {
		return lexeme
	}
	inner := lexeme[1 : len(lexeme)-1]
	out, err := strconv.Unquote(`"` + escapeForGo(inner) + `"`)
	if err != nil {
		return inner
	}
	return out
}

// escapeForGo re-escapes any bare double-quote that was only valid
// because it was the literal's own delimiter (char literals use
// single quotes as delimiters, so an inner `"` is unescaped there).
func escapeForGo(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			out = append(out, '\\', '"')
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
