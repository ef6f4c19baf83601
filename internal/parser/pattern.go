package parser

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/lexer"
)

// parsePattern parses one of the 7 closed pattern forms. Dispatch is
// purely by leading token: patterns never need more than one token of
// lookahead to start, though list/tuple/record/constructor patterns
// recurse into sub-patterns.
func (p *Parser) parsePattern() ast.Pattern {
	tok := p.peek()
	switch tok.Type {
	case lexer.IntLit, lexer.FloatLit, lexer.StringLit, lexer.CharLit, '⊤', '⊥':
		val := p.parsePrimary()
		return &ast.LitPattern{Value: val, Span: diag.Span{Start: val.SpanStart(), End: val.SpanEnd()}}
	case lexer.Ident:
		if tok.Lexeme == "_" {
			p.advance()
			return &ast.WildcardPattern{Span: tokSpan(tok)}
		}
		p.advance()
		return &ast.IdentPattern{Name: tok.Lexeme, Span: tokSpan(tok)}
	case lexer.UpperIdent:
		return p.parseConstructorPattern()
	case '[':
		return p.parseListPattern()
	case '(':
		return p.parseTuplePattern()
	case '{':
		return p.parseRecordPattern()
	default:
		p.failExpected("SIGIL-PARSE-PATTERN", "a pattern")
		return &ast.WildcardPattern{Span: tokSpan(tok)}
	}
}

func (p *Parser) parseConstructorPattern() ast.Pattern {
	name := p.parseUpperIdent()
	if !p.at('(') {
		return &ast.ConstructorPattern{Name: name.Name, Span: name.Span}
	}
	p.advance()
	var args []ast.Pattern
	for !p.at(')') && !p.at(lexer.EOF) && !p.failed() {
		args = append(args, p.parsePattern())
		if p.at(',') {
			p.advance()
		} else {
			break
		}
	}
	end := p.peek().End
	p.expect(')', ")")
	return &ast.ConstructorPattern{Name: name.Name, Args: args, Span: diag.Span{Start: name.Start, End: end}}
}

// parseListPattern parses `[p0, p1, .rest]`; a fixed-length pattern
// with no rest binding matches only a list of that exact length.
func (p *Parser) parseListPattern() ast.Pattern {
	start := p.peek().Start
	p.advance() // [
	var elems []ast.Pattern
	rest := ""
	for !p.at(']') && !p.at(lexer.EOF) && !p.failed() {
		if p.at('.') {
			p.advance()
			restTok := p.expect(lexer.Ident, "an identifier (the rest binding)")
			rest = restTok.Lexeme
			break
		}
		elems = append(elems, p.parsePattern())
		if p.at(',') {
			p.advance()
		} else {
			break
		}
	}
	end := p.peek().End
	p.expect(']', "]")
	return &ast.ListPattern{Elements: elems, Rest: rest, Span: diag.Span{Start: start, End: end}}
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	start := p.peek().Start
	p.advance() // (
	var elems []ast.Pattern
	for !p.at(')') && !p.at(lexer.EOF) && !p.failed() {
		elems = append(elems, p.parsePattern())
		if p.at(',') {
			p.advance()
		} else {
			break
		}
	}
	end := p.peek().End
	p.expect(')', ")")
	return &ast.TuplePattern{Elements: elems, Span: diag.Span{Start: start, End: end}}
}

func (p *Parser) parseRecordPattern() ast.Pattern {
	start := p.peek().Start
	p.advance() // {
	var fields []ast.RecordFieldPattern
	for !p.at('}') && !p.at(lexer.EOF) && !p.failed() {
		fstart := p.peek().Start
		name := p.parseIdent()
		var sub ast.Pattern
		if p.at(':') {
			p.advance()
			sub = p.parsePattern()
		}
		fields = append(fields, ast.RecordFieldPattern{Name: name.Name, Pattern: sub,
			Span: diag.Span{Start: fstart, End: p.peek().Start}})
		if p.at(',') {
			p.advance()
		} else {
			break
		}
	}
	end := p.peek().End
	p.expect('}', "}")
	return &ast.RecordPattern{Fields: fields, Span: diag.Span{Start: start, End: end}}
}
