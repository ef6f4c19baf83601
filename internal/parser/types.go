package parser

import (
	"strconv"
	"strings"

	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/lexer"
)

// parseType parses one type annotation. Every parameter, return type,
// const, and let-with-ascription goes through here; there is no type
// inference, so this is always driven by an explicit annotation.
func (p *Parser) parseType() ast.TypeExpr {
	switch p.peek().Type {
	case lexer.TInt:
		return p.parsePrimitiveType(ast.PrimInt)
	case lexer.TFloat:
		return p.parsePrimitiveType(ast.PrimFloat)
	case lexer.TBool:
		return p.parsePrimitiveType(ast.PrimBool)
	case lexer.TString:
		return p.parsePrimitiveType(ast.PrimString)
	case lexer.TChar:
		return p.parsePrimitiveType(ast.PrimChar)
	case lexer.TUnit:
		return p.parsePrimitiveType(ast.PrimUnit)
	case lexer.TNever:
		return p.parsePrimitiveType(ast.PrimNever)
	case '[':
		return p.parseListOrMapType()
	case '(':
		return p.parseTupleType()
	case 'λ':
		return p.parseFunctionType()
	case lexer.UpperIdent:
		return p.parseNamedOrQualifiedType()
	default:
		p.failExpected("SIGIL-PARSE-TYPE", "a type")
		tok := p.peek()
		return &ast.PrimitiveType{Name: ast.PrimNever, Span: tokSpan(tok)}
	}
}

func (p *Parser) parsePrimitiveType(prim ast.Primitive) ast.TypeExpr {
	tok := p.advance()
	return &ast.PrimitiveType{Name: prim, Span: tokSpan(tok)}
}

// parseListOrMapType parses `[T]` (list) or `[K:V]` (map).
func (p *Parser) parseListOrMapType() ast.TypeExpr {
	start := p.peek().Start
	p.advance() // [
	first := p.parseType()
	if p.at(':') {
		p.advance()
		val := p.parseType()
		end := p.peek().End
		p.expect(']', "]")
		return &ast.MapType{Key: first, Value: val, Span: diag.Span{Start: start, End: end}}
	}
	end := p.peek().End
	p.expect(']', "]")
	return &ast.ListType{Elem: first, Span: diag.Span{Start: start, End: end}}
}

func (p *Parser) parseTupleType() ast.TypeExpr {
	start := p.peek().Start
	p.advance() // (
	var elems []ast.TypeExpr
	for !p.at(')') && !p.at(lexer.EOF) && !p.failed() {
		elems = append(elems, p.parseType())
		if p.at(',') {
			p.advance()
		} else {
			break
		}
	}
	end := p.peek().End
	p.expect(')', ")")
	return &ast.TupleType{Elems: elems, Span: diag.Span{Start: start, End: end}}
}

// parseFunctionType parses `λ(T0,T1)→Tret[Effects]` used in signature
// position for a higher-order parameter's type annotation.
func (p *Parser) parseFunctionType() ast.TypeExpr {
	start := p.peek().Start
	p.advance() // λ
	p.expect('(', "(")
	var params []ast.TypeExpr
	for !p.at(')') && !p.at(lexer.EOF) && !p.failed() {
		params = append(params, p.parseType())
		if p.at(',') {
			p.advance()
		} else {
			break
		}
	}
	p.expect(')', ")")
	p.expect('→', "→")
	ret := p.parseType()
	effects := p.parseEffectSet()
	return &ast.FunctionType{Params: params, Return: ret, Effects: effects,
		Span: diag.Span{Start: start, End: ret.SpanEnd()}}
}

// parseNamedOrQualifiedType parses `Name[Args]`, `TypeVar`-shaped
// single uppercase letters used as generics are syntactically
// identical to ConstructorType with zero args and get resolved to a
// TypeVar by the checker using the enclosing declaration's type
// parameter list, or `ns⋅sub.Name[Args]` for a cross-module type.
func (p *Parser) parseNamedOrQualifiedType() ast.TypeExpr {
	start := p.peek().Start
	name := p.parseUpperIdent()

	if p.at('⋅') {
		segs := []string{name.Name}
		end := name.End
		for p.at('⋅') {
			p.advance()
			seg := p.parseIdent()
			segs = append(segs, seg.Name)
			end = seg.End
		}
		path := ast.QualPath{Segments: segs, Span: diag.Span{Start: start, End: end}}
		p.expect('.', ".")
		typeName := p.parseUpperIdent()
		args, argsEnd := p.parseOptionalTypeArgs()
		end = typeName.End
		if argsEnd != (diag.Position{}) {
			end = argsEnd
		}
		return &ast.QualifiedType{ModulePath: path, Name: typeName.Name, Args: args,
			Span: diag.Span{Start: start, End: end}}
	}

	args, argsEnd := p.parseOptionalTypeArgs()
	end := name.End
	if argsEnd != (diag.Position{}) {
		end = argsEnd
	}
	return &ast.ConstructorType{Name: name, Args: args, Span: diag.Span{Start: start, End: end}}
}

func (p *Parser) parseOptionalTypeArgs() ([]ast.TypeExpr, diag.Position) {
	if !p.at('[') {
		return nil, diag.Position{}
	}
	p.advance()
	var args []ast.TypeExpr
	for !p.at(']') && !p.at(lexer.EOF) && !p.failed() {
		args = append(args, p.parseType())
		if p.at(',') {
			p.advance()
		} else {
			break
		}
	}
	end := p.peek().End
	p.expect(']', "]")
	return args, end
}

// parseSignedInt parses an integer lexeme that may carry the lexer's
// pragmatic leading minus.
func parseSignedInt(lexeme string) (int64, error) {
	return strconv.ParseInt(lexeme, 10, 64)
}

func parseFloatLexeme(lexeme string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(lexeme), 64)
}
