package parser

import (
	"github.com/sigil-lang/sigilc/internal/ast"
	"github.com/sigil-lang/sigilc/internal/diag"
	"github.com/sigil-lang/sigilc/internal/lexer"
)

// parseExpr enters the precedence ladder at its lowest level
// (pipeline). Each parseLevelN function parses everything at its own
// level and below, left-associating on its own operator set.

func (p *Parser) parseExpr() ast.Expr {
	return p.parsePipeline()
}

// level 1: pipeline |>
func (p *Parser) parsePipeline() ast.Expr {
	left := p.parseListOps()
	for p.at(lexer.Pipeline) && !p.failed() {
		op := p.advance()
		right := p.parseListOps()
		left = &ast.BinaryOp{Op: "|>", Left: left, Right: right,
			Span: diag.Span{Start: left.SpanStart(), End: right.SpanEnd()}}
		_ = op
	}
	return left
}

// level 2: list operations ↦ ⊳ ⊕
func (p *Parser) parseListOps() ast.Expr {
	left := p.parseLogical()
	for (p.at('↦') || p.at('⊳') || p.at('⊕')) && !p.failed() {
		opTok := p.advance()
		fn := p.parseLogical()
		switch opTok.Type {
		case '↦':
			left = &ast.ListOpExpr{Kind: ast.ListOpMap, List: left, Fn: fn,
				Span: diag.Span{Start: left.SpanStart(), End: fn.SpanEnd()}}
		case '⊳':
			left = &ast.ListOpExpr{Kind: ast.ListOpFilter, List: left, Fn: fn,
				Span: diag.Span{Start: left.SpanStart(), End: fn.SpanEnd()}}
		case '⊕':
			p.expect('⊕', "⊕ (the separator before fold's initial value)")
			init := p.parseLogical()
			left = &ast.ListOpExpr{Kind: ast.ListOpFold, List: left, Fn: fn, Init: init,
				Span: diag.Span{Start: left.SpanStart(), End: init.SpanEnd()}}
		}
	}
	return left
}

// level 3: logical ∧ ∨
func (p *Parser) parseLogical() ast.Expr {
	left := p.parseComparison()
	for (p.at('∧') || p.at('∨')) && !p.failed() {
		opTok := p.advance()
		right := p.parseComparison()
		left = &ast.BinaryOp{Op: string(opTok.Type), Left: left, Right: right,
			Span: diag.Span{Start: left.SpanStart(), End: right.SpanEnd()}}
	}
	return left
}

// level 4: comparison = ≠ < > ≤ ≥
func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for isComparisonOp(p.peek().Type) && !p.failed() {
		opTok := p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryOp{Op: string(opTok.Type), Left: left, Right: right,
			Span: diag.Span{Start: left.SpanStart(), End: right.SpanEnd()}}
	}
	return left
}

func isComparisonOp(t rune) bool {
	switch t {
	case '=', '≠', '<', '>', '≤', '≥':
		return true
	}
	return false
}

// level 5: additive + - ++ ⧺
//
// A number literal with a leading minus is, at this point, still one
// token (the lexer's pragmatic form): it was scanned whole because a
// bare '-' next to a digit is indistinguishable from unary minus at
// the lexer. In binary position that leading minus is subtraction, so
// before checking for an operator this splits a negative-literal
// lookahead into a synthetic '-' token followed by the literal's
// positive remainder.
func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for {
		p.reinterpretNegativeLiteral()
		if !isAdditiveOp(p.peek().Type) || p.failed() {
			break
		}
		opTok := p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryOp{Op: opLexeme(opTok), Left: left, Right: right,
			Span: diag.Span{Start: left.SpanStart(), End: right.SpanEnd()}}
	}
	return left
}

// reinterpretNegativeLiteral splits a buffered IntLit/FloatLit token
// whose lexeme starts with '-' into a '-' operator token followed by
// the literal's positive remainder, only when the token is currently
// the head of the lookahead buffer (it must not disturb tokens already
// consumed as part of a completed primary).
func (p *Parser) reinterpretNegativeLiteral() {
	p.fill(1)
	tok := p.buf[0]
	if tok.Type != lexer.IntLit && tok.Type != lexer.FloatLit {
		return
	}
	if len(tok.Lexeme) == 0 || tok.Lexeme[0] != '-' {
		return
	}
	opEnd := diag.Position{Line: tok.Start.Line, Col: tok.Start.Col + 1, Offset: tok.Start.Offset + 1}
	opTok := lexer.Token{Type: '-', Lexeme: "-", Start: tok.Start, End: opEnd}
	numTok := lexer.Token{Type: tok.Type, Lexeme: tok.Lexeme[1:], Start: opEnd, End: tok.End}
	p.buf = append([]lexer.Token{opTok, numTok}, p.buf[1:]...)
}

func isAdditiveOp(t rune) bool {
	switch t {
	case '+', '-', lexer.Concat, '⧺':
		return true
	}
	return false
}

// level 6: multiplicative * / % ^
func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for isMultiplicativeOp(p.peek().Type) && !p.failed() {
		opTok := p.advance()
		right := p.parseUnary()
		left = &ast.BinaryOp{Op: string(opTok.Type), Left: left, Right: right,
			Span: diag.Span{Start: left.SpanStart(), End: right.SpanEnd()}}
	}
	return left
}

func isMultiplicativeOp(t rune) bool {
	switch t {
	case '*', '/', '%', '^':
		return true
	}
	return false
}

func opLexeme(t lexer.Token) string {
	if t.Lexeme != "" {
		return t.Lexeme
	}
	return string(t.Type)
}

// level 7: unary - ¬ #
func (p *Parser) parseUnary() ast.Expr {
	switch p.peek().Type {
	case '-', '¬', '#':
		opTok := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryOp{Op: string(opTok.Type), Operand: operand,
			Span: diag.Span{Start: opTok.Start, End: operand.SpanEnd()}}
	}
	return p.parsePostfix()
}

// level 8: postfix .field [idx] name.member call(args) Name{...}
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for !p.failed() {
		switch p.peek().Type {
		case '.':
			p.advance()
			fieldTok := p.expect(lexer.Ident, "a field name")
			expr = &ast.FieldAccess{Receiver: expr, Field: fieldTok.Lexeme,
				Span: diag.Span{Start: expr.SpanStart(), End: fieldTok.End}}
		case '[':
			p.advance()
			idx := p.parseExpr()
			end := p.peek().End
			p.expect(']', "]")
			expr = &ast.IndexAccess{Receiver: expr, Index: idx,
				Span: diag.Span{Start: expr.SpanStart(), End: end}}
		case '(':
			args, end := p.parseArgList()
			expr = &ast.CallExpr{Callee: expr, Args: args,
				Span: diag.Span{Start: expr.SpanStart(), End: end}}
		default:
			return expr
		}
	}
	return expr
}

func (p *Parser) parseArgList() ([]ast.Expr, diag.Position) {
	p.expect('(', "(")
	var args []ast.Expr
	for !p.at(')') && !p.at(lexer.EOF) && !p.failed() {
		args = append(args, p.parseExpr())
		if p.at(',') {
			p.advance()
		} else {
			break
		}
	}
	end := p.peek().End
	p.expect(')', ")")
	return args, end
}

// level 9: primary
func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Type {
	case lexer.IntLit:
		p.advance()
		return parseIntLit(tok)
	case lexer.FloatLit:
		p.advance()
		return parseFloatLit(tok)
	case lexer.StringLit:
		p.advance()
		return &ast.StringLit{Value: unquote(tok.Lexeme), Span: tokSpan(tok)}
	case lexer.CharLit:
		p.advance()
		return parseCharLit(tok)
	case '⊤':
		p.advance()
		return &ast.BoolLit{Value: true, Span: tokSpan(tok)}
	case '⊥':
		p.advance()
		return &ast.BoolLit{Value: false, Span: tokSpan(tok)}
	case lexer.UpperIdent:
		return p.parseUpperIdentExpr()
	case lexer.Ident:
		return p.parseIdentOrQualified()
	case 'λ':
		return p.parseLambda()
	case '≡':
		return p.parseBareMatch()
	case lexer.KWLet:
		return p.parseLet()
	case '[':
		return p.parseListLit()
	case '{':
		return p.parseBraceExpr()
	case '(':
		return p.parseParenExpr()
	default:
		p.failExpected("SIGIL-PARSE-PRIMARY", "an expression")
		return &ast.UnitLit{Span: tokSpan(tok)}
	}
}

func parseIntLit(tok lexer.Token) ast.Expr {
	v, _ := parseSignedInt(tok.Lexeme)
	return &ast.IntLit{Value: v, Span: tokSpan(tok)}
}

func parseFloatLit(tok lexer.Token) ast.Expr {
	v, _ := parseFloatLexeme(tok.Lexeme)
	return &ast.FloatLit{Value: v, Span: tokSpan(tok)}
}

func parseCharLit(tok lexer.Token) ast.Expr {
	inner := tok.Lexeme
	if len(inner) >= 2 {
		inner = inner[1 : len(inner)-1]
	}
	decoded := unquote(`"` + inner + `"`)
	var r rune
	for _, rn := range decoded {
		r = rn
		break
	}
	return &ast.CharLit{Value: r, Span: tokSpan(tok)}
}

// parseIdentOrQualified reads a bare identifier, or - when followed by
// ⋅ or a further `.member` after an ⋅-joined path - a QualifiedAccess.
func (p *Parser) parseIdentOrQualified() ast.Expr {
	start := p.peek().Start
	first := p.parseIdent()
	if !p.at('⋅') {
		return &ast.IdentExpr{Name: first.Name, Span: first.Span}
	}
	segs := []string{first.Name}
	end := first.End
	for p.at('⋅') {
		p.advance()
		seg := p.parseIdent()
		segs = append(segs, seg.Name)
		end = seg.End
	}
	path := ast.QualPath{Segments: segs, Span: diag.Span{Start: start, End: end}}
	p.expect('.', ". (a namespace member access)")
	member := p.parseIdent()
	return &ast.QualifiedAccess{Path: path, Member: member.Name,
		Span: diag.Span{Start: start, End: member.End}}
}

// parseUpperIdentExpr handles a bare constructor reference or a
// `Name{field: val}` record-construction literal.
func (p *Parser) parseUpperIdentExpr() ast.Expr {
	name := p.parseUpperIdent()
	if !p.at('{') {
		return &ast.IdentExpr{Name: name.Name, Span: name.Span}
	}
	p.advance()
	var fields []ast.RecordFieldVal
	for !p.at('}') && !p.at(lexer.EOF) && !p.failed() {
		fields = append(fields, p.parseRecordFieldVal())
		if p.at(',') {
			p.advance()
		} else {
			break
		}
	}
	end := p.peek().End
	p.expect('}', "}")
	return &ast.RecordLit{TypeName: name.Name, Fields: fields,
		Span: diag.Span{Start: name.Start, End: end}}
}

func (p *Parser) parseRecordFieldVal() ast.RecordFieldVal {
	start := p.peek().Start
	name := p.parseIdent()
	p.expect(':', ":")
	val := p.parseExpr()
	return ast.RecordFieldVal{Name: name.Name, Value: val, Span: diag.Span{Start: start, End: val.SpanEnd()}}
}

// parseLambda parses `λ[T,U](params)→ret≡match` or
// `λ[T,U](params)→ret=value`.
func (p *Parser) parseLambda() ast.Expr {
	start := p.peek().Start
	p.advance() // λ
	typeParams := p.parseTypeParams()
	params := p.parseParamList()
	p.expect('→', "→ (a mandatory return type)")
	ret := p.parseType()
	effects := p.parseEffectSet()
	body := p.parseFunctionBody()
	return &ast.LambdaExpr{TypeParams: typeParams, Params: params, Return: ret,
		Effects: effects, Body: body, Span: diag.Span{Start: start, End: nodeEnd(body)}}
}

// parseBareMatch handles `≡scrutinee{...}` appearing as an ordinary
// expression (as opposed to a function's ≡ body marker).
func (p *Parser) parseBareMatch() ast.Expr {
	start := p.peek().Start
	p.advance() // ≡
	scrutinee := p.parseExpr()
	arms := p.parseMatchArms()
	return &ast.MatchExpr{Scrutinee: scrutinee, Arms: arms, Span: diag.Span{Start: start, End: p.peek().Start}}
}

// parseLet parses `l pattern = value ; body`.
func (p *Parser) parseLet() ast.Expr {
	start := p.peek().Start
	p.advance() // l
	pat := p.parsePattern()
	p.expect('=', "=")
	value := p.parseExpr()
	p.expect(';', "; (separating a let's value from its body)")
	body := p.parseExpr()
	return &ast.LetExpr{Pattern: pat, Value: value, Body: body,
		Span: diag.Span{Start: start, End: nodeEnd(body)}}
}

// parseListLit parses `[e0, e1, .rest]`; `.rest` is only valid as the
// final element and splices the named list in.
func (p *Parser) parseListLit() ast.Expr {
	start := p.peek().Start
	p.advance() // [
	var elems []ast.Expr
	for !p.at(']') && !p.at(lexer.EOF) && !p.failed() {
		if p.at('.') {
			p.advance()
			rest := p.parseIdentOrQualified()
			elems = append(elems, &ast.UnaryOp{Op: ".rest", Operand: rest,
				Span: diag.Span{Start: rest.SpanStart(), End: rest.SpanEnd()}})
			break
		}
		elems = append(elems, p.parseExpr())
		if p.at(',') {
			p.advance()
		} else {
			break
		}
	}
	end := p.peek().End
	p.expect(']', "]")
	return &ast.ListLit{Elements: elems, Span: diag.Span{Start: start, End: end}}
}

// parseBraceExpr disambiguates a record/map literal (`{ident: ...}`)
// from a grouped expression (any other `{...}` content).
func (p *Parser) parseBraceExpr() ast.Expr {
	start := p.peek().Start
	if p.looksLikeRecordLit() {
		p.advance() // {
		var fields []ast.RecordFieldVal
		for !p.at('}') && !p.at(lexer.EOF) && !p.failed() {
			fields = append(fields, p.parseRecordFieldVal())
			if p.at(',') {
				p.advance()
			} else {
				break
			}
		}
		end := p.peek().End
		p.expect('}', "}")
		return &ast.RecordLit{Fields: fields, Span: diag.Span{Start: start, End: end}}
	}

	p.advance() // {
	inner := p.parseExpr()
	p.expect('}', "}")
	return inner
}

// looksLikeRecordLit disambiguates `{ident: ...}` (record/map literal)
// from `{ expr }` (grouped expression): the rule is "next
// non-space tokens are identifier, colon". `{}` is also a record (the
// empty one); it has no grouped-expression reading. Called with `{`
// as the current token, so peekN(1)/peekN(2) are the two tokens past it.
func (p *Parser) looksLikeRecordLit() bool {
	next := p.peekN(1)
	if next.Type == '}' {
		return true
	}
	return next.Type == lexer.Ident && p.peekN(2).Type == ':'
}

// parseParenExpr handles `(expr)` grouping, `(e0, e1, ...)` tuples,
// and `(expr : T)` type ascription. A trailing comma after the first
// element is what distinguishes a tuple from a grouped expression;
// a trailing colon distinguishes an ascription from either.
func (p *Parser) parseParenExpr() ast.Expr {
	start := p.peek().Start
	p.advance() // (

	if p.at(')') {
		end := p.peek().End
		p.advance()
		return &ast.UnitLit{Span: diag.Span{Start: start, End: end}}
	}

	first := p.parseExpr()

	if p.at(':') {
		p.advance()
		typ := p.parseType()
		end := p.peek().End
		p.expect(')', ")")
		return &ast.AscriptionExpr{Value: first, Type: typ, Span: diag.Span{Start: start, End: end}}
	}

	if p.at(',') {
		elems := []ast.Expr{first}
		for p.at(',') && !p.failed() {
			p.advance()
			if p.at(')') {
				break
			}
			elems = append(elems, p.parseExpr())
		}
		end := p.peek().End
		p.expect(')', ")")
		return &ast.TupleLit{Elements: elems, Span: diag.Span{Start: start, End: end}}
	}

	p.expect(')', ")")
	return first
}
