// Package lexer turns Sigil source text into a stream of tokens.
// It is Unicode-aware (it scans runes, not bytes) and never recovers
// from a scan error: the first unexpected scalar ends the stream.
package lexer

import (
	"fmt"
	"unicode"
)

// imitate text/scanner's method of stealing negative ints for
// synthetic kinds, so that every single-scalar operator or bracket
// can just use its own rune value as its Type.
const (
	EOF = -(iota + 2)
	Unexpected

	Ident      // lowercase-leading identifier
	UpperIdent // uppercase-leading identifier (type/constructor)
	IntLit
	FloatLit
	StringLit
	CharLit
	Comment // line or block comment, discarded by the parser

	// multi-scalar ASCII operators; the single-scalar ones (≠ ≤ ≥ and
	// the rest of the glyph set) just use their own rune as Type.
	Concat     // ++
	Shl        // <<
	Shr        // >>
	Pipeline   // |>
	Range      // ..

	KWTypes    // t
	KWImport   // i
	KWConst    // c
	KWLet      // l
	KWExtern   // e
	KWExport   // export
	KWTest     // test
	KWMockable // mockable
	KWWithMock // with_mock
)

func TokenString(tok rune) string {
	switch tok {
	case EOF:
		return "<eof>"
	case Unexpected:
		return "<unexpected>"
	case Ident:
		return "<identifier>"
	case UpperIdent:
		return "<type-identifier>"
	case IntLit:
		return "<int>"
	case FloatLit:
		return "<float>"
	case StringLit:
		return "<string>"
	case CharLit:
		return "<char>"
	case Comment:
		return "<comment>"
	case Concat:
		return "++"
	case Shl:
		return "<<"
	case Shr:
		return ">>"
	case Pipeline:
		return "|>"
	case Range:
		return ".."
	case KWTypes:
		return "t"
	case KWImport:
		return "i"
	case KWConst:
		return "c"
	case KWLet:
		return "l"
	case KWExtern:
		return "e"
	case KWExport:
		return "export"
	case KWTest:
		return "test"
	case KWMockable:
		return "mockable"
	case KWWithMock:
		return "with_mock"
	default:
		if unicode.IsGraphic(tok) {
			return fmt.Sprintf("%q", tok)
		}
		return fmt.Sprintf("%U", tok)
	}
}

// singleRuneKeywords are the letters that are their own keyword only
// when they appear *alone* as an identifier; `test` keeps its `t` as
// an ordinary identifier character because the whole lexeme is `test`,
// not `t`.
var singleRuneKeywords = map[string]rune{
	"t": KWTypes,
	"i": KWImport,
	"c": KWConst,
	"l": KWLet,
	"e": KWExtern,
}

var wordKeywords = map[string]rune{
	"export":    KWExport,
	"test":      KWTest,
	"mockable":  KWMockable,
	"with_mock": KWWithMock,
}

// Primitive-type glyphs. ℤ 𝔹 𝕊 are named directly; Float,
// Char, Unit, and Never have no dedicated glyph, so
// this assigns one from the same double-struck math-alphabet family
// (an Open Question resolved in DESIGN.md).
const (
	TInt    = 'ℤ' // U+2124
	TBool   = '𝔹' // U+1D539
	TString = '𝕊' // U+1D54A
	TFloat  = '𝔽' // U+1D53D
	TChar   = 'ℂ' // U+2102 (reused; Sigil has no complex numbers)
	TUnit   = '𝟙' // U+1D7D9
	TNever  = '𝟘' // U+1D7D8
)

const (
	BoolTrue  = '⊤'
	BoolFalse = '⊥'
)
