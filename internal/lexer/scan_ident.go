package lexer

import (
	"svelab/internal/diag"
	"svelab/internal/token"
)

// scanIdentOrKeyword сканирует [a-zA-Z_][a-zA-Z0-9_$]* и проверяет через LookupKeyword.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.EatWhile(isIdentContinueByte)

	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

// scanEscapedIdent reads \anything-up-to-whitespace. The backslash stays in Text.
func (lx *Lexer) scanEscapedIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	if lx.cursor.EatWhile(func(c byte) bool { return !isWhitespace(c) }) == 0 {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadEscapedIdent, sp, "escaped identifier is empty")
		return token.Token{Kind: token.Invalid, Span: sp, Text: "\\"}
	}
	return lx.emit(token.Ident, start)
}

// scanSystemIdent reads $name; a lone '$' is invalid in this subset.
func (lx *Lexer) scanSystemIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	if lx.cursor.EatWhile(isIdentContinueByte) == 0 {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unexpected '$'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: "$"}
	}
	return lx.emit(token.SystemIdent, start)
}
