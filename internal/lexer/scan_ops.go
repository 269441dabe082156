package lexer

import (
	"svelab/internal/diag"
	"svelab/internal/token"
)

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	// "(*" открывает атрибут, но "(*)": это '(' '*' ')' в @(*)
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '(' && b1 == '*' && lx.cursor.PeekAt(2) != ')' {
		lx.cursor.Off += 2
		lx.attrDepth++
		return lx.emit(token.AttrOpen, start)
	}
	if lx.attrDepth > 0 && lx.try2('*', ')') {
		lx.attrDepth--
		return lx.emit(token.AttrClose, start)
	}

	switch {
	case lx.try3('=', '=', '='):
		return lx.emit(token.EqEqEq, start)
	case lx.try3('!', '=', '='):
		return lx.emit(token.BangEqEq, start)
	case lx.try3('<', '<', '<'):
		return lx.emit(token.AShl, start)
	case lx.try3('>', '>', '>'):
		return lx.emit(token.AShr, start)
	case lx.try3('|', '-', '>'):
		return lx.emit(token.OverlapImpl, start)
	case lx.try3('|', '=', '>'):
		return lx.emit(token.NonOverlImpl, start)
	case lx.try2('*', '*'):
		return lx.emit(token.Power, start)
	case lx.try2('.', '*'):
		return lx.emit(token.DotStar, start)
	case lx.try2(':', ':'):
		return lx.emit(token.ColonColon, start)
	case lx.try2('+', ':'):
		return lx.emit(token.PlusColon, start)
	case lx.try2('-', ':'):
		return lx.emit(token.MinusColon, start)
	case lx.try2('+', '+'):
		return lx.emit(token.PlusPlus, start)
	case lx.try2('-', '-'):
		return lx.emit(token.MinusMinus, start)
	case lx.try2('+', '='):
		return lx.emit(token.PlusEq, start)
	case lx.try2('-', '='):
		return lx.emit(token.MinusEq, start)
	case lx.try2('#', '#'):
		return lx.emit(token.HashHash, start)
	case lx.try2('&', '&'):
		return lx.emit(token.AndAnd, start)
	case lx.try2('|', '|'):
		return lx.emit(token.OrOr, start)
	case lx.try2('=', '='):
		return lx.emit(token.EqEq, start)
	case lx.try2('!', '='):
		return lx.emit(token.BangEq, start)
	case lx.try2('<', '='):
		return lx.emit(token.LtEq, start)
	case lx.try2('>', '='):
		return lx.emit(token.GtEq, start)
	case lx.try2('<', '<'):
		return lx.emit(token.Shl, start)
	case lx.try2('>', '>'):
		return lx.emit(token.Shr, start)
	case lx.try2('~', '&'):
		return lx.emit(token.TildeAmp, start)
	case lx.try2('~', '|'):
		return lx.emit(token.TildePipe, start)
	case lx.try2('~', '^'), lx.try2('^', '~'):
		return lx.emit(token.TildeCaret, start)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '(':
		return lx.emit(token.LParen, start)
	case ')':
		return lx.emit(token.RParen, start)
	case '[':
		return lx.emit(token.LBracket, start)
	case ']':
		return lx.emit(token.RBracket, start)
	case '{':
		return lx.emit(token.LBrace, start)
	case '}':
		return lx.emit(token.RBrace, start)
	case ';':
		return lx.emit(token.Semicolon, start)
	case ',':
		return lx.emit(token.Comma, start)
	case '.':
		return lx.emit(token.Dot, start)
	case ':':
		return lx.emit(token.Colon, start)
	case '#':
		return lx.emit(token.Hash, start)
	case '@':
		return lx.emit(token.At, start)
	case '?':
		return lx.emit(token.Question, start)
	case '=':
		return lx.emit(token.Assign, start)
	case '+':
		return lx.emit(token.Plus, start)
	case '-':
		return lx.emit(token.Minus, start)
	case '*':
		return lx.emit(token.Star, start)
	case '/':
		return lx.emit(token.Slash, start)
	case '%':
		return lx.emit(token.Percent, start)
	case '<':
		return lx.emit(token.Lt, start)
	case '>':
		return lx.emit(token.Gt, start)
	case '!':
		return lx.emit(token.Bang, start)
	case '~':
		return lx.emit(token.Tilde, start)
	case '&':
		return lx.emit(token.Amp, start)
	case '|':
		return lx.emit(token.Pipe, start)
	case '^':
		return lx.emit(token.Caret, start)
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character")
	return tok
}
