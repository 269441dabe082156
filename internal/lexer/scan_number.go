package lexer

import (
	"svelab/internal/diag"
	"svelab/internal/token"
)

var timeUnits = []string{"ms", "us", "ns", "ps", "fs", "s"}

// scanNumber разбирает десятичные, вещественные, временные и sized based литералы:
// 42, 1_000, 1.5, 2e-3, 10ns, 8'hFF, 4'sb1010, 16 'd 5.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.EatWhile(func(c byte) bool { return isDec(c) || c == '_' })

	kind := token.IntLit
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		lx.cursor.Bump()
		lx.cursor.EatWhile(func(c byte) bool { return isDec(c) || c == '_' })
		kind = token.RealLit
	}
	if lx.scanExponent() {
		kind = token.RealLit
	}
	if lx.scanTimeUnit() {
		return lx.emit(token.TimeLit, start)
	}
	if kind == token.IntLit && lx.scanBasedTail(true) {
		return lx.finishBased(start)
	}
	return lx.emit(kind, start)
}

func (lx *Lexer) scanExponent() bool {
	b := lx.cursor.Peek()
	if b != 'e' && b != 'E' {
		return false
	}
	n := uint32(1)
	if s := lx.cursor.PeekAt(1); s == '+' || s == '-' {
		n = 2
	}
	if !isDec(lx.cursor.PeekAt(n)) {
		return false
	}
	lx.cursor.Off += n
	lx.cursor.EatWhile(func(c byte) bool { return isDec(c) || c == '_' })
	return true
}

func (lx *Lexer) scanTimeUnit() bool {
	for _, u := range timeUnits {
		n := uint32(len(u))
		match := true
		for i := range n {
			if lx.cursor.PeekAt(i) != u[i] {
				match = false
				break
			}
		}
		if match && !isIdentContinueByte(lx.cursor.PeekAt(n)) {
			lx.cursor.Off += n
			return true
		}
	}
	return false
}

// scanBasedTail consumes "'[s]<base> digits" when present. With allowSpace the
// apostrophe may be separated from the size by blanks.
func (lx *Lexer) scanBasedTail(allowSpace bool) bool {
	save := lx.cursor.Mark()
	if allowSpace {
		lx.cursor.EatWhile(isSpace)
	}
	if lx.cursor.Peek() != '\'' {
		lx.cursor.Reset(save)
		return false
	}
	n := uint32(1)
	if s := lx.cursor.PeekAt(1); s == 's' || s == 'S' {
		n = 2
	}
	if !isBaseChar(lx.cursor.PeekAt(n)) {
		lx.cursor.Reset(save)
		return false
	}
	lx.cursor.Off += n + 1
	return true
}

func (lx *Lexer) finishBased(start Mark) token.Token {
	base := lx.file.Content[lx.cursor.Off-1]
	lx.cursor.EatWhile(isSpace)
	digitsStart := lx.cursor.Off
	lx.cursor.EatWhile(func(c byte) bool {
		return isDec(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') || c == '_' || c == 'x' || c == 'X' || c == 'z' || c == 'Z' || c == '?'
	})
	tok := lx.emit(token.BasedLit, start)
	digits := lx.file.Content[digitsStart:lx.cursor.Off]
	if len(digits) == 0 {
		lx.errLex(diag.LexBadNumber, tok.Span, "based literal has no digits")
		return tok
	}
	for _, d := range digits {
		if !validDigit(base, d) {
			lx.errLex(diag.LexBadNumber, tok.Span, "digit '"+string(d)+"' is not valid for base '"+string(base)+"'")
			break
		}
	}
	return tok
}

// scanApostrophe handles unsized based literals ('hFF), unbased unsized
// literals ('0 '1 'x 'z) and a bare apostrophe.
func (lx *Lexer) scanApostrophe() token.Token {
	start := lx.cursor.Mark()
	if lx.scanBasedTail(false) {
		return lx.finishBased(start)
	}
	lx.cursor.Bump()
	switch b := lx.cursor.Peek(); b {
	case '0', '1', 'x', 'X', 'z', 'Z':
		if !isIdentContinueByte(lx.cursor.PeekAt(1)) {
			lx.cursor.Bump()
			return lx.emit(token.UnbasedUnsizedLit, start)
		}
	}
	return lx.emit(token.Apostrophe, start)
}
