package lexer

// ===== Классификаторы =====

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b) || b == '$'
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\f' || b == '\v' }

func isWhitespace(b byte) bool { return isSpace(b) || b == '\n' || b == '\r' }

// isBaseChar reports the radix letters allowed after an apostrophe.
func isBaseChar(b byte) bool {
	switch b {
	case 'b', 'B', 'o', 'O', 'd', 'D', 'h', 'H':
		return true
	}
	return false
}

// validDigit reports whether b may appear in a literal of the given base.
// x, z and ? are four-state digits accepted by every base.
func validDigit(base, b byte) bool {
	switch b {
	case '_', 'x', 'X', 'z', 'Z', '?':
		return true
	}
	switch base {
	case 'b', 'B':
		return b == '0' || b == '1'
	case 'o', 'O':
		return b >= '0' && b <= '7'
	case 'd', 'D':
		return isDec(b)
	case 'h', 'H':
		return isDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
	}
	return false
}

// ===== Матчеры последовательностей операторов (жадность) =====

func (lx *Lexer) try3(a, b, c byte) bool {
	b0, b1, b2, ok := lx.cursor.Peek3()
	if !ok || b0 != a || b1 != b || b2 != c {
		return false
	}
	lx.cursor.Off += 3
	return true
}

func (lx *Lexer) try2(a, b byte) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != a || b1 != b {
		return false
	}
	lx.cursor.Off += 2
	return true
}
