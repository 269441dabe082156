package parser

import "svelab/internal/token"

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precLogicalOr      = 1  // ||
	precLogicalAnd     = 2  // &&
	precBitwiseOr      = 3  // |
	precBitwiseXor     = 4  // ^ ~^
	precBitwiseAnd     = 5  // &
	precEquality       = 6  // == != === !==
	precComparison     = 7  // < <= > >=
	precShift          = 8  // << >> <<< >>>
	precAdditive       = 9  // + -
	precMultiplicative = 10 // * / %
	precPower          = 11 // **
)

// getBinaryOperatorPrec возвращает приоритет и ассоциативность оператора
// Возвращает (приоритет, правоассоциативный)
func getBinaryOperatorPrec(kind token.Kind) (int, bool) {
	switch kind {
	case token.OrOr:
		return precLogicalOr, false
	case token.AndAnd:
		return precLogicalAnd, false
	case token.Pipe:
		return precBitwiseOr, false
	case token.Caret, token.TildeCaret:
		return precBitwiseXor, false
	case token.Amp:
		return precBitwiseAnd, false
	case token.EqEq, token.BangEq, token.EqEqEq, token.BangEqEq:
		return precEquality, false
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, false
	case token.Shl, token.Shr, token.AShl, token.AShr:
		return precShift, false
	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, false
	case token.Power:
		return precPower, false
	default:
		return -1, false // не бинарный оператор
	}
}

// isUnaryOperator reports prefix operators, reductions included.
func isUnaryOperator(kind token.Kind) bool {
	switch kind {
	case token.Plus, token.Minus, token.Bang, token.Tilde,
		token.Amp, token.Pipe, token.Caret, token.TildeAmp, token.TildePipe, token.TildeCaret:
		return true
	}
	return false
}
