package consteval

import (
	"math/big"
	"strconv"
	"strings"

	"svelab/internal/diag"
	"svelab/internal/syntax"
	"svelab/internal/types"
)

// maxLiteralWidth bounds the size prefix of a based literal.
const maxLiteralWidth = 1 << 16

func (ev *Evaluator) literal(lit *syntax.Literal) Const {
	b := ev.Types.Builtins()
	text := strings.ReplaceAll(lit.Text, "_", "")
	switch lit.Kind() {
	case syntax.KindIntegerLiteral:
		v, ok := new(big.Int).SetString(text, 10)
		if !ok {
			ev.report(diag.EvalBadOperand, lit.Span(), "malformed integer literal '"+lit.Text+"'")
			return Poison(b.Error)
		}
		return IntConst(v, ev.unsizedType(v))

	case syntax.KindBasedLiteral:
		return ev.basedLiteral(lit)

	case syntax.KindUnbasedUnsizedLiteral:
		c := IntConst(big.NewInt(0), b.Logic)
		if strings.HasSuffix(lit.Text, "1") {
			c = IntConst(big.NewInt(1), b.Logic)
		}
		c.Fill = true
		return c

	case syntax.KindRealLiteral:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			ev.report(diag.EvalBadOperand, lit.Span(), "malformed real literal '"+lit.Text+"'")
			return Poison(b.Error)
		}
		return RealConst(f, b.Real)

	case syntax.KindTimeLiteral:
		// единицы времени отбрасываются: значение в единицах модуля
		num := strings.TrimRightFunc(text, func(r rune) bool { return r >= 'a' && r <= 'z' })
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return Poison(b.Error)
		}
		return RealConst(f, b.Real)

	case syntax.KindStringLiteral:
		return StringConst(unquote(lit.Text), b.String)
	}
	return Poison(b.Error)
}

// unsizedType is int unless the value needs more bits.
func (ev *Evaluator) unsizedType(v *big.Int) types.TypeID {
	if v.BitLen() < 32 {
		return ev.Types.Builtins().Int
	}
	if v.BitLen() < 64 {
		return ev.Types.Builtins().Longint
	}
	w := int32(v.BitLen()) + 1
	return ev.Types.Intern(types.MakeVector(types.FlavorLogic, true, w-1, 0))
}

// basedLiteral разбирает "[size]'[s]<base>digits"; x, z и ? читаются как 0.
func (ev *Evaluator) basedLiteral(lit *syntax.Literal) Const {
	b := ev.Types.Builtins()
	text := strings.Map(func(r rune) rune {
		if r == '_' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, lit.Text)
	tick := strings.IndexByte(text, '\'')
	if tick < 0 || tick+2 > len(text) {
		ev.report(diag.EvalBadOperand, lit.Span(), "malformed based literal '"+lit.Text+"'")
		return Poison(b.Error)
	}
	width := int64(32)
	sized := tick > 0
	if sized {
		w, err := strconv.ParseInt(text[:tick], 10, 64)
		if err != nil || w <= 0 || w > maxLiteralWidth {
			ev.report(diag.EvalBadOperand, lit.Span(), "invalid size for based literal '"+lit.Text+"'")
			return Poison(b.Error)
		}
		width = w
	}
	rest := text[tick+1:]
	signed := false
	if rest[0] == 's' || rest[0] == 'S' {
		signed = true
		rest = rest[1:]
	}
	if rest == "" {
		return Poison(b.Error)
	}
	base := 10
	switch rest[0] {
	case 'b', 'B':
		base = 2
	case 'o', 'O':
		base = 8
	case 'h', 'H':
		base = 16
	}
	digits := strings.Map(func(r rune) rune {
		switch r {
		case 'x', 'X', 'z', 'Z', '?':
			return '0'
		}
		return r
	}, rest[1:])
	v, ok := new(big.Int).SetString(digits, base)
	if !ok {
		ev.report(diag.EvalBadOperand, lit.Span(), "malformed based literal '"+lit.Text+"'")
		return Poison(b.Error)
	}
	t := ev.Types.Intern(types.MakeVector(types.FlavorLogic, signed, int32(width-1), 0))
	return ev.truncate(IntConst(v, t))
}

func unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	if !strings.Contains(text, "\\") {
		return text
	}
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 == len(text) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch text[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '\n':
		default:
			if text[i] >= '0' && text[i] <= '7' {
				j := i
				for j < len(text) && j < i+3 && text[j] >= '0' && text[j] <= '7' {
					j++
				}
				n, _ := strconv.ParseUint(text[i:j], 8, 8)
				sb.WriteByte(byte(n))
				i = j - 1
				continue
			}
			sb.WriteByte(text[i])
		}
	}
	return sb.String()
}
