package consteval

import (
	"math"
	"math/big"
	"math/bits"

	"svelab/internal/diag"
	"svelab/internal/syntax"
	"svelab/internal/token"
	"svelab/internal/types"
)

// maxShift caps shift amounts; anything larger shifts every bit out.
const maxShift = maxVectorWidth

func (ev *Evaluator) unary(x *syntax.UnaryExpr) Const {
	v := ev.Eval(x.X)
	if v.IsPoison() {
		return ev.poison()
	}
	if ev.isString(v.Type) {
		return ev.badOperand(x.Op, x, "string")
	}
	if ev.isReal(v.Type) {
		f, _ := v.Float()
		switch x.Op {
		case token.Plus:
			return v
		case token.Minus:
			return RealConst(-f, v.Type)
		case token.Bang:
			return ev.boolConst(f == 0)
		}
		return ev.badOperand(x.Op, x, "real")
	}
	i, _ := v.BigInt()
	t, _ := ev.Types.Lookup(v.Type)
	switch x.Op {
	case token.Plus:
		return v
	case token.Minus:
		return IntConst(new(big.Int).Neg(i), v.Type)
	case token.Tilde:
		return IntConst(new(big.Int).Not(i), v.Type)
	case token.Bang:
		return ev.boolConst(i.Sign() == 0)
	}

	// редукции работают с битами ширины типа
	u := unsignedBits(i, t.Width())
	var r bool
	switch x.Op {
	case token.Amp, token.TildeAmp:
		r = u.Cmp(mask(t.Width())) == 0
	case token.Pipe, token.TildePipe:
		r = u.Sign() != 0
	case token.Caret, token.TildeCaret:
		r = popCount(u)%2 == 1
	default:
		return ev.badOperand(x.Op, x, "integral")
	}
	if x.Op == token.TildeAmp || x.Op == token.TildePipe || x.Op == token.TildeCaret {
		r = !r
	}
	return ev.boolConst(r)
}

func popCount(v *big.Int) int {
	n := 0
	for _, w := range v.Bits() {
		n += bits.OnesCount(uint(w))
	}
	return n
}

func (ev *Evaluator) badOperand(op token.Kind, e syntax.Expr, what string) Const {
	ev.report(diag.EvalBadOperand, e.Span(), "operator "+op.String()+" is not valid for "+what+" operands")
	return ev.poison()
}

func (ev *Evaluator) binary(x *syntax.BinaryExpr) Const {
	switch x.Op {
	case token.AndAnd, token.OrOr:
		l := ev.Eval(x.X)
		if l.IsPoison() {
			return ev.poison()
		}
		if x.Op == token.AndAnd && !l.IsTrue() {
			return ev.boolConst(false)
		}
		if x.Op == token.OrOr && l.IsTrue() {
			return ev.boolConst(true)
		}
		r := ev.Eval(x.Y)
		if r.IsPoison() {
			return ev.poison()
		}
		return ev.boolConst(r.IsTrue())
	}

	l := ev.Eval(x.X)
	r := ev.Eval(x.Y)
	if l.IsPoison() || r.IsPoison() {
		return ev.poison()
	}
	ls, lStr := l.Str()
	rs, rStr := r.Str()
	if lStr || rStr {
		if !lStr || !rStr {
			return ev.badOperand(x.Op, x, "mixed string")
		}
		switch x.Op {
		case token.EqEq, token.EqEqEq:
			return ev.boolConst(ls == rs)
		case token.BangEq, token.BangEqEq:
			return ev.boolConst(ls != rs)
		case token.Lt:
			return ev.boolConst(ls < rs)
		case token.LtEq:
			return ev.boolConst(ls <= rs)
		case token.Gt:
			return ev.boolConst(ls > rs)
		case token.GtEq:
			return ev.boolConst(ls >= rs)
		}
		return ev.badOperand(x.Op, x, "string")
	}
	if ev.isReal(l.Type) || ev.isReal(r.Type) {
		return ev.realBinary(x, l, r)
	}
	return ev.intBinary(x, l, r)
}

func (ev *Evaluator) realBinary(x *syntax.BinaryExpr, l, r Const) Const {
	a, _ := ev.Normalize(l).Float()
	b, _ := ev.Normalize(r).Float()
	rt := ev.Types.Builtins().Real
	switch x.Op {
	case token.Plus:
		return RealConst(a+b, rt)
	case token.Minus:
		return RealConst(a-b, rt)
	case token.Star:
		return RealConst(a*b, rt)
	case token.Slash:
		if b == 0 {
			ev.warn(diag.EvalDivByZero, x.Span(), "division by zero")
			return Poison(rt)
		}
		return RealConst(a/b, rt)
	case token.Power:
		return RealConst(math.Pow(a, b), rt)
	case token.EqEq, token.EqEqEq:
		return ev.boolConst(a == b)
	case token.BangEq, token.BangEqEq:
		return ev.boolConst(a != b)
	case token.Lt:
		return ev.boolConst(a < b)
	case token.LtEq:
		return ev.boolConst(a <= b)
	case token.Gt:
		return ev.boolConst(a > b)
	case token.GtEq:
		return ev.boolConst(a >= b)
	}
	return ev.badOperand(x.Op, x, "real")
}

// intBinary folds integral operators. Arithmetic runs in unbounded
// precision; the result is truncated when it is assigned or normalized.
func (ev *Evaluator) intBinary(x *syntax.BinaryExpr, l, r Const) Const {
	// '0/'1 take the width of the other operand
	if l.Fill && !r.Fill {
		l = ev.Convert(l, r.Type, x.X.Span())
	} else if r.Fill && !l.Fill {
		r = ev.Convert(r, l.Type, x.Y.Span())
	}
	a, _ := l.BigInt()
	b, _ := r.BigInt()
	ct := ev.commonType(l.Type, r.Type)
	z := new(big.Int)

	switch x.Op {
	case token.Plus:
		return IntConst(z.Add(a, b), ct)
	case token.Minus:
		return IntConst(z.Sub(a, b), ct)
	case token.Star:
		return IntConst(z.Mul(a, b), ct)
	case token.Amp:
		return IntConst(z.And(a, b), ct)
	case token.Pipe:
		return IntConst(z.Or(a, b), ct)
	case token.Caret:
		return IntConst(z.Xor(a, b), ct)
	case token.TildeCaret:
		return IntConst(z.Not(z.Xor(a, b)), ct)

	case token.Slash, token.Percent:
		a, b = ev.asType(a, l.Type, ct), ev.asType(b, r.Type, ct)
		if b.Sign() == 0 {
			ev.warn(diag.EvalDivByZero, x.Span(), "division by zero")
			return Poison(ct)
		}
		if x.Op == token.Slash {
			return IntConst(z.Quo(a, b), ct)
		}
		return IntConst(z.Rem(a, b), ct)

	case token.Power:
		return ev.power(x, l, a, b)

	case token.Shl, token.AShl, token.Shr, token.AShr:
		return ev.shift(x.Op, l, a, b)

	case token.EqEq, token.EqEqEq, token.BangEq, token.BangEqEq,
		token.Lt, token.LtEq, token.Gt, token.GtEq:
		a, b = ev.asType(a, l.Type, ct), ev.asType(b, r.Type, ct)
		c := a.Cmp(b)
		var res bool
		switch x.Op {
		case token.EqEq, token.EqEqEq:
			res = c == 0
		case token.BangEq, token.BangEqEq:
			res = c != 0
		case token.Lt:
			res = c < 0
		case token.LtEq:
			res = c <= 0
		case token.Gt:
			res = c > 0
		case token.GtEq:
			res = c >= 0
		}
		return ev.boolConst(res)
	}
	ev.report(diag.EvalUnsupported, x.Span(), "operator "+x.Op.String()+" is not supported in constant expressions")
	return ev.poison()
}

// asType reinterprets v, typed from, in the common operand type to: the
// value is first settled in its own type, then extended.
func (ev *Evaluator) asType(v *big.Int, from, to types.TypeID) *big.Int {
	ft, ok := ev.Types.Lookup(from)
	tt, ok2 := ev.Types.Lookup(to)
	if !ok || !ok2 || ft.Kind != types.KindIntegral || tt.Kind != types.KindIntegral {
		return v
	}
	v = wrap(v, ft.Width(), ft.Signed)
	return wrap(v, tt.Width(), tt.Signed)
}

// power: the result has the type of the left operand.
func (ev *Evaluator) power(x *syntax.BinaryExpr, l Const, a, b *big.Int) Const {
	t, _ := ev.Types.Lookup(l.Type)
	if b.Sign() < 0 {
		switch {
		case a.Sign() == 0:
			ev.warn(diag.EvalDivByZero, x.Span(), "zero raised to a negative power")
			return Poison(l.Type)
		case a.CmpAbs(big.NewInt(1)) == 0:
			if a.Sign() < 0 && b.Bit(0) == 1 {
				return IntConst(big.NewInt(-1), l.Type)
			}
			return IntConst(big.NewInt(1), l.Type)
		}
		return IntConst(big.NewInt(0), l.Type)
	}
	m := new(big.Int).Lsh(big.NewInt(1), uint(t.Width()))
	base := unsignedBits(a, t.Width())
	return ev.truncate(IntConst(new(big.Int).Exp(base, b, m), l.Type))
}

// shift: the result has the type of the left operand; the amount is
// unsigned.
func (ev *Evaluator) shift(op token.Kind, l Const, a, b *big.Int) Const {
	t, _ := ev.Types.Lookup(l.Type)
	w := t.Width()
	if b.Sign() < 0 || !b.IsInt64() || b.Int64() > maxShift {
		if op == token.AShr && t.Signed && wrap(a, w, true).Sign() < 0 {
			return IntConst(big.NewInt(-1), l.Type)
		}
		return IntConst(big.NewInt(0), l.Type)
	}
	n := uint(b.Int64())
	switch op {
	case token.Shl, token.AShl:
		return ev.truncate(IntConst(new(big.Int).Lsh(a, n), l.Type))
	case token.AShr:
		if t.Signed {
			return IntConst(new(big.Int).Rsh(wrap(a, w, true), n), l.Type)
		}
	}
	return IntConst(new(big.Int).Rsh(unsignedBits(a, w), n), l.Type)
}
