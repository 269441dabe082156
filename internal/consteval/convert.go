package consteval

import (
	"math"
	"math/big"
	"strconv"

	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
	"svelab/internal/types"
)

// maxVectorWidth bounds packed types built from constant dimensions.
const maxVectorWidth = 1 << 20

// wrap truncates v to width bits and reinterprets it with the given
// signedness.
func wrap(v *big.Int, width uint32, signed bool) *big.Int {
	r := unsignedBits(v, width)
	if signed && width > 0 && r.Bit(int(width-1)) == 1 {
		r.Sub(r, new(big.Int).Lsh(big.NewInt(1), uint(width)))
	}
	return r
}

// unsignedBits returns the low width bits of v as a non-negative number.
func unsignedBits(v *big.Int, width uint32) *big.Int {
	return new(big.Int).And(v, mask(width))
}

func mask(width uint32) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return m.Sub(m, big.NewInt(1))
}

// truncate normalizes an integral value to the width and signedness of its
// own type.
func (ev *Evaluator) truncate(c Const) Const {
	t, ok := ev.Types.Lookup(c.Type)
	if !ok || t.Kind != types.KindIntegral {
		return c
	}
	v, ok := c.BigInt()
	if !ok {
		return c
	}
	out := IntConst(wrap(v, t.Width(), t.Signed), c.Type)
	out.Fill = c.Fill
	return out
}

// Normalize settles a value in its self-determined type: unbounded
// intermediates are truncated and an unbased unsized literal becomes a
// single bit.
func (ev *Evaluator) Normalize(c Const) Const {
	if c.IsPoison() {
		return c
	}
	c = ev.truncate(c)
	c.Fill = false
	return c
}

// Zero returns the default value of a type: 0, 0.0 or "".
func (ev *Evaluator) Zero(t types.TypeID) Const {
	tt, ok := ev.Types.Lookup(t)
	if !ok {
		return Poison(t)
	}
	switch tt.Kind {
	case types.KindIntegral:
		return IntConst(big.NewInt(0), t)
	case types.KindReal:
		return RealConst(0, t)
	case types.KindString:
		return StringConst("", t)
	}
	return Poison(t)
}

// Convert performs assignment conversion of c to type t. Poison stays
// poison but takes the target type.
func (ev *Evaluator) Convert(c Const, t types.TypeID, sp source.Span) Const {
	if t == types.NoTypeID {
		return ev.Normalize(c)
	}
	if c.IsPoison() {
		return Poison(t)
	}
	tt, ok := ev.Types.Lookup(t)
	if !ok {
		return Poison(t)
	}
	switch tt.Kind {
	case types.KindIntegral:
		var v *big.Int
		switch {
		case c.Fill:
			v = big.NewInt(0)
			if c.IsTrue() {
				v = mask(tt.Width())
			}
		case ev.isString(c.Type):
			s, _ := c.Str()
			v = new(big.Int).SetBytes([]byte(s))
		case ev.isReal(c.Type):
			f, _ := c.Float()
			v, _ = new(big.Float).SetFloat64(math.Round(f)).Int(nil)
		default:
			v, _ = c.BigInt()
		}
		return IntConst(wrap(v, tt.Width(), tt.Signed), t)

	case types.KindReal:
		if ev.isString(c.Type) {
			ev.report(diag.EvalBadOperand, sp, "cannot convert a string to "+ev.Types.Format(t))
			return Poison(t)
		}
		f, _ := ev.Normalize(c).Float()
		return RealConst(f, t)

	case types.KindString:
		if s, ok := c.Str(); ok {
			return StringConst(s, t)
		}
		if ev.isReal(c.Type) {
			ev.report(diag.EvalBadOperand, sp, "cannot convert a real value to string")
			return Poison(t)
		}
		v, _ := ev.Normalize(c).BigInt()
		if v.Sign() < 0 {
			v = unsignedBits(v, ev.width(c.Type))
		}
		var buf []byte
		for _, b := range v.Bytes() {
			if b != 0 {
				buf = append(buf, b)
			}
		}
		return StringConst(string(buf), t)

	case types.KindError:
		return Poison(t)
	}
	ev.report(diag.EvalUnsupported, sp, "constant values of type '"+ev.Types.Format(t)+"' are not supported")
	return Poison(t)
}

func (ev *Evaluator) isReal(t types.TypeID) bool {
	tt, ok := ev.Types.Lookup(t)
	return ok && tt.Kind == types.KindReal
}

func (ev *Evaluator) isString(t types.TypeID) bool {
	tt, ok := ev.Types.Lookup(t)
	return ok && tt.Kind == types.KindString
}

func (ev *Evaluator) width(t types.TypeID) uint32 {
	tt, ok := ev.Types.Lookup(t)
	if !ok || tt.Kind != types.KindIntegral {
		return 32
	}
	return tt.Width()
}

// commonType is the type binary arithmetic produces: real wins, otherwise
// the wider operand, signed only when both are, four-state if either is.
func (ev *Evaluator) commonType(a, b types.TypeID) types.TypeID {
	if a == b {
		return a
	}
	ta, _ := ev.Types.Lookup(a)
	tb, _ := ev.Types.Lookup(b)
	if ta.Kind == types.KindReal || tb.Kind == types.KindReal {
		return ev.Types.Builtins().Real
	}
	if ta.Kind != types.KindIntegral || tb.Kind != types.KindIntegral {
		return ev.Types.Builtins().Error
	}
	w := max(ta.Width(), tb.Width())
	f := types.FlavorBit
	if ta.Flavor.FourState() || tb.Flavor.FourState() {
		f = types.FlavorLogic
	}
	return ev.Types.Intern(types.MakeVector(f, ta.Signed && tb.Signed, int32(w-1), 0))
}

// EvalInt evaluates an expression that must produce an integer, such as a
// range bound or a replication count. Poison yields false without a
// diagnostic.
func (ev *Evaluator) EvalInt(e syntax.Expr) (int64, bool) {
	c := ev.Eval(e)
	if c.IsPoison() {
		return 0, false
	}
	if !ev.Types.IsIntegral(c.Type) {
		ev.report(diag.EvalBadOperand, e.Span(), "expression must be integral, got '"+ev.Types.Format(c.Type)+"'")
		return 0, false
	}
	v, ok := ev.Normalize(c).Int64()
	if !ok {
		ev.report(diag.EvalBadOperand, e.Span(), "value "+c.Text()+" is out of range")
		return 0, false
	}
	return v, true
}

// ResolveType turns a syntactic data type into a TypeID. A bare implicit
// type yields NoTypeID; the caller picks the default.
func (ev *Evaluator) ResolveType(dt *syntax.DataType) types.TypeID {
	b := ev.Types.Builtins()
	if dt == nil {
		return types.NoTypeID
	}
	signed := func(def bool) bool {
		switch dt.Signing {
		case token.KwSigned:
			return true
		case token.KwUnsigned:
			return false
		}
		return def
	}
	switch dt.Keyword {
	case token.Invalid:
		if len(dt.Packed) == 0 && dt.Signing == token.Invalid {
			return types.NoTypeID
		}
		return ev.vectorType(types.FlavorLogic, signed(false), dt.Packed)
	case token.KwLogic, token.KwReg:
		return ev.vectorType(types.FlavorLogic, signed(false), dt.Packed)
	case token.KwBit:
		return ev.vectorType(types.FlavorBit, signed(false), dt.Packed)
	case token.KwByte, token.KwShortint, token.KwInt, token.KwLongint, token.KwInteger, token.KwTime:
		f := atomFlavor(dt.Keyword)
		if len(dt.Packed) > 0 {
			ev.report(diag.EvalBadOperand, dt.Packed[0].Span, "packed dimensions are not allowed on '"+f.String()+"'")
			return b.Error
		}
		return ev.Types.Intern(types.MakeAtom(f, signed(types.DefaultSigned(f))))
	case token.KwReal, token.KwRealtime:
		return b.Real
	case token.KwString:
		return b.String
	case token.Ident:
		n, ok := ev.lookup(dt.Named.Text)
		if !ok {
			ev.report(diag.EvalUndeclared, dt.Named.Span, "unknown type '"+dt.Named.Text+"'")
			return b.Error
		}
		if n.Kind != NameType {
			ev.report(diag.EvalNotAType, dt.Named.Span, "'"+dt.Named.Text+"' is not a type")
			return b.Error
		}
		if len(dt.Packed) > 0 {
			ev.report(diag.EvalUnsupported, dt.Packed[0].Span, "packed dimensions on a named type are not supported")
			return b.Error
		}
		return n.Type
	}
	ev.report(diag.EvalNotAType, dt.Span(), "'"+dt.Keyword.String()+"' is not a data type")
	return b.Error
}

func atomFlavor(k token.Kind) types.Flavor {
	switch k {
	case token.KwByte:
		return types.FlavorByte
	case token.KwShortint:
		return types.FlavorShortint
	case token.KwInt:
		return types.FlavorInt
	case token.KwLongint:
		return types.FlavorLongint
	case token.KwInteger:
		return types.FlavorInteger
	}
	return types.FlavorTime
}

// vectorType builds logic/bit with packed dimensions. Several packed
// dimensions collapse into one [w-1:0] range.
func (ev *Evaluator) vectorType(f types.Flavor, signed bool, dims []*syntax.Dimension) types.TypeID {
	if len(dims) == 0 {
		return ev.Types.Intern(types.MakeAtom(f, signed))
	}
	width := int64(1)
	var left, right int32
	for i, d := range dims {
		l, r, ok := ev.packedRange(d)
		if !ok {
			return ev.Types.Builtins().Error
		}
		if i == 0 {
			left, right = l, r
		}
		width *= int64(types.MakeVector(f, false, l, r).Width())
		if width > maxVectorWidth {
			ev.report(diag.EvalUnsupported, d.Span, "packed type is wider than "+strconv.Itoa(maxVectorWidth)+" bits")
			return ev.Types.Builtins().Error
		}
	}
	if len(dims) > 1 {
		left, right = int32(width-1), 0
	}
	return ev.Types.Intern(types.MakeVector(f, signed, left, right))
}

func (ev *Evaluator) packedRange(d *syntax.Dimension) (int32, int32, bool) {
	l, ok := ev.EvalInt(d.Left)
	if !ok {
		return 0, 0, false
	}
	if d.IsSize() {
		if l <= 0 || l > maxVectorWidth {
			ev.report(diag.EvalBadOperand, d.Span, "invalid dimension size "+strconv.FormatInt(l, 10))
			return 0, 0, false
		}
		return int32(l - 1), 0, true
	}
	r, ok := ev.EvalInt(d.Right)
	if !ok {
		return 0, 0, false
	}
	if !fitsBound(l) || !fitsBound(r) {
		ev.report(diag.EvalBadOperand, d.Span, "dimension bound is out of range")
		return 0, 0, false
	}
	return int32(l), int32(r), true
}

func fitsBound(v int64) bool {
	return v >= -maxVectorWidth*1024 && v <= maxVectorWidth*1024
}

// UnpackedType wraps elem in the unpacked dimensions of a declarator.
// [n] means [0:n-1].
func (ev *Evaluator) UnpackedType(elem types.TypeID, dims []*syntax.Dimension) types.TypeID {
	t := elem
	for i := len(dims) - 1; i >= 0; i-- {
		d := dims[i]
		l, ok := ev.EvalInt(d.Left)
		if !ok {
			return ev.Types.Builtins().Error
		}
		r := l - 1
		if d.IsSize() {
			l = 0
		} else if r, ok = ev.EvalInt(d.Right); !ok {
			return ev.Types.Builtins().Error
		}
		if !fitsBound(l) || !fitsBound(r) || (d.IsSize() && r < 0) {
			ev.report(diag.EvalBadOperand, d.Span, "invalid unpacked dimension")
			return ev.Types.Builtins().Error
		}
		t = ev.Types.Intern(types.MakeUnpackedArray(t, int32(l), int32(r)))
	}
	return t
}
