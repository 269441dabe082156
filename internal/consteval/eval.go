// Package consteval folds constant expressions: parameter values, range
// bounds, replication counts and constant function calls. Values are cty
// values; an unknown value is poison and propagates without further
// diagnostics.
package consteval

import (
	"math/big"
	"strconv"

	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
	"svelab/internal/types"
)

const (
	maxCallDepth = 64
	maxSteps     = 1 << 20
)

// Evaluator evaluates expressions in one scope. It is cheap to construct;
// the elaborator makes one per parameter resolution.
type Evaluator struct {
	Types    *types.Interner
	Reporter diag.Reporter
	Scope    Resolver
	// Frame holds mutable variables: function locals or script storage.
	Frame *Frame
	// Script allows variables and hierarchical references (u1.W), which a
	// constant expression in a design may not use.
	Script bool

	depth int
	steps *int
}

// New creates an evaluator over scope.
func New(in *types.Interner, r diag.Reporter, scope Resolver) *Evaluator {
	return &Evaluator{Types: in, Reporter: r, Scope: scope, steps: new(int)}
}

func (ev *Evaluator) report(code diag.Code, sp source.Span, msg string) {
	diag.ReportError(ev.Reporter, code, sp, msg).Emit()
}

func (ev *Evaluator) warn(code diag.Code, sp source.Span, msg string) {
	diag.ReportWarning(ev.Reporter, code, sp, msg).Emit()
}

func (ev *Evaluator) poison() Const {
	return Poison(ev.Types.Builtins().Error)
}

func (ev *Evaluator) boolConst(v bool) Const {
	if v {
		return IntConst(big.NewInt(1), ev.Types.Builtins().Logic)
	}
	return IntConst(big.NewInt(0), ev.Types.Builtins().Logic)
}

func (ev *Evaluator) lookup(name string) (Name, bool) {
	if ev.Scope == nil {
		return Name{}, false
	}
	return ev.Scope.Resolve(name)
}

// Eval folds e. It never returns nil-like values: failures are poison.
func (ev *Evaluator) Eval(e syntax.Expr) Const {
	switch x := e.(type) {
	case nil:
		return ev.poison()
	case *syntax.Literal:
		return ev.literal(x)
	case *syntax.ParenExpr:
		return ev.Eval(x.X)
	case *syntax.IdentifierName:
		return ev.ident(x)
	case *syntax.UnaryExpr:
		return ev.unary(x)
	case *syntax.BinaryExpr:
		return ev.binary(x)
	case *syntax.TernaryExpr:
		c := ev.Eval(x.Cond)
		if c.IsPoison() {
			return ev.poison()
		}
		if c.IsTrue() {
			return ev.Eval(x.Then)
		}
		return ev.Eval(x.Else)
	case *syntax.ConcatExpr:
		return ev.concat(x.Span(), x.Items, 1)
	case *syntax.ReplicationExpr:
		n, ok := ev.EvalInt(x.Count)
		if !ok {
			return ev.poison()
		}
		if n <= 0 {
			ev.report(diag.EvalBadOperand, x.Count.Span(), "replication count must be positive")
			return ev.poison()
		}
		return ev.concat(x.Span(), x.Items, n)
	case *syntax.ElementSelectExpr:
		return ev.elementSelect(x)
	case *syntax.RangeSelectExpr:
		return ev.rangeSelect(x)
	case *syntax.MemberAccessExpr:
		return ev.member(x)
	case *syntax.SystemCallExpr:
		return ev.systemCall(x)
	case *syntax.CallExpr:
		return ev.call(x)
	case *syntax.AssignmentExpr:
		return ev.assign(x)
	case *syntax.DataTypeExpr:
		ev.report(diag.EvalBadOperand, x.Span(), "a data type is not a value")
		return ev.poison()
	}
	ev.report(diag.EvalNotConstant, e.Span(), "expression is not constant")
	return ev.poison()
}

func (ev *Evaluator) ident(x *syntax.IdentifierName) Const {
	name := x.Name.Text
	if ev.Frame != nil {
		if v, ok := ev.Frame.Lookup(name); ok {
			return v.Value
		}
	}
	n, ok := ev.lookup(name)
	if !ok {
		ev.report(diag.EvalUndeclared, x.Span(), "use of undeclared identifier '"+name+"'")
		return ev.poison()
	}
	switch n.Kind {
	case NameValue:
		return n.Value
	case NameVariable:
		if ev.Script {
			return n.Value
		}
		ev.report(diag.EvalNotConstant, x.Span(), "'"+name+"' is not a constant")
	case NameType:
		ev.report(diag.EvalNotConstant, x.Span(), "'"+name+"' is a type, not a value")
	case NameFunction:
		return ev.invoke(n, nil, x.Span(), false)
	case NameScope:
		ev.report(diag.EvalNotConstant, x.Span(), "'"+name+"' is an instance, not a value")
	}
	return ev.poison()
}

// member evaluates a hierarchical reference such as u1.W.
func (ev *Evaluator) member(x *syntax.MemberAccessExpr) Const {
	if !ev.Script {
		ev.report(diag.EvalNotConstant, x.Span(), "hierarchical reference is not allowed in a constant expression")
		return ev.poison()
	}
	scope, ok := ev.scopeOf(x.X)
	if !ok {
		return ev.poison()
	}
	n, ok := scope.Resolve(x.Member.Text)
	if !ok {
		ev.report(diag.EvalUndeclared, x.Member.Span, "no member named '"+x.Member.Text+"'")
		return ev.poison()
	}
	if n.Kind != NameValue && n.Kind != NameVariable {
		ev.report(diag.EvalNotConstant, x.Member.Span, "'"+x.Member.Text+"' is not a value")
		return ev.poison()
	}
	return n.Value
}

func (ev *Evaluator) scopeOf(e syntax.Expr) (Resolver, bool) {
	var n Name
	var ok bool
	switch x := syntax.Unparen(e).(type) {
	case *syntax.IdentifierName:
		n, ok = ev.lookup(x.Name.Text)
		if !ok {
			ev.report(diag.EvalUndeclared, x.Span(), "use of undeclared identifier '"+x.Name.Text+"'")
			return nil, false
		}
	case *syntax.MemberAccessExpr:
		outer, found := ev.scopeOf(x.X)
		if !found {
			return nil, false
		}
		n, ok = outer.Resolve(x.Member.Text)
		if !ok {
			ev.report(diag.EvalUndeclared, x.Member.Span, "no member named '"+x.Member.Text+"'")
			return nil, false
		}
	default:
		ev.report(diag.EvalUnsupported, e.Span(), "unsupported hierarchical reference")
		return nil, false
	}
	if n.Kind != NameScope || n.Scope == nil {
		ev.report(diag.EvalBadOperand, e.Span(), "expression is not an instance")
		return nil, false
	}
	return n.Scope, true
}

func (ev *Evaluator) elementSelect(x *syntax.ElementSelectExpr) Const {
	base := ev.Eval(x.X)
	idx, ok := ev.EvalInt(x.Index)
	if base.IsPoison() || !ok {
		return ev.poison()
	}
	b := ev.Types.Builtins()
	if s, isStr := base.Str(); isStr {
		if idx < 0 || idx >= int64(len(s)) {
			return IntConst(big.NewInt(0), b.Byte)
		}
		return IntConst(big.NewInt(int64(s[idx])), b.Byte)
	}
	t, _ := ev.Types.Lookup(base.Type)
	if t.Kind != types.KindIntegral {
		ev.report(diag.EvalBadOperand, x.X.Span(), "cannot select from a value of type '"+ev.Types.Format(base.Type)+"'")
		return ev.poison()
	}
	off, ok := bitOffset(t, idx)
	if !ok {
		ev.warn(diag.EvalIndexOutOfRange, x.Index.Span(), "index "+strconv.FormatInt(idx, 10)+" is out of range for '"+ev.Types.Format(base.Type)+"'")
		return ev.poison()
	}
	v, _ := base.BigInt()
	bit := unsignedBits(v, t.Width()).Bit(off)
	rt := b.Bit
	if t.Flavor.FourState() {
		rt = b.Logic
	}
	return IntConst(big.NewInt(int64(bit)), rt)
}

func (ev *Evaluator) rangeSelect(x *syntax.RangeSelectExpr) Const {
	base := ev.Eval(x.X)
	l, okL := ev.EvalInt(x.Left)
	r, okR := ev.EvalInt(x.Right)
	if base.IsPoison() || !okL || !okR {
		return ev.poison()
	}
	t, _ := ev.Types.Lookup(base.Type)
	if t.Kind != types.KindIntegral {
		ev.report(diag.EvalBadOperand, x.X.Span(), "cannot select from a value of type '"+ev.Types.Format(base.Type)+"'")
		return ev.poison()
	}
	desc := !t.Ranged || t.Left >= t.Right
	msb, lsb := l, r
	switch x.Op {
	case token.PlusColon:
		if r <= 0 {
			ev.report(diag.EvalBadOperand, x.Right.Span(), "part-select width must be positive")
			return ev.poison()
		}
		if desc {
			msb, lsb = l+r-1, l
		} else {
			msb, lsb = l, l+r-1
		}
	case token.MinusColon:
		if r <= 0 {
			ev.report(diag.EvalBadOperand, x.Right.Span(), "part-select width must be positive")
			return ev.poison()
		}
		if desc {
			msb, lsb = l, l-r+1
		} else {
			msb, lsb = l-r+1, l
		}
	}
	hiOff, ok1 := bitOffset(t, msb)
	loOff, ok2 := bitOffset(t, lsb)
	if !ok1 || !ok2 {
		ev.warn(diag.EvalIndexOutOfRange, x.Span(), "part-select is out of range for '"+ev.Types.Format(base.Type)+"'")
		return ev.poison()
	}
	if hiOff < loOff {
		hiOff, loOff = loOff, hiOff
	}
	w := uint32(hiOff - loOff + 1)
	v, _ := base.BigInt()
	bits := unsignedBits(v, t.Width())
	bits.Rsh(bits, uint(loOff))
	f := types.FlavorBit
	if t.Flavor.FourState() {
		f = types.FlavorLogic
	}
	return IntConst(unsignedBits(bits, w), ev.Types.Intern(types.MakeVector(f, false, int32(w-1), 0)))
}

// bitOffset maps a declared bit index to its position from the LSB.
func bitOffset(t types.Type, i int64) (int, bool) {
	l, r := int64(t.Left), int64(t.Right)
	if !t.Ranged {
		l, r = int64(t.Width())-1, 0
	}
	if l >= r {
		if i < r || i > l {
			return 0, false
		}
		return int(i - r), true
	}
	if i < l || i > r {
		return 0, false
	}
	return int(r - i), true
}

func (ev *Evaluator) concat(sp source.Span, items []syntax.Expr, times int64) Const {
	if len(items) == 0 {
		ev.report(diag.EvalBadOperand, sp, "empty concatenation")
		return ev.poison()
	}
	vals := make([]Const, 0, len(items))
	strs := true
	for _, it := range items {
		c := ev.Eval(it)
		if c.IsPoison() {
			return ev.poison()
		}
		if ev.isReal(c.Type) {
			ev.report(diag.EvalBadOperand, it.Span(), "real values cannot be concatenated")
			return ev.poison()
		}
		if !ev.isString(c.Type) {
			strs = false
		}
		vals = append(vals, c)
	}
	if strs {
		var s string
		for _, c := range vals {
			v, _ := c.Str()
			s += v
		}
		out := s
		for i := int64(1); i < times; i++ {
			out += s
		}
		return StringConst(out, ev.Types.Builtins().String)
	}
	acc := new(big.Int)
	var width uint32
	four := false
	for _, c := range vals {
		if ev.isString(c.Type) {
			c = ev.Convert(c, ev.stringBitsType(c), sp)
		}
		t, _ := ev.Types.Lookup(c.Type)
		w := t.Width()
		four = four || t.Flavor.FourState()
		v, _ := c.BigInt()
		acc.Lsh(acc, uint(w))
		acc.Or(acc, unsignedBits(v, w))
		width += w
	}
	if int64(width)*times > maxVectorWidth {
		ev.report(diag.EvalUnsupported, sp, "concatenation is wider than "+strconv.Itoa(maxVectorWidth)+" bits")
		return ev.poison()
	}
	out := new(big.Int).Set(acc)
	for i := int64(1); i < times; i++ {
		out.Lsh(out, uint(width))
		out.Or(out, acc)
	}
	f := types.FlavorBit
	if four {
		f = types.FlavorLogic
	}
	total := int32(int64(width) * times)
	return IntConst(out, ev.Types.Intern(types.MakeVector(f, false, total-1, 0)))
}

// stringBitsType is the packed type of a string literal: 8 bits per char.
func (ev *Evaluator) stringBitsType(c Const) types.TypeID {
	s, _ := c.Str()
	w := int32(8 * max(len(s), 1))
	return ev.Types.Intern(types.MakeVector(types.FlavorBit, false, w-1, 0))
}
