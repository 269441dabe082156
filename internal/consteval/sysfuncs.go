package consteval

import (
	"math"
	"math/big"
	"strconv"

	"svelab/internal/diag"
	"svelab/internal/syntax"
	"svelab/internal/types"
)

type systemFunc struct {
	min, max int
	eval     func(ev *Evaluator, call *syntax.SystemCallExpr) Const
}

var systemFuncs map[string]systemFunc

func init() {
	systemFuncs = map[string]systemFunc{
		"$clog2":    {1, 1, (*Evaluator).sysClog2},
		"$bits":     {1, 1, (*Evaluator).sysBits},
		"$signed":   {1, 1, func(ev *Evaluator, c *syntax.SystemCallExpr) Const { return ev.sysSign(c, true) }},
		"$unsigned": {1, 1, func(ev *Evaluator, c *syntax.SystemCallExpr) Const { return ev.sysSign(c, false) }},
		"$rtoi":     {1, 1, (*Evaluator).sysRtoi},
		"$itor":     {1, 1, (*Evaluator).sysItor},
	}
}

func (ev *Evaluator) systemCall(x *syntax.SystemCallExpr) Const {
	fn, ok := systemFuncs[x.Name.Text]
	if !ok {
		ev.report(diag.EvalUnknownSystemFunc, x.Name.Span, "unknown system function '"+x.Name.Text+"'")
		return ev.poison()
	}
	if len(x.Args) < fn.min || len(x.Args) > fn.max {
		ev.report(diag.EvalBadArgCount, x.Span(), "'"+x.Name.Text+"' expects "+plural(fn.min, "argument")+", got "+strconv.Itoa(len(x.Args)))
		return ev.poison()
	}
	return fn.eval(ev, x)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

func (ev *Evaluator) sysClog2(x *syntax.SystemCallExpr) Const {
	c := ev.Eval(x.Args[0])
	if c.IsPoison() {
		return ev.poison()
	}
	if !ev.Types.IsIntegral(c.Type) {
		ev.report(diag.EvalBadOperand, x.Args[0].Span(), "'$clog2' expects an integral argument")
		return ev.poison()
	}
	v, _ := ev.Normalize(c).BigInt()
	n := 0
	if v.Cmp(big.NewInt(1)) > 0 {
		n = new(big.Int).Sub(v, big.NewInt(1)).BitLen()
	}
	return IntConst(big.NewInt(int64(n)), ev.Types.Builtins().Int)
}

// sysBits accepts a data type, a type name, a variable, or any expression.
// Variables contribute their declared type without being read.
func (ev *Evaluator) sysBits(x *syntax.SystemCallExpr) Const {
	var t types.TypeID
	switch a := syntax.Unparen(x.Args[0]).(type) {
	case *syntax.DataTypeExpr:
		t = ev.ResolveType(a.Type)
	case *syntax.IdentifierName:
		if ev.Frame != nil {
			if v, ok := ev.Frame.Lookup(a.Name.Text); ok {
				t = v.Type
				break
			}
		}
		if n, ok := ev.lookup(a.Name.Text); ok && (n.Kind == NameType || n.Kind == NameVariable) {
			t = n.Type
			break
		}
		t = ev.bitsOfValue(ev.Eval(a))
	default:
		t = ev.bitsOfValue(ev.Eval(a))
	}
	if ev.Types.IsError(t) {
		return ev.poison()
	}
	w := ev.Types.BitWidth(t)
	if w == 0 {
		ev.report(diag.EvalBadOperand, x.Args[0].Span(), "'$bits' of type '"+ev.Types.Format(t)+"' is not a constant")
		return ev.poison()
	}
	return IntConst(new(big.Int).SetUint64(w), ev.Types.Builtins().Int)
}

func (ev *Evaluator) bitsOfValue(c Const) types.TypeID {
	if c.IsPoison() {
		return ev.Types.Builtins().Error
	}
	if ev.isString(c.Type) {
		return ev.stringBitsType(c)
	}
	return c.Type
}

func (ev *Evaluator) sysSign(x *syntax.SystemCallExpr, signed bool) Const {
	c := ev.Eval(x.Args[0])
	if c.IsPoison() {
		return ev.poison()
	}
	t, _ := ev.Types.Lookup(c.Type)
	if t.Kind != types.KindIntegral {
		ev.report(diag.EvalBadOperand, x.Args[0].Span(), "'"+x.Name.Text+"' expects an integral argument")
		return ev.poison()
	}
	c = ev.Normalize(c)
	t.Signed = signed
	return ev.truncate(Const{Val: c.Val, Type: ev.Types.Intern(t)})
}

func (ev *Evaluator) sysRtoi(x *syntax.SystemCallExpr) Const {
	c := ev.Eval(x.Args[0])
	f, ok := c.Float()
	if !ok {
		return ev.poison()
	}
	v, _ := new(big.Float).SetFloat64(math.Trunc(f)).Int(nil)
	return ev.truncate(IntConst(v, ev.Types.Builtins().Integer))
}

func (ev *Evaluator) sysItor(x *syntax.SystemCallExpr) Const {
	c := ev.Eval(x.Args[0])
	if c.IsPoison() {
		return ev.poison()
	}
	if !ev.Types.IsIntegral(c.Type) {
		ev.report(diag.EvalBadOperand, x.Args[0].Span(), "'$itor' expects an integral argument")
		return ev.poison()
	}
	f, _ := ev.Normalize(c).Float()
	return RealConst(f, ev.Types.Builtins().Real)
}
