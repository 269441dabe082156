package consteval

import (
	"strconv"

	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
	"svelab/internal/types"
)

type flow uint8

const (
	flowNext flow = iota
	flowReturn
	flowAbort
)

func (ev *Evaluator) call(x *syntax.CallExpr) Const {
	n, ok := ev.lookup(x.Callee.Text)
	if !ok {
		ev.report(diag.EvalUndeclared, x.Callee.Span, "use of undeclared function '"+x.Callee.Text+"'")
		return ev.poison()
	}
	if n.Kind != NameFunction || n.Func == nil {
		ev.report(diag.EvalBadOperand, x.Callee.Span, "'"+x.Callee.Text+"' is not a function")
		return ev.poison()
	}
	return ev.invoke(n, x.Args, x.Span(), false)
}

// invoke runs a constant function. Arguments are evaluated in the caller's
// scope; the body runs in a fresh frame over the function's declaring
// scope.
func (ev *Evaluator) invoke(n Name, args []syntax.Expr, sp source.Span, stmt bool) Const {
	fd := n.Func
	b := ev.Types.Builtins()
	if ev.depth >= maxCallDepth {
		ev.report(diag.EvalRecursionLimit, sp, "constant function calls nested deeper than "+strconv.Itoa(maxCallDepth))
		return ev.poison()
	}
	if len(args) > len(fd.Args) {
		ev.report(diag.EvalBadArgCount, sp, "too many arguments to '"+fd.Name.Text+"': expected "+strconv.Itoa(len(fd.Args))+", got "+strconv.Itoa(len(args)))
		return ev.poison()
	}
	vals := make([]Const, len(args))
	for i, a := range args {
		vals[i] = ev.Eval(a)
	}

	scope := n.Scope
	if scope == nil {
		scope = ev.Scope
	}
	callee := &Evaluator{
		Types:    ev.Types,
		Reporter: ev.Reporter,
		Scope:    scope,
		Frame:    NewFrame(nil),
		Script:   ev.Script,
		depth:    ev.depth + 1,
		steps:    ev.steps,
	}
	if callee.steps == nil {
		callee.steps = new(int)
	}

	for i, arg := range fd.Args {
		if arg.Direction != token.KwInput && arg.Direction != token.Invalid {
			ev.report(diag.EvalUnsupported, arg.Span, "only input arguments are supported in constant functions")
			return ev.poison()
		}
		t := callee.ResolveType(arg.Type)
		if t == types.NoTypeID {
			t = b.Logic
		}
		var v Const
		switch {
		case i < len(vals):
			v = vals[i]
		case arg.Default != nil:
			v = callee.Eval(arg.Default)
		default:
			ev.report(diag.EvalBadArgCount, sp, "missing value for argument '"+arg.Name.Text+"' of '"+fd.Name.Text+"'")
			return ev.poison()
		}
		callee.Frame.Declare(arg.Name.Text, t, callee.Convert(v, t, sp))
	}

	if fd.ReturnType == nil {
		callee.execList(fd.Body)
		if stmt {
			return Poison(b.Void)
		}
		ev.report(diag.EvalNoReturn, sp, "void function '"+fd.Name.Text+"' does not return a value")
		return Poison(b.Void)
	}
	rt := callee.ResolveType(fd.ReturnType)
	if rt == types.NoTypeID {
		rt = b.Logic
	}
	// неявная переменная результата носит имя функции
	result := callee.Frame.Declare(fd.Name.Text, rt, callee.Zero(rt))
	f, v := callee.execList(fd.Body)
	switch f {
	case flowAbort:
		return Poison(rt)
	case flowReturn:
		return callee.Convert(v, rt, sp)
	}
	return result.Value
}

func (ev *Evaluator) assign(x *syntax.AssignmentExpr) Const {
	name, ok := syntax.SimpleName(x.LHS)
	if !ok {
		ev.report(diag.EvalUnsupported, x.LHS.Span(), "only assignments to simple variables can be evaluated")
		return ev.poison()
	}
	var v *Variable
	if ev.Frame != nil {
		v, ok = ev.Frame.Lookup(name.Text)
	}
	if v == nil {
		if _, found := ev.lookup(name.Text); found {
			ev.report(diag.EvalNotConstant, x.LHS.Span(), "cannot assign to '"+name.Text+"' in a constant expression")
		} else {
			ev.report(diag.EvalUndeclared, x.LHS.Span(), "use of undeclared identifier '"+name.Text+"'")
		}
		return ev.poison()
	}
	val := ev.Eval(x.RHS)
	if val.IsPoison() {
		return val
	}
	v.Value = ev.Convert(val, v.Type, x.RHS.Span())
	return v.Value
}

// Exec runs one statement against ev.Frame. It reports whether a return
// statement executed, and its value.
func (ev *Evaluator) Exec(s syntax.Stmt) (Const, bool) {
	if ev.Frame == nil {
		ev.Frame = NewFrame(nil)
	}
	if ev.steps == nil {
		ev.steps = new(int)
	}
	f, v := ev.exec(s)
	return v, f == flowReturn
}

// Declare creates variables for a data declaration in ev.Frame and
// evaluates their initializers.
func (ev *Evaluator) Declare(dd *syntax.DataDeclaration) []*Variable {
	if ev.Frame == nil {
		ev.Frame = NewFrame(nil)
	}
	t := ev.ResolveType(dd.Type)
	if t == types.NoTypeID {
		t = ev.Types.Builtins().Logic
	}
	out := make([]*Variable, 0, len(dd.Declarators))
	for _, d := range dd.Declarators {
		vt := t
		if len(d.Dims) > 0 {
			vt = ev.UnpackedType(t, d.Dims)
		}
		val := ev.Zero(vt)
		if d.Init != nil {
			val = ev.Convert(ev.Eval(d.Init), vt, d.Init.Span())
		}
		out = append(out, ev.Frame.Declare(d.Name.Text, vt, val))
	}
	return out
}

func (ev *Evaluator) step(sp source.Span) bool {
	if ev.steps == nil {
		ev.steps = new(int)
	}
	*ev.steps++
	if *ev.steps == maxSteps {
		ev.report(diag.EvalRecursionLimit, sp, "constant evaluation exceeded "+strconv.Itoa(maxSteps)+" steps")
	}
	return *ev.steps < maxSteps
}

func (ev *Evaluator) execList(list []syntax.Stmt) (flow, Const) {
	for _, s := range list {
		if f, v := ev.exec(s); f != flowNext {
			return f, v
		}
	}
	return flowNext, Const{}
}

func (ev *Evaluator) exec(s syntax.Stmt) (flow, Const) {
	if s == nil {
		return flowNext, Const{}
	}
	if !ev.step(s.Span()) {
		return flowAbort, Const{}
	}
	switch st := s.(type) {
	case *syntax.EmptyStmt:
		return flowNext, Const{}
	case *syntax.ExprStmt:
		if call, ok := st.X.(*syntax.CallExpr); ok {
			if n, found := ev.lookup(call.Callee.Text); found && n.Kind == NameFunction && n.Func != nil {
				ev.invoke(n, call.Args, call.Span(), true)
				return flowNext, Const{}
			}
		}
		if ev.Eval(st.X).IsPoison() {
			return flowAbort, Const{}
		}
		return flowNext, Const{}
	case *syntax.DeclStmt:
		ev.Declare(st.Decl)
		return flowNext, Const{}
	case *syntax.BlockStmt:
		outer := ev.Frame
		ev.Frame = NewFrame(outer)
		defer func() { ev.Frame = outer }()
		return ev.execList(st.Stmts)
	case *syntax.IfStmt:
		c := ev.Eval(st.Cond)
		if c.IsPoison() {
			return flowAbort, Const{}
		}
		if c.IsTrue() {
			return ev.exec(st.Then)
		}
		return ev.exec(st.Else)
	case *syntax.WhileStmt:
		for {
			c := ev.Eval(st.Cond)
			if c.IsPoison() {
				return flowAbort, Const{}
			}
			if !c.IsTrue() {
				return flowNext, Const{}
			}
			if f, v := ev.exec(st.Body); f != flowNext {
				return f, v
			}
			if !ev.step(st.Span()) {
				return flowAbort, Const{}
			}
		}
	case *syntax.ForStmt:
		outer := ev.Frame
		ev.Frame = NewFrame(outer)
		defer func() { ev.Frame = outer }()
		if f, v := ev.execList(st.Init); f != flowNext {
			return f, v
		}
		for {
			if st.Cond != nil {
				c := ev.Eval(st.Cond)
				if c.IsPoison() {
					return flowAbort, Const{}
				}
				if !c.IsTrue() {
					return flowNext, Const{}
				}
			}
			if f, v := ev.exec(st.Body); f != flowNext {
				return f, v
			}
			for _, e := range st.Step {
				if ev.Eval(e).IsPoison() {
					return flowAbort, Const{}
				}
			}
			if !ev.step(st.Span()) {
				return flowAbort, Const{}
			}
		}
	case *syntax.ReturnStmt:
		if st.Value == nil {
			return flowReturn, Const{}
		}
		v := ev.Eval(st.Value)
		if v.IsPoison() {
			return flowAbort, v
		}
		return flowReturn, v
	}
	ev.report(diag.EvalUnsupported, s.Span(), "statement cannot be evaluated")
	return flowAbort, Const{}
}
