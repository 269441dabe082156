package elab

import (
	"svelab/internal/consteval"
	"svelab/internal/diag"
	"svelab/internal/syntax"
)

// UnknownArg is one parameter or port argument of an unresolved
// instantiation, evaluated without a destination type.
type UnknownArg struct {
	Name  string // empty for ordered arguments
	Expr  syntax.Expr
	Type  *syntax.DataType // type arguments only
	Value consteval.Const  // poison when not constant
}

// UnknownModule stands in for an instance whose definition could not be
// found. It keeps the arguments so later passes can look at them.
type UnknownModule struct {
	symbolBase
	ModuleName string
	Params     []UnknownArg
	Ports      []UnknownArg
	Syntax     *syntax.HierarchicalInstance
	Statement  *syntax.HierarchyInstantiation
	checker    bool
}

// PortNames lists the names of named port connections. Ordered
// connections have no names and yield an empty list.
func (u *UnknownModule) PortNames() []string {
	var out []string
	for _, p := range u.Ports {
		if p.Name != "" {
			out = append(out, p.Name)
		}
	}
	return out
}

// IsChecker reports whether the arguments can only belong to a checker
// instantiation: a module port never accepts an event or a sequence.
func (u *UnknownModule) IsChecker() bool { return u.checker }

func (b *InstanceBody) unknownModule(x *syntax.HierarchyInstantiation) {
	c := b.comp
	diag.ReportError(b.reporter, diag.ElabUnknownModule, x.Type.Span, "unknown module '"+x.Type.Text+"'").Emit()

	// значения вычисляются молча: тип назначения неизвестен
	ev := consteval.New(c.Types, diag.NopReporter{}, resolverFunc(b.resolve))
	value := func(e syntax.Expr) consteval.Const {
		if e == nil {
			return consteval.Poison(c.Types.Builtins().Error)
		}
		return ev.Eval(e)
	}

	var params []UnknownArg
	if pa := x.Params; pa != nil {
		for _, pv := range pa.Ordered {
			params = append(params, UnknownArg{Expr: pv.Expr, Type: pv.Type, Value: value(pv.Expr)})
		}
		for _, np := range pa.Named {
			arg := UnknownArg{Name: np.Name.Text, Value: value(nil)}
			if np.Value != nil {
				arg.Expr, arg.Type, arg.Value = np.Value.Expr, np.Value.Type, value(np.Value.Expr)
			}
			params = append(params, arg)
		}
	}

	for _, hi := range x.Instances {
		u := &UnknownModule{
			symbolBase: symbolBase{kind: SymbolUnknownModule, name: hi.Name.Text, span: hi.Name.Span},
			ModuleName: x.Type.Text,
			Params:     params,
			Syntax:     hi,
			Statement:  x,
		}
		for _, pc := range hi.Conns {
			arg := UnknownArg{Expr: pc.Expr, Value: value(pc.Expr)}
			if pc.Kind == syntax.ConnNamed {
				arg.Name = pc.Name.Text
			}
			if pc.Kind == syntax.ConnWildcard {
				arg.Name = "*"
			}
			u.Ports = append(u.Ports, arg)
			if isCheckerArg(pc.Expr) {
				u.checker = true
			}
		}
		c.Arena.add(u)
		c.stats.UnknownModules++
		b.declare(u)
	}
}

func isCheckerArg(e syntax.Expr) bool {
	switch syntax.Unparen(e).(type) {
	case *syntax.EventExpr, *syntax.SequenceExpr:
		return true
	}
	return false
}
