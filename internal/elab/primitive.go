package elab

import (
	"svelab/internal/consteval"
	"svelab/internal/diag"
	"svelab/internal/syntax"
)

// PrimitiveInstance is an instance of a built-in gate. Terminals are
// always connected by position.
type PrimitiveInstance struct {
	symbolBase
	Gate       syntax.Gate
	PortExprs  []syntax.Expr
	Delays     []consteval.Const
	Dimensions []Range
	Syntax     *syntax.HierarchicalInstance
	Statement  *syntax.PrimitiveInstantiation
}

func (b *InstanceBody) instantiatePrimitive(x *syntax.PrimitiveInstantiation) {
	c := b.comp
	gate, ok := syntax.LookupGate(x.Gate.Text)
	if !ok {
		// the parser only produces primitive instantiations for known gates
		panic("elab: unknown gate primitive '" + x.Gate.Text + "'")
	}
	if x.Params != nil {
		diag.ReportError(b.reporter, diag.ElabPrimitiveParams, x.Params.Span,
			"gate '"+gate.Name+"' does not take parameters").Emit()
	}

	var delays []consteval.Const
	if x.Delay != nil {
		if len(x.Delay.Values) > gate.MaxDelays {
			diag.ReportError(b.reporter, diag.ElabPrimitiveDelayCount, x.Delay.Span,
				"gate '"+gate.Name+"' accepts at most "+itoa(gate.MaxDelays)+" delay values, got "+itoa(len(x.Delay.Values))).Emit()
		}
		ev := b.evaluator()
		for _, e := range x.Delay.Values {
			delays = append(delays, ev.Eval(e))
		}
	}

	for _, hi := range x.Instances {
		p := &PrimitiveInstance{
			symbolBase: symbolBase{kind: SymbolPrimitiveInstance, name: hi.Name.Text, span: hi.Span},
			Gate:       gate,
			Delays:     delays,
			Syntax:     hi,
			Statement:  x,
		}
		named := false
		for _, pc := range hi.Conns {
			if pc.Kind != syntax.ConnOrdered {
				named = true
				continue
			}
			p.PortExprs = append(p.PortExprs, pc.Expr)
		}
		switch {
		case named:
			diag.ReportError(b.reporter, diag.ElabPrimitiveNamedPorts, hi.ConnsSpan,
				"gate '"+gate.Name+"' terminals must be connected by position").Emit()
		case !gate.AcceptsPorts(len(p.PortExprs)):
			diag.ReportError(b.reporter, diag.ElabPrimitivePortCount, hi.ConnsSpan,
				"wrong number of terminals for gate '"+gate.Name+"': "+gateArity(gate)+", got "+itoa(len(p.PortExprs))).Emit()
		}
		for _, d := range hi.Dims {
			if rng, ok := b.arrayRange(d); ok {
				p.Dimensions = append(p.Dimensions, rng)
			}
		}
		c.Arena.add(p)
		c.stats.Primitives++
		b.declare(p)
	}
}

func gateArity(g syntax.Gate) string {
	switch {
	case g.MaxPorts == 0:
		return "expected at least " + itoa(g.MinPorts)
	case g.MinPorts == g.MaxPorts:
		return "expected " + itoa(g.MinPorts)
	}
	return "expected " + itoa(g.MinPorts) + " to " + itoa(g.MaxPorts)
}
