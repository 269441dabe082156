package elab

import (
	"strconv"
	"strings"

	"svelab/internal/consteval"
	"svelab/internal/diag"
	"svelab/internal/syntax"
	"svelab/internal/token"
	"svelab/internal/types"
)

// PortSymbol is one port of a body, in declaration order.
type PortSymbol struct {
	symbolBase
	Direction   token.Kind
	NetType     token.Kind
	Type        types.TypeID
	Default     syntax.Expr
	IsInterface bool
	Interface   *Definition // nil for a generic interface port
	Modport     string
	Index       int
	Body        *InstanceBody
}

// DirectionString returns "input", "output", "inout" or "ref".
func (p *PortSymbol) DirectionString() string {
	if p.IsInterface {
		return "interface"
	}
	return strings.Trim(p.Direction.String(), "'")
}

// PortList returns the body's ports, building them on first use.
func (b *InstanceBody) PortList() []*PortSymbol {
	if b.portsSet {
		return b.ports
	}
	b.portsSet = true
	def := b.Definition
	switch {
	case def.Blackbox != nil:
		for _, p := range def.Blackbox.Ports {
			b.addPort(&PortSymbol{
				symbolBase: symbolBase{kind: SymbolPort, name: p.Name, span: def.Span},
				Direction:  blackboxDirections[p.Direction],
				Type:       b.comp.blackboxPortType(p),
			})
		}
	case def.Syntax == nil || def.Syntax.Ports == nil:
	case def.Syntax.Ports.Ansi:
		for _, pd := range def.Syntax.Ports.Ports {
			b.ansiPort(pd)
		}
	default:
		b.nonAnsiPorts()
	}
	return b.ports
}

// FindPort looks a port up by name.
func (b *InstanceBody) FindPort(name string) (*PortSymbol, bool) {
	for _, p := range b.PortList() {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

func (b *InstanceBody) addPort(p *PortSymbol) {
	p.Index = len(b.ports)
	p.Body = b
	if prev, ok := b.names[p.name]; ok {
		diag.ReportError(b.reporter, diag.ElabDuplicateMember, p.span, "redefinition of port '"+p.name+"'").
			WithNote(prev.Span(), "previous definition here").Emit()
		return
	}
	b.comp.Arena.add(p)
	b.names[p.name] = p
	b.ports = append(b.ports, p)
}

func (b *InstanceBody) ansiPort(pd *syntax.PortDeclaration) {
	c := b.comp
	ev := b.evaluator()
	for _, d := range pd.Declarators {
		p := &PortSymbol{
			symbolBase: symbolBase{kind: SymbolPort, name: d.Name.Text, span: d.Name.Span},
			Direction:  pd.Direction,
			NetType:    pd.NetType,
			Default:    d.Init,
		}
		switch {
		case pd.Type != nil && pd.Type.Keyword == token.KwInterface:
			p.IsInterface = true
		case pd.Direction == token.Invalid && pd.Type.IsNamed():
			// именованный тип без направления: интерфейс, если это не typedef
			name := pd.Type.Named.Text
			if n, ok := b.scope.Resolve(name); !ok || n.Kind != consteval.NameType {
				if def, isDef := c.defs[name]; isDef && def.Kind == DefInterface {
					p.IsInterface = true
					p.Interface = def
					def.instantiated = true
				}
			}
		}
		if p.IsInterface {
			p.Type = c.Types.Builtins().Error
			if pd.Modport.Valid() {
				p.Modport = pd.Modport.Text
				if p.Interface != nil {
					if _, ok := p.Interface.Modports[p.Modport]; !ok {
						diag.ReportError(b.reporter, diag.ElabModportUnknown, pd.Modport.Span,
							"interface '"+p.Interface.Name+"' has no modport named '"+p.Modport+"'").Emit()
					}
				}
			}
		} else {
			if p.Direction == token.Invalid {
				p.Direction = token.KwInout
			}
			if pd.Modport.Valid() {
				diag.ReportError(b.reporter, diag.ElabModportUnknown, pd.Modport.Span,
					"'"+pd.Type.Named.Text+"' is not an interface").Emit()
			}
			p.Type = b.withDims(ev, b.declType(ev, pd.Type), d)
		}
		b.addPort(p)
	}
}

// nonAnsiPorts matches the header name list against port declarations in
// the body.
func (b *InstanceBody) nonAnsiPorts() {
	decls := make(map[string]*syntax.PortDeclaration)
	var declOrder []*syntax.Declarator
	forEachMember(b.Definition.Syntax.Members, func(m syntax.Member) {
		if pd, ok := m.(*syntax.PortDeclaration); ok {
			for _, d := range pd.Declarators {
				decls[d.Name.Text] = pd
				declOrder = append(declOrder, d)
			}
		}
	})
	listed := make(map[string]bool)
	ev := b.evaluator()
	for _, n := range b.Definition.Syntax.Ports.NonAnsi {
		listed[n.Text] = true
		p := &PortSymbol{symbolBase: symbolBase{kind: SymbolPort, name: n.Text, span: n.Span}}
		pd, ok := decls[n.Text]
		if !ok {
			diag.ReportError(b.reporter, diag.ElabPortNoDeclaration, n.Span,
				"port '"+n.Text+"' has no direction declaration in the body").Emit()
			p.Direction = token.KwInout
			p.Type = b.comp.Types.Builtins().Logic
			b.addPort(p)
			continue
		}
		p.Direction = pd.Direction
		p.NetType = pd.NetType
		p.Type = b.declType(ev, pd.Type)
		b.addPort(p)
	}
	for _, d := range declOrder {
		if !listed[d.Name.Text] {
			diag.ReportError(b.reporter, diag.ElabPortDeclNotInList, d.Name.Span,
				"'"+d.Name.Text+"' is declared as a port but does not appear in the port list").Emit()
		}
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
