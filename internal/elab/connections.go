package elab

import (
	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
)

// ConnectionKind says how a port got its connection.
type ConnectionKind uint8

const (
	ConnExplicit    ConnectionKind = iota // ordered expression or .p(expr)
	ConnEmpty                             // .p() or an empty ordered slot
	ConnImplicit                          // .p shorthand or matched by .*
	ConnDefault                           // the port's default value
	ConnUnconnected                       // nothing supplied
)

var connectionKindNames = [...]string{
	ConnExplicit:    "explicit",
	ConnEmpty:       "empty",
	ConnImplicit:    "implicit",
	ConnDefault:     "default",
	ConnUnconnected: "unconnected",
}

func (k ConnectionKind) String() string {
	if int(k) < len(connectionKindNames) {
		return connectionKindNames[k]
	}
	return "unknown"
}

// PortConnection binds one port of an instance.
type PortConnection struct {
	Port *PortSymbol
	Expr syntax.Expr // nil for empty and unconnected ports
	Kind ConnectionKind
	Span source.Span
	// Target is the instance, array or interface port an interface port is
	// connected to.
	Target Symbol
}

// IsConnected reports whether anything drives or observes the port.
func (pc *PortConnection) IsConnected() bool {
	return pc.Kind != ConnEmpty && pc.Kind != ConnUnconnected
}

// PortConnection returns the connection of port p, resolving all of the
// instance's connections on first use. The result is stable across calls.
func (i *Instance) PortConnection(p *PortSymbol) *PortConnection {
	i.resolveConnections()
	pc, ok := i.conns[p]
	if !ok {
		panic("elab: port '" + p.Name() + "' does not belong to instance body '" + i.Body.Definition.Name + "'")
	}
	return pc
}

// Connections lists connections in port order.
func (i *Instance) Connections() []*PortConnection {
	i.resolveConnections()
	return i.connList
}

// ForEachPortConnection calls fn for each connection in port order until
// fn returns false.
func (i *Instance) ForEachPortConnection(fn func(*PortConnection) bool) {
	for _, pc := range i.Connections() {
		if !fn(pc) {
			return
		}
	}
}

func (i *Instance) resolveConnections() {
	if i.connsSet {
		return
	}
	i.connsSet = true
	ports := i.Body.PortList()
	i.conns = make(map[*PortSymbol]*PortConnection, len(ports))
	i.connList = make([]*PortConnection, 0, len(ports))

	if i.Parent == nil || i.Syntax == nil || i.Fixup {
		for _, p := range ports {
			i.add(&PortConnection{Port: p, Kind: ConnUnconnected, Span: i.span})
		}
		return
	}

	conns := i.Syntax.Conns
	named := false
	for _, pc := range conns {
		if pc.Kind != syntax.ConnOrdered {
			named = true
			break
		}
	}
	if named {
		i.namedConnections(ports, conns)
	} else {
		i.orderedConnections(ports, conns)
	}
}

func (i *Instance) add(pc *PortConnection) {
	i.conns[pc.Port] = pc
	i.connList = append(i.connList, pc)
}

func (i *Instance) orderedConnections(ports []*PortSymbol, conns []*syntax.PortConnection) {
	r := i.Parent.reporter
	for idx, p := range ports {
		if idx >= len(conns) {
			i.omitted(p)
			continue
		}
		sc := conns[idx]
		if sc.Expr == nil {
			i.add(&PortConnection{Port: p, Kind: ConnEmpty, Span: sc.Span})
			continue
		}
		i.add(i.connect(p, sc.Expr, ConnExplicit, sc.Span))
	}
	if len(conns) > len(ports) {
		def := i.Body.Definition
		diag.ReportError(r, diag.ElabPortTooManyOrdered, conns[len(ports)].Span,
			"too many port connections for "+def.ArticleKindString()+" '"+def.Name+"': expected "+
				itoa(len(ports))+", got "+itoa(len(conns))).Emit()
	}
}

func (i *Instance) namedConnections(ports []*PortSymbol, conns []*syntax.PortConnection) {
	r := i.Parent.reporter
	def := i.Body.Definition
	explicit := make(map[string]*syntax.PortConnection)
	var wildcard *syntax.PortConnection
	for _, sc := range conns {
		switch sc.Kind {
		case syntax.ConnWildcard:
			if wildcard != nil {
				diag.ReportError(r, diag.ElabPortDuplicateConn, sc.Span, "duplicate wildcard port connection").
					WithNote(wildcard.Span, "previous wildcard here").Emit()
				continue
			}
			wildcard = sc
		case syntax.ConnNamed:
			name := sc.Name.Text
			if prev, dup := explicit[name]; dup {
				diag.ReportError(r, diag.ElabPortDuplicateConn, sc.Span, "duplicate connection for port '"+name+"'").
					WithNote(prev.Span, "previous connection here").Emit()
				continue
			}
			if _, ok := i.Body.FindPort(name); !ok {
				diag.ReportError(r, diag.ElabPortUnknownName, sc.Name.Span,
					def.ArticleKindString()+" '"+def.Name+"' has no port named '"+name+"'").Emit()
				continue
			}
			explicit[name] = sc
		}
	}

	for _, p := range ports {
		if sc, ok := explicit[p.name]; ok {
			switch {
			case sc.HasParens && sc.Expr == nil:
				i.add(&PortConnection{Port: p, Kind: ConnEmpty, Span: sc.Span})
			case sc.HasParens:
				i.add(i.connect(p, sc.Expr, ConnExplicit, sc.Span))
			default:
				if _, found := i.Parent.lookupSignal(p.name); found {
					i.add(i.connect(p, syntax.NewIdentifierName(sc.Name), ConnImplicit, sc.Span))
					continue
				}
				diag.ReportError(r, diag.ElabImplicitConnNotFound, sc.Name.Span,
					"no signal named '"+p.name+"' to connect implicitly").Emit()
				i.add(&PortConnection{Port: p, Kind: ConnUnconnected, Span: sc.Span})
			}
			continue
		}
		if wildcard == nil {
			i.omitted(p)
			continue
		}
		if _, found := i.Parent.lookupSignal(p.name); found {
			id := syntax.NewIdentifierName(syntax.Name{Text: p.name, Span: wildcard.Span})
			i.add(i.connect(p, id, ConnImplicit, wildcard.Span))
			continue
		}
		if p.Default != nil {
			i.add(&PortConnection{Port: p, Expr: p.Default, Kind: ConnDefault, Span: wildcard.Span})
			continue
		}
		diag.ReportError(r, diag.ElabImplicitConnNotFound, wildcard.Span,
			"no signal named '"+p.name+"' for wildcard port connection").Emit()
		i.add(&PortConnection{Port: p, Kind: ConnUnconnected, Span: wildcard.Span})
	}
}

// omitted handles a port the connection list does not mention.
func (i *Instance) omitted(p *PortSymbol) {
	r := i.Parent.reporter
	at := i.Syntax.ConnsSpan
	if at.Empty() {
		at = i.span
	}
	if p.Default != nil {
		i.add(&PortConnection{Port: p, Expr: p.Default, Kind: ConnDefault, Span: at})
		return
	}
	if p.IsInterface {
		noteDeclared(diag.ReportError(r, diag.ElabIfacePortUnconnected, at,
			"interface port '"+p.name+"' must be connected"), p.span).Emit()
	} else {
		noteDeclared(diag.ReportWarning(r, diag.ElabPortUnconnected, at,
			"port '"+p.name+"' has no connection"), p.span).Emit()
	}
	i.add(&PortConnection{Port: p, Kind: ConnUnconnected, Span: at})
}

func (i *Instance) connect(p *PortSymbol, e syntax.Expr, kind ConnectionKind, sp source.Span) *PortConnection {
	pc := &PortConnection{Port: p, Expr: e, Kind: kind, Span: sp}
	if p.IsInterface {
		pc.Target = i.checkInterface(p, e)
	}
	return pc
}

// checkInterface verifies that an interface port is connected to an
// instance of the right interface.
func (i *Instance) checkInterface(p *PortSymbol, e syntax.Expr) Symbol {
	r := i.Parent.reporter
	var target Symbol
	switch x := syntax.Unparen(e).(type) {
	case *syntax.IdentifierName:
		target, _ = i.Parent.lookupSignal(x.Name.Text)
	case *syntax.ElementSelectExpr:
		if id, ok := syntax.Unparen(x.X).(*syntax.IdentifierName); ok {
			if arr, isArr := i.Parent.names[id.Name.Text].(*InstanceArray); isArr {
				target = i.Parent.arrayElement(arr, x.Index)
			}
		}
	}

	var def *Definition
	generic := false
	switch t := target.(type) {
	case *Instance:
		def = t.Body.Definition
	case *InstanceArray:
		def = t.Definition
	case *PortSymbol:
		if t.IsInterface {
			def, generic = t.Interface, t.Interface == nil
		}
	}
	switch {
	case generic:
		return target
	case def == nil:
		what := "an interface instance"
		if p.Interface != nil {
			what = "an instance of interface '" + p.Interface.Name + "'"
		}
		noteDeclared(diag.ReportError(r, diag.ElabIfacePortMismatch, e.Span(),
			"interface port '"+p.name+"' must be connected to "+what), p.span).Emit()
		return nil
	case p.Interface != nil && def != p.Interface:
		noteDeclared(diag.ReportError(r, diag.ElabIfacePortMismatch, e.Span(),
			"cannot connect "+def.ArticleKindString()+" '"+def.Name+"' to interface port '"+p.name+"' of type '"+p.Interface.Name+"'"), p.span).Emit()
		return nil
	case p.Interface == nil && def.Kind != DefInterface:
		noteDeclared(diag.ReportError(r, diag.ElabIfacePortMismatch, e.Span(),
			"'"+def.Name+"' is "+def.ArticleKindString()+", not an interface"), p.span).Emit()
		return nil
	}
	return target
}

// lookupSignal finds a name a port connection may refer to: nets,
// variables, ports and instances of the body.
func (b *InstanceBody) lookupSignal(name string) (Symbol, bool) {
	s, ok := b.names[name]
	if !ok {
		return nil, false
	}
	switch s.(type) {
	case *ParameterSymbol, *TypedefSymbol, *SubroutineSymbol, *ModportSymbol:
		return nil, false
	}
	return s, true
}

// arrayElement picks the element of arr at a constant index.
func (b *InstanceBody) arrayElement(arr *InstanceArray, index syntax.Expr) Symbol {
	ev := b.evaluator()
	n, ok := ev.EvalInt(index)
	if !ok || !arr.Valid {
		return nil
	}
	lo, hi := int64(arr.Range.Lower()), int64(arr.Range.Upper())
	if n < lo || n > hi {
		return nil
	}
	pos := n - int64(arr.Range.Left)
	if pos < 0 {
		pos = -pos
	}
	return arr.Elements[pos]
}
