package elab

import (
	"svelab/internal/consteval"
	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
	"svelab/internal/trace"
	"svelab/internal/types"
)

// NetSymbol is a declared or implicit net.
type NetSymbol struct {
	symbolBase
	NetType  token.Kind
	Type     types.TypeID
	Init     syntax.Expr
	Implicit bool
}

// VariableSymbol is a variable, including a virtual interface handle.
type VariableSymbol struct {
	symbolBase
	Type    types.TypeID
	Init    syntax.Expr
	Virtual *InstanceBody // set for virtual interface variables
	Modport string
}

type TypedefSymbol struct {
	symbolBase
	Type types.TypeID
}

// SubroutineSymbol is a function or task declared in a body.
type SubroutineSymbol struct {
	symbolBase
	Function *syntax.FunctionDeclaration
	Task     *syntax.TaskDeclaration
}

type ModportSymbol struct {
	symbolBase
	Syntax *syntax.ModportItem
}

// EnsureElaborated builds the body's ports and members once. Bodies that
// nobody queries are never elaborated.
func (b *InstanceBody) EnsureElaborated() {
	if b.elabSet {
		return
	}
	b.elabSet = true
	b.PortList()
	if b.invalid || b.Definition.Syntax == nil {
		return
	}
	sp := trace.Begin(b.comp.tracer, trace.ScopeInstance, "body:"+b.Definition.Name, 0)
	defer func() {
		sp.WithExtra("members", itoa(len(b.members))).End(b.signature)
	}()

	b.childOv = merge(b.Override, b.defparamOverrides())
	forEachMember(b.Definition.Syntax.Members, b.addMember)
	for _, bd := range b.Definition.binds {
		b.instantiate(bd.Instantiation, true)
	}
	b.createImplicitNets()
}

// declare adds s to the body's name table. A net or variable that
// redeclares a non-ANSI port completes the port instead.
func (b *InstanceBody) declare(s Symbol) bool {
	name := s.Name()
	if name == "" {
		b.members = append(b.members, s)
		return true
	}
	if prev, ok := b.names[name]; ok {
		if port, isPort := prev.(*PortSymbol); isPort && b.Definition.HasNonAnsiPorts {
			switch x := s.(type) {
			case *NetSymbol:
				port.NetType = x.NetType
				return false
			case *VariableSymbol:
				return false
			}
		}
		diag.ReportError(b.reporter, diag.ElabDuplicateMember, s.Span(), "redefinition of '"+name+"'").
			WithNote(prev.Span(), "previous definition here").Emit()
		return false
	}
	b.names[name] = s
	b.members = append(b.members, s)
	return true
}

func (b *InstanceBody) addMember(m syntax.Member) {
	c := b.comp
	switch x := m.(type) {
	case *syntax.NetDeclaration:
		ev := b.evaluator()
		t := b.declType(ev, x.Type)
		for _, d := range x.Declarators {
			n := &NetSymbol{symbolBase: symbolBase{kind: SymbolNet, name: d.Name.Text, span: d.Name.Span}, NetType: x.NetType, Type: b.withDims(ev, t, d), Init: d.Init}
			c.Arena.add(n)
			b.declare(n)
		}
	case *syntax.DataDeclaration:
		b.addData(x)
	case *syntax.HierarchyInstantiation:
		b.instantiate(x, false)
	case *syntax.PrimitiveInstantiation:
		b.instantiatePrimitive(x)
	case *syntax.TypedefDeclaration:
		n, _ := b.scope.Resolve(x.Name.Text)
		td := &TypedefSymbol{symbolBase: symbolBase{kind: SymbolTypedef, name: x.Name.Text, span: x.Name.Span}, Type: n.Type}
		c.Arena.add(td)
		b.declare(td)
	case *syntax.FunctionDeclaration:
		fn := &SubroutineSymbol{symbolBase: symbolBase{kind: SymbolSubroutine, name: x.Name.Text, span: x.Name.Span}, Function: x}
		c.Arena.add(fn)
		b.declare(fn)
	case *syntax.TaskDeclaration:
		tk := &SubroutineSymbol{symbolBase: symbolBase{kind: SymbolSubroutine, name: x.Name.Text, span: x.Name.Span}, Task: x}
		c.Arena.add(tk)
		b.declare(tk)
	case *syntax.ModportDeclaration:
		for _, it := range x.Items {
			mp := &ModportSymbol{symbolBase: symbolBase{kind: SymbolModport, name: it.Name.Text, span: it.Name.Span}, Syntax: it}
			c.Arena.add(mp)
			b.declare(mp)
		}
	}
	// параметры, порты, defparam и bind уже учтены; процедурные блоки и
	// непрерывные присваивания не порождают символов
}

func (b *InstanceBody) addData(x *syntax.DataDeclaration) {
	c := b.comp
	if x.Virtual {
		b.addVirtual(x)
		return
	}
	// "M u1;": инстанцирование без скобок
	if x.Type.IsNamed() {
		name := x.Type.Named.Text
		if n, ok := b.resolve(name); !ok || n.Kind != consteval.NameType {
			if def, isDef := c.defs[name]; isDef {
				b.instantiateFixup(def, x)
				return
			}
		}
	}
	ev := b.evaluator()
	t := b.declType(ev, x.Type)
	for _, d := range x.Declarators {
		v := &VariableSymbol{symbolBase: symbolBase{kind: SymbolVariable, name: d.Name.Text, span: d.Name.Span}, Type: b.withDims(ev, t, d), Init: d.Init}
		c.Arena.add(v)
		b.declare(v)
	}
}

func (b *InstanceBody) addVirtual(x *syntax.DataDeclaration) {
	c := b.comp
	name := x.Type.Named.Text
	def, ok := c.defs[name]
	var body *InstanceBody
	switch {
	case !ok:
		diag.ReportError(b.reporter, diag.ElabUnknownModule, x.Type.Named.Span, "unknown interface '"+name+"'").Emit()
	case def.Kind != DefInterface:
		diag.ReportError(b.reporter, diag.ElabVirtualNotInterface, x.Type.Named.Span,
			"virtual declarations require an interface, but '"+name+"' is "+def.ArticleKindString()).Emit()
	default:
		body = c.CreateVirtual(def, x.VirtualParams, b, x.Type.Named.Span)
		if mp := x.VirtualModport; mp.Valid() {
			if _, found := def.Modports[mp.Text]; !found {
				diag.ReportError(b.reporter, diag.ElabModportUnknown, mp.Span,
					"interface '"+name+"' has no modport named '"+mp.Text+"'").Emit()
			}
		}
	}
	for _, d := range x.Declarators {
		v := &VariableSymbol{
			symbolBase: symbolBase{kind: SymbolVariable, name: d.Name.Text, span: d.Name.Span},
			Type:       c.Types.Builtins().Error,
			Virtual:    body,
			Modport:    x.VirtualModport.Text,
			Init:       d.Init,
		}
		c.Arena.add(v)
		b.declare(v)
	}
}

// CreateVirtual builds the interface body referenced by a virtual
// interface declaration in site.
func (c *Compilation) CreateVirtual(def *Definition, pa *syntax.ParamAssignments, site *InstanceBody, sp source.Span) *InstanceBody {
	var scope consteval.Resolver = c.unitScope
	r := c.reporter
	if site != nil {
		scope = resolverFunc(site.resolve)
		r = site.reporter
	}
	params := c.matchSiteParams(def, pa, scope, r)
	return c.getBody(resolveRequest{def: def, site: params, parent: site, span: sp})
}

func (b *InstanceBody) declType(ev *consteval.Evaluator, dt *syntax.DataType) types.TypeID {
	t := ev.ResolveType(dt)
	if t == types.NoTypeID {
		t = b.comp.Types.Builtins().Logic
	}
	return t
}

func (b *InstanceBody) withDims(ev *consteval.Evaluator, t types.TypeID, d *syntax.Declarator) types.TypeID {
	if len(d.Dims) == 0 {
		return t
	}
	return ev.UnpackedType(t, d.Dims)
}

// createImplicitNets declares a net for every undeclared simple identifier
// connected to a port or assigned by a continuous assignment.
func (b *InstanceBody) createImplicitNets() {
	var names []syntax.Name
	collect := func(e syntax.Expr) {
		if n, ok := syntax.SimpleName(syntax.Unparen(e)); ok {
			names = append(names, n)
		}
	}
	forEachMember(b.Definition.Syntax.Members, func(m syntax.Member) {
		switch x := m.(type) {
		case *syntax.HierarchyInstantiation:
			if _, isDef := b.comp.defs[x.Type.Text]; !isDef {
				return
			}
			for _, hi := range x.Instances {
				for _, pc := range hi.Conns {
					if pc.Expr != nil {
						collect(pc.Expr)
					}
				}
			}
		case *syntax.PrimitiveInstantiation:
			for _, hi := range x.Instances {
				for _, pc := range hi.Conns {
					if pc.Expr != nil {
						collect(pc.Expr)
					}
				}
			}
		case *syntax.ContinuousAssign:
			for _, a := range x.Assignments {
				collect(a.LHS)
			}
		}
	})
	for _, bd := range b.Definition.binds {
		for _, hi := range bd.Instantiation.Instances {
			for _, pc := range hi.Conns {
				if pc.Expr != nil {
					collect(pc.Expr)
				}
			}
		}
	}

	logic := b.comp.Types.Builtins().Logic
	for _, n := range names {
		if _, ok := b.resolve(n.Text); ok {
			continue
		}
		if b.Definition.DefaultNetType == token.Invalid {
			diag.ReportError(b.reporter, diag.ElabImplicitNetForbidden, n.Span,
				"implicit net '"+n.Text+"' is not allowed under `default_nettype none").Emit()
			continue
		}
		net := &NetSymbol{symbolBase: symbolBase{kind: SymbolNet, name: n.Text, span: n.Span}, NetType: b.Definition.DefaultNetType, Type: logic, Implicit: true}
		b.comp.Arena.add(net)
		b.declare(net)
	}
}
