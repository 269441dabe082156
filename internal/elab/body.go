package elab

import (
	"strconv"

	"svelab/internal/consteval"
	"svelab/internal/diag"
	"svelab/internal/trace"
	"svelab/internal/types"
)

type bodyKey struct {
	def    *Definition
	sig    string
	uninst bool
	// node distinguishes bodies whose override node still reaches into
	// their children; such bodies elaborate differently below themselves.
	node *OverrideNode
}

// InstanceBody is the elaborated scope of one parameterization of a
// definition. Instances with equal parameters share one body. Ports and
// members are built on first access.
type InstanceBody struct {
	symbolBase
	Definition *Definition
	Parameters []*ParameterSymbol
	Override   *OverrideNode

	comp      *Compilation
	reporter  diag.Reporter
	scope     *consteval.MapScope
	signature string
	uninst    bool
	script    bool
	invalid   bool
	depth     int
	parent    *InstanceBody
	key       bodyKey

	names    map[string]Symbol
	members  []Symbol
	ports    []*PortSymbol
	portsSet bool
	elabSet  bool
	childOv  *OverrideNode
}

// IsUninstantiated reports a body whose parameters could not all be
// resolved; it is checked structurally only.
func (b *InstanceBody) IsUninstantiated() bool { return b.uninst }

// IsInvalid reports a placeholder body that is never elaborated.
func (b *InstanceBody) IsInvalid() bool { return b.invalid }

// Depth is the instance depth at which the body was first created.
func (b *InstanceBody) Depth() int { return b.depth }

// Signature is the ordered resolved-parameter identity of the body.
func (b *InstanceBody) Signature() string { return b.signature }

// HasSameType reports whether both bodies come from the same definition
// with equal parameters. It does not depend on whether they are shared.
func (b *InstanceBody) HasSameType(other *InstanceBody) bool {
	if b == other {
		return true
	}
	if b == nil || other == nil {
		return false
	}
	return b.Definition == other.Definition && b.signature == other.signature && b.uninst == other.uninst
}

// Param finds a resolved parameter by name.
func (b *InstanceBody) Param(name string) (*ParameterSymbol, bool) {
	for _, p := range b.Parameters {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// Members returns the body's members in declaration order, elaborating
// them on first use.
func (b *InstanceBody) Members() []Symbol {
	b.EnsureElaborated()
	return b.members
}

// Lookup finds a member, port or parameter by name.
func (b *InstanceBody) Lookup(name string) (Symbol, bool) {
	b.EnsureElaborated()
	s, ok := b.names[name]
	return s, ok
}

// Resolve implements consteval.Resolver over the body's scope. Members
// are elaborated first so hierarchical references can see instances.
func (b *InstanceBody) Resolve(name string) (consteval.Name, bool) {
	b.EnsureElaborated()
	return b.resolve(name)
}

func (b *InstanceBody) resolve(name string) (consteval.Name, bool) {
	if s, ok := b.names[name]; ok {
		if n, ok := b.nameOf(s); ok {
			return n, true
		}
	}
	return b.scope.Resolve(name)
}

func (b *InstanceBody) nameOf(s Symbol) (consteval.Name, bool) {
	poison := consteval.Poison(b.comp.Types.Builtins().Error)
	switch x := s.(type) {
	case *ParameterSymbol:
		if x.IsType {
			return consteval.Name{Kind: consteval.NameType, Type: x.Type, Span: x.span}, true
		}
		return consteval.Name{Kind: consteval.NameValue, Value: x.Value, Span: x.span}, true
	case *PortSymbol:
		return consteval.Name{Kind: consteval.NameVariable, Type: x.Type, Value: poison, Span: x.span}, true
	case *NetSymbol:
		return consteval.Name{Kind: consteval.NameVariable, Type: x.Type, Value: poison, Span: x.span}, true
	case *VariableSymbol:
		return consteval.Name{Kind: consteval.NameVariable, Type: x.Type, Value: poison, Span: x.span}, true
	case *TypedefSymbol:
		return consteval.Name{Kind: consteval.NameType, Type: x.Type, Span: x.span}, true
	case *SubroutineSymbol:
		return consteval.Name{Kind: consteval.NameFunction, Func: x.Function, Scope: b, Span: x.span}, true
	case *Instance:
		return consteval.Name{Kind: consteval.NameScope, Scope: x.Body, Span: x.span}, true
	case *InstanceArray, *UnknownModule, *PrimitiveInstance, *ModportSymbol:
		return consteval.Name{Kind: consteval.NameScope, Span: s.Span()}, true
	}
	return consteval.Name{}, false
}

// evaluator returns a fresh evaluator over the body's scope.
func (b *InstanceBody) evaluator() *consteval.Evaluator {
	return consteval.New(b.comp.Types, b.reporter, resolverFunc(b.resolve))
}

type resolverFunc func(string) (consteval.Name, bool)

func (f resolverFunc) Resolve(name string) (consteval.Name, bool) { return f(name) }

// getBody resolves the parameters of req and returns the shared body for
// them, creating it on a cache miss.
func (c *Compilation) getBody(req resolveRequest) *InstanceBody {
	req.def.instantiated = true
	if req.parent != nil && req.parent.uninst {
		req.uninst = true
	}
	params, scope, uninst := c.resolveParams(req)
	key := bodyKey{def: req.def, sig: c.signature(params), uninst: uninst}
	if req.node.HasChildren() {
		key.node = req.node
	}
	depth := 0
	if req.parent != nil {
		depth = req.parent.depth + 1
	}

	r := c.bodyReporter(uninst)
	for p := req.parent; p != nil; p = p.parent {
		if p.key == key {
			diag.ReportError(r, diag.ElabRecursiveInstance, req.span,
				"recursive instantiation of "+req.def.ArticleKindString()+" '"+req.def.Name+"'").Emit()
			return c.newBody(key, params, scope, req, depth, true)
		}
	}
	if depth >= c.opts.MaxDepth {
		diag.ReportError(r, diag.ElabMaxDepth, req.span,
			"instance hierarchy exceeds the maximum depth of "+strconv.Itoa(c.opts.MaxDepth)).Emit()
		return c.newBody(key, params, scope, req, depth, true)
	}

	if b, ok := c.bodies[key]; ok {
		c.stats.BodyCacheHits++
		trace.Point(c.tracer, trace.ScopeInstance, "body-cache-hit", 0, req.def.Name)
		return b
	}
	b := c.newBody(key, params, scope, req, depth, false)
	c.bodies[key] = b
	return b
}

func (c *Compilation) newBody(key bodyKey, params []resolvedParam, scope *consteval.MapScope, req resolveRequest, depth int, invalid bool) *InstanceBody {
	b := &InstanceBody{
		symbolBase: symbolBase{kind: SymbolInstanceBody, name: req.def.Name, span: req.def.Span},
		Definition: req.def,
		Override:   req.node,
		comp:       c,
		reporter:   c.bodyReporter(key.uninst),
		scope:      scope,
		signature:  key.sig,
		uninst:     key.uninst,
		invalid:    invalid,
		depth:      depth,
		parent:     req.parent,
		key:        key,
		names:      make(map[string]Symbol),
	}
	c.Arena.add(b)
	c.stats.Bodies++
	for _, rp := range params {
		ps := &ParameterSymbol{
			symbolBase: symbolBase{kind: SymbolParameter, name: rp.decl.Name(), span: rp.decl.Span()},
			Decl:       rp.decl,
			Value:      rp.value,
			Type:       rp.typ,
			IsType:     rp.isType,
		}
		c.Arena.add(ps)
		b.Parameters = append(b.Parameters, ps)
		b.names[ps.name] = ps
	}
	return b
}

// CreateDefault builds a body of def from defaults only. Every port
// parameter must have a default.
func (c *Compilation) CreateDefault(def *Definition) *InstanceBody {
	return c.getBody(resolveRequest{def: def, top: true})
}

// CreateInvalid builds a body whose parameters are all poison. Its members
// are checked structurally but value-dependent diagnostics are dropped.
func (c *Compilation) CreateInvalid(def *Definition) *InstanceBody {
	b := c.Types.Builtins()
	var params []resolvedParam
	scope := consteval.NewMapScope(c.unitScope)
	for _, p := range def.Params {
		rp := resolvedParam{decl: p, isType: p.IsTypeParam(), value: consteval.Poison(b.Error), typ: b.Error}
		if rp.isType {
			scope.Set(p.Name(), consteval.Name{Kind: consteval.NameType, Type: b.Error})
		} else {
			scope.Set(p.Name(), consteval.Name{Kind: consteval.NameValue, Value: rp.value})
		}
		params = append(params, rp)
	}
	for _, fn := range def.functions {
		scope.Set(fn.Name.Text, consteval.Name{Kind: consteval.NameFunction, Func: fn, Scope: scope, Span: fn.Name.Span})
	}
	def.instantiated = true
	key := bodyKey{def: def, sig: c.signature(params), uninst: true}
	return c.newBody(key, params, scope, resolveRequest{def: def, uninst: true}, 0, false)
}

// ParameterSymbol is one resolved parameter of a body.
type ParameterSymbol struct {
	symbolBase
	Decl   ParameterDecl
	Value  consteval.Const
	Type   types.TypeID
	IsType bool
}

func (p *ParameterSymbol) IsLocal() bool { return p.Decl.IsLocal() }
func (p *ParameterSymbol) IsPort() bool  { return p.Decl.IsPort() }
