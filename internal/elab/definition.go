package elab

import (
	"svelab/internal/consteval"
	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
	"svelab/internal/types"
)

// DefinitionKind is the flavor of a design unit.
type DefinitionKind uint8

const (
	DefModule DefinitionKind = iota
	DefInterface
	DefProgram
)

// Definition is the static description of one module, interface or
// program. Apart from the instantiated flag it never changes after
// construction.
type Definition struct {
	Name             string
	Kind             DefinitionKind
	Span             source.Span
	Syntax           *syntax.ModuleDeclaration // nil for blackboxes
	Blackbox         *Blackbox
	Params           []ParameterDecl // declaration order, port and local interleaved
	DefaultNetType   token.Kind      // Invalid means `default_nettype none
	UnconnectedDrive string
	TimeScale        string
	Lifetime         token.Kind
	Attrs            []*syntax.Attribute
	Modports         map[string]*syntax.ModportItem
	HasNonAnsiPorts  bool

	// scope is the declaration-ordered list of parameters and typedefs;
	// functions are visible everywhere in the body.
	scope     []scopeItem
	functions []*syntax.FunctionDeclaration
	defparams []*syntax.DefparamAssignment
	binds     []*syntax.BindDirective

	instantiated bool
	order        int
}

type scopeItem struct {
	param   ParameterDecl
	typedef *syntax.TypedefDeclaration
}

// KindString returns "module", "interface" or "program".
func (d *Definition) KindString() string {
	switch d.Kind {
	case DefInterface:
		return "interface"
	case DefProgram:
		return "program"
	default:
		return "module"
	}
}

// ArticleKindString returns the kind with its indefinite article.
func (d *Definition) ArticleKindString() string {
	if d.Kind == DefInterface {
		return "an interface"
	}
	return "a " + d.KindString()
}

// HierarchicalPath is the name under which the definition is visible from
// the compilation unit.
func (d *Definition) HierarchicalPath() string {
	return "$unit::" + d.Name
}

// IsInstantiated reports whether anything referenced the definition.
func (d *Definition) IsInstantiated() bool { return d.instantiated }

// Param finds a parameter declaration by name.
func (d *Definition) Param(name string) (ParameterDecl, bool) {
	for _, p := range d.Params {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Binds lists bind directives that target this definition.
func (d *Definition) Binds() []*syntax.BindDirective { return d.binds }

func definitionKind(k token.Kind) DefinitionKind {
	switch k {
	case token.KwInterface:
		return DefInterface
	case token.KwProgram:
		return DefProgram
	default:
		return DefModule
	}
}

// newDefinition collects the static metadata of decl. Malformed
// parameters are diagnosed here and still get a slot.
func newDefinition(decl *syntax.ModuleDeclaration, r diag.Reporter) *Definition {
	d := &Definition{
		Name:             decl.Name.Text,
		Kind:             definitionKind(decl.Keyword),
		Span:             decl.Name.Span,
		Syntax:           decl,
		DefaultNetType:   decl.Directives.DefaultNetType,
		UnconnectedDrive: decl.Directives.UnconnectedDrive,
		TimeScale:        decl.Directives.TimeScale,
		Lifetime:         decl.Lifetime,
		Attrs:            decl.Attrs,
		Modports:         make(map[string]*syntax.ModportItem),
	}
	if d.Lifetime == token.Invalid {
		d.Lifetime = token.KwStatic
	}
	if decl.Ports != nil && !decl.Ports.Ansi && len(decl.Ports.NonAnsi) > 0 {
		d.HasNonAnsiPorts = true
	}

	seen := make(map[string]source.Span)
	add := func(p ParameterDecl) {
		if prev, dup := seen[p.Name()]; dup {
			diag.ReportError(r, diag.ElabDuplicateMember, p.Span(), "redefinition of parameter '"+p.Name()+"'").
				WithNote(prev, "previous definition here").Emit()
			return
		}
		seen[p.Name()] = p.Span()
		d.Params = append(d.Params, p)
		d.scope = append(d.scope, scopeItem{param: p})
		if p.IsLocal() && !p.HasDefault() {
			diag.ReportError(r, diag.ElabParamBodyNoDefault, p.Span(), "local parameter '"+p.Name()+"' requires a value").Emit()
		}
	}

	// в заголовке параметр без ключевого слова наследует предыдущее
	hasHeader := decl.ParamPorts != nil
	if hasHeader {
		local := false
		for _, m := range decl.ParamPorts.Decls {
			switch pd := m.(type) {
			case *syntax.ParameterDeclaration:
				if pd.Keyword != token.Invalid {
					local = pd.IsLocal()
				}
				for _, dr := range pd.Declarators {
					add(&ValueParam{Syntax: pd, Declarator: dr, Local: local, Port: true})
				}
			case *syntax.TypeParameterDeclaration:
				if pd.Keyword != token.Invalid {
					local = pd.IsLocal()
				}
				for _, a := range pd.Assignments {
					add(&TypeParam{Syntax: pd, Assignment: a, Local: local, Port: true})
				}
			}
		}
	}

	forEachMember(decl.Members, func(m syntax.Member) {
		switch x := m.(type) {
		case *syntax.ParameterDeclaration:
			// с заголовком #() параметры тела становятся локальными
			local := hasHeader || x.IsLocal()
			for _, dr := range x.Declarators {
				add(&ValueParam{Syntax: x, Declarator: dr, Local: local, Port: !local})
			}
		case *syntax.TypeParameterDeclaration:
			local := hasHeader || x.IsLocal()
			for _, a := range x.Assignments {
				add(&TypeParam{Syntax: x, Assignment: a, Local: local, Port: !local})
			}
		case *syntax.TypedefDeclaration:
			d.scope = append(d.scope, scopeItem{typedef: x})
		case *syntax.FunctionDeclaration:
			d.functions = append(d.functions, x)
		case *syntax.ModportDeclaration:
			if d.Kind == DefInterface {
				for _, it := range x.Items {
					d.Modports[it.Name.Text] = it
				}
			}
		case *syntax.Defparam:
			d.defparams = append(d.defparams, x.Assignments...)
		}
	})
	return d
}

// forEachMember visits members in order, flattening generate regions.
func forEachMember(list []syntax.Member, fn func(syntax.Member)) {
	for _, m := range list {
		if g, ok := m.(*syntax.GenerateRegion); ok {
			forEachMember(g.Members, fn)
			continue
		}
		fn(m)
	}
}

// ParameterDecl is one parameter slot of a definition. The variants are
// ValueParam, TypeParam and Synthesized.
type ParameterDecl interface {
	Name() string
	Span() source.Span
	IsLocal() bool
	IsPort() bool
	IsTypeParam() bool
	HasDefault() bool
	paramDecl()
}

// ValueParam is a value parameter declared in source.
type ValueParam struct {
	Syntax     *syntax.ParameterDeclaration
	Declarator *syntax.Declarator
	Local      bool
	Port       bool
}

func (p *ValueParam) Name() string      { return p.Declarator.Name.Text }
func (p *ValueParam) Span() source.Span { return p.Declarator.Name.Span }
func (p *ValueParam) IsLocal() bool     { return p.Local }
func (p *ValueParam) IsPort() bool      { return p.Port }
func (p *ValueParam) IsTypeParam() bool { return false }
func (p *ValueParam) HasDefault() bool  { return p.Declarator.Init != nil }
func (*ValueParam) paramDecl()          {}

// TypeParam is a type parameter declared in source.
type TypeParam struct {
	Syntax     *syntax.TypeParameterDeclaration
	Assignment *syntax.TypeAssignment
	Local      bool
	Port       bool
}

func (p *TypeParam) Name() string      { return p.Assignment.Name.Text }
func (p *TypeParam) Span() source.Span { return p.Assignment.Name.Span }
func (p *TypeParam) IsLocal() bool     { return p.Local }
func (p *TypeParam) IsPort() bool      { return p.Port }
func (p *TypeParam) IsTypeParam() bool { return true }
func (p *TypeParam) HasDefault() bool  { return p.Assignment.Default != nil }
func (*TypeParam) paramDecl()          {}

// Synthesized is a parameter that has no syntax, such as a blackbox
// parameter from the project manifest.
type Synthesized struct {
	ParamName string
	Type      types.TypeID
	Init      consteval.Const
	HasInit   bool
	Local     bool
	Location  source.Span
}

func (p *Synthesized) Name() string      { return p.ParamName }
func (p *Synthesized) Span() source.Span { return p.Location }
func (p *Synthesized) IsLocal() bool     { return p.Local }
func (p *Synthesized) IsPort() bool      { return !p.Local }
func (p *Synthesized) IsTypeParam() bool { return false }
func (p *Synthesized) HasDefault() bool  { return p.HasInit }
func (*Synthesized) paramDecl()          {}
