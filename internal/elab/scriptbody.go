package elab

import (
	"svelab/internal/consteval"
	"svelab/internal/diag"
	"svelab/internal/syntax"
	"svelab/internal/token"
	"svelab/internal/types"
)

// ScriptDefinitionName names the synthetic definition behind script bodies.
const ScriptDefinitionName = "$script"

// NewScriptBody creates an empty body that grows one construct at a time
// through AddMember. Names resolve against it in declaration order.
func (c *Compilation) NewScriptBody() *InstanceBody {
	c.prepare()
	def := &Definition{
		Name:           ScriptDefinitionName,
		Kind:           DefModule,
		DefaultNetType: token.KwWire,
		Lifetime:       token.KwStatic,
		instantiated:   true,
		order:          -1,
	}
	req := resolveRequest{def: def}
	b := c.newBody(bodyKey{def: def}, nil, consteval.NewMapScope(c.unitScope), req, 0, false)
	b.portsSet, b.elabSet = true, true
	b.script = true
	return b
}

// AddMember adds one top-level construct to a script body and returns the
// symbols it declared. Design units become definitions of the compilation.
// Any other construct kind is a programming error.
func (b *InstanceBody) AddMember(m syntax.Member) []Symbol {
	if !b.script {
		panic("elab: AddMember called on a body that is not a script body")
	}
	c := b.comp
	before := len(b.members)
	switch x := m.(type) {
	case *syntax.ModuleDeclaration:
		c.AddDefinition(x)
	case *syntax.BindDirective:
		c.registerBind(x)
	case *syntax.ParameterDeclaration:
		b.addScriptParams(x)
	case *syntax.TypeParameterDeclaration:
		b.addScriptTypeParams(x)
	case *syntax.TypedefDeclaration:
		b.scope.Set(x.Name.Text, consteval.Name{Kind: consteval.NameType, Type: typedefType(b.evaluator(), x), Span: x.Name.Span})
		b.addMember(x)
	case *syntax.FunctionDeclaration, *syntax.TaskDeclaration,
		*syntax.HierarchyInstantiation, *syntax.PrimitiveInstantiation,
		*syntax.DataDeclaration, *syntax.NetDeclaration,
		*syntax.ModportDeclaration, *syntax.ContinuousAssign:
		b.addMember(x)
	default:
		panic("elab: unsupported script construct " + m.Kind().String())
	}
	return b.members[before:]
}

func (b *InstanceBody) addScriptParams(x *syntax.ParameterDeclaration) {
	c := b.comp
	ev := b.evaluator()
	for _, d := range x.Declarators {
		decl := &ValueParam{Syntax: x, Declarator: d, Local: x.IsLocal()}
		v := consteval.Poison(c.Types.Builtins().Error)
		if d.Init == nil {
			diag.ReportError(b.reporter, diag.ElabParamBodyNoDefault, d.Name.Span, "parameter '"+d.Name.Text+"' requires a value").Emit()
		} else {
			v = c.convertParam(ev, decl, ev.Eval(d.Init))
		}
		b.addParamSymbol(&ParameterSymbol{
			symbolBase: symbolBase{kind: SymbolParameter, name: decl.Name(), span: decl.Span()},
			Decl:       decl,
			Value:      v,
			Type:       v.Type,
		})
	}
}

func (b *InstanceBody) addScriptTypeParams(x *syntax.TypeParameterDeclaration) {
	c := b.comp
	ev := b.evaluator()
	for _, a := range x.Assignments {
		decl := &TypeParam{Syntax: x, Assignment: a, Local: x.IsLocal()}
		t := c.Types.Builtins().Error
		if a.Default == nil {
			diag.ReportError(b.reporter, diag.ElabParamBodyNoDefault, a.Name.Span, "type parameter '"+a.Name.Text+"' requires a value").Emit()
		} else if rt := ev.ResolveType(a.Default); rt != types.NoTypeID {
			t = rt
		} else {
			t = c.Types.Builtins().Logic
		}
		b.addParamSymbol(&ParameterSymbol{
			symbolBase: symbolBase{kind: SymbolParameter, name: decl.Name(), span: decl.Span()},
			Decl:       decl,
			Type:       t,
			IsType:     true,
		})
	}
}

func (b *InstanceBody) addParamSymbol(ps *ParameterSymbol) {
	b.comp.Arena.add(ps)
	if b.declare(ps) {
		b.Parameters = append(b.Parameters, ps)
	}
}

// IsScript reports a body created by NewScriptBody.
func (b *InstanceBody) IsScript() bool { return b.script }
