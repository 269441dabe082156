package elab

import (
	"strconv"
	"strings"

	"svelab/internal/consteval"
	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/types"
)

// siteParam is one #(...) entry bound to a parameter and evaluated in the
// instantiating scope.
type siteParam struct {
	value      consteval.Const
	typ        types.TypeID
	isType     bool
	span       source.Span
	useDefault bool // .P()
}

// siteParams holds the bound #(...) list of one instantiation statement.
type siteParams map[string]siteParam

// matchSiteParams binds a parameter assignment list to def's parameters and
// evaluates the values once for every instance of the statement.
func (c *Compilation) matchSiteParams(def *Definition, pa *syntax.ParamAssignments, scope consteval.Resolver, r diag.Reporter) siteParams {
	if pa == nil {
		return nil
	}
	out := make(siteParams)
	if len(pa.Ordered) > 0 && len(pa.Named) > 0 {
		diag.ReportError(r, diag.ElabParamMixedAssign, pa.Span, "ordered and named parameter assignments cannot be mixed").Emit()
	}
	ev := consteval.New(c.Types, r, scope)

	if len(pa.Ordered) > 0 {
		var ports []ParameterDecl
		for _, p := range def.Params {
			if !p.IsLocal() {
				ports = append(ports, p)
			}
		}
		for i, pv := range pa.Ordered {
			if i >= len(ports) {
				diag.ReportError(r, diag.ElabParamTooMany, pv.Span,
					"too many parameter assignments for "+def.ArticleKindString()+" '"+def.Name+"': expected "+
						strconv.Itoa(len(ports))+", got "+strconv.Itoa(len(pa.Ordered))).Emit()
				break
			}
			out[ports[i].Name()] = c.evalSiteValue(ev, ports[i], pv, r)
		}
		return out
	}

	for _, np := range pa.Named {
		name := np.Name.Text
		p, ok := def.Param(name)
		if !ok {
			diag.ReportError(r, diag.ElabParamUnknownName, np.Name.Span,
				def.ArticleKindString()+" '"+def.Name+"' has no parameter named '"+name+"'").Emit()
			continue
		}
		if prev, dup := out[name]; dup {
			diag.ReportError(r, diag.ElabParamDuplicate, np.Span, "duplicate assignment to parameter '"+name+"'").
				WithNote(prev.span, "previous assignment here").Emit()
			continue
		}
		if p.IsLocal() {
			noteDeclared(diag.ReportError(r, diag.ElabParamLocalOverride, np.Name.Span,
				"cannot override local parameter '"+name+"'"), p.Span()).Emit()
			continue
		}
		if np.Value == nil {
			out[name] = siteParam{useDefault: true, isType: p.IsTypeParam(), span: np.Span}
			continue
		}
		out[name] = c.evalSiteValue(ev, p, np.Value, r)
	}
	return out
}

func (c *Compilation) evalSiteValue(ev *consteval.Evaluator, p ParameterDecl, pv *syntax.ParamValue, r diag.Reporter) siteParam {
	b := c.Types.Builtins()
	sp := siteParam{span: pv.Span, isType: p.IsTypeParam()}
	if p.IsTypeParam() {
		switch {
		case pv.Type != nil:
			sp.typ = ev.ResolveType(pv.Type)
			if sp.typ == types.NoTypeID {
				sp.typ = b.Logic
			}
			return sp
		case pv.Expr != nil:
			if id, ok := syntax.Unparen(pv.Expr).(*syntax.IdentifierName); ok {
				if n, found := ev.Scope.Resolve(id.Name.Text); found && n.Kind == consteval.NameType {
					sp.typ = n.Type
					return sp
				}
			}
		}
		noteDeclared(diag.ReportError(r, diag.ElabParamKindMismatch, pv.Span,
			"type parameter '"+p.Name()+"' must be assigned a data type"), p.Span()).Emit()
		sp.typ = b.Error
		return sp
	}
	if pv.Expr == nil {
		noteDeclared(diag.ReportError(r, diag.ElabParamKindMismatch, pv.Span,
			"value parameter '"+p.Name()+"' cannot be assigned a data type"), p.Span()).Emit()
		sp.value = consteval.Poison(b.Error)
		return sp
	}
	sp.value = ev.Eval(pv.Expr)
	return sp
}

// resolveRequest describes one parameterization of a definition.
type resolveRequest struct {
	def    *Definition
	site   siteParams
	node   *OverrideNode
	parent *InstanceBody // instantiating body; nil for tops
	span   source.Span   // instantiation site
	top    bool
	uninst bool
}

type resolvedParam struct {
	decl   ParameterDecl
	value  consteval.Const
	typ    types.TypeID
	isType bool
}

// resolveParams computes every parameter of req.def in declaration order:
// override node, then site assignment, then default. A port parameter with
// none of them is reported once and marks the result uninstantiated.
func (c *Compilation) resolveParams(req resolveRequest) ([]resolvedParam, *consteval.MapScope, bool) {
	def := req.def
	uninst := req.uninst
	r := c.bodyReporter(uninst)
	b := c.Types.Builtins()

	scope := consteval.NewMapScope(c.unitScope)
	for _, fn := range def.functions {
		scope.Set(fn.Name.Text, consteval.Name{Kind: consteval.NameFunction, Func: fn, Scope: scope, Span: fn.Name.Span})
	}
	ev := consteval.New(c.Types, r, scope)

	used := make(map[string]bool)
	out := make([]resolvedParam, 0, len(def.Params))
	for _, item := range def.scope {
		if item.typedef != nil {
			scope.Set(item.typedef.Name.Text, consteval.Name{Kind: consteval.NameType, Type: typedefType(ev, item.typedef), Span: item.typedef.Name.Span})
			continue
		}
		p := item.param
		rp := resolvedParam{decl: p, isType: p.IsTypeParam()}
		done := false

		if ov, ok := req.node.Lookup(p.Name()); ok {
			used[p.Name()] = true
			switch {
			case p.IsLocal():
				if !ov.FromCLI {
					noteDeclared(diag.ReportError(r, diag.ElabParamLocalOverride, ov.Span,
						"cannot override local parameter '"+p.Name()+"'"), p.Span()).Emit()
				}
			case ov.IsType != p.IsTypeParam():
				noteDeclared(diag.ReportError(r, diag.ElabParamKindMismatch, ov.Span,
					"override kind does not match parameter '"+p.Name()+"'"), p.Span()).Emit()
			default:
				rp.value, rp.typ, done = ov.Value, ov.Type, true
			}
		}
		if !done {
			if sv, ok := req.site[p.Name()]; ok && !sv.useDefault {
				rp.value, rp.typ, done = sv.value, sv.typ, true
			}
		}
		if !done && p.HasDefault() {
			switch x := p.(type) {
			case *ValueParam:
				rp.value = ev.Eval(x.Declarator.Init)
			case *TypeParam:
				rp.typ = ev.ResolveType(x.Assignment.Default)
				if rp.typ == types.NoTypeID {
					rp.typ = b.Logic
				}
			case *Synthesized:
				rp.value = x.Init
			}
			done = true
		}
		if !done {
			if rp.isType {
				rp.typ = b.Error
			} else {
				rp.value = consteval.Poison(b.Error)
			}
			if !p.IsLocal() {
				code, what := diag.ElabParamNoValue, "parameter '"+p.Name()+"' of "+def.ArticleKindString()+" '"+def.Name+"' has no value"
				if req.top {
					code, what = diag.ElabTopMissingParam, "top-level "+def.KindString()+" '"+def.Name+"' has parameter '"+p.Name()+"' without a default"
				}
				at := req.span
				if at == (source.Span{}) {
					at = p.Span()
				}
				noteDeclared(diag.ReportError(r, code, at, what), p.Span()).Emit()
				uninst = true
				r = c.bodyReporter(true)
				ev.Reporter = r
			}
		}

		if !rp.isType {
			rp.value = c.convertParam(ev, p, rp.value)
			rp.typ = rp.value.Type
			scope.Set(p.Name(), consteval.Name{Kind: consteval.NameValue, Value: rp.value, Span: p.Span()})
		} else {
			scope.Set(p.Name(), consteval.Name{Kind: consteval.NameType, Type: rp.typ, Span: p.Span()})
		}
		out = append(out, rp)
	}

	if req.node != nil {
		for name, ov := range req.node.Overrides {
			if used[name] || ov.FromCLI {
				continue
			}
			diag.ReportError(r, diag.ElabOverridePathUnresolved, ov.Span,
				def.ArticleKindString()+" '"+def.Name+"' has no parameter named '"+name+"'").Emit()
		}
	}
	return out, scope, uninst
}

// convertParam applies the declared type of a value parameter. Implicitly
// typed parameters keep the type of their value.
func (c *Compilation) convertParam(ev *consteval.Evaluator, p ParameterDecl, v consteval.Const) consteval.Const {
	switch x := p.(type) {
	case *ValueParam:
		if t := ev.ResolveType(x.Syntax.Type); t != types.NoTypeID {
			sp := x.Span()
			if x.Declarator.Init != nil {
				sp = x.Declarator.Init.Span()
			}
			return ev.Convert(v, t, sp)
		}
	case *Synthesized:
		if x.Type != types.NoTypeID {
			return ev.Convert(v, x.Type, x.Location)
		}
	}
	return ev.Normalize(v)
}

// signature is the ordered parameter identity of a body.
func (c *Compilation) signature(params []resolvedParam) string {
	var sb strings.Builder
	for _, p := range params {
		sb.WriteString(p.decl.Name())
		sb.WriteByte('=')
		if p.isType {
			sb.WriteString("type:")
			sb.WriteString(strconv.FormatUint(uint64(p.typ), 10))
		} else {
			sb.WriteString(p.value.Key())
		}
		sb.WriteByte('#')
	}
	return sb.String()
}

// bodyReporter drops value-dependent diagnostics for uninstantiated
// bodies.
func (c *Compilation) bodyReporter(uninst bool) diag.Reporter {
	if !uninst {
		return c.reporter
	}
	return diag.FilterReporter{Next: c.reporter, Keep: func(code diag.Code) bool { return !code.ValueDependent() }}
}
