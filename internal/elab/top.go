package elab

import (
	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/trace"
)

// Tops returns the top-level instances, creating them on first call. After
// the first call, definitions added later are not considered.
func (c *Compilation) Tops() []*Instance {
	if c.topsDone {
		return c.tops
	}
	c.topsDone = true
	c.prepare()
	c.span = trace.Begin(c.tracer, trace.ScopePass, "elaborate", 0)
	c.root = c.rootOverrides()
	for _, d := range c.topDefinitions() {
		c.tops = append(c.tops, c.createTop(d))
	}
	return c.tops
}

// topDefinitions picks explicit tops when given, otherwise every module or
// program that no instantiation, fixup or bind refers to.
func (c *Compilation) topDefinitions() []*Definition {
	var out []*Definition
	if len(c.opts.Tops) > 0 {
		seen := make(map[string]bool, len(c.opts.Tops))
		for _, name := range c.opts.Tops {
			if seen[name] {
				continue
			}
			seen[name] = true
			d, ok := c.defs[name]
			if !ok {
				diag.ReportError(c.reporter, diag.ElabTopNotFound, source.Span{}, "top-level definition '"+name+"' not found").Emit()
				continue
			}
			out = append(out, d)
		}
		return out
	}
	refs := c.referencedNames()
	for _, d := range c.defList {
		if d.Kind == DefInterface || d.Blackbox != nil || refs[d.Name] {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (c *Compilation) referencedNames() map[string]bool {
	refs := make(map[string]bool)
	for _, names := range c.Dependencies() {
		for _, n := range names {
			refs[n] = true
		}
	}
	return refs
}

// Dependencies maps each definition to the names it instantiates, bound
// targets included, in first-use order. Names that resolve to no
// definition are kept so callers can spot unknown modules.
func (c *Compilation) Dependencies() map[string][]string {
	c.prepare()
	deps := make(map[string][]string, len(c.defList))
	for _, d := range c.defList {
		seen := make(map[string]bool)
		var names []string
		add := func(n string) {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
		for _, bd := range d.binds {
			add(bd.Instantiation.Type.Text)
		}
		if d.Syntax != nil {
			forEachMember(d.Syntax.Members, func(m syntax.Member) {
				switch x := m.(type) {
				case *syntax.HierarchyInstantiation:
					add(x.Type.Text)
				case *syntax.DataDeclaration:
					if x.Type.IsNamed() {
						if _, ok := c.defs[x.Type.Named.Text]; ok {
							add(x.Type.Named.Text)
						}
					}
				}
			})
		}
		deps[d.Name] = names
	}
	return deps
}

func (c *Compilation) createTop(d *Definition) *Instance {
	body := c.getBody(resolveRequest{def: d, node: c.root, top: true, span: d.Span})
	return c.newInstance(d.Name, d.Span, body, nil)
}

// Elaborate builds the whole hierarchy below the tops: every reachable
// body is elaborated once and every instance resolves its connections.
func (c *Compilation) Elaborate() []*Instance {
	tops := c.Tops()
	seen := make(map[*InstanceBody]bool)
	var visit func(b *InstanceBody)
	var visitArray func(a *InstanceArray)
	visitInst := func(inst *Instance) {
		inst.Connections()
		visit(inst.Body)
	}
	visitArray = func(a *InstanceArray) {
		for _, e := range a.Elements {
			switch x := e.(type) {
			case *Instance:
				visitInst(x)
			case *InstanceArray:
				visitArray(x)
			}
		}
	}
	visit = func(b *InstanceBody) {
		if seen[b] {
			return
		}
		seen[b] = true
		for _, m := range b.Members() {
			switch x := m.(type) {
			case *Instance:
				visitInst(x)
			case *InstanceArray:
				visitArray(x)
			}
		}
	}
	for _, t := range tops {
		visit(t.Body)
	}
	if c.span != nil {
		c.span.WithExtra("bodies", itoa(c.stats.Bodies)).End(itoa(len(seen)) + " bodies visited")
		c.span = nil
	}
	return tops
}

// ReportUnused warns about definitions nothing instantiated. Call it after
// Elaborate.
func (c *Compilation) ReportUnused() []*Definition {
	var unused []*Definition
	for _, d := range c.defList {
		if d.instantiated || d.Blackbox != nil {
			continue
		}
		unused = append(unused, d)
		diag.ReportWarning(c.reporter, diag.ElabUnusedDefinition, d.Span,
			d.KindString()+" '"+d.Name+"' is never instantiated").Emit()
	}
	return unused
}
