package elab

import (
	"strconv"

	"svelab/internal/consteval"
	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/types"
)

// OverrideNode carries parameter overrides for the subtree rooted at one
// instantiation. Children are keyed by instance name, and array elements by
// "[index]" below the array's node.
type OverrideNode struct {
	Overrides map[string]ParamOverride
	Children  map[string]*OverrideNode
}

// ParamOverride is one overriding value or type.
type ParamOverride struct {
	Value   consteval.Const
	Type    types.TypeID
	IsType  bool
	Span    source.Span
	FromCLI bool
}

// NewOverrideNode returns an empty node.
func NewOverrideNode() *OverrideNode {
	return &OverrideNode{
		Overrides: make(map[string]ParamOverride),
		Children:  make(map[string]*OverrideNode),
	}
}

// Child returns the node for name, or nil. Safe on a nil receiver.
func (n *OverrideNode) Child(name string) *OverrideNode {
	if n == nil {
		return nil
	}
	return n.Children[name]
}

// Lookup returns the override for a parameter. Safe on a nil receiver.
func (n *OverrideNode) Lookup(param string) (ParamOverride, bool) {
	if n == nil {
		return ParamOverride{}, false
	}
	ov, ok := n.Overrides[param]
	return ov, ok
}

// HasChildren reports whether the node overrides anything below itself.
func (n *OverrideNode) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// Empty reports a node that overrides nothing.
func (n *OverrideNode) Empty() bool {
	return n == nil || (len(n.Overrides) == 0 && len(n.Children) == 0)
}

func (n *OverrideNode) ensureChild(name string) *OverrideNode {
	ch, ok := n.Children[name]
	if !ok {
		ch = NewOverrideNode()
		n.Children[name] = ch
	}
	return ch
}

// ElementKey is the child key of an array element.
func ElementKey(index int32) string {
	return "[" + strconv.FormatInt(int64(index), 10) + "]"
}

// merge returns a node holding primary's overrides on top of secondary's.
// Neither input is modified.
func merge(primary, secondary *OverrideNode) *OverrideNode {
	switch {
	case secondary.Empty():
		return primary
	case primary.Empty():
		return secondary
	}
	out := NewOverrideNode()
	for k, v := range secondary.Overrides {
		out.Overrides[k] = v
	}
	for k, v := range primary.Overrides {
		out.Overrides[k] = v
	}
	for k, v := range secondary.Children {
		out.Children[k] = v
	}
	for k, v := range primary.Children {
		out.Children[k] = merge(v, secondary.Children[k])
	}
	return out
}

// rootOverrides builds the node applied to every top-level instance from
// command-line overrides.
func (c *Compilation) rootOverrides() *OverrideNode {
	if len(c.opts.Overrides) == 0 {
		return nil
	}
	root := NewOverrideNode()
	ev := consteval.New(c.Types, c.reporter, c.unitScope)
	for _, o := range c.opts.Overrides {
		ov := ParamOverride{FromCLI: true}
		switch {
		case o.Type != nil:
			ov.IsType = true
			ov.Type = ev.ResolveType(o.Type)
			if ov.Type == types.NoTypeID {
				ov.Type = c.Types.Builtins().Logic
			}
		case o.Value != nil:
			ov.Value = ev.Eval(o.Value)
			ov.Span = o.Value.Span()
		default:
			continue
		}
		root.Overrides[o.Name] = ov
	}
	return root
}

// defparamOverrides evaluates the defparams written in b's definition and
// arranges them by instance path below b. Values are evaluated in b.
func (b *InstanceBody) defparamOverrides() *OverrideNode {
	if len(b.Definition.defparams) == 0 {
		return nil
	}
	root := NewOverrideNode()
	ev := b.evaluator()
	for _, a := range b.Definition.defparams {
		if len(a.Path) < 2 {
			diag.ReportError(b.reporter, diag.ElabOverridePathUnresolved, a.Span, "defparam must name a parameter of a child instance").Emit()
			continue
		}
		first := a.Path[0].Name.Text
		if !b.Definition.declaresInstance(first) {
			diag.ReportError(b.reporter, diag.ElabOverridePathUnresolved, a.Path[0].Name.Span, "no instance named '"+first+"' in "+b.Definition.ArticleKindString()+" '"+b.Definition.Name+"'").Emit()
			continue
		}
		node := root
		ok := true
		for _, seg := range a.Path[:len(a.Path)-1] {
			node = node.ensureChild(seg.Name.Text)
			for _, idx := range seg.Indices {
				i, good := ev.EvalInt(idx)
				if !good {
					ok = false
					break
				}
				i32, err := toInt32(i)
				if err != nil {
					diag.ReportError(b.reporter, diag.ElabOverridePathUnresolved, idx.Span(), "defparam index is out of range").Emit()
					ok = false
					break
				}
				node = node.ensureChild(ElementKey(i32))
			}
		}
		if !ok {
			continue
		}
		last := a.Path[len(a.Path)-1]
		node.Overrides[last.Name.Text] = ParamOverride{Value: ev.Eval(a.Value), Span: a.Span}
	}
	return root
}

// declaresInstance reports whether name is declared by an instantiation in
// the definition's body.
func (d *Definition) declaresInstance(name string) bool {
	if d.Syntax == nil {
		return false
	}
	found := false
	forEachMember(d.Syntax.Members, func(m syntax.Member) {
		switch x := m.(type) {
		case *syntax.HierarchyInstantiation:
			for _, hi := range x.Instances {
				if hi.Name.Text == name {
					found = true
				}
			}
		case *syntax.DataDeclaration:
			for _, dr := range x.Declarators {
				if dr.Name.Text == name && x.Type.IsNamed() {
					found = true
				}
			}
		}
	})
	return found
}
