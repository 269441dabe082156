package elab

import (
	"math/big"

	"fortio.org/safecast"

	"svelab/internal/consteval"
	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
	"svelab/internal/types"
)

// Blackbox describes a definition with no source: only its parameters and
// ports are known, usually from the project manifest.
type Blackbox struct {
	Name      string
	Interface bool
	Params    []BlackboxParam
	Ports     []BlackboxPort
}

type BlackboxParam struct {
	Name     string
	Value    int64
	HasValue bool
	Local    bool
}

type BlackboxPort struct {
	Name      string
	Direction string // input, output, inout or ref
	Width     uint32 // 0 means 1
}

var blackboxDirections = map[string]token.Kind{
	"input":  token.KwInput,
	"output": token.KwOutput,
	"inout":  token.KwInout,
	"ref":    token.KwRef,
}

// AddBlackbox registers a definition without source. Invalid entries are
// reported and the blackbox is skipped.
func (c *Compilation) AddBlackbox(bb Blackbox) *Definition {
	fail := func(msg string) *Definition {
		diag.ReportError(c.reporter, diag.ElabBlackboxInvalid, source.Span{}, msg).Emit()
		return nil
	}
	if bb.Name == "" {
		return fail("blackbox has no name")
	}
	if prev, ok := c.defs[bb.Name]; ok {
		diag.ReportError(c.reporter, diag.ElabDuplicateDefinition, source.Span{}, "blackbox '"+bb.Name+"' redefines an existing definition").
			WithNote(prev.Span, "previous definition here").Emit()
		return nil
	}
	d := &Definition{
		Name:           bb.Name,
		Kind:           DefModule,
		Blackbox:       &bb,
		DefaultNetType: token.KwWire,
		Lifetime:       token.KwStatic,
		Modports:       make(map[string]*syntax.ModportItem),
	}
	if bb.Interface {
		d.Kind = DefInterface
	}
	b := c.Types.Builtins()
	names := make(map[string]bool)
	for _, p := range bb.Params {
		if p.Name == "" || names[p.Name] {
			return fail("blackbox '" + bb.Name + "' has an unnamed or duplicate parameter '" + p.Name + "'")
		}
		names[p.Name] = true
		sp := &Synthesized{ParamName: p.Name, Type: b.Int, Local: p.Local, HasInit: p.HasValue}
		if p.HasValue {
			sp.Init = consteval.IntConst(big.NewInt(p.Value), b.Int)
		}
		d.Params = append(d.Params, sp)
		d.scope = append(d.scope, scopeItem{param: sp})
	}
	for _, p := range bb.Ports {
		if p.Name == "" || names[p.Name] {
			return fail("blackbox '" + bb.Name + "' has an unnamed or duplicate port '" + p.Name + "'")
		}
		if _, ok := blackboxDirections[p.Direction]; !ok {
			return fail("blackbox '" + bb.Name + "' port '" + p.Name + "' has invalid direction '" + p.Direction + "'")
		}
		names[p.Name] = true
	}
	c.addDefinition(d)
	return d
}

func (c *Compilation) blackboxPortType(p BlackboxPort) types.TypeID {
	if p.Width <= 1 {
		return c.Types.Builtins().Logic
	}
	w, err := safecast.Conv[int32](p.Width - 1)
	if err != nil {
		return c.Types.Builtins().Error
	}
	return c.Types.Intern(types.MakeVector(types.FlavorLogic, false, w, 0))
}
