package parser

import (
	"strings"

	"svelab/internal/diag"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

// applyDirectives обновляет состояние директив по leading trivia токена.
// Каждый токен отдаёт свои директивы ровно один раз.
func (p *Parser) applyDirectives(tok token.Token) {
	if p.pos < p.applied {
		return
	}
	p.applied = p.pos + 1
	for _, d := range tok.Directives() {
		p.applyDirective(d)
	}
}

func (p *Parser) applyDirective(d *token.Directive) {
	payload := strings.TrimSpace(d.Payload)
	switch d.Name {
	case "default_nettype":
		if payload == "none" {
			p.dirs.DefaultNetType = token.Invalid
			return
		}
		if k, ok := token.LookupKeyword(payload); ok && k.IsNetType() {
			p.dirs.DefaultNetType = k
			return
		}
		p.report(diag.SynBadDirective, diag.SevError, d.Span, "`default_nettype expects a net type or 'none', got \""+payload+"\"")
	case "unconnected_drive":
		if payload != "pull0" && payload != "pull1" {
			p.report(diag.SynBadDirective, diag.SevError, d.Span, "`unconnected_drive expects pull0 or pull1")
			return
		}
		p.dirs.UnconnectedDrive = payload
	case "nounconnected_drive":
		p.dirs.UnconnectedDrive = ""
	case "timescale":
		if !strings.Contains(payload, "/") {
			p.report(diag.SynBadDirective, diag.SevError, d.Span, "`timescale expects unit/precision")
			return
		}
		p.dirs.TimeScale = strings.Join(strings.Fields(payload), "")
	case "celldefine":
		p.dirs.CellDefine = true
	case "endcelldefine":
		p.dirs.CellDefine = false
	case "resetall":
		p.dirs = syntax.DefaultDirectives()
	}
}
