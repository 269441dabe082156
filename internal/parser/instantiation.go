package parser

import (
	"svelab/internal/diag"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

// parseHierarchyInstantiation: "M #(params) u1 [dims] (conns), u2 (...);"
func (p *Parser) parseHierarchyInstantiation(attrs []*syntax.Attribute) (syntax.Member, bool) {
	typeTok := p.advance()
	hi := syntax.NewHierarchyInstantiation(typeTok.Span)
	hi.Attrs = attrs
	hi.Type = nameOf(typeTok)
	if p.at(token.Hash) {
		hi.Params = p.parseParamAssignments()
	}
	for {
		inst, ok := p.parseHierarchicalInstance(true)
		if !ok {
			return nil, false
		}
		hi.Instances = append(hi.Instances, inst)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	hi.SetSpan(typeTok.Span.Cover(p.lastSpan))
	p.expectSemicolon()
	return hi, true
}

// parseParamAssignments разбирает "#(...)" на месте использования, а также
// короткую форму "#5".
func (p *Parser) parseParamAssignments() *syntax.ParamAssignments {
	hashTok := p.advance()
	pa := &syntax.ParamAssignments{Span: hashTok.Span}
	if !p.at(token.LParen) {
		// "#5" / "#W": одно позиционное значение
		x, ok := p.parsePrimaryExpr()
		if ok {
			pa.Ordered = append(pa.Ordered, &syntax.ParamValue{Span: x.Span(), Expr: x})
			pa.Span = pa.Span.Cover(x.Span())
		}
		return pa
	}
	p.advance()
	for !p.at_or(token.RParen, token.EOF) {
		if p.at(token.Dot) {
			dot := p.advance()
			name, ok := p.parseName("parameter name")
			if !ok {
				p.resyncUntil(token.Comma, token.RParen)
			} else {
				np := &syntax.NamedParam{Span: dot.Span.Cover(name.Span), Name: name}
				if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after parameter name"); ok {
					if !p.at(token.RParen) {
						np.Value = p.parseParamValue()
					}
					if rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); ok {
						np.Span = np.Span.Cover(rp.Span)
					}
				}
				pa.Named = append(pa.Named, np)
			}
		} else {
			if v := p.parseParamValue(); v != nil {
				pa.Ordered = append(pa.Ordered, v)
			} else {
				p.resyncUntil(token.Comma, token.RParen)
			}
		}
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close parameter assignments"); ok {
		pa.Span = pa.Span.Cover(rp.Span)
	}
	if len(pa.Ordered) > 0 && len(pa.Named) > 0 {
		p.report(diag.SynMixedConnections, diag.SevError, pa.Span, "cannot mix ordered and named parameter assignments")
	}
	return pa
}

// parseParamValue: выражение или, если начинается с ключевого слова типа,
// тип данных.
func (p *Parser) parseParamValue() *syntax.ParamValue {
	if k := p.peek().Kind; k.IsDataTypeKeyword() || k == token.KwSigned || k == token.KwUnsigned {
		t := p.parseDataType()
		if t == nil {
			return nil
		}
		return &syntax.ParamValue{Span: t.Span(), Type: t}
	}
	x, ok := p.parseExpr()
	if !ok {
		return nil
	}
	return &syntax.ParamValue{Span: x.Span(), Expr: x}
}

// parseHierarchicalInstance: "name [dims] (conns)". Для примитивов имя
// необязательно.
func (p *Parser) parseHierarchicalInstance(nameRequired bool) (*syntax.HierarchicalInstance, bool) {
	inst := &syntax.HierarchicalInstance{Span: p.peek().Span}
	if p.at(token.Ident) {
		inst.Name = nameOf(p.advance())
		inst.Dims = p.parseDimensions()
	} else if nameRequired {
		p.parseName("instance name")
		return nil, false
	}
	lp, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' to start port connections")
	if !ok {
		return nil, false
	}
	inst.Conns = p.parsePortConnections()
	rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close port connections")
	if !ok {
		p.resyncUntil(token.RParen, token.Semicolon)
		p.accept(token.RParen)
	}
	inst.ConnsSpan = lp.Span.Cover(rp.Span)
	inst.Span = inst.Span.Cover(p.lastSpan)
	return inst, true
}

// parsePortConnections разбирает содержимое скобок подключения. "()" даёт
// пустой список; "(,)": два пустых позиционных подключения.
func (p *Parser) parsePortConnections() []*syntax.PortConnection {
	if p.at(token.RParen) {
		return nil
	}
	var conns []*syntax.PortConnection
	ordered, named := false, false
	for {
		start := p.peek().Span
		attrs := p.parseAttributes()
		c := &syntax.PortConnection{Span: start, Attrs: attrs}
		switch {
		case p.at(token.DotStar):
			tok := p.advance()
			c.Kind = syntax.ConnWildcard
			c.Span = start.Cover(tok.Span)
			named = true
		case p.at(token.Dot):
			p.advance()
			c.Kind = syntax.ConnNamed
			name, ok := p.parseName("port name")
			if !ok {
				p.resyncUntil(token.Comma, token.RParen)
				break
			}
			c.Name = name
			c.Span = start.Cover(name.Span)
			if _, ok := p.accept(token.LParen); ok {
				c.HasParens = true
				if !p.at(token.RParen) {
					c.Expr, _ = p.parseExpr()
				}
				if rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after port expression"); ok {
					c.Span = c.Span.Cover(rp.Span)
				} else {
					p.resyncUntil(token.Comma, token.RParen)
				}
			}
			named = true
		case p.at_or(token.Comma, token.RParen):
			c.Kind = syntax.ConnOrdered
			c.Span = emptyAt(start)
			ordered = true
		default:
			c.Kind = syntax.ConnOrdered
			x, ok := p.parseExpr()
			if !ok {
				p.resyncUntil(token.Comma, token.RParen)
			} else {
				c.Expr = x
				c.Span = x.Span()
			}
			ordered = true
		}
		conns = append(conns, c)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if ordered && named {
		p.report(diag.SynMixedConnections, diag.SevError, conns[0].Span.Cover(conns[len(conns)-1].Span),
			"cannot mix ordered and named port connections")
	}
	return conns
}

// parsePrimitiveInstantiation: "and #(1,2) g1 (y, a, b), (z, c, d);"
func (p *Parser) parsePrimitiveInstantiation(attrs []*syntax.Attribute, gate syntax.Gate) (syntax.Member, bool) {
	gateTok := p.advance()
	pi := syntax.NewPrimitiveInstantiation(gateTok.Span)
	pi.Attrs = attrs
	pi.Gate = nameOf(gateTok)
	if p.at(token.Hash) {
		if p.peekN(1).Kind == token.LParen && p.peekN(2).Kind == token.Dot {
			// именованные параметры у примитива: ошибка элаборации, не разбора
			pi.Params = p.parseParamAssignments()
		} else {
			pi.Delay = p.parseDelay()
		}
	}
	for {
		inst, ok := p.parseHierarchicalInstance(false)
		if !ok {
			return nil, false
		}
		pi.Instances = append(pi.Instances, inst)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	pi.SetSpan(gateTok.Span.Cover(p.lastSpan))
	p.expectSemicolon()
	return pi, true
}

// parseDelay: "#5", "#d", "#(1, 2, 3)".
func (p *Parser) parseDelay() *syntax.Delay {
	hashTok := p.advance()
	d := &syntax.Delay{Span: hashTok.Span}
	if !p.at(token.LParen) {
		x, ok := p.parsePrimaryExpr()
		if ok {
			d.Values = append(d.Values, x)
			d.Span = d.Span.Cover(x.Span())
		}
		return d
	}
	p.advance()
	for !p.at_or(token.RParen, token.EOF) {
		x, ok := p.parseExpr()
		if !ok {
			p.resyncUntil(token.Comma, token.RParen)
		} else {
			d.Values = append(d.Values, x)
		}
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close delay"); ok {
		d.Span = d.Span.Cover(rp.Span)
	}
	return d
}
