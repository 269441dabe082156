package parser

import (
	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

// parsePrimaryExpr: литералы, имена, вызовы, скобки, конкатенации, события.
func (p *Parser) parsePrimaryExpr() (syntax.Expr, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit, token.BasedLit, token.UnbasedUnsizedLit, token.RealLit, token.TimeLit, token.StringLit:
		p.advance()
		return syntax.NewLiteral(tok), true

	case token.Ident:
		p.advance()
		name := nameOf(tok)
		if p.at(token.LParen) {
			args, end, ok := p.parseCallArgs()
			if !ok {
				return nil, false
			}
			return syntax.NewCall(tok.Span.Cover(end), name, args), true
		}
		return syntax.NewIdentifierName(name), true

	case token.SystemIdent:
		p.advance()
		name := syntax.Name{Text: tok.Text, Span: tok.Span}
		sp := tok.Span
		var args []syntax.Expr
		if p.at(token.LParen) {
			a, end, ok := p.parseCallArgs()
			if !ok {
				return nil, false
			}
			args = a
			sp = sp.Cover(end)
		}
		return syntax.NewSystemCall(sp, name, args), true

	case token.LParen:
		lp := p.advance()
		x, ok := p.parseExpr()
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after '('")
			return nil, false
		}
		rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		if !ok {
			return nil, false
		}
		return syntax.NewParen(lp.Span.Cover(rp.Span), x), true

	case token.LBrace:
		return p.parseConcatenation()

	case token.Apostrophe:
		// '{a, b}: разбираем как конкатенацию
		if p.peekN(1).Kind == token.LBrace {
			ap := p.advance()
			x, ok := p.parseConcatenation()
			if ok {
				if c, isConcat := x.(*syntax.ConcatExpr); isConcat {
					c.SetSpan(ap.Span.Cover(c.Span()))
				}
			}
			return x, ok
		}

	case token.At:
		return p.parseEventExpr()
	}

	if tok.Kind.IsDataTypeKeyword() {
		t := p.parseDataType()
		if t == nil {
			return nil, false
		}
		return syntax.NewDataTypeExpr(t), true
	}

	p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
	return nil, false
}

// parseCallArgs разбирает "(a, b, ...)"; аргумент может быть типом данных.
func (p *Parser) parseCallArgs() ([]syntax.Expr, source.Span, bool) {
	lp := p.advance()
	var args []syntax.Expr
	for !p.at_or(token.RParen, token.EOF) {
		x, ok := p.parseExpr()
		if !ok {
			p.resyncUntil(token.Comma, token.RParen, token.Semicolon)
		} else {
			args = append(args, x)
		}
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close argument list")
	if !ok {
		return nil, lp.Span, false
	}
	return args, rp.Span, true
}

// parseConcatenation: {a, b} или {n{a, b}}.
func (p *Parser) parseConcatenation() (syntax.Expr, bool) {
	lb := p.advance()
	if rb, ok := p.accept(token.RBrace); ok {
		return syntax.NewConcat(lb.Span.Cover(rb.Span), nil), true
	}
	first, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if p.at(token.LBrace) {
		inner, ok := p.parseConcatenation()
		if !ok {
			return nil, false
		}
		rb, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close replication")
		if !ok {
			return nil, false
		}
		var items []syntax.Expr
		if c, isConcat := inner.(*syntax.ConcatExpr); isConcat {
			items = c.Items
		}
		return syntax.NewReplication(lb.Span.Cover(rb.Span), first, items), true
	}
	items := []syntax.Expr{first}
	for p.at(token.Comma) {
		p.advance()
		x, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		items = append(items, x)
	}
	rb, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close concatenation")
	if !ok {
		return nil, false
	}
	return syntax.NewConcat(lb.Span.Cover(rb.Span), items), true
}

// parseEventExpr: @(posedge clk), @(negedge x), @(sig), @sig.
func (p *Parser) parseEventExpr() (syntax.Expr, bool) {
	at := p.advance()
	if !p.at(token.LParen) {
		name, ok := p.parseName("event name")
		if !ok {
			return nil, false
		}
		return syntax.NewEvent(at.Span.Cover(name.Span), token.Invalid, syntax.NewIdentifierName(name)), true
	}
	p.advance()
	edge := token.Invalid
	if p.at_or(token.KwPosedge, token.KwNegedge) {
		edge = p.advance().Kind
	}
	x, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close event control")
	if !ok {
		return nil, false
	}
	return syntax.NewEvent(at.Span.Cover(rp.Span), edge, x), true
}
