package parser

import (
	"svelab/internal/diag"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

// parseDataTypeOrImplicit всегда возвращает тип: если в потоке нет ни
// ключевого слова, ни имени типа, получается неявный тип из знака и
// упакованных размерностей (возможно, пустой).
func (p *Parser) parseDataTypeOrImplicit() *syntax.DataType {
	tok := p.peek()
	switch {
	case tok.Kind.IsDataTypeKeyword():
		return p.parseDataType()
	case tok.Kind == token.Ident && p.peekN(1).Kind == token.Ident:
		return p.parseDataType()
	case tok.Kind == token.Ident && p.peekN(1).Kind == token.LBracket && p.peekN(p.skipDimsAt(1)).Kind == token.Ident:
		return p.parseDataType()
	}
	t := syntax.NewDataType(emptyAt(tok.Span))
	p.parseSigningAndPacked(t)
	return t
}

// skipDimsAt возвращает смещение первого токена после подряд идущих [..].
func (p *Parser) skipDimsAt(n int) int {
	for p.peekN(n).Kind == token.LBracket {
		n = p.skipBalancedAt(n)
	}
	return n
}

// parseDataType разбирает явный тип: встроенный или именованный.
func (p *Parser) parseDataType() *syntax.DataType {
	tok := p.peek()
	t := syntax.NewDataType(tok.Span)
	switch {
	case tok.Kind.IsDataTypeKeyword():
		p.advance()
		t.Keyword = tok.Kind
	case tok.Kind == token.Ident:
		p.advance()
		t.Keyword = token.Ident
		t.Named = nameOf(tok)
	case tok.Kind == token.KwSigned || tok.Kind == token.KwUnsigned || tok.Kind == token.LBracket:
		// неявный тип: только знак и размерности
	default:
		p.err(diag.SynExpectType, "expected data type, got "+describe(tok))
		return nil
	}
	p.parseSigningAndPacked(t)
	return t
}

func (p *Parser) parseSigningAndPacked(t *syntax.DataType) {
	if p.at_or(token.KwSigned, token.KwUnsigned) {
		tok := p.advance()
		t.Signing = tok.Kind
		t.SetSpan(t.Span().Cover(tok.Span))
	}
	for p.at(token.LBracket) {
		d := p.parseDimension()
		if d == nil {
			break
		}
		t.Packed = append(t.Packed, d)
		t.SetSpan(t.Span().Cover(d.Span))
	}
}

// parseDimension разбирает [l:r] или [n].
func (p *Parser) parseDimension() *syntax.Dimension {
	lb := p.advance()
	d := &syntax.Dimension{Span: lb.Span}
	left, ok := p.parseExpr()
	if !ok {
		p.resyncUntil(token.RBracket, token.Semicolon)
		p.accept(token.RBracket)
		return nil
	}
	d.Left = left
	if _, ok := p.accept(token.Colon); ok {
		d.Right, ok = p.parseExpr()
		if !ok {
			p.resyncUntil(token.RBracket, token.Semicolon)
		}
	}
	if rb, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' to close dimension"); ok {
		d.Span = lb.Span.Cover(rb.Span)
	}
	return d
}

func (p *Parser) parseDimensions() []*syntax.Dimension {
	var dims []*syntax.Dimension
	for p.at(token.LBracket) {
		d := p.parseDimension()
		if d == nil {
			break
		}
		dims = append(dims, d)
	}
	return dims
}

// parseDeclarator разбирает "name [dims] [= init]".
func (p *Parser) parseDeclarator() *syntax.Declarator {
	name, ok := p.parseName("name")
	if !ok {
		return nil
	}
	d := &syntax.Declarator{Span: name.Span, Name: name}
	d.Dims = p.parseDimensions()
	if len(d.Dims) > 0 {
		d.Span = d.Span.Cover(d.Dims[len(d.Dims)-1].Span)
	}
	if _, ok := p.accept(token.Assign); ok {
		init, ok := p.parseExpr()
		if !ok {
			return d
		}
		d.Init = init
		d.Span = d.Span.Cover(init.Span())
	}
	return d
}

// parseDeclarators разбирает список через запятую до ';'.
func (p *Parser) parseDeclarators() []*syntax.Declarator {
	var out []*syntax.Declarator
	for {
		d := p.parseDeclarator()
		if d == nil {
			return out
		}
		out = append(out, d)
		if _, ok := p.accept(token.Comma); !ok {
			return out
		}
	}
}
