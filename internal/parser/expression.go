package parser

import (
	"svelab/internal/diag"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений.
// Нижний уровень: последовательности и импликации (##, |->, |=>),
// которые встречаются только в подключениях чекеров.
func (p *Parser) parseExpr() (syntax.Expr, bool) {
	if p.at(token.HashHash) {
		return p.parseLeadingDelay()
	}
	x, ok := p.parseTernary()
	if !ok {
		return nil, false
	}
	for {
		switch p.peek().Kind {
		case token.HashHash:
			p.advance()
			delay, ok := p.parsePrimaryExpr()
			if !ok {
				return nil, false
			}
			y, ok := p.parseTernary()
			if !ok {
				p.err(diag.SynExpectExpression, "expected expression after cycle delay")
				return nil, false
			}
			x = syntax.NewSequence(x.Span().Cover(y.Span()), token.HashHash, x, delay, y)
		case token.OverlapImpl, token.NonOverlImpl:
			op := p.advance()
			y, ok := p.parseExpr()
			if !ok {
				p.err(diag.SynExpectExpression, "expected expression after "+op.Kind.String())
				return nil, false
			}
			return syntax.NewSequence(x.Span().Cover(y.Span()), op.Kind, x, nil, y), true
		default:
			return x, true
		}
	}
}

func (p *Parser) parseLeadingDelay() (syntax.Expr, bool) {
	op := p.advance()
	delay, ok := p.parsePrimaryExpr()
	if !ok {
		return nil, false
	}
	y, ok := p.parseExpr()
	if !ok {
		p.err(diag.SynExpectExpression, "expected expression after cycle delay")
		return nil, false
	}
	return syntax.NewSequence(op.Span.Cover(y.Span()), token.HashHash, nil, delay, y), true
}

// parseTernary: cond ? a : b, правоассоциативно.
func (p *Parser) parseTernary() (syntax.Expr, bool) {
	cond, ok := p.parseBinaryExpr(precLogicalOr)
	if !ok {
		return nil, false
	}
	if !p.at(token.Question) {
		return cond, true
	}
	p.advance()
	then, ok := p.parseTernary()
	if !ok {
		p.err(diag.SynExpectExpression, "expected expression after '?'")
		return nil, false
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression"); !ok {
		return nil, false
	}
	els, ok := p.parseTernary()
	if !ok {
		p.err(diag.SynExpectExpression, "expected expression after ':'")
		return nil, false
	}
	return syntax.NewTernary(cond, then, els), true
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов
// minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinaryExpr(minPrec int) (syntax.Expr, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return nil, false
	}
	for {
		prec, isRightAssoc := getBinaryOperatorPrec(p.peek().Kind)
		if prec < minPrec {
			break // приоритет слишком низкий
		}
		opTok := p.advance()

		nextMinPrec := prec + 1
		if isRightAssoc {
			nextMinPrec = prec
		}
		right, ok := p.parseBinaryExpr(nextMinPrec)
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after binary operator")
			return nil, false
		}
		left = syntax.NewBinary(opTok.Kind, left, right)
	}
	return left, true
}

// parseUnaryExpr обрабатывает унарные операторы (префиксы), включая редукции.
func (p *Parser) parseUnaryExpr() (syntax.Expr, bool) {
	if isUnaryOperator(p.peek().Kind) {
		opTok := p.advance()
		x, ok := p.parseUnaryExpr()
		if !ok {
			return nil, false
		}
		return syntax.NewUnary(opTok.Span.Cover(x.Span()), opTok.Kind, x), true
	}
	return p.parsePostfixExpr()
}

// parsePostfixExpr обрабатывает выборки и доступ к членам.
func (p *Parser) parsePostfixExpr() (syntax.Expr, bool) {
	x, ok := p.parsePrimaryExpr()
	if !ok {
		return nil, false
	}
	for {
		switch p.peek().Kind {
		case token.LBracket:
			x, ok = p.parseSelect(x)
			if !ok {
				return nil, false
			}
		case token.Dot:
			if p.peekN(1).Kind != token.Ident {
				return x, true
			}
			p.advance()
			member := nameOf(p.advance())
			x = syntax.NewMemberAccess(x.Span().Cover(member.Span), x, member)
		default:
			return x, true
		}
	}
}

// parseSelect: x[i], x[l:r], x[b+:w], x[b-:w].
func (p *Parser) parseSelect(x syntax.Expr) (syntax.Expr, bool) {
	p.advance()
	left, ok := p.parseExpr()
	if !ok {
		p.err(diag.SynExpectExpression, "expected index expression")
		return nil, false
	}
	if p.at_or(token.Colon, token.PlusColon, token.MinusColon) {
		op := p.advance().Kind
		right, ok := p.parseExpr()
		if !ok {
			p.err(diag.SynExpectExpression, "expected range bound")
			return nil, false
		}
		rb, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' to close range select")
		if !ok {
			return nil, false
		}
		return syntax.NewRangeSelect(x.Span().Cover(rb.Span), x, op, left, right), true
	}
	rb, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' to close index")
	if !ok {
		return nil, false
	}
	return syntax.NewElementSelect(x.Span().Cover(rb.Span), x, left), true
}
