package parser

import (
	"svelab/internal/diag"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

// parseStatement разбирает один процедурный оператор. На ошибке
// восстанавливается до ';' и возвращает nil.
func (p *Parser) parseStatement() syntax.Stmt {
	tok := p.peek()
	switch {
	case tok.Kind == token.Semicolon:
		p.advance()
		return syntax.NewEmptyStmt(tok.Span)
	case tok.Kind == token.KwBegin:
		return p.parseBlock()
	case tok.Kind == token.KwIf:
		return p.parseIf()
	case tok.Kind == token.KwFor:
		return p.parseFor()
	case tok.Kind == token.KwWhile:
		return p.parseWhile()
	case tok.Kind == token.KwReturn:
		p.advance()
		var value syntax.Expr
		if !p.at(token.Semicolon) {
			x, ok := p.parseExpr()
			if !ok {
				p.resyncStmt()
				return nil
			}
			value = x
		}
		p.expectSemicolon()
		return syntax.NewReturnStmt(tok.Span.Cover(p.lastSpan), value)
	case p.isDeclStart():
		dd := syntax.NewDataDeclaration(tok.Span)
		p.parseDataDeclarationInto(dd)
		if len(dd.Declarators) == 0 {
			p.resyncStmt()
			return nil
		}
		p.expectSemicolon()
		return syntax.NewDeclStmt(dd)
	}

	x, ok := p.parseAssignmentLike()
	if !ok {
		p.resyncStmt()
		return nil
	}
	p.expectSemicolon()
	return syntax.NewExprStmt(x.Span(), x)
}

func (p *Parser) resyncStmt() {
	p.resyncUntil(token.Semicolon, token.KwEnd, token.KwEndfunction, token.KwEndtask)
	p.accept(token.Semicolon)
}

// isDeclStart reports the start of a local variable declaration.
func (p *Parser) isDeclStart() bool {
	k := p.peek().Kind
	if k.IsDataTypeKeyword() || k == token.KwVar || k == token.KwAutomatic || k == token.KwStatic {
		return true
	}
	return k == token.Ident && p.peekN(1).Kind == token.Ident
}

// parseAssignmentLike разбирает выражение или присваивание. Составные
// присваивания и инкременты раскрываются в обычное "lhs = lhs op rhs".
// На уровне оператора "a <= b": неблокирующее присваивание.
func (p *Parser) parseAssignmentLike() (syntax.Expr, bool) {
	lhs, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	switch p.peek().Kind {
	case token.Assign:
		p.advance()
		rhs, ok := p.parseExpr()
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after '='")
			return nil, false
		}
		return syntax.NewAssignment(token.Assign, lhs, rhs), true
	case token.PlusEq, token.MinusEq:
		opTok := p.advance()
		op := token.Plus
		if opTok.Kind == token.MinusEq {
			op = token.Minus
		}
		rhs, ok := p.parseExpr()
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after "+opTok.Kind.String())
			return nil, false
		}
		return syntax.NewAssignment(token.Assign, lhs, syntax.NewBinary(op, lhs, rhs)), true
	case token.PlusPlus, token.MinusMinus:
		opTok := p.advance()
		op := token.Plus
		if opTok.Kind == token.MinusMinus {
			op = token.Minus
		}
		one := syntax.NewLiteral(token.Token{Kind: token.IntLit, Span: opTok.Span, Text: "1"})
		a := syntax.NewAssignment(token.Assign, lhs, syntax.NewBinary(op, lhs, one))
		a.SetSpan(lhs.Span().Cover(opTok.Span))
		return a, true
	}
	if b, isBin := lhs.(*syntax.BinaryExpr); isBin && b.Op == token.LtEq {
		return syntax.NewAssignment(token.LtEq, b.X, b.Y), true
	}
	return lhs, true
}

// parseBlock: "begin [: label] stmts end [: label]".
func (p *Parser) parseBlock() syntax.Stmt {
	beginTok := p.advance()
	blk := syntax.NewBlockStmt(beginTok.Span)
	if _, ok := p.accept(token.Colon); ok {
		blk.Label, _ = p.parseName("block label")
	}
	for !p.at_or(token.KwEnd, token.EOF, token.KwEndfunction, token.KwEndtask) {
		before := p.pos
		if s := p.parseStatement(); s != nil {
			blk.Stmts = append(blk.Stmts, s)
		}
		if p.pos == before {
			p.advance()
		}
	}
	if endTok, ok := p.expect(token.KwEnd, diag.SynMissingEnd, "expected 'end' to close 'begin'"); ok {
		blk.SetSpan(beginTok.Span.Cover(endTok.Span))
		p.parseEndLabel(blk.Label)
	}
	return blk
}

func (p *Parser) parseIf() syntax.Stmt {
	ifTok := p.advance()
	cond, ok := p.parseParenCond("if")
	if !ok {
		p.resyncStmt()
		return nil
	}
	then := p.parseStatement()
	var els syntax.Stmt
	if _, ok := p.accept(token.KwElse); ok {
		els = p.parseStatement()
	}
	return syntax.NewIfStmt(ifTok.Span.Cover(p.lastSpan), cond, then, els)
}

func (p *Parser) parseWhile() syntax.Stmt {
	whileTok := p.advance()
	cond, ok := p.parseParenCond("while")
	if !ok {
		p.resyncStmt()
		return nil
	}
	body := p.parseStatement()
	return syntax.NewWhileStmt(whileTok.Span.Cover(p.lastSpan), cond, body)
}

func (p *Parser) parseParenCond(what string) (syntax.Expr, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after '"+what+"'"); !ok {
		return nil, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close condition"); !ok {
		return nil, false
	}
	return cond, true
}

// parseFor: "for (init; cond; step) body".
func (p *Parser) parseFor() syntax.Stmt {
	forTok := p.advance()
	fs := syntax.NewForStmt(forTok.Span)
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'for'"); !ok {
		p.resyncStmt()
		return nil
	}
	for !p.at_or(token.Semicolon, token.EOF) {
		if p.isDeclStart() {
			dd := syntax.NewDataDeclaration(p.peek().Span)
			p.parseDataDeclarationInto(dd)
			fs.Init = append(fs.Init, syntax.NewDeclStmt(dd))
			break
		}
		x, ok := p.parseAssignmentLike()
		if !ok {
			p.resyncStmt()
			return nil
		}
		fs.Init = append(fs.Init, syntax.NewExprStmt(x.Span(), x))
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after for-loop initializer"); !ok {
		p.resyncStmt()
		return nil
	}
	if !p.at(token.Semicolon) {
		cond, ok := p.parseExpr()
		if !ok {
			p.resyncStmt()
			return nil
		}
		fs.Cond = cond
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after for-loop condition"); !ok {
		p.resyncStmt()
		return nil
	}
	for !p.at_or(token.RParen, token.EOF) {
		x, ok := p.parseAssignmentLike()
		if !ok {
			p.resyncStmt()
			return nil
		}
		fs.Step = append(fs.Step, x)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close for-loop header"); !ok {
		p.resyncStmt()
		return nil
	}
	fs.Body = p.parseStatement()
	fs.SetSpan(forTok.Span.Cover(p.lastSpan))
	return fs
}
