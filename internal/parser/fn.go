package parser

import (
	"svelab/internal/diag"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

// parseFunction: "function [lifetime] [type] name [(args)]; items endfunction".
func (p *Parser) parseFunction() (syntax.Member, bool) {
	kwTok := p.advance()
	fd := syntax.NewFunctionDeclaration(kwTok.Span)
	if p.at_or(token.KwAutomatic, token.KwStatic) {
		fd.Lifetime = p.advance().Kind
	}
	switch {
	case p.at(token.KwVoid):
		p.advance()
	case p.at(token.Ident) && p.at_or_n(1, token.LParen, token.Semicolon):
		// неявный тип результата: однобитный logic
		fd.ReturnType = syntax.NewDataType(emptyAt(p.peek().Span))
	default:
		fd.ReturnType = p.parseDataTypeOrImplicit()
	}
	name, ok := p.parseName("function name")
	if !ok {
		p.skipTo(token.KwEndfunction)
		return nil, true
	}
	fd.Name = name
	if p.at(token.LParen) {
		fd.Args = p.parseFunctionArgs()
	}
	p.expectSemicolon()
	args, body := p.parseSubroutineBody(token.KwEndfunction)
	fd.Args = append(fd.Args, args...)
	fd.Body = body
	if endTok, ok := p.expect(token.KwEndfunction, diag.SynMissingEnd, "expected 'endfunction'"); ok {
		fd.SetSpan(kwTok.Span.Cover(endTok.Span))
		p.parseEndLabel(name)
	}
	return fd, true
}

func (p *Parser) parseTask() (syntax.Member, bool) {
	kwTok := p.advance()
	td := syntax.NewTaskDeclaration(kwTok.Span)
	if p.at_or(token.KwAutomatic, token.KwStatic) {
		td.Lifetime = p.advance().Kind
	}
	name, ok := p.parseName("task name")
	if !ok {
		p.skipTo(token.KwEndtask)
		return nil, true
	}
	td.Name = name
	if p.at(token.LParen) {
		td.Args = p.parseFunctionArgs()
	}
	p.expectSemicolon()
	args, body := p.parseSubroutineBody(token.KwEndtask)
	td.Args = append(td.Args, args...)
	td.Body = body
	if endTok, ok := p.expect(token.KwEndtask, diag.SynMissingEnd, "expected 'endtask'"); ok {
		td.SetSpan(kwTok.Span.Cover(endTok.Span))
		p.parseEndLabel(name)
	}
	return td, true
}

func (p *Parser) at_or_n(n int, kinds ...token.Kind) bool {
	k := p.peekN(n).Kind
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// skipTo пропускает всё до end-ключевого слова включительно.
func (p *Parser) skipTo(end token.Kind) {
	p.resyncUntil(end)
	p.accept(end)
}

// parseFunctionArgs разбирает ANSI-список аргументов. Аргумент без явного
// направления и типа наследует их от предыдущего.
func (p *Parser) parseFunctionArgs() []*syntax.FunctionArg {
	p.advance()
	var args []*syntax.FunctionArg
	dir := token.KwInput
	var typ *syntax.DataType
	for !p.at_or(token.RParen, token.EOF) {
		start := p.peek().Span
		explicit := false
		if p.peek().Kind.IsDirection() {
			dir = p.advance().Kind
			explicit = true
		}
		p.accept(token.KwVar)
		if explicit || typ == nil || !(p.at(token.Ident) && isDeclaratorFollow(p.peekN(1).Kind)) {
			typ = p.parseDataTypeOrImplicit()
		}
		name, ok := p.parseName("argument name")
		if !ok {
			p.resyncUntil(token.Comma, token.RParen)
		} else {
			p.parseDimensions()
			arg := &syntax.FunctionArg{Span: start.Cover(name.Span), Direction: dir, Type: typ, Name: name}
			if _, ok := p.accept(token.Assign); ok {
				arg.Default, _ = p.parseExpr()
			}
			args = append(args, arg)
		}
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close argument list")
	return args
}

// parseSubroutineBody разбирает тело до end: объявления аргументов в
// старом стиле и операторы.
func (p *Parser) parseSubroutineBody(end token.Kind) ([]*syntax.FunctionArg, []syntax.Stmt) {
	var args []*syntax.FunctionArg
	var body []syntax.Stmt
	for !p.at_or(end, token.EOF, token.KwEndmodule, token.KwEndinterface, token.KwEndprogram) {
		before := p.pos
		if p.peek().Kind.IsDirection() {
			dir := p.advance().Kind
			p.accept(token.KwVar)
			typ := p.parseDataTypeOrImplicit()
			for _, d := range p.parseDeclarators() {
				args = append(args, &syntax.FunctionArg{Span: d.Span, Direction: dir, Type: typ, Name: d.Name, Default: d.Init})
			}
			p.expectSemicolon()
		} else if s := p.parseStatement(); s != nil {
			body = append(body, s)
		}
		if p.pos == before {
			p.advance()
		}
	}
	return args, body
}
