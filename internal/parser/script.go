package parser

import (
	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

// ScriptResult holds the top-level constructs of one interactive snippet.
// Items are members, statements or bare expressions.
type ScriptResult struct {
	Items []syntax.Node
	Bag   *diag.Bag
}

// ParseScript разбирает фрагмент интерактивной сессии: последовательность
// объявлений, инстанцирований, операторов и выражений. Выражение без ';'
// в конце ввода остаётся выражением и вернёт значение.
func ParseScript(file *source.File, opts Options) ScriptResult {
	p := newParser(file, opts)
	var items []syntax.Node
	for !p.at(token.EOF) {
		before := p.pos
		if n := p.parseScriptItem(); n != nil {
			items = append(items, n)
		}
		if p.pos == before {
			p.advance()
		}
	}
	return ScriptResult{Items: items, Bag: bagOf(opts.Reporter)}
}

func (p *Parser) parseScriptItem() syntax.Node {
	attrs := p.parseAttributes()
	tok := p.peek()
	switch {
	case isDesignUnitStart(tok.Kind),
		tok.Kind == token.KwParameter, tok.Kind == token.KwLocalparam,
		tok.Kind == token.KwTypedef, tok.Kind == token.KwFunction, tok.Kind == token.KwTask,
		tok.Kind.IsNetType(), tok.Kind == token.KwVirtual, tok.Kind == token.KwBind,
		tok.Kind == token.KwAssign:
		return p.scriptMember(attrs)
	case tok.Kind == token.Ident && (p.isHierarchyInstantiation() || p.peekN(1).Kind == token.Ident):
		return p.scriptMember(attrs)
	case p.isDeclStart():
		return p.scriptMember(attrs)
	case tok.Kind == token.KwBegin, tok.Kind == token.KwIf, tok.Kind == token.KwFor,
		tok.Kind == token.KwWhile, tok.Kind == token.KwReturn, tok.Kind == token.Semicolon:
		return p.parseStatement()
	}

	x, ok := p.parseAssignmentLike()
	if !ok {
		p.resyncStmt()
		return nil
	}
	if p.at(token.EOF) {
		return x
	}
	p.expectSemicolon()
	return syntax.NewExprStmt(x.Span(), x)
}

func (p *Parser) scriptMember(attrs []*syntax.Attribute) syntax.Node {
	if isDesignUnitStart(p.peek().Kind) {
		m, _ := p.parseModuleDeclaration(attrs)
		return m
	}
	m, ok := p.parseMember(attrs, memberBody)
	if !ok {
		p.resyncMember()
		return nil
	}
	if m == nil {
		return nil
	}
	return m
}
