package parser

import (
	"svelab/internal/diag"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

// parseModuleDeclaration разбирает module/macromodule/interface/program
// целиком, вместе с телом и завершающим end-ключевым словом.
func (p *Parser) parseModuleDeclaration(attrs []*syntax.Attribute) (syntax.Member, bool) {
	kwTok := p.advance()
	decl := syntax.NewModuleDeclaration(kwTok.Span)
	decl.Attrs = attrs
	decl.Keyword = kwTok.Kind
	if kwTok.Kind == token.KwMacromodule {
		decl.Keyword = token.KwModule
	}
	// состояние директив фиксируется после ключевого слова: директивы,
	// записанные прямо перед ним, уже применены
	decl.Directives = p.dirs

	if p.at_or(token.KwAutomatic, token.KwStatic) {
		decl.Lifetime = p.advance().Kind
	}
	name, ok := p.parseName("design unit name")
	decl.Name = name
	if !ok {
		p.skipDesignUnit(decl)
		return decl, true
	}

	if p.at(token.Hash) {
		decl.ParamPorts = p.parseParamPortList()
	}
	if p.at(token.LParen) {
		decl.Ports = p.parsePortList()
	}
	p.expectSemicolon()

	end := endKeywordFor(decl.Keyword)
	decl.Members = p.parseMembers(memberBody, end)
	if endTok, ok := p.expect(end, diag.SynMissingEnd, "expected "+end.String()+" to close "+decl.Keyword.String()+" '"+name.Text+"'"); ok {
		decl.SetSpan(kwTok.Span.Cover(endTok.Span))
		p.parseEndLabel(name)
	} else {
		decl.SetSpan(kwTok.Span.Cover(p.lastSpan))
	}
	return decl, true
}

// skipDesignUnit пропускает тело после неразборчивого заголовка.
func (p *Parser) skipDesignUnit(decl *syntax.ModuleDeclaration) {
	end := endKeywordFor(decl.Keyword)
	p.resyncUntil(end)
	if tok, ok := p.accept(end); ok {
		decl.SetSpan(decl.Span().Cover(tok.Span))
		if p.at(token.Colon) {
			p.advance()
			p.accept(token.Ident)
		}
	}
}

// parseAttributes reads zero or more (* ... *) groups.
func (p *Parser) parseAttributes() []*syntax.Attribute {
	var attrs []*syntax.Attribute
	for p.at(token.AttrOpen) {
		p.advance()
		for !p.at_or(token.AttrClose, token.EOF) {
			name, ok := p.parseName("attribute name")
			if !ok {
				p.resyncUntil(token.AttrClose)
				break
			}
			a := &syntax.Attribute{Name: name}
			if _, ok := p.accept(token.Assign); ok {
				a.Value, _ = p.parseExpr()
			}
			attrs = append(attrs, a)
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		p.expect(token.AttrClose, diag.SynUnexpectedToken, "expected '*)' to close attribute")
	}
	return attrs
}

// parseParamPortList разбирает #( ... ) заголовка. Записи без ключевого слова
// наследуют ключевое слово и тип предыдущей записи.
func (p *Parser) parseParamPortList() *syntax.ParameterPortList {
	hashTok := p.advance()
	list := &syntax.ParameterPortList{Span: hashTok.Span}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after '#'"); !ok {
		return list
	}

	kw := token.Invalid
	var last syntax.Member
	for !p.at_or(token.RParen, token.EOF) {
		explicitKw := false
		if p.at_or(token.KwParameter, token.KwLocalparam) {
			kw = p.advance().Kind
			explicitKw = true
		}
		switch {
		case p.at(token.KwType):
			td := p.parseTypeParamAssignments(kw)
			list.Decls = append(list.Decls, td)
			last = td
		case !explicitKw && last != nil && p.at(token.Ident) && isDeclaratorFollow(p.peekN(1).Kind):
			// продолжение: "parameter int A = 1, B = 2"
			switch prev := last.(type) {
			case *syntax.ParameterDeclaration:
				if d := p.parseDeclarator(); d != nil {
					prev.Declarators = append(prev.Declarators, d)
					prev.SetSpan(prev.Span().Cover(d.Span))
				}
			case *syntax.TypeParameterDeclaration:
				if a := p.parseTypeAssignment(); a != nil {
					prev.Assignments = append(prev.Assignments, a)
					prev.SetSpan(prev.Span().Cover(a.Span))
				}
			}
		default:
			start := p.peek().Span
			pd := syntax.NewParameterDeclaration(start)
			pd.Keyword = kw
			pd.Type = p.parseDataTypeOrImplicit()
			d := p.parseDeclarator()
			if d == nil {
				p.resyncUntil(token.Comma, token.RParen)
			} else {
				pd.Declarators = append(pd.Declarators, d)
				pd.SetSpan(start.Cover(d.Span))
				list.Decls = append(list.Decls, pd)
				last = pd
			}
		}
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close parameter port list"); ok {
		list.Span = list.Span.Cover(rp.Span)
	}
	return list
}

// isDeclaratorFollow reports tokens that may follow a declared name.
func isDeclaratorFollow(k token.Kind) bool {
	switch k {
	case token.Assign, token.Comma, token.RParen, token.LBracket, token.Semicolon:
		return true
	}
	return false
}

func (p *Parser) parseTypeParamAssignments(kw token.Kind) *syntax.TypeParameterDeclaration {
	typeTok := p.advance()
	td := syntax.NewTypeParameterDeclaration(typeTok.Span)
	td.Keyword = kw
	for {
		a := p.parseTypeAssignment()
		if a == nil {
			break
		}
		td.Assignments = append(td.Assignments, a)
		td.SetSpan(td.Span().Cover(a.Span))
		// в списке заголовка запятая разделяет записи; решает вызывающий
		if !p.at(token.Comma) || p.peekN(1).Kind != token.Ident || !isDeclaratorFollow(p.peekN(2).Kind) {
			break
		}
		p.advance()
	}
	return td
}

func (p *Parser) parseTypeAssignment() *syntax.TypeAssignment {
	name, ok := p.parseName("type parameter name")
	if !ok {
		return nil
	}
	a := &syntax.TypeAssignment{Span: name.Span, Name: name}
	if _, ok := p.accept(token.Assign); ok {
		a.Default = p.parseDataType()
		if a.Default != nil {
			a.Span = a.Span.Cover(a.Default.Span())
		}
	}
	return a
}

// parsePortList разбирает ( ... ) заголовка: ANSI-объявления или
// голые имена non-ANSI стиля.
func (p *Parser) parsePortList() *syntax.PortList {
	lp := p.advance()
	list := &syntax.PortList{Span: lp.Span, Ansi: true}
	if rp, ok := p.accept(token.RParen); ok {
		list.Span = lp.Span.Cover(rp.Span)
		return list
	}

	if p.at(token.Ident) && p.at_ident_list_follow(1) {
		list.Ansi = false
		for !p.at_or(token.RParen, token.EOF) {
			name, ok := p.parseName("port name")
			if !ok {
				p.resyncUntil(token.Comma, token.RParen)
			} else {
				list.NonAnsi = append(list.NonAnsi, name)
			}
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	} else {
		var prev *syntax.PortDeclaration
		for !p.at_or(token.RParen, token.EOF) {
			attrs := p.parseAttributes()
			if prev != nil && len(attrs) == 0 && p.at(token.Ident) && isDeclaratorFollow(p.peekN(1).Kind) {
				// "input a, b": b наследует направление и тип
				if d := p.parseDeclarator(); d != nil {
					prev.Declarators = append(prev.Declarators, d)
					prev.SetSpan(prev.Span().Cover(d.Span))
				}
			} else if port := p.parseAnsiPort(attrs, prev); port != nil {
				list.Ports = append(list.Ports, port)
				prev = port
			} else {
				p.resyncUntil(token.Comma, token.RParen)
			}
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	}
	if rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close port list"); ok {
		list.Span = lp.Span.Cover(rp.Span)
	}
	return list
}

// at_ident_list_follow reports a bare name followed by ',' or ')'.
func (p *Parser) at_ident_list_follow(n int) bool {
	k := p.peekN(n).Kind
	return k == token.Comma || k == token.RParen
}

// parseAnsiPort разбирает одно ANSI-объявление порта, включая интерфейсные
// порты вида "I.mp name" и "I name".
func (p *Parser) parseAnsiPort(attrs []*syntax.Attribute, prev *syntax.PortDeclaration) *syntax.PortDeclaration {
	start := p.peek().Span
	port := syntax.NewPortDeclaration(start)
	port.Attrs = attrs

	if p.peek().Kind.IsDirection() {
		port.Direction = p.advance().Kind
	}
	if p.peek().Kind.IsNetType() {
		port.NetType = p.advance().Kind
	} else if _, ok := p.accept(token.KwVar); ok {
		port.Var = true
	}

	switch {
	case port.Direction == token.Invalid && p.at(token.KwInterface):
		// "interface name": generic interface port
		kw := p.advance()
		port.Type = syntax.NewDataType(kw.Span)
		port.Type.Keyword = token.KwInterface
		if _, ok := p.accept(token.Dot); ok {
			port.Modport, _ = p.parseName("modport name")
		}
	case p.at(token.Ident) && p.peekN(1).Kind == token.Dot && p.peekN(2).Kind == token.Ident && p.peekN(3).Kind == token.Ident:
		ifaceTok := p.advance()
		p.advance()
		port.Modport = nameOf(p.advance())
		port.Type = syntax.NewDataType(ifaceTok.Span)
		port.Type.Keyword = token.Ident
		port.Type.Named = nameOf(ifaceTok)
	default:
		port.Type = p.parseDataTypeOrImplicit()
	}

	// "(input a, b)" и "(a)" после объявленного порта: без явных частей
	// порт наследует направление предыдущего
	if prev != nil && port.Direction == token.Invalid && port.NetType == token.Invalid && !port.Var &&
		port.Type.Implicit() && len(port.Type.Packed) == 0 && port.Type.Signing == token.Invalid {
		port.Direction = prev.Direction
		port.NetType = prev.NetType
		port.Var = prev.Var
		port.Type = prev.Type
		port.Modport = prev.Modport
	}

	d := p.parseDeclarator()
	if d == nil {
		return nil
	}
	port.Declarators = append(port.Declarators, d)
	port.SetSpan(start.Cover(d.Span))
	return port
}
