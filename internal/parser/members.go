package parser

import (
	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

// memberCtx: где разбирается член: на уровне $unit или внутри тела.
type memberCtx uint8

const (
	memberUnit memberCtx = iota
	memberBody
)

// parseMembers разбирает члены тела до end (не съедая его) или EOF.
func (p *Parser) parseMembers(ctx memberCtx, end ...token.Kind) []syntax.Member {
	var out []syntax.Member
	for !p.at(token.EOF) && !p.at_or(end...) {
		if ctx == memberBody && p.at_or(token.KwEndmodule, token.KwEndinterface, token.KwEndprogram) {
			// чужой end: пусть разбирается вызывающий
			break
		}
		before := p.pos
		attrs := p.parseAttributes()
		m, ok := p.parseMember(attrs, ctx)
		if ok && m != nil {
			out = append(out, m)
		}
		if !ok {
			p.resyncMember()
		}
		if p.pos == before {
			p.advance()
		}
	}
	return out
}

// resyncMember прокручивает до ';' (съедая его) или до начала следующего члена.
func (p *Parser) resyncMember() {
	p.resyncUntil(token.Semicolon, token.KwEndmodule, token.KwEndinterface, token.KwEndprogram,
		token.KwEndgenerate, token.KwModule, token.KwInterface, token.KwProgram)
	p.accept(token.Semicolon)
}

// parseMember выбирает распознаватель по первому токену (и, для
// идентификаторов, по нескольким следующим).
func (p *Parser) parseMember(attrs []*syntax.Attribute, ctx memberCtx) (syntax.Member, bool) {
	tok := p.peek()
	switch {
	case tok.Kind == token.Semicolon:
		p.advance()
		return syntax.NewEmptyMember(tok.Span), true
	case isDesignUnitStart(tok.Kind):
		if ctx == memberBody {
			p.err(diag.SynUnexpectedToken, "nested design units are not supported")
			p.parseModuleDeclaration(attrs)
			return nil, true
		}
		return p.parseModuleDeclaration(attrs)
	case tok.Kind == token.KwParameter || tok.Kind == token.KwLocalparam:
		return p.parseParameterMember()
	case tok.Kind.IsDirection():
		if ctx == memberUnit {
			p.err(diag.SynUnexpectedTopLevel, "port declarations are only allowed inside a design unit")
			return nil, false
		}
		return p.parsePortMember(attrs)
	case tok.Kind.IsNetType():
		return p.parseNetDeclaration()
	case tok.Kind == token.KwVirtual:
		return p.parseVirtualDeclaration(attrs)
	case tok.Kind.IsDataTypeKeyword(), tok.Kind == token.KwVar, tok.Kind == token.KwSigned,
		tok.Kind == token.KwUnsigned, tok.Kind == token.KwAutomatic, tok.Kind == token.KwStatic:
		return p.parseDataDeclaration(attrs)
	case tok.Kind == token.KwTypedef:
		return p.parseTypedef()
	case tok.Kind == token.KwModport:
		return p.parseModport()
	case tok.Kind == token.KwAssign:
		return p.parseContinuousAssign()
	case tok.Kind == token.KwBind:
		return p.parseBind()
	case tok.Kind == token.KwDefparam:
		return p.parseDefparam()
	case tok.Kind == token.KwFunction:
		return p.parseFunction()
	case tok.Kind == token.KwTask:
		return p.parseTask()
	case tok.Kind.IsProcedural():
		return p.skipProcedural(), true
	case tok.Kind == token.KwGenerate:
		return p.parseGenerateRegion(ctx)
	case tok.Kind == token.KwGenvar:
		p.advance()
		p.resyncUntil(token.Semicolon)
		p.expectSemicolon()
		return nil, true
	case tok.Kind == token.KwFor || tok.Kind == token.KwIf || tok.Kind == token.KwCase:
		p.warn(diag.SynUnexpectedToken, "conditional and loop generate constructs are not elaborated; skipped")
		return p.skipProcedural(), true
	case tok.Kind == token.Ident:
		return p.parseIdentMember(attrs, ctx)
	}
	p.err(diag.SynUnexpectedToken, "unexpected "+describe(tok))
	return nil, false
}

// parseIdentMember различает примитив, инстанцирование и объявление
// данных именованного типа.
func (p *Parser) parseIdentMember(attrs []*syntax.Attribute, ctx memberCtx) (syntax.Member, bool) {
	tok := p.peek()
	next := p.peekN(1).Kind
	if gate, ok := syntax.LookupGate(tok.Text); ok && (next == token.LParen || next == token.Hash || next == token.Ident) {
		if ctx == memberUnit {
			p.err(diag.SynUnexpectedTopLevel, "gate instantiations are only allowed inside a design unit")
			return nil, false
		}
		return p.parsePrimitiveInstantiation(attrs, gate)
	}
	if p.isHierarchyInstantiation() {
		if ctx == memberUnit {
			p.err(diag.SynUnexpectedTopLevel, "instantiations are only allowed inside a design unit")
			return nil, false
		}
		return p.parseHierarchyInstantiation(attrs)
	}
	if next == token.Ident || (next == token.LBracket && p.peekN(p.skipDimsAt(1)).Kind == token.Ident) {
		return p.parseDataDeclaration(attrs)
	}
	p.err(diag.SynUnexpectedToken, "unexpected "+describe(tok)+"; expected a declaration or instantiation")
	return nil, false
}

// isHierarchyInstantiation: "M #(", "M u (", "M u [..] (".
func (p *Parser) isHierarchyInstantiation() bool {
	switch p.peekN(1).Kind {
	case token.Hash:
		return true
	case token.Ident:
		return p.peekN(p.skipDimsAt(2)).Kind == token.LParen
	}
	return false
}

func (p *Parser) parseParameterMember() (syntax.Member, bool) {
	kwTok := p.advance()
	if p.at(token.KwType) {
		td := p.parseTypeParamAssignments(kwTok.Kind)
		td.SetSpan(kwTok.Span.Cover(td.Span()))
		p.expectSemicolon()
		return td, true
	}
	pd := syntax.NewParameterDeclaration(kwTok.Span)
	pd.Keyword = kwTok.Kind
	pd.Type = p.parseDataTypeOrImplicit()
	pd.Declarators = p.parseDeclarators()
	if len(pd.Declarators) == 0 {
		return nil, false
	}
	pd.SetSpan(kwTok.Span.Cover(pd.Declarators[len(pd.Declarators)-1].Span))
	p.expectSemicolon()
	return pd, true
}

// parsePortMember: non-ANSI объявление порта в теле.
func (p *Parser) parsePortMember(attrs []*syntax.Attribute) (syntax.Member, bool) {
	dirTok := p.advance()
	port := syntax.NewPortDeclaration(dirTok.Span)
	port.Attrs = attrs
	port.Direction = dirTok.Kind
	if p.peek().Kind.IsNetType() {
		port.NetType = p.advance().Kind
	} else if _, ok := p.accept(token.KwVar); ok {
		port.Var = true
	}
	port.Type = p.parseDataTypeOrImplicit()
	port.Declarators = p.parseDeclarators()
	if len(port.Declarators) == 0 {
		return nil, false
	}
	port.SetSpan(dirTok.Span.Cover(port.Declarators[len(port.Declarators)-1].Span))
	p.expectSemicolon()
	return port, true
}

func (p *Parser) parseNetDeclaration() (syntax.Member, bool) {
	netTok := p.advance()
	nd := syntax.NewNetDeclaration(netTok.Span)
	nd.NetType = netTok.Kind
	nd.Type = p.parseDataTypeOrImplicit()
	nd.Declarators = p.parseDeclarators()
	if len(nd.Declarators) == 0 {
		return nil, false
	}
	nd.SetSpan(netTok.Span.Cover(nd.Declarators[len(nd.Declarators)-1].Span))
	p.expectSemicolon()
	return nd, true
}

// parseDataDeclaration разбирает "[const] [var] [lifetime] type decls;".
func (p *Parser) parseDataDeclaration(attrs []*syntax.Attribute) (syntax.Member, bool) {
	start := p.peek().Span
	dd := syntax.NewDataDeclaration(start)
	dd.Attrs = attrs
	p.parseDataDeclarationInto(dd)
	if len(dd.Declarators) == 0 {
		return nil, false
	}
	p.expectSemicolon()
	return dd, true
}

// parseDataDeclarationInto разбирает объявление без ';'. Используется и
// телом, и операторами функций.
func (p *Parser) parseDataDeclarationInto(dd *syntax.DataDeclaration) {
	start := dd.Span()
	for {
		switch p.peek().Kind {
		case token.KwVar:
			p.advance()
			dd.Var = true
			continue
		case token.KwAutomatic, token.KwStatic:
			dd.Lifetime = p.advance().Kind
			continue
		}
		break
	}
	dd.Type = p.parseDataTypeOrImplicit()
	dd.Declarators = p.parseDeclarators()
	if n := len(dd.Declarators); n > 0 {
		dd.SetSpan(start.Cover(dd.Declarators[n-1].Span))
	}
}

// parseVirtualDeclaration: "virtual [interface] I [#(...)] [.mp] a, b;".
func (p *Parser) parseVirtualDeclaration(attrs []*syntax.Attribute) (syntax.Member, bool) {
	vTok := p.advance()
	p.accept(token.KwInterface)
	dd := syntax.NewDataDeclaration(vTok.Span)
	dd.Attrs = attrs
	dd.Virtual = true
	iface, ok := p.parseName("interface name")
	if !ok {
		return nil, false
	}
	dd.Type = syntax.NewDataType(iface.Span)
	dd.Type.Keyword = token.Ident
	dd.Type.Named = iface
	if p.at(token.Hash) {
		dd.VirtualParams = p.parseParamAssignments()
	}
	if _, ok := p.accept(token.Dot); ok {
		dd.VirtualModport, _ = p.parseName("modport name")
	}
	dd.Declarators = p.parseDeclarators()
	if len(dd.Declarators) == 0 {
		return nil, false
	}
	dd.SetSpan(vTok.Span.Cover(dd.Declarators[len(dd.Declarators)-1].Span))
	p.expectSemicolon()
	return dd, true
}

func (p *Parser) parseTypedef() (syntax.Member, bool) {
	kwTok := p.advance()
	// forward typedef: "typedef name;"
	if p.at(token.Ident) && p.peekN(1).Kind == token.Semicolon {
		p.advance()
		p.advance()
		return nil, true
	}
	if p.at(token.Ident) && (p.peek().Text == "enum" || p.peek().Text == "struct" || p.peek().Text == "union") {
		p.err(diag.SynExpectType, "enum, struct and union typedefs are not supported")
		return nil, false
	}
	td := syntax.NewTypedefDeclaration(kwTok.Span)
	td.Type = p.parseDataType()
	if td.Type == nil {
		return nil, false
	}
	name, ok := p.parseName("typedef name")
	if !ok {
		return nil, false
	}
	td.Name = name
	td.Dims = p.parseDimensions()
	td.SetSpan(kwTok.Span.Cover(p.lastSpan))
	p.expectSemicolon()
	return td, true
}

// parseModport: "modport a (input x, output y), b (...);"
func (p *Parser) parseModport() (syntax.Member, bool) {
	kwTok := p.advance()
	md := syntax.NewModportDeclaration(kwTok.Span)
	for {
		name, ok := p.parseName("modport name")
		if !ok {
			return nil, false
		}
		item := &syntax.ModportItem{Span: name.Span, Name: name}
		if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after modport name"); !ok {
			return nil, false
		}
		dir := token.Invalid
		for !p.at_or(token.RParen, token.EOF) {
			if p.peek().Kind.IsDirection() {
				dir = p.advance().Kind
			}
			pn, ok := p.parseName("modport port name")
			if !ok {
				p.resyncUntil(token.Comma, token.RParen)
			} else {
				item.Ports = append(item.Ports, &syntax.ModportPort{Direction: dir, Name: pn})
			}
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		if rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close modport"); ok {
			item.Span = item.Span.Cover(rp.Span)
		}
		md.Items = append(md.Items, item)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	md.SetSpan(kwTok.Span.Cover(p.lastSpan))
	p.expectSemicolon()
	return md, true
}

func (p *Parser) parseContinuousAssign() (syntax.Member, bool) {
	kwTok := p.advance()
	ca := syntax.NewContinuousAssign(kwTok.Span)
	if p.at(token.Hash) {
		p.parseDelay()
	}
	for {
		lhs, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in continuous assignment"); !ok {
			return nil, false
		}
		rhs, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		ca.Assignments = append(ca.Assignments, syntax.NewAssignment(token.Assign, lhs, rhs))
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	ca.SetSpan(kwTok.Span.Cover(p.lastSpan))
	p.expectSemicolon()
	return ca, true
}

// parseBind: "bind Target Mod #(...) u (...);". Цель: только имя определения.
func (p *Parser) parseBind() (syntax.Member, bool) {
	kwTok := p.advance()
	bd := syntax.NewBindDirective(kwTok.Span)
	target, ok := p.parseName("bind target")
	if !ok {
		return nil, false
	}
	bd.Target = target
	if p.at(token.Dot) || p.at(token.LBracket) {
		p.err(diag.SynUnexpectedToken, "bind targets must name a definition")
		return nil, false
	}
	if !p.at(token.Ident) || !p.isHierarchyInstantiation() {
		p.err(diag.SynUnexpectedToken, "expected an instantiation after bind target")
		return nil, false
	}
	inst, ok := p.parseHierarchyInstantiation(nil)
	if !ok {
		return nil, false
	}
	bd.Instantiation = inst.(*syntax.HierarchyInstantiation)
	bd.SetSpan(kwTok.Span.Cover(inst.Span()))
	return bd, true
}

// parseDefparam: "defparam a.b[1].P = expr, ...;"
func (p *Parser) parseDefparam() (syntax.Member, bool) {
	kwTok := p.advance()
	dp := syntax.NewDefparam(kwTok.Span)
	for {
		start := p.peek().Span
		var path []syntax.PathSegment
		for {
			name, ok := p.parseName("hierarchical name")
			if !ok {
				return nil, false
			}
			seg := syntax.PathSegment{Name: name}
			for p.at(token.LBracket) {
				p.advance()
				idx, ok := p.parseExpr()
				if !ok {
					return nil, false
				}
				seg.Indices = append(seg.Indices, idx)
				if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
					return nil, false
				}
			}
			path = append(path, seg)
			if _, ok := p.accept(token.Dot); !ok {
				break
			}
		}
		if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in defparam"); !ok {
			return nil, false
		}
		val, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		dp.Assignments = append(dp.Assignments, &syntax.DefparamAssignment{Span: start.Cover(val.Span()), Path: path, Value: val})
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	dp.SetSpan(kwTok.Span.Cover(p.lastSpan))
	p.expectSemicolon()
	return dp, true
}

func (p *Parser) parseGenerateRegion(ctx memberCtx) (syntax.Member, bool) {
	kwTok := p.advance()
	gr := syntax.NewGenerateRegion(kwTok.Span)
	gr.Members = p.parseMembers(ctx, token.KwEndgenerate)
	if endTok, ok := p.expect(token.KwEndgenerate, diag.SynMissingEnd, "expected 'endgenerate'"); ok {
		gr.SetSpan(kwTok.Span.Cover(endTok.Span))
	}
	return gr, true
}

// skipProcedural пропускает always/initial/final блок (или не
// поддерживаемую generate-конструкцию) целиком: один оператор, с учётом
// вложенных begin/end, case/endcase, fork/join и цепочек else.
func (p *Parser) skipProcedural() syntax.Member {
	kwTok := p.advance()
	pb := syntax.NewProceduralBlock(kwTok.Span, kwTok.Text)
	depth := 0
	if kwTok.Kind == token.KwCase {
		depth = 1
	}
	p.skipStatement(depth)
	pb.SetSpan(kwTok.Span.Cover(p.lastSpan))
	return pb
}

func (p *Parser) skipStatement(depth int) {
	for !p.at(token.EOF) {
		if depth == 0 && p.at_or(token.KwEndmodule, token.KwEndinterface, token.KwEndprogram, token.KwEndgenerate) {
			return
		}
		switch p.peek().Kind {
		case token.LParen, token.LBracket, token.LBrace:
			p.skipBalanced()
			continue
		case token.KwBegin, token.KwFork, token.KwCase, token.KwCasez, token.KwCasex:
			depth++
		case token.KwEnd, token.KwJoin, token.KwJoinAny, token.KwJoinNone, token.KwEndcase:
			depth--
			p.advance()
			if depth <= 0 {
				if p.at(token.Colon) {
					p.advance()
					p.accept(token.Ident)
				}
				if !p.at(token.KwElse) {
					return
				}
				depth = 0
			}
			continue
		case token.Semicolon:
			p.advance()
			if depth == 0 && !p.at(token.KwElse) {
				return
			}
			continue
		}
		p.advance()
	}
}

// emptyAt: пустой span в начале токена.
func emptyAt(sp source.Span) source.Span {
	return source.Span{File: sp.File, Start: sp.Start, End: sp.Start}
}
