package parser

import (
	"slices"

	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

// peekN смотрит на n токенов вперёд; за концом всегда EOF.
func (p *Parser) peekN(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	p.applyDirectives(tok)
	if tok.Kind == token.EOF {
		return tok
	}
	p.pos++
	if tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan: возвращает лучший span для диагностики
// Если текущий токен EOF, используем позицию после lastSpan
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если нет: репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.peek().Text}, false
}

// want - желаем увидеть токен, но кидаем warning, если нет
func (p *Parser) want(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.report(code, diag.SevWarning, p.getDiagnosticSpan(), msg)
	return p.peek(), false
}

// accept съедает токен, если он ожидаемого вида.
func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

// репортует warning и передает текущий спан
func (p *Parser) warn(code diag.Code, msg string) bool {
	return p.report(code, diag.SevWarning, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Enough() {
		return false // достигли максимального количества ошибок
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
	return true
}

// resyncUntil прокручивает токены до одного из стоп-токенов (не съедая его)
// или EOF. Скобки пропускаются целиком.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	for !p.at(token.EOF) {
		k := p.peek().Kind
		if slices.Contains(stop, k) {
			return
		}
		switch k {
		case token.LParen, token.LBracket, token.LBrace:
			p.skipBalanced()
		default:
			p.advance()
		}
	}
}

// skipBalanced съедает открывающую скобку и всё до парной закрывающей.
func (p *Parser) skipBalanced() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
		if depth <= 0 {
			return
		}
	}
}

// skipBalancedAt возвращает позицию сразу за скобочной группой, начинающейся
// на n токенов впереди, ничего не съедая.
func (p *Parser) skipBalancedAt(n int) int {
	depth := 0
	for {
		switch p.peekN(n).Kind {
		case token.EOF:
			return n
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
		n++
		if depth <= 0 {
			return n
		}
	}
}

// parseName: ожидает Ident; на ошибке репортит SynExpectIdentifier.
func (p *Parser) parseName(what string) (syntax.Name, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return syntax.Name{Text: tok.IdentName(), Span: tok.Span}, true
	}
	p.err(diag.SynExpectIdentifier, "expected "+what+", got "+describe(p.peek()))
	return syntax.Name{Span: p.getDiagnosticSpan()}, false
}

func nameOf(tok token.Token) syntax.Name {
	return syntax.Name{Text: tok.IdentName(), Span: tok.Span}
}

// describe formats a token for "got ..." messages.
func describe(tok token.Token) string {
	switch {
	case tok.Kind == token.EOF:
		return "end of file"
	case tok.Kind.IsKeyword():
		return "keyword " + tok.Kind.String()
	case tok.Text != "":
		return "\"" + tok.Text + "\""
	default:
		return tok.Kind.String()
	}
}

// expectSemicolon reports a missing ';' at the end of the previous token.
func (p *Parser) expectSemicolon() bool {
	if p.at(token.Semicolon) {
		p.advance()
		return true
	}
	sp := p.lastSpan
	p.report(diag.SynExpectSemicolon, diag.SevError, source.Span{File: sp.File, Start: sp.End, End: sp.End},
		"expected ';', got "+describe(p.peek()))
	return false
}

// parseEndLabel handles the optional ": name" after an end keyword.
func (p *Parser) parseEndLabel(want syntax.Name) {
	if !p.at(token.Colon) {
		return
	}
	p.advance()
	label, ok := p.parseName("end label")
	if ok && want.Valid() && label.Text != want.Text {
		p.report(diag.SynEndLabelMismatch, diag.SevError, label.Span,
			"end label '"+label.Text+"' does not match '"+want.Text+"'")
	}
}
