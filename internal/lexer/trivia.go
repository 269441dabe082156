package lexer

import (
	"strings"

	"svelab/internal/diag"
	"svelab/internal/token"
)

// directives the parser understands; anything else is reported and skipped
var knownDirectives = map[string]bool{
	"timescale":           true,
	"default_nettype":     true,
	"unconnected_drive":   true,
	"nounconnected_drive": true,
	"resetall":            true,
	"celldefine":          true,
	"endcelldefine":       true,
}

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ' и '\t' коалесцируются в один TriviaSpace
//   - последовательные '\n' коалесцируются в один TriviaNewline
//   - //... до \n -> TriviaLineComment
//   - /* ... */ -> TriviaBlockComment (без вложенности, как в SystemVerilog)
//   - `name payload -> TriviaDirective
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case isSpace(b) || b == '\r':
			lx.cursor.EatWhile(func(c byte) bool { return isSpace(c) || c == '\r' })
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		case b == '\n':
			lx.cursor.EatWhile(func(c byte) bool { return c == '\n' })
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		case b == '/':
			if lx.scanCommentIntoHold() {
				continue
			}
		case b == '`':
			lx.scanDirectiveIntoHold()
			continue
		}
		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}
	switch b1 {
	case '/':
		lx.cursor.EatWhile(func(c byte) bool { return c != '\n' })
		lx.pushTrivia(token.TriviaLineComment, start)
		return true
	case '*':
		lx.cursor.Off += 2
		closed := false
		for !lx.cursor.EOF() {
			if lx.try2('*', '/') {
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		if !closed {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		lx.pushTrivia(token.TriviaBlockComment, start)
		return true
	}
	return false
}

// scanDirectiveIntoHold reads `name and the rest of its line as payload.
// A trailing line comment is not part of the payload.
func (lx *Lexer) scanDirectiveIntoHold() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // `
	nameStart := lx.cursor.Off
	lx.cursor.EatWhile(isIdentContinueByte)
	name := string(lx.file.Content[nameStart:lx.cursor.Off])
	nameSpan := lx.cursor.SpanFrom(start)

	payloadStart := lx.cursor.Off
	lx.cursor.EatWhile(func(c byte) bool { return c != '\n' })
	payload := string(lx.file.Content[payloadStart:lx.cursor.Off])
	if i := strings.Index(payload, "//"); i >= 0 {
		payload = payload[:i]
	}

	if name == "" {
		lx.errLex(diag.LexUnknownChar, nameSpan, "stray '`'")
	} else if !knownDirectives[name] {
		lx.warnLex(diag.LexUnknownDirective, nameSpan, "unsupported compiler directive '`"+name+"' ignored")
	}

	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: token.TriviaDirective,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
		Directive: &token.Directive{
			Name:    name,
			Payload: strings.TrimSpace(payload),
			Span:    sp,
		},
	})
}
