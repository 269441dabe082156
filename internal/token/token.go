package token

import (
	"svelab/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Directives returns the compiler directives attached before this token.
func (t Token) Directives() []*Directive {
	var out []*Directive
	for i := range t.Leading {
		if t.Leading[i].Kind == TriviaDirective {
			out = append(out, t.Leading[i].Directive)
		}
	}
	return out
}

// IdentName strips the leading backslash of an escaped identifier.
func (t Token) IdentName() string {
	if t.Kind == Ident && len(t.Text) > 1 && t.Text[0] == '\\' {
		return t.Text[1:]
	}
	return t.Text
}
