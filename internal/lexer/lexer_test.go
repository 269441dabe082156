package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.sv", []byte(src))
	bag := diag.NewBag(32)
	lx := New(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tk := range toks {
		out = append(out, tk.Kind)
	}
	return out
}

func TestLexerKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{
			name: "module header",
			src:  "module m #(parameter W = 8) (input logic [W-1:0] a);",
			want: []token.Kind{
				token.KwModule, token.Ident, token.Hash, token.LParen, token.KwParameter, token.Ident,
				token.Assign, token.IntLit, token.RParen, token.LParen, token.KwInput, token.KwLogic,
				token.LBracket, token.Ident, token.Minus, token.IntLit, token.Colon, token.IntLit,
				token.RBracket, token.Ident, token.RParen, token.Semicolon, token.EOF,
			},
		},
		{
			name: "numbers",
			src:  "8'hFF 'b10 '1 'x 4'sd3 1.5 2e3 10ns 16 'hA",
			want: []token.Kind{
				token.BasedLit, token.BasedLit, token.UnbasedUnsizedLit, token.UnbasedUnsizedLit,
				token.BasedLit, token.RealLit, token.RealLit, token.TimeLit, token.BasedLit, token.EOF,
			},
		},
		{
			name: "operators",
			src:  "a === b !== c <<< 2 >>> 1 ~^ d ^~ e |-> f |=> g ** 2 .* ##",
			want: []token.Kind{
				token.Ident, token.EqEqEq, token.Ident, token.BangEqEq, token.Ident, token.AShl,
				token.IntLit, token.AShr, token.IntLit, token.TildeCaret, token.Ident, token.TildeCaret,
				token.Ident, token.OverlapImpl, token.Ident, token.NonOverlImpl, token.Ident, token.Power,
				token.IntLit, token.DotStar, token.HashHash, token.EOF,
			},
		},
		{
			name: "attribute versus star event",
			src:  "(* keep *) @(*)",
			want: []token.Kind{
				token.AttrOpen, token.Ident, token.AttrClose, token.At, token.LParen, token.Star,
				token.RParen, token.EOF,
			},
		},
		{
			name: "identifiers",
			src:  "\\bus[0] $clog2 a$b and",
			want: []token.Kind{token.Ident, token.SystemIdent, token.Ident, token.Ident, token.EOF},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := lexAll(t, tt.src)
			if diff := cmp.Diff(tt.want, kinds(toks)); diff != "" {
				t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
			}
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %v", bag.Codes())
			}
		})
	}
}

func TestLexerDirectivesAreTrivia(t *testing.T) {
	toks, bag := lexAll(t, "`timescale 1ns/1ps // units\n`default_nettype none\nmodule m; endmodule\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Codes())
	}
	if toks[0].Kind != token.KwModule {
		t.Fatalf("first token = %s, want 'module'", toks[0].Kind)
	}
	dirs := toks[0].Directives()
	if len(dirs) != 2 {
		t.Fatalf("expected 2 directives, got %d", len(dirs))
	}
	if dirs[0].Name != "timescale" || dirs[0].Payload != "1ns/1ps" {
		t.Fatalf("timescale directive = %+v", dirs[0])
	}
	if dirs[1].Name != "default_nettype" || dirs[1].Payload != "none" {
		t.Fatalf("default_nettype directive = %+v", dirs[1])
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want diag.Code
	}{
		{"bad binary digit", "4'b102", diag.LexBadNumber},
		{"unterminated string", "\"abc\n", diag.LexUnterminatedString},
		{"unterminated comment", "/* abc", diag.LexUnterminatedBlockComment},
		{"unknown directive", "`define X 1\n", diag.LexUnknownDirective},
		{"unknown char", "a ` b", diag.LexUnknownChar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag := lexAll(t, tt.src)
			if bag.Len() == 0 || bag.Items()[0].Code != tt.want {
				t.Fatalf("want %s, got %v", tt.want.ID(), bag.Codes())
			}
		})
	}
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.sv", []byte("a b"))
	lx := New(fs.Get(id), Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("Peek = %q", p.Text)
	}
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("second Peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("Next = %q", n.Text)
	}
}
