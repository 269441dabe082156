package dialect

import (
	"fmt"

	"svelab/internal/token"
)

// ObserveTokenPair records token-pattern evidence, if any, using a sliding 2-token
// window. The caller is responsible for feeding tokens in source order.
func ObserveTokenPair(e *Evidence, prev, tok token.Token) {
	if e == nil {
		return
	}

	adjacent := prev.Span.File == tok.Span.File && prev.Span.End == tok.Span.Start

	// VHDL association `=>`
	if prev.Kind == token.Assign && tok.Kind == token.Gt && adjacent {
		e.Add(Hint{Dialect: VHDL, Score: 3, Reason: "VHDL association `=>`", Span: prev.Span.Cover(tok.Span)})
	}

	// VHDL comment `-- text`
	if prev.Kind == token.MinusMinus && tok.Kind == token.Ident {
		e.Add(Hint{Dialect: VHDL, Score: 1, Reason: "VHDL comment `--`", Span: prev.Span})
	}

	// `:=` is VHDL variable assignment and Chisel connection
	if prev.Kind == token.Colon && tok.Kind == token.Assign && adjacent {
		sp := prev.Span.Cover(tok.Span)
		e.Add(Hint{Dialect: Chisel, Score: 3, Reason: "Chisel connection `:=`", Span: sp})
		e.Add(Hint{Dialect: VHDL, Score: 1, Reason: "VHDL variable assignment `:=`", Span: sp})
	}

	// C preprocessor `#include`
	if prev.Kind == token.Hash && tok.Kind == token.Ident && tok.Text == "include" && adjacent {
		e.Add(Hint{Dialect: SystemC, Score: 4, Reason: "C preprocessor `#include`", Span: prev.Span.Cover(tok.Span)})
	}

	// C++ scope `sc_core::` / `std::`
	if prev.Kind == token.Ident && tok.Kind == token.ColonColon && adjacent {
		switch prev.Text {
		case "sc_core", "sc_dt", "std":
			e.Add(Hint{
				Dialect: SystemC,
				Score:   3,
				Reason:  fmt.Sprintf("C++ scope `%s::`", prev.Text),
				Span:    prev.Span.Cover(tok.Span),
			})
		}
	}
}
