package dialect

import (
	"strings"

	"svelab/internal/source"
)

type keywordSignal struct {
	Dialect Kind
	Score   int
	Reason  string
}

// Ключевые слова SystemVerilog сюда не попадают: лексер отдаёт их не как
// идентификаторы.
var keywordSignals = map[string][]keywordSignal{
	// VHDL
	"entity":           {{Dialect: VHDL, Score: 6, Reason: "VHDL keyword `entity`"}},
	"architecture":     {{Dialect: VHDL, Score: 6, Reason: "VHDL keyword `architecture`"}},
	"std_logic":        {{Dialect: VHDL, Score: 5, Reason: "VHDL type `std_logic`"}},
	"std_logic_vector": {{Dialect: VHDL, Score: 6, Reason: "VHDL type `std_logic_vector`"}},
	"ieee":             {{Dialect: VHDL, Score: 4, Reason: "VHDL library `ieee`"}},
	"downto":           {{Dialect: VHDL, Score: 4, Reason: "VHDL range `downto`"}},
	"elsif":            {{Dialect: VHDL, Score: 3, Reason: "VHDL keyword `elsif`"}},
	"signal":           {{Dialect: VHDL, Score: 3, Reason: "VHDL keyword `signal`"}},
	"generic":          {{Dialect: VHDL, Score: 3, Reason: "VHDL keyword `generic`"}},
	"process":          {{Dialect: VHDL, Score: 2, Reason: "VHDL keyword `process`"}},
	"library":          {{Dialect: VHDL, Score: 2, Reason: "VHDL keyword `library`"}},
	"port":             {{Dialect: VHDL, Score: 1, Reason: "VHDL keyword `port`"}},

	// SystemC
	"SC_MODULE": {{Dialect: SystemC, Score: 6, Reason: "SystemC macro `SC_MODULE`"}},
	"SC_CTOR":   {{Dialect: SystemC, Score: 6, Reason: "SystemC macro `SC_CTOR`"}},
	"sc_main":   {{Dialect: SystemC, Score: 5, Reason: "SystemC entry point `sc_main`"}},
	"sc_in":     {{Dialect: SystemC, Score: 5, Reason: "SystemC port `sc_in`"}},
	"sc_out":    {{Dialect: SystemC, Score: 5, Reason: "SystemC port `sc_out`"}},
	"sc_signal": {{Dialect: SystemC, Score: 5, Reason: "SystemC channel `sc_signal`"}},
	"sc_core":   {{Dialect: SystemC, Score: 4, Reason: "SystemC namespace `sc_core`"}},
	"include":   {{Dialect: SystemC, Score: 1, Reason: "C preprocessor `include`"}},

	// Chisel
	"chisel3": {{Dialect: Chisel, Score: 6, Reason: "Chisel package `chisel3`"}},
	"RegInit": {{Dialect: Chisel, Score: 5, Reason: "Chisel constructor `RegInit`"}},
	"Bundle":  {{Dialect: Chisel, Score: 4, Reason: "Chisel type `Bundle`"}},
	"UInt":    {{Dialect: Chisel, Score: 4, Reason: "Chisel type `UInt`"}},
	"val":     {{Dialect: Chisel, Score: 2, Reason: "Scala keyword `val`"}},
	"def":     {{Dialect: Chisel, Score: 1, Reason: "Scala keyword `def`"}},
}

// RecordIdent collects keyword evidence for an identifier token. It tries an
// exact match, then a lowercased one for VHDL, which ignores case.
func RecordIdent(e *Evidence, ident string, span source.Span) {
	if e == nil || ident == "" {
		return
	}
	if recordIdentKey(e, ident, span) {
		return
	}
	if lower := strings.ToLower(ident); lower != ident {
		for _, sig := range keywordSignals[lower] {
			if sig.Dialect == VHDL {
				e.Add(Hint{Dialect: sig.Dialect, Score: sig.Score, Reason: sig.Reason, Span: span})
			}
		}
	}
}

func recordIdentKey(e *Evidence, ident string, span source.Span) bool {
	signals := keywordSignals[ident]
	for _, sig := range signals {
		e.Add(Hint{
			Dialect: sig.Dialect,
			Score:   sig.Score,
			Reason:  sig.Reason,
			Span:    span,
		})
	}
	return len(signals) > 0
}
