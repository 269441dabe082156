package fuzztests

import (
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса

const maxFuzzInput = 1 << 16 // 64 KiB

// designSeeds are well-formed designs; every harness starts from them.
var designSeeds = []string{
	"module m; endmodule\n",
	"module leaf #(parameter int W = 4) (input logic [W-1:0] a, output logic y);\nendmodule\n" +
		"module top;\n  logic [7:0] s;\n  leaf #(.W(8)) u [3:0] (.a(s), .y());\nendmodule\n",
	"module m #(parameter int N = $clog2(17), localparam int M = N * 2);\n  wire [M-1:0] w;\nendmodule\n",
	"interface bus_if; logic req; modport host(output req); endinterface\n" +
		"module dev (bus_if.host b); endmodule\nmodule top; bus_if bi (); dev d (.b(bi)); endmodule\n",
	"`default_nettype none\nmodule m (input wire a); endmodule\n`default_nettype wire\n",
	"module m #(parameter type T = logic [3:0]); T v; localparam int B = $bits(T); endmodule\n",
	"module g (input a, b, output y); and a1 (y, a, b); endmodule\n",
	"module top; unknown_mod #(1, 2) u (.p(1'b0)); endmodule\n",
	"module m; function automatic int f(int v); return v + 1; endfunction\n  localparam int X = f(3);\nendmodule\n",
	"module t; endmodule\nmodule probe; endmodule\nmodule top; t t0 (); endmodule\nbind t probe p ();\n",
}

// brokenSeeds exercise recovery in the lexer and parser only.
var brokenSeeds = []string{
	"",
	"module",
	"module m; wire w = ; endmodule",
	"module m (input a,, b); endmodule",
	"module m; leaf #(.W( u (); endmodule",
	"8'hZZ 'q \\esc",
	"/* unterminated",
	"\"unterminated string",
	"endmodule endmodule",
	"module m; begin end end endmodule",
	"(* attr = 1 *) module m; endmodule",
}

func addDesignSeeds(f *testing.F) {
	for _, s := range designSeeds {
		f.Add([]byte(s))
	}
}

func addCorpusSeeds(f *testing.F) {
	addDesignSeeds(f)
	for _, s := range brokenSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds *.sv files from testdata/ next to the harness,
// when the directory exists.
func addTestdataSeeds(f *testing.F) {
	matches, err := filepath.Glob(filepath.Join("testdata", "*.sv"))
	if err != nil {
		return
	}
	for _, path := range matches {
		// #nosec G304 -- path comes from the testdata glob
		src, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f.Add(clampSeed(src))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
