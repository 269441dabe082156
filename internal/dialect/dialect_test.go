package dialect

import (
	"testing"

	"svelab/internal/diag"
	"svelab/internal/source"
)

func check(t *testing.T, src string) (Classification, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("x.sv", []byte(src)))
	bag := diag.NewBag(8)
	return Check(file, diag.BagReporter{Bag: bag}), bag
}

func TestCheckForeignFiles(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Kind
	}{
		{
			name: "vhdl",
			src: `library ieee;
use ieee.std_logic_1164.all;
entity counter is
  port (clk : in std_logic; q : out std_logic_vector(7 downto 0));
end entity;
`,
			want: VHDL,
		},
		{
			name: "systemc",
			src: `#include <systemc.h>
SC_MODULE(adder) {
  sc_in<int> a;
  sc_out<int> y;
  SC_CTOR(adder) {}
};
`,
			want: SystemC,
		},
		{
			name: "chisel",
			src: `import chisel3._
class Acc extends Module {
  val io = IO(new Bundle { val in = Input(UInt(8.W)) })
  val r = RegInit(0.U(8.W))
  r := r + io.in
}
`,
			want: Chisel,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bag := check(t, tt.src)
			if c.Kind != tt.want || !c.Foreign() {
				t.Fatalf("classification = %+v, want foreign %v", c, tt.want)
			}
			items := bag.Items()
			if len(items) != 1 || items[0].Code != diag.SynForeignLanguage || len(items[0].Notes) != 1 {
				t.Fatalf("diagnostics = %+v", items)
			}
		})
	}
}

func TestCheckLeavesSystemVerilogAlone(t *testing.T) {
	for _, src := range []string{
		"module m (input logic clk, output logic [7:0] q);\n  always_ff @(posedge clk) q <= q + 1;\nendmodule\n",
		"module broken (input a;\n  wire w = ;\n",
		// один сигнал VHDL не делает файл чужим
		"module m; logic signal_q; endmodule\n",
	} {
		c, bag := check(t, src)
		if c.Foreign() || bag.Len() != 0 {
			t.Errorf("%q: classified as %+v", src, c)
		}
	}
}

func TestClassifierRunnerUp(t *testing.T) {
	e := NewEvidence()
	e.Add(Hint{Dialect: VHDL, Score: 6})
	e.Add(Hint{Dialect: Chisel, Score: 3})
	e.Add(Hint{Dialect: VHDL, Score: 3})
	c := Classifier{}.Classify(e)
	if c.Kind != VHDL || c.Score != 9 || c.RunnerUp != Chisel || c.RunnerUpScore != 3 || c.ObservedSignals != 3 {
		t.Fatalf("classification = %+v", c)
	}
	if c.Confidence != 0.75 {
		t.Fatalf("confidence = %v, want 0.75", c.Confidence)
	}
}
