package testkit

import (
	"testing"

	"svelab/internal/diag"
	"svelab/internal/parser"
	"svelab/internal/source"
)

func TestCheckSpanInvariants(t *testing.T) {
	srcs := []string{
		"",
		"module m; endmodule\n",
		"module top #(parameter int W = 2) (input logic a);\n  wire w;\n  leaf u1 (.a(a));\n  generate\n    leaf g ();\n  endgenerate\nendmodule\nmodule leaf (input a); endmodule\n",
	}
	for _, src := range srcs {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("t.sv", []byte(src)))
		bag := diag.NewBag(16)
		res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
		if bag.HasErrors() {
			t.Fatalf("%q: parse errors:\n%s", src, diag.FormatShort(bag.Items(), fs, false))
		}
		if err := CheckSpanInvariants(res.Unit, file); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
	if err := CheckSpanInvariants(nil, nil); err == nil {
		t.Errorf("nil unit accepted")
	}
}
