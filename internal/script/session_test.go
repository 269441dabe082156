package script

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"svelab/internal/diag"
	"svelab/internal/elab"
)

func TestEvalSequence(t *testing.T) {
	s := New(Options{})
	steps := []struct {
		src  string
		want string
	}{
		{"1 + 2", "3"},
		{"parameter int W = 8;", ""},
		{"W * 2", "16"},
		{"function automatic int sq(int v); return v * v; endfunction", ""},
		{"sq(W)", "64"},
		{"int x = W + 1;", ""},
		{"x", "9"},
		{"x = x * 2;", ""},
		{"x", "18"},
		{"typedef logic [3:0] nib_t;", ""},
		{"$bits(nib_t)", "4"},
		{`"abc"`, `"abc"`},
		{"if (x > 10) x = 1;", ""},
		{"x", "1"},
	}
	for _, st := range steps {
		v, err := s.Eval(st.src)
		if err != nil {
			t.Fatalf("Eval(%q): %v", st.src, err)
		}
		if got := Format(v); got != st.want {
			t.Fatalf("Eval(%q) = %q, want %q", st.src, got, st.want)
		}
	}
}

func TestEvalDesignUnits(t *testing.T) {
	s := New(Options{})
	for _, src := range []string{
		"module leaf #(parameter int W = 4) (input logic a); endmodule",
		"logic sig;",
		"leaf #(.W(12)) u (sig);",
	} {
		if _, err := s.Eval(src); err != nil {
			t.Fatalf("Eval(%q): %v", src, err)
		}
	}
	if _, ok := s.Compilation().Definition("leaf"); !ok {
		t.Fatalf("definition leaf not registered")
	}
	sym, ok := s.Body().Lookup("u")
	if !ok {
		t.Fatalf("instance u not declared")
	}
	if _, ok := sym.(*elab.Instance); !ok {
		t.Fatalf("u is %T, want *elab.Instance", sym)
	}
	v, err := s.Eval("u.W + 1")
	if err != nil {
		t.Fatalf("hierarchical reference: %v", err)
	}
	if got := Format(v); got != "13" {
		t.Fatalf("u.W + 1 = %s, want 13", got)
	}
}

func TestFixupDeclarationGetsNoStorage(t *testing.T) {
	s := New(Options{})
	if _, err := s.Eval("module m; endmodule"); err != nil {
		t.Fatal(err)
	}
	_, err := s.Eval("m inst;")
	if err == nil || !strings.HasPrefix(err.Error(), diag.ElabInstanceMissingParens.ID()+":") {
		t.Fatalf("Eval(m inst;) error = %v, want %s", err, diag.ElabInstanceMissingParens.ID())
	}
	sym, ok := s.Body().Lookup("inst")
	if !ok {
		t.Fatalf("inst not declared")
	}
	if _, ok := sym.(*elab.Instance); !ok {
		t.Fatalf("inst is %T, want *elab.Instance", sym)
	}
	if _, err := s.Eval("inst = 1;"); err == nil {
		t.Fatalf("assignment to an instance succeeded")
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{"nope + 1", diag.EvalUndeclared},
		{"1 / 0", diag.EvalDivByZero},
		{"$nope(1)", diag.EvalUnknownSystemFunc},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			s := New(Options{})
			_, err := s.Eval(tt.src)
			if err == nil {
				t.Fatalf("Eval(%q) succeeded", tt.src)
			}
			if !strings.HasPrefix(err.Error(), tt.code.ID()+":") {
				t.Fatalf("error %q does not start with %s", err, tt.code.ID())
			}
			var codes []diag.Code
			for _, d := range s.Diagnostics() {
				codes = append(codes, d.Code)
			}
			if diff := cmp.Diff([]diag.Code{tt.code}, codes); diff != "" {
				t.Fatalf("codes (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStateSurvivesFailure(t *testing.T) {
	s := New(Options{})
	if _, err := s.Eval("int a = 5;"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Eval("a = a / 0;"); err == nil {
		t.Fatalf("division by zero succeeded")
	}
	v, err := s.Eval("a + 0")
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(v); got != "5" {
		t.Fatalf("a = %s after failed assignment, want 5", got)
	}
}

func TestDiagnosticsSorted(t *testing.T) {
	s := New(Options{})
	s.Eval("1 / 0")
	s.Eval("missing")
	ds := s.Diagnostics()
	if len(ds) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(ds))
	}
	if ds[0].Primary.File > ds[1].Primary.File {
		t.Fatalf("diagnostics not sorted by file: %v then %v", ds[0].Primary, ds[1].Primary)
	}
}
