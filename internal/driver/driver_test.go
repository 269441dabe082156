package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"svelab/internal/buildpipeline"
	"svelab/internal/diag"
	"svelab/internal/elab"
	"svelab/internal/observ"
	"svelab/internal/source"
)

func writeDesign(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, src := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(src), 0o600); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	// порядок загрузки детерминирован
	slices.Sort(paths)
	return dir, paths
}

const leafSV = `module leaf #(parameter int W = 4) (input logic [W-1:0] a);
endmodule
`

const midSV = `module mid #(parameter int W = 8);
  logic [W-1:0] s;
  leaf #(.W(W)) l0 (.a(s));
  leaf #(.W(W)) l1 (.a(s));
endmodule
`

const topSV = `module top #(parameter int W = 2);
  mid #(.W(W)) m ();
  leaf r [1:0] (.a());
endmodule
`

func param(t *testing.T, inst *elab.Instance, name string) string {
	t.Helper()
	s, ok := inst.Body.Lookup(name)
	if !ok {
		t.Fatalf("%s: no parameter %s", inst.Name(), name)
	}
	p, ok := s.(*elab.ParameterSymbol)
	if !ok {
		t.Fatalf("%s.%s is %T", inst.Name(), name, s)
	}
	return p.Value.Text()
}

func TestElaborateDesign(t *testing.T) {
	dir, paths := writeDesign(t, map[string]string{"a_leaf.sv": leafSV, "b_mid.sv": midSV, "c_top.sv": topSV})
	rec := &buildpipeline.Recorder{}
	timer := observ.NewTimer()

	res, err := Elaborate(context.Background(), Options{Files: paths, BaseDir: dir, Jobs: 2, Sink: rec, Timer: timer})
	if err != nil {
		t.Fatalf("Elaborate: %v", err)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", diag.FormatShort(res.Bag.Items(), res.Files, false))
	}
	if len(res.Tops) != 1 || res.Tops[0].Name() != "top" {
		t.Fatalf("tops = %v", res.Tops)
	}
	if got := param(t, res.Tops[0], "W"); got != "2" {
		t.Fatalf("top.W = %s, want 2", got)
	}

	want := [][]string{{"leaf"}, {"mid"}, {"top"}}
	if diff := cmp.Diff(want, res.Order.Levels); diff != "" {
		t.Fatalf("levels (-want +got):\n%s", diff)
	}
	if len(res.Digests) != 3 {
		t.Fatalf("digests = %d, want 3", len(res.Digests))
	}

	st := res.Compilation.Stats()
	// mid's two leaves share one body
	if st.BodyCacheHits == 0 {
		t.Fatalf("stats = %+v, want shared leaf bodies", st)
	}

	var phases []string
	for _, p := range res.Timings.Phases {
		phases = append(phases, p.Name)
	}
	if diff := cmp.Diff([]string{"load", "parse", "elaborate", "order"}, phases); diff != "" {
		t.Fatalf("phases (-want +got):\n%s", diff)
	}

	parsed := 0
	for _, ev := range rec.Events() {
		if ev.Stage == buildpipeline.StageParse && ev.Status == buildpipeline.StatusDone {
			parsed++
		}
	}
	if parsed != 3 {
		t.Fatalf("parse done events = %d, want 3", parsed)
	}
}

func TestElaborateOverrides(t *testing.T) {
	_, paths := writeDesign(t, map[string]string{"top.sv": `module top #(parameter int W = 2, parameter type T = logic);
  T x;
endmodule
`})
	base, err := Elaborate(context.Background(), Options{Files: paths})
	if err != nil {
		t.Fatal(err)
	}
	res, err := Elaborate(context.Background(), Options{Files: paths, Params: []string{"W=3+4", "T=logic [3:0]"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", diag.FormatShort(res.Bag.Items(), res.Files, false))
	}
	top := res.Tops[0]
	if got := param(t, top, "W"); got != "7" {
		t.Fatalf("W = %s, want 7", got)
	}
	s, _ := top.Body.Lookup("T")
	pt := s.(*elab.ParameterSymbol)
	if got := res.Compilation.Types.Format(pt.Type); got != "logic [3:0]" {
		t.Fatalf("T = %s, want logic [3:0]", got)
	}
	if base.Digest == res.Digest {
		t.Fatalf("overrides do not change the design digest")
	}
}

func TestParseOverrideErrors(t *testing.T) {
	for _, text := range []string{"W", "=3", "W=", "W=)("} {
		res, err := Elaborate(context.Background(), Options{Params: []string{text}})
		if err == nil {
			t.Errorf("%q: no error (result %v)", text, res)
		}
	}
}

func TestElaborateDiagnostics(t *testing.T) {
	dir, paths := writeDesign(t, map[string]string{
		"bad.sv": "module top;\n  foo u1 ();\n  wire w = ;\nendmodule\nmodule spare; endmodule\n",
	})
	missing := filepath.Join(dir, "missing.sv")
	res, err := Elaborate(context.Background(), Options{Files: append(paths, missing), Tops: []string{"top"}})
	if err != nil {
		t.Fatalf("Elaborate: %v", err)
	}
	codes := map[diag.Code]bool{}
	for _, c := range res.Bag.Codes() {
		codes[c] = true
	}
	for _, c := range []diag.Code{diag.IOLoadFileError, diag.ElabUnknownModule, diag.ElabUnusedDefinition} {
		if !codes[c] {
			t.Errorf("missing %s in %v", c.ID(), res.Bag.Codes())
		}
	}
	if len(res.Unused) != 1 || res.Unused[0].Name != "spare" {
		t.Errorf("unused = %v", res.Unused)
	}
	if got := res.Order.Missing["top"]; !cmp.Equal(got, []string{"foo"}) {
		t.Errorf("missing deps = %v", got)
	}
}

func TestDefaultNetType(t *testing.T) {
	_, paths := writeDesign(t, map[string]string{"n.sv": `module sub (input logic a);
endmodule
module top;
  sub u (.a(n1));
endmodule
`})
	res, err := Elaborate(context.Background(), Options{Files: paths, DefaultNetType: "none"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]diag.Code{diag.ElabImplicitNetForbidden}, res.Bag.Codes()); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}

	if _, err := Elaborate(context.Background(), Options{Files: paths, DefaultNetType: "logic"}); err == nil {
		t.Fatalf("logic accepted as a net type")
	}
}

func TestWriteSummary(t *testing.T) {
	_, paths := writeDesign(t, map[string]string{"top.sv": `module leaf; endmodule
module top;
  leaf u [1199:0] ();
endmodule
`})
	res, err := Elaborate(context.Background(), Options{Files: paths})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	WriteSummary(&buf, res, language.English)
	out := buf.String()
	for _, want := range []string{"1 files, 2 definitions, top top", "1,201 instances in 1 arrays", "0 errors, 0 warnings"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary lacks %q:\n%s", want, out)
		}
	}
	buf.Reset()
	WriteSummary(&buf, res, language.German)
	if !strings.Contains(buf.String(), "1.201 instances") {
		t.Errorf("german grouping missing:\n%s", buf.String())
	}
}

func TestAppendTimingsSurvivesFullBag(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, source.Span{File: noFile}, "x"))
	AppendTimings(bag, observ.Report{TotalMS: 1.5}, "")
	if diff := cmp.Diff([]diag.Code{diag.LexUnknownChar, diag.ObsTimings}, bag.Codes()); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
}

func TestTokenizeAndParse(t *testing.T) {
	_, paths := writeDesign(t, map[string]string{"t.sv": "module m; endmodule\n"})
	tok, err := Tokenize(paths[0], 10)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(tok.Tokens); n != 5 {
		t.Fatalf("tokens = %d, want 5", n)
	}
	pr, err := Parse(paths[0], 10, "")
	if err != nil {
		t.Fatal(err)
	}
	if pr.Bag.Len() != 0 || len(pr.Unit.Members) != 1 {
		t.Fatalf("parse: %d diags, %d members", pr.Bag.Len(), len(pr.Unit.Members))
	}
	if _, err := Tokenize(paths[0]+".nope", 10); err == nil {
		t.Fatalf("missing file tokenized")
	}
}

func TestForeignFileIsNamed(t *testing.T) {
	_, paths := writeDesign(t, map[string]string{"ctr.sv": `library ieee;
use ieee.std_logic_1164.all;
entity ctr is
  port (clk : in std_logic);
end entity;
`})
	res, err := Elaborate(context.Background(), Options{Files: paths})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(res.Bag.Codes(), diag.SynForeignLanguage) {
		t.Fatalf("codes = %v, want %s", res.Bag.Codes(), diag.SynForeignLanguage.ID())
	}
}
