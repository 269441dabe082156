package lint

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"svelab/internal/diag"
	"svelab/internal/elab"
	"svelab/internal/parser"
	"svelab/internal/source"
)

const design = `
module leaf (input logic a, output logic y);
endmodule
module spare;
endmodule
module top;
  logic d, q;
  leaf u (.a(d), .y());
  leaf wide[0:1099] (.a(d), .y(q));
  missing m (d);
endmodule
`

func facts(t *testing.T, src string, tops ...string) Facts {
	t.Helper()
	fs := source.NewFileSetWithBase("/")
	id := fs.AddVirtual("lint.sv", []byte(src))
	bag := diag.NewBag(64)
	r := diag.BagReporter{Bag: bag}
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: r})
	comp := elab.NewCompilation(nil, r, elab.Options{Tops: tops})
	comp.AddUnit(res.Unit)
	elaborated := comp.Elaborate()
	return Collect(comp, elaborated, comp.ReportUnused(), fs)
}

func TestCollect(t *testing.T) {
	f := facts(t, design, "top")
	if len(f.Instances) != 2+1100 {
		t.Fatalf("got %d instances, want 1102", len(f.Instances))
	}
	if f.Instances[0].Path != "top" || f.Instances[1].Path != "top.u" || f.Instances[2].Path != "top.wide[0]" {
		t.Fatalf("first paths: %q %q %q", f.Instances[0].Path, f.Instances[1].Path, f.Instances[2].Path)
	}
	if diff := cmp.Diff([]ArrayFact{{Path: "top.wide", Definition: "leaf", Size: 1100, File: f.Arrays[0].File, Line: 9}}, f.Arrays); diff != "" {
		t.Fatalf("arrays (-want +got):\n%s", diff)
	}
	if len(f.UnknownModules) != 1 || f.UnknownModules[0].Module != "missing" || f.UnknownModules[0].Path != "top.m" {
		t.Fatalf("unknown modules = %+v", f.UnknownModules)
	}
	if len(f.Unused) != 1 || f.Unused[0].Name != "spare" || f.Unused[0].Kind != "module" {
		t.Fatalf("unused = %+v", f.Unused)
	}
	var open []string
	for _, p := range f.Ports {
		if p.Connection == "empty" {
			open = append(open, p.Instance+"."+p.Port)
		}
	}
	if diff := cmp.Diff([]string{"top.u.y"}, open); diff != "" {
		t.Fatalf("open ports (-want +got):\n%s", diff)
	}
	if f.Stats.BodyCacheHits == 0 {
		t.Fatalf("stats = %+v, want body cache hits for the array", f.Stats)
	}
}

func TestBuiltinRules(t *testing.T) {
	ctx := context.Background()
	e, err := New(ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.Run(ctx, facts(t, design, "top"))
	if err != nil {
		t.Fatal(err)
	}
	type row struct {
		Rule string
		Sev  diag.Severity
		Line int
	}
	var rows []row
	for _, f := range got {
		rows = append(rows, row{f.Rule, f.Severity, f.Line})
	}
	want := []row{
		{"unused-definition", diag.SevWarning, 4},
		{"port-left-open", diag.SevWarning, 8},
		{"wide-array", diag.SevInfo, 9},
		{"unknown-module", diag.SevError, 10},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("findings (-want +got):\n%s", diff)
	}
	if !strings.Contains(got[2].Message, "1100 elements") {
		t.Fatalf("wide-array message = %q", got[2].Message)
	}
}

func TestCleanDesign(t *testing.T) {
	ctx := context.Background()
	e, err := New(ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.Run(ctx, facts(t, `
module leaf (input logic a);
endmodule
module top;
  logic d;
  leaf u (.a(d));
endmodule
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("findings on a clean design: %+v", got)
	}
}

func TestUserPolicies(t *testing.T) {
	dir := t.TempDir()
	policy := `package svelab.lint

import rego.v1

violation contains v if {
	some i in input.instances
	i.definition == "leaf"
	v := {"rule": "no-leaf", "severity": "error", "file": i.file, "line": i.line, "message": i.path}
}
`
	if err := os.WriteFile(filepath.Join(dir, "custom.rego"), []byte(policy), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	e, err := New(ctx, Options{PolicyDir: dir, NoBuiltin: true})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "custom.rego")}, e.Policies()); diff != "" {
		t.Fatalf("policies (-want +got):\n%s", diff)
	}
	got, err := e.Run(ctx, facts(t, `
module leaf;
endmodule
module top;
  leaf a (), b ();
endmodule
`))
	if err != nil {
		t.Fatal(err)
	}
	var msgs []string
	for _, f := range got {
		msgs = append(msgs, f.Rule+" "+f.Message)
	}
	if diff := cmp.Diff([]string{"no-leaf top.a", "no-leaf top.b"}, msgs); diff != "" {
		t.Fatalf("findings (-want +got):\n%s", diff)
	}
}

func TestPolicyErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, Options{PolicyDir: t.TempDir()}); err == nil {
		t.Fatalf("empty policy dir accepted")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.rego"), []byte("package svelab.lint\nviolation contains"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(ctx, Options{PolicyDir: dir}); err == nil {
		t.Fatalf("malformed policy accepted")
	}
}

func TestSchemaRejectsBrokenFacts(t *testing.T) {
	e, err := New(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	f := facts(t, design, "top")
	f.Ports[0].Connection = "dangling"
	if err := e.Validate(f); err == nil {
		t.Fatalf("unknown connection kind passed the schema")
	}
	f = facts(t, design, "top")
	f.Instances[0].Body = 0
	if _, err := e.Run(context.Background(), f); err == nil {
		t.Fatalf("zero body id passed the schema")
	}
}
