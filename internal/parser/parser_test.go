package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"svelab/internal/diag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

func parseSrc(t *testing.T, src string) (*syntax.CompilationUnit, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.sv", []byte(src))
	bag := diag.NewBag(64)
	res := ParseFile(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	return res.Unit, bag
}

func parseClean(t *testing.T, src string) *syntax.CompilationUnit {
	t.Helper()
	unit, bag := parseSrc(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	return unit
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func memberKinds(ms []syntax.Member) []syntax.Kind {
	out := make([]syntax.Kind, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Kind())
	}
	return out
}

func firstModule(t *testing.T, unit *syntax.CompilationUnit) *syntax.ModuleDeclaration {
	t.Helper()
	for _, m := range unit.Members {
		if md, ok := m.(*syntax.ModuleDeclaration); ok {
			return md
		}
	}
	t.Fatalf("no module in unit")
	return nil
}

func TestParseModuleHeader(t *testing.T) {
	unit := parseClean(t, `
module m #(parameter int W = 8, D = 2, localparam L = W * 2, type T = logic)
  (input logic [W-1:0] a, b, output wire y, I.mp bus);
endmodule : m
`)
	md := firstModule(t, unit)
	if md.Name.Text != "m" || md.Keyword != token.KwModule {
		t.Fatalf("header = %q %s", md.Name.Text, md.Keyword)
	}
	if md.ParamPorts == nil || len(md.ParamPorts.Decls) != 3 {
		t.Fatalf("param decls = %+v", md.ParamPorts)
	}
	first := md.ParamPorts.Decls[0].(*syntax.ParameterDeclaration)
	var names []string
	for _, d := range first.Declarators {
		names = append(names, d.Name.Text)
	}
	if diff := cmp.Diff([]string{"W", "D"}, names); diff != "" {
		t.Fatalf("continuation declarators (-want +got):\n%s", diff)
	}
	if first.Type.Keyword != token.KwInt {
		t.Fatalf("first param type = %s", first.Type.Keyword)
	}
	if local := md.ParamPorts.Decls[1].(*syntax.ParameterDeclaration); !local.IsLocal() {
		t.Fatalf("L should be localparam")
	}
	if _, ok := md.ParamPorts.Decls[2].(*syntax.TypeParameterDeclaration); !ok {
		t.Fatalf("third decl should be a type parameter")
	}

	if md.Ports == nil || !md.Ports.Ansi || len(md.Ports.Ports) != 3 {
		t.Fatalf("ports = %+v", md.Ports)
	}
	in := md.Ports.Ports[0]
	if in.Direction != token.KwInput || len(in.Declarators) != 2 || len(in.Type.Packed) != 1 {
		t.Fatalf("input port = %+v", in)
	}
	bus := md.Ports.Ports[2]
	if bus.Direction != token.Invalid || !bus.Type.IsNamed() || bus.Type.Named.Text != "I" || bus.Modport.Text != "mp" {
		t.Fatalf("interface port = %+v", bus)
	}
}

func TestParseNonAnsiPorts(t *testing.T) {
	unit := parseClean(t, `
module m (a, b);
  input [3:0] a;
  output b;
  parameter P = 1;
endmodule
`)
	md := firstModule(t, unit)
	if md.Ports.Ansi || len(md.Ports.NonAnsi) != 2 {
		t.Fatalf("non-ANSI list = %+v", md.Ports)
	}
	want := []syntax.Kind{syntax.KindPortDeclaration, syntax.KindPortDeclaration, syntax.KindParameterDeclaration}
	if diff := cmp.Diff(want, memberKinds(md.Members)); diff != "" {
		t.Fatalf("members (-want +got):\n%s", diff)
	}
}

func TestParseInstantiations(t *testing.T) {
	unit := parseClean(t, `
module top;
  wire a, b;
  M #(.W(16), .T(logic [3:0])) u1 (.x(a), .y(), .z, .*);
  M arr [3:0] (a, , b);
  M #4 u3 ();
  M u4;
  and g1 (a, b, a), (b, a, b);
  nand #(1, 2) (a, b, a);
endmodule
`)
	md := firstModule(t, unit)
	want := []syntax.Kind{
		syntax.KindNetDeclaration,
		syntax.KindHierarchyInstantiation,
		syntax.KindHierarchyInstantiation,
		syntax.KindHierarchyInstantiation,
		syntax.KindDataDeclaration,
		syntax.KindPrimitiveInstantiation,
		syntax.KindPrimitiveInstantiation,
	}
	if diff := cmp.Diff(want, memberKinds(md.Members)); diff != "" {
		t.Fatalf("members (-want +got):\n%s", diff)
	}

	u1 := md.Members[1].(*syntax.HierarchyInstantiation)
	if len(u1.Params.Named) != 2 || u1.Params.Named[1].Value.Type == nil {
		t.Fatalf("named params = %+v", u1.Params)
	}
	conns := u1.Instances[0].Conns
	gotKinds := []syntax.ConnKind{}
	for _, c := range conns {
		gotKinds = append(gotKinds, c.Kind)
	}
	if diff := cmp.Diff([]syntax.ConnKind{syntax.ConnNamed, syntax.ConnNamed, syntax.ConnNamed, syntax.ConnWildcard}, gotKinds); diff != "" {
		t.Fatalf("conn kinds (-want +got):\n%s", diff)
	}
	if !conns[1].HasParens || conns[1].Expr != nil || conns[2].HasParens {
		t.Fatalf(".y() / .z forms not distinguished: %+v %+v", conns[1], conns[2])
	}

	arr := md.Members[2].(*syntax.HierarchyInstantiation)
	if len(arr.Instances[0].Dims) != 1 || len(arr.Instances[0].Conns) != 3 || arr.Instances[0].Conns[1].Expr != nil {
		t.Fatalf("array instance = %+v", arr.Instances[0])
	}

	u3 := md.Members[3].(*syntax.HierarchyInstantiation)
	if len(u3.Params.Ordered) != 1 || len(u3.Instances[0].Conns) != 0 {
		t.Fatalf("#4 form = %+v", u3.Params)
	}

	g := md.Members[5].(*syntax.PrimitiveInstantiation)
	if g.Gate.Text != "and" || len(g.Instances) != 2 || g.Instances[0].Name.Text != "g1" {
		t.Fatalf("gate = %+v", g)
	}
	ng := md.Members[6].(*syntax.PrimitiveInstantiation)
	if ng.Delay == nil || len(ng.Delay.Values) != 2 || ng.Instances[0].Name.Valid() {
		t.Fatalf("unnamed gate with delay = %+v", ng)
	}
}

func TestParseDirectivesCaptured(t *testing.T) {
	unit := parseClean(t, "`timescale 1ns / 1ps\n`default_nettype none\nmodule a; endmodule\n`default_nettype tri\n`unconnected_drive pull1\nmodule b; endmodule\n`resetall\nmodule c; endmodule\n")
	var got []syntax.DirectiveState
	for _, m := range unit.Members {
		got = append(got, m.(*syntax.ModuleDeclaration).Directives)
	}
	want := []syntax.DirectiveState{
		{DefaultNetType: token.Invalid, TimeScale: "1ns/1ps"},
		{DefaultNetType: token.KwTri, TimeScale: "1ns/1ps", UnconnectedDrive: "pull1"},
		{DefaultNetType: token.KwWire},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("directives (-want +got):\n%s", diff)
	}
}

func TestParseInitialDirectives(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.sv", []byte("module a; endmodule\n`resetall\nmodule b; endmodule\n"))
	init := syntax.DirectiveState{DefaultNetType: token.Invalid}
	res := ParseFile(fs.Get(id), Options{Directives: &init})
	var got []token.Kind
	for _, m := range res.Unit.Members {
		got = append(got, m.(*syntax.ModuleDeclaration).Directives.DefaultNetType)
	}
	if diff := cmp.Diff([]token.Kind{token.Invalid, token.KwWire}, got); diff != "" {
		t.Fatalf("default nettype (-want +got):\n%s", diff)
	}
}

func TestParseSkipsProceduralBlocks(t *testing.T) {
	unit := parseClean(t, `
module m (input clk, output logic q);
  always_ff @(posedge clk) if (q) q <= 0; else begin q <= 1; end
  initial begin : init
    case (q) 1'b0: q = 1; default: q = 0; endcase
  end
  assign q = clk;
endmodule
`)
	md := firstModule(t, unit)
	want := []syntax.Kind{syntax.KindProceduralBlock, syntax.KindProceduralBlock, syntax.KindContinuousAssign}
	if diff := cmp.Diff(want, memberKinds(md.Members)); diff != "" {
		t.Fatalf("members (-want +got):\n%s", diff)
	}
}

func TestParseRecovery(t *testing.T) {
	unit, bag := parseSrc(t, `
module bad;
  wire a
  M u1 (a);
  @@ junk;
endmodule
module good; endmodule
`)
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
	if len(unit.Members) != 2 {
		t.Fatalf("both modules should survive, got %d members", len(unit.Members))
	}
	if name := unit.Members[1].(*syntax.ModuleDeclaration).Name.Text; name != "good" {
		t.Fatalf("second module = %q", name)
	}
	if bag.Codes()[0] != diag.SynExpectSemicolon {
		t.Fatalf("first diagnostic = %s", diagnosticsSummary(bag))
	}
}

func TestParseEndLabelMismatch(t *testing.T) {
	_, bag := parseSrc(t, "module m; endmodule : n\n")
	if diff := cmp.Diff([]diag.Code{diag.SynEndLabelMismatch}, bag.Codes()); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
}

func TestParseMixedConnections(t *testing.T) {
	_, bag := parseSrc(t, "module m; M u (a, .b(c)); endmodule\n")
	if diff := cmp.Diff([]diag.Code{diag.SynMixedConnections}, bag.Codes()); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
}

// render prints an expression in fully parenthesized prefix form.
func render(e syntax.Expr) string {
	switch e := e.(type) {
	case *syntax.IdentifierName:
		return e.Name.Text
	case *syntax.Literal:
		return e.Text
	case *syntax.UnaryExpr:
		return "(" + e.Op.String() + " " + render(e.X) + ")"
	case *syntax.BinaryExpr:
		return "(" + e.Op.String() + " " + render(e.X) + " " + render(e.Y) + ")"
	case *syntax.TernaryExpr:
		return "(? " + render(e.Cond) + " " + render(e.Then) + " " + render(e.Else) + ")"
	case *syntax.ParenExpr:
		return render(e.X)
	case *syntax.SystemCallExpr:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = render(a)
		}
		return e.Name.Text + "(" + strings.Join(args, ",") + ")"
	case *syntax.RangeSelectExpr:
		return render(e.X) + "[" + render(e.Left) + e.Op.String() + render(e.Right) + "]"
	case *syntax.ReplicationExpr:
		return "{" + render(e.Count) + "x" + fmt.Sprint(len(e.Items)) + "}"
	case *syntax.SequenceExpr:
		return "(" + e.Op.String() + ")"
	case *syntax.DataTypeExpr:
		return "type"
	}
	return "?"
}

func TestParseExpressionPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a + b * c", "('+' a ('*' b c))"},
		{"a | b & c", "('|' a ('&' b c))"},
		{"a == b && c", "('&&' ('==' a b) c)"},
		{"-a ** 2", "('**' ('-' a) 2)"},
		{"c ? a : b ? d : e", "(? c a (? b d e))"},
		{"a << 1 < b", "('<' ('<<' a 1) b)"},
		{"$clog2(W) - 1", "('-' $clog2(W) 1)"},
		{"x[7:0]", "x[7':'0]"},
		{"{2{a, b}}", "{2x2}"},
		{"a |-> b", "('|->')"},
		{"$bits(logic [3:0])", "$bits(type)"},
		{"&a ^ ~b", "('^' ('&' a) ('~' b))"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			unit := parseClean(t, "module m; localparam P = "+tt.src+"; endmodule\n")
			pd := firstModule(t, unit).Members[0].(*syntax.ParameterDeclaration)
			if got := render(pd.Declarators[0].Init); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseFunction(t *testing.T) {
	unit := parseClean(t, `
function automatic int clog2(input int value);
  int r;
  r = 0;
  for (int i = value - 1; i > 0; i++) r += 1;
  while (r > 100) r--;
  if (r == 0) return 1; else return r;
endfunction
`)
	fd := unit.Members[0].(*syntax.FunctionDeclaration)
	if fd.Name.Text != "clog2" || len(fd.Args) != 1 || fd.ReturnType.Keyword != token.KwInt {
		t.Fatalf("function header = %+v", fd)
	}
	var kinds []syntax.Kind
	for _, s := range fd.Body {
		kinds = append(kinds, s.Kind())
	}
	want := []syntax.Kind{syntax.KindDeclStatement, syntax.KindExpressionStatement, syntax.KindFor, syntax.KindWhile, syntax.KindIf}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("body (-want +got):\n%s", diff)
	}
	step := fd.Body[2].(*syntax.ForStmt).Step[0].(*syntax.AssignmentExpr)
	if step.Op != token.Assign || render(step.RHS) != "('+' i 1)" {
		t.Fatalf("i++ lowered to %s", render(step.RHS))
	}
}

func TestParseUnitLevelItems(t *testing.T) {
	unit := parseClean(t, `
parameter GW = 4;
typedef logic [7:0] byte_t;
bind top checker_m chk (.a(x));
defparam top.u1.W = 3, top.arr[1].W = 5;
module top; endmodule
`)
	want := []syntax.Kind{
		syntax.KindParameterDeclaration, syntax.KindTypedefDeclaration,
		syntax.KindBindDirective, syntax.KindDefparam, syntax.KindModuleDeclaration,
	}
	if diff := cmp.Diff(want, memberKinds(unit.Members)); diff != "" {
		t.Fatalf("unit members (-want +got):\n%s", diff)
	}
	dp := unit.Members[3].(*syntax.Defparam)
	if len(dp.Assignments) != 2 || len(dp.Assignments[1].Path) != 3 || len(dp.Assignments[1].Path[1].Indices) != 1 {
		t.Fatalf("defparam = %+v", dp.Assignments)
	}
}

func TestParseScript(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<script>", []byte("int x = 3; x = x + 1; module m; endmodule M u1(); x * 2"))
	bag := diag.NewBag(16)
	res := ParseScript(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(bag))
	}
	var kinds []syntax.Kind
	for _, n := range res.Items {
		kinds = append(kinds, n.Kind())
	}
	want := []syntax.Kind{
		syntax.KindDataDeclaration, syntax.KindExpressionStatement, syntax.KindModuleDeclaration,
		syntax.KindHierarchyInstantiation, syntax.KindBinary,
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("items (-want +got):\n%s", diff)
	}
}

func TestParseMaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.sv", []byte("module m; @ ; @ ; @ ; @ ; endmodule"))
	bag := diag.NewBag(64)
	opts := Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 2}
	ParseFile(fs.Get(id), opts)
	if bag.Count(diag.SevError) > 2 {
		t.Fatalf("MaxErrors not honored: %s", diagnosticsSummary(bag))
	}
}
