package elab

import (
	"fmt"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"svelab/internal/diag"
	"svelab/internal/parser"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

type design struct {
	comp *Compilation
	tops []*Instance
	bag  *diag.Bag
}

func parseUnit(t *testing.T, src string) *syntax.CompilationUnit {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.sv", []byte(src))
	bag := diag.NewBag(64)
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("parse: unexpected diagnostics %v", bag.Codes())
	}
	return res.Unit
}

func parseValue(t *testing.T, src string) syntax.Expr {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("v.sv", []byte(src))
	res := parser.ParseScript(fs.Get(id), parser.Options{})
	if len(res.Items) != 1 {
		t.Fatalf("parse %q: got %d items", src, len(res.Items))
	}
	e, ok := res.Items[0].(syntax.Expr)
	if !ok {
		t.Fatalf("parse %q: got %T", src, res.Items[0])
	}
	return e
}

func newDesign(t *testing.T, src string, opts Options, setup ...func(*Compilation)) design {
	t.Helper()
	bag := diag.NewBag(256)
	c := NewCompilation(nil, diag.BagReporter{Bag: bag}, opts)
	for _, fn := range setup {
		fn(c)
	}
	c.AddUnit(parseUnit(t, src))
	return design{comp: c, bag: bag}
}

func elaborate(t *testing.T, src string, opts Options, setup ...func(*Compilation)) design {
	t.Helper()
	d := newDesign(t, src, opts, setup...)
	d.tops = d.comp.Elaborate()
	return d
}

func sortedCodes(bag *diag.Bag) []diag.Code {
	codes := slices.Clone(bag.Codes())
	slices.Sort(codes)
	return codes
}

func wantCodes(t *testing.T, bag *diag.Bag, want ...diag.Code) {
	t.Helper()
	want = slices.Clone(want)
	slices.Sort(want)
	if diff := cmp.Diff(want, sortedCodes(bag), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("diagnostic codes (-want +got):\n%s", diff)
	}
}

func (d design) top(t *testing.T, name string) *Instance {
	t.Helper()
	for _, inst := range d.tops {
		if inst.Name() == name {
			return inst
		}
	}
	t.Fatalf("no top-level instance %q", name)
	return nil
}

func lookup[T Symbol](t *testing.T, b *InstanceBody, name string) T {
	t.Helper()
	s, ok := b.Lookup(name)
	if !ok {
		t.Fatalf("no member %q in %s", name, b.Definition.Name)
	}
	x, ok := s.(T)
	if !ok {
		t.Fatalf("member %q is %T", name, s)
	}
	return x
}

func paramText(t *testing.T, b *InstanceBody, name string) string {
	t.Helper()
	p, ok := b.Param(name)
	if !ok {
		t.Fatalf("no parameter %q in %s", name, b.Definition.Name)
	}
	return p.Value.Text()
}

func TestBodiesAreSharedByParameterValue(t *testing.T) {
	d := elaborate(t, `
module leaf #(parameter int W = 8) ();
endmodule
module top;
  leaf a ();
  leaf #(8) b ();
  leaf #(.W(4)) c ();
  leaf #(.W(2 * 4)) d ();
endmodule
`, Options{})
	wantCodes(t, d.bag)
	if len(d.tops) != 1 {
		t.Fatalf("tops = %d, want 1", len(d.tops))
	}
	body := d.top(t, "top").Body
	a := lookup[*Instance](t, body, "a")
	b := lookup[*Instance](t, body, "b")
	c := lookup[*Instance](t, body, "c")
	dd := lookup[*Instance](t, body, "d")

	if a.Body != b.Body || a.Body != dd.Body {
		t.Fatalf("equal parameters did not share a body")
	}
	if a.Body == c.Body || a.Body.HasSameType(c.Body) {
		t.Fatalf("different parameters shared a body")
	}
	if !a.Body.HasSameType(dd.Body) {
		t.Fatalf("HasSameType is false for a shared body")
	}
	if got := paramText(t, c.Body, "W"); got != "4" {
		t.Fatalf("c.W = %s, want 4", got)
	}
	st := d.comp.Stats()
	if st.Bodies != 3 || st.BodyCacheHits != 2 || st.Instances != 5 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestBodiesElaborateOnDemand(t *testing.T) {
	d := newDesign(t, `
module leaf (input logic a);
endmodule
module top;
  leaf u (.a(1'b0));
endmodule
`, Options{})
	tops := d.comp.Tops()
	body := tops[0].Body
	if body.elabSet || body.portsSet {
		t.Fatalf("top body elaborated before any query")
	}
	if got := d.comp.Stats().Bodies; got != 1 {
		t.Fatalf("bodies before query = %d, want 1", got)
	}
	u := lookup[*Instance](t, body, "u")
	if u.Body.elabSet {
		t.Fatalf("child body elaborated before any query")
	}
	if u.connsSet {
		t.Fatalf("connections resolved before any query")
	}
	first := u.Connections()
	if len(first) != 1 || first[0].Kind != ConnExplicit {
		t.Fatalf("connections = %+v", first)
	}
	if second := u.Connections(); &second[0] != &first[0] {
		t.Fatalf("connections recomputed")
	}
	wantCodes(t, d.bag)
}

func TestParameterPrecedence(t *testing.T) {
	d := elaborate(t, `
parameter G = 4;
module leaf #(parameter W = 1) ();
endmodule
module top #(parameter P = 1) ();
  leaf #(.W(G)) u ();
  leaf #(.W(G)) v ();
  defparam u.W = 16;
endmodule
`, Options{Overrides: []Override{{Name: "P", Value: parseValue(t, "7")}}})
	wantCodes(t, d.bag)
	top := d.top(t, "top")
	if got := paramText(t, top.Body, "P"); got != "7" {
		t.Fatalf("P = %s, want 7", got)
	}
	u := lookup[*Instance](t, top.Body, "u")
	v := lookup[*Instance](t, top.Body, "v")
	if got := paramText(t, u.Body, "W"); got != "16" {
		t.Fatalf("u.W = %s, want 16 from defparam", got)
	}
	if got := paramText(t, v.Body, "W"); got != "4" {
		t.Fatalf("v.W = %s, want 4 from the unit parameter", got)
	}
	if u.Body == v.Body {
		t.Fatalf("defparam-overridden body is shared with a plain one")
	}
}

func TestMissingParameterMarksBodyUninstantiated(t *testing.T) {
	d := elaborate(t, `
module leaf2;
endmodule
module leaf #(parameter W) ();
  leaf2 inner [W] ();
endmodule
module top;
  leaf u ();
endmodule
`, Options{})
	wantCodes(t, d.bag, diag.ElabParamNoValue)
	u := lookup[*Instance](t, d.top(t, "top").Body, "u")
	if !u.Body.IsUninstantiated() {
		t.Fatalf("body with a missing parameter is not uninstantiated")
	}
	p, _ := u.Body.Param("W")
	if !p.Value.IsPoison() {
		t.Fatalf("W = %s, want poison", p.Value.Text())
	}
	arr := lookup[*InstanceArray](t, u.Body, "inner")
	if arr.Valid || len(arr.Elements) != 0 {
		t.Fatalf("poisoned array range produced elements")
	}
}

func TestTopLevelMissingParameter(t *testing.T) {
	d := elaborate(t, `
module top #(parameter W) ();
endmodule
`, Options{})
	wantCodes(t, d.bag, diag.ElabTopMissingParam)
	if !d.top(t, "top").Body.IsUninstantiated() {
		t.Fatalf("top body not marked uninstantiated")
	}
}

func TestParameterAssignmentErrors(t *testing.T) {
	const prelude = `
module leaf #(parameter W = 1) ();
endmodule
module loc #(parameter W = 1, localparam L = 2) ();
endmodule
module tp #(parameter type T = logic) ();
endmodule
`
	tests := []struct {
		name string
		body string
		want []diag.Code
	}{
		{"too many ordered", "leaf #(1, 2) u ();", []diag.Code{diag.ElabParamTooMany}},
		{"unknown name", "leaf #(.X(1)) u ();", []diag.Code{diag.ElabParamUnknownName}},
		{"duplicate", "leaf #(.W(1), .W(2)) u ();", []diag.Code{diag.ElabParamDuplicate}},
		{"local override", "loc #(.L(3)) u ();", []diag.Code{diag.ElabParamLocalOverride}},
		{"value for type", "tp #(.T(5)) u ();", []diag.Code{diag.ElabParamKindMismatch}},
		{"type for value", "leaf #(.W(int)) u ();", []diag.Code{diag.ElabParamKindMismatch}},
		{"default kept", "leaf #(.W()) u ();", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := elaborate(t, prelude+"module top;\n"+tt.body+"\nendmodule\n", Options{})
			wantCodes(t, d.bag, tt.want...)
			if _, ok := d.top(t, "top").Body.Lookup("u"); !ok {
				t.Fatalf("instance u missing after recoverable error")
			}
		})
	}
}

func TestTypeParameters(t *testing.T) {
	d := elaborate(t, `
module tp #(parameter type T = logic) ();
endmodule
module top;
  tp #(.T(logic [3:0])) u ();
  tp #(.T(int)) v ();
  tp w ();
endmodule
`, Options{})
	wantCodes(t, d.bag)
	body := d.top(t, "top").Body
	got := map[string]string{}
	for _, name := range []string{"u", "v", "w"} {
		inst := lookup[*Instance](t, body, name)
		p, _ := inst.Body.Param("T")
		if !p.IsType {
			t.Fatalf("%s.T is not a type parameter", name)
		}
		got[name] = d.comp.Types.Format(p.Type)
	}
	want := map[string]string{"u": "logic [3:0]", "v": "int", "w": "logic"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("types (-want +got):\n%s", diff)
	}
}

func TestInstanceArrays(t *testing.T) {
	d := elaborate(t, `
module leaf #(parameter W = 1) ();
endmodule
module top;
  leaf u [2:0] ();
  leaf m [2][3] ();
  defparam u[1].W = 5;
endmodule
`, Options{})
	wantCodes(t, d.bag)
	body := d.top(t, "top").Body

	u := lookup[*InstanceArray](t, body, "u")
	if u.Range != (Range{Left: 2, Right: 0}) || len(u.Elements) != 3 {
		t.Fatalf("u = %v with %d elements", u.Range, len(u.Elements))
	}
	var paths [][]int32
	var widths []string
	for _, e := range u.Elements {
		inst := e.(*Instance)
		paths = append(paths, inst.ArrayPath)
		widths = append(widths, paramText(t, inst.Body, "W"))
		if inst.ArrayName() != "u" || inst.Name() != "" {
			t.Fatalf("element names: array %q, own %q", inst.ArrayName(), inst.Name())
		}
	}
	if diff := cmp.Diff([][]int32{{2}, {1}, {0}}, paths); diff != "" {
		t.Fatalf("array paths (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "5", "1"}, widths); diff != "" {
		t.Fatalf("element parameters (-want +got):\n%s", diff)
	}
	if u.Elements[0].(*Instance).Body != u.Elements[2].(*Instance).Body {
		t.Fatalf("elements without overrides do not share a body")
	}

	m := lookup[*InstanceArray](t, body, "m")
	inner := m.Elements[1].(*InstanceArray)
	leafInst := inner.Elements[2].(*Instance)
	if diff := cmp.Diff([]int32{1, 2}, leafInst.ArrayPath); diff != "" {
		t.Fatalf("nested path (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Range{{0, 1}, {0, 2}}, leafInst.ArrayDimensions()); diff != "" {
		t.Fatalf("dimensions (-want +got):\n%s", diff)
	}
	if leafInst.ArrayName() != "m" || inner.Index != 1 {
		t.Fatalf("nested array name %q index %d", leafInst.ArrayName(), inner.Index)
	}
}

func TestInvalidArrayRanges(t *testing.T) {
	d := elaborate(t, `
module leaf;
endmodule
module top;
  logic x;
  leaf z [0] ();
  leaf q [x] ();
  leaf ok [1] ();
endmodule
`, Options{})
	wantCodes(t, d.bag, diag.ElabArrayRangeInvalid, diag.EvalNotConstant)
	body := d.top(t, "top").Body
	for _, name := range []string{"z", "q"} {
		arr := lookup[*InstanceArray](t, body, name)
		if arr.Valid || len(arr.Elements) != 0 {
			t.Fatalf("%s: invalid range produced elements", name)
		}
	}
	if got := len(lookup[*InstanceArray](t, body, "ok").Elements); got != 1 {
		t.Fatalf("sibling array has %d elements, want 1", got)
	}
}

func TestUnknownModule(t *testing.T) {
	d := elaborate(t, `
module leaf;
endmodule
module top;
  wire x, y;
  foo #(.N(3)) u1 (.a(x), .b(y)), u2 (x, y);
  leaf s ();
endmodule
`, Options{})
	wantCodes(t, d.bag, diag.ElabUnknownModule)
	body := d.top(t, "top").Body
	u1 := lookup[*UnknownModule](t, body, "u1")
	u2 := lookup[*UnknownModule](t, body, "u2")
	if u1.ModuleName != "foo" {
		t.Fatalf("module name = %q", u1.ModuleName)
	}
	if diff := cmp.Diff([]string{"a", "b"}, u1.PortNames()); diff != "" {
		t.Fatalf("port names (-want +got):\n%s", diff)
	}
	if len(u2.PortNames()) != 0 || len(u2.Ports) != 2 {
		t.Fatalf("ordered ports: names %v, %d exprs", u2.PortNames(), len(u2.Ports))
	}
	if len(u1.Params) != 1 || u1.Params[0].Name != "N" || u1.Params[0].Value.Text() != "3" {
		t.Fatalf("params = %+v", u1.Params)
	}
	if u1.IsChecker() {
		t.Fatalf("plain connections classified as checker")
	}
	lookup[*Instance](t, body, "s")
	if got := d.comp.Stats().UnknownModules; got != 2 {
		t.Fatalf("unknown modules = %d, want 2", got)
	}
}

func TestUnknownModuleCheckerHeuristic(t *testing.T) {
	d := elaborate(t, `
module top;
  wire clk, a, b;
  chk c1 (@(posedge clk), a ##1 b);
endmodule
`, Options{})
	wantCodes(t, d.bag, diag.ElabUnknownModule)
	if !lookup[*UnknownModule](t, d.top(t, "top").Body, "c1").IsChecker() {
		t.Fatalf("event argument did not mark a checker")
	}
}

func connKinds(inst *Instance) []ConnectionKind {
	var out []ConnectionKind
	inst.ForEachPortConnection(func(pc *PortConnection) bool {
		out = append(out, pc.Kind)
		return true
	})
	return out
}

func TestPortConnections(t *testing.T) {
	d := elaborate(t, `
module sub (input logic a, output logic [3:0] b, input logic c = 1'b0);
endmodule
module top;
  logic a;
  logic [3:0] b;
  sub u1 (a, b);
  sub u2 (.a, .b(b));
  sub u3 (.*);
  sub u4 (.a(a), .b());
endmodule
`, Options{})
	wantCodes(t, d.bag)
	body := d.top(t, "top").Body
	want := map[string][]ConnectionKind{
		"u1": {ConnExplicit, ConnExplicit, ConnDefault},
		"u2": {ConnImplicit, ConnExplicit, ConnDefault},
		"u3": {ConnImplicit, ConnImplicit, ConnDefault},
		"u4": {ConnExplicit, ConnEmpty, ConnDefault},
	}
	got := map[string][]ConnectionKind{}
	for name := range want {
		got[name] = connKinds(lookup[*Instance](t, body, name))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("connection kinds (-want +got):\n%s", diff)
	}

	u1 := lookup[*Instance](t, body, "u1")
	port, ok := u1.Body.FindPort("b")
	if !ok || port.Index != 1 || port.DirectionString() != "output" {
		t.Fatalf("port b = %+v", port)
	}
	if got := d.comp.Types.Format(port.Type); got != "logic [3:0]" {
		t.Fatalf("port b type = %s", got)
	}
	if u1.PortConnection(port) != u1.Connections()[1] {
		t.Fatalf("PortConnection and Connections disagree")
	}
	calls := 0
	u1.ForEachPortConnection(func(*PortConnection) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Fatalf("iteration did not stop: %d calls", calls)
	}
}

func TestPortConnectionErrors(t *testing.T) {
	const prelude = `
module sub (input logic a, input logic b);
endmodule
module sub3 (input logic n);
endmodule
`
	tests := []struct {
		name string
		body string
		want []diag.Code
	}{
		{"too many ordered", "sub e (a, b, a);", []diag.Code{diag.ElabPortTooManyOrdered}},
		{"unknown name", "sub e (.q(a), .a(a), .b(b));", []diag.Code{diag.ElabPortUnknownName}},
		{"duplicate", "sub e (.a(a), .a(b), .b(b));", []diag.Code{diag.ElabPortDuplicateConn}},
		{"unconnected", "sub e (.a(a));", []diag.Code{diag.ElabPortUnconnected}},
		{"ordered short", "sub e (a);", []diag.Code{diag.ElabPortUnconnected}},
		{"empty is not unconnected", "sub e (.a(a), .b());", nil},
		{"shorthand missing", "sub3 e (.n);", []diag.Code{diag.ElabImplicitConnNotFound}},
		{"wildcard missing", "sub3 e (.*);", []diag.Code{diag.ElabImplicitConnNotFound}},
		{"array reports once", "sub e [3:0] (.a(a));", []diag.Code{diag.ElabPortUnconnected}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := elaborate(t, prelude+"module top;\nlogic a, b;\n"+tt.body+"\nendmodule\n", Options{})
			wantCodes(t, d.bag, tt.want...)
		})
	}
}

func TestImplicitNets(t *testing.T) {
	const design = `
module sub (input logic a, output logic b);
endmodule
%s
module top;
  sub u (.a(n1), .b(n2));
  assign n3 = n1;
endmodule
`
	d := elaborate(t, fmt.Sprintf(design, ""), Options{})
	wantCodes(t, d.bag)
	body := d.top(t, "top").Body
	for _, name := range []string{"n1", "n2", "n3"} {
		n := lookup[*NetSymbol](t, body, name)
		if !n.Implicit || n.NetType != token.KwWire {
			t.Fatalf("%s = %+v, want implicit wire", name, n)
		}
	}

	d = elaborate(t, fmt.Sprintf(design, "`default_nettype none"), Options{})
	wantCodes(t, d.bag, diag.ElabImplicitNetForbidden, diag.ElabImplicitNetForbidden, diag.ElabImplicitNetForbidden)
	if _, ok := d.top(t, "top").Body.Lookup("n1"); ok {
		t.Fatalf("implicit net created under default_nettype none")
	}
}

func TestFixupInstantiation(t *testing.T) {
	d := elaborate(t, `
module leaf (input logic a);
endmodule
module top;
  leaf u1;
endmodule
`, Options{})
	wantCodes(t, d.bag, diag.ElabInstanceMissingParens)
	if len(d.tops) != 1 {
		t.Fatalf("fixup reference not counted: %d tops", len(d.tops))
	}
	u1 := lookup[*Instance](t, d.top(t, "top").Body, "u1")
	if !u1.Fixup {
		t.Fatalf("instance not marked as fixup")
	}
	if diff := cmp.Diff([]ConnectionKind{ConnUnconnected}, connKinds(u1)); diff != "" {
		t.Fatalf("fixup connections (-want +got):\n%s", diff)
	}
}

func TestBindDirective(t *testing.T) {
	d := elaborate(t, `
module tgt;
endmodule
module mon (input logic x);
endmodule
bind tgt mon m1 (.x(sig));
module top;
  tgt t1 ();
  tgt t2 ();
endmodule
`, Options{})
	wantCodes(t, d.bag)
	if len(d.tops) != 1 || d.tops[0].Name() != "top" {
		t.Fatalf("bound module became a top")
	}
	body := d.top(t, "top").Body
	t1 := lookup[*Instance](t, body, "t1")
	t2 := lookup[*Instance](t, body, "t2")
	if t1.Body != t2.Body {
		t.Fatalf("bind target bodies not shared")
	}
	m1 := lookup[*Instance](t, t1.Body, "m1")
	if !m1.FromBind || m1.Body.Definition.Name != "mon" {
		t.Fatalf("bound instance = %+v", m1)
	}
	if !lookup[*NetSymbol](t, t1.Body, "sig").Implicit {
		t.Fatalf("bind connection did not create an implicit net")
	}
}

func TestBindUnknownTarget(t *testing.T) {
	d := elaborate(t, `
module mon (input logic x);
endmodule
bind nope mon m1 (.x(a));
`, Options{})
	wantCodes(t, d.bag, diag.ElabBindUnknownTarget)
}

func TestInterfacePorts(t *testing.T) {
	const prelude = `
interface bus;
  logic v;
  modport m (input v);
endinterface
module dev (bus.m p);
endmodule
module any_dev (interface p);
endmodule
module leafm;
endmodule
`
	d := elaborate(t, prelude+`
module top;
  bus b0 ();
  dev d (.p(b0));
  any_dev g (b0);
endmodule
`, Options{Tops: []string{"top"}})
	wantCodes(t, d.bag)
	body := d.top(t, "top").Body
	b0 := lookup[*Instance](t, body, "b0")
	if !b0.IsInterface() {
		t.Fatalf("b0 is not an interface instance")
	}
	dev := lookup[*Instance](t, body, "d")
	port := dev.Body.PortList()[0]
	if !port.IsInterface || port.Interface == nil || port.Interface.Name != "bus" || port.Modport != "m" {
		t.Fatalf("dev port = %+v", port)
	}
	if got := dev.PortConnection(port).Target; got != Symbol(b0) {
		t.Fatalf("dev.p target = %v, want b0", got)
	}
	g := lookup[*Instance](t, body, "g")
	if got := g.Connections()[0].Target; got != Symbol(b0) {
		t.Fatalf("generic port target = %v, want b0", got)
	}

	tests := []struct {
		name string
		body string
		want []diag.Code
	}{
		{"not an instance", "logic w;\ndev d (.p(w));", []diag.Code{diag.ElabIfacePortMismatch}},
		{"unconnected", "dev d ();", []diag.Code{diag.ElabIfacePortUnconnected}},
		{"module to generic", "leafm l ();\nany_dev g (l);", []diag.Code{diag.ElabIfacePortMismatch}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := elaborate(t, prelude+"module top;\n"+tt.body+"\nendmodule\n", Options{Tops: []string{"top"}})
			wantCodes(t, d.bag, tt.want...)
		})
	}
}

func TestUnknownModport(t *testing.T) {
	d := elaborate(t, `
interface bus;
  logic v;
  modport m (input v);
endinterface
module bad (bus.zz p);
endmodule
`, Options{})
	wantCodes(t, d.bag, diag.ElabModportUnknown)
}

func TestRecursionIsCaught(t *testing.T) {
	d := elaborate(t, `
module r #(parameter N = 2) ();
  r #(N) u ();
endmodule
`, Options{Tops: []string{"r"}})
	wantCodes(t, d.bag, diag.ElabRecursiveInstance)
	u := lookup[*Instance](t, d.top(t, "r").Body, "u")
	if !u.Body.IsInvalid() {
		t.Fatalf("recursive body is not a placeholder")
	}

	d = elaborate(t, `
module deep #(parameter N = 0) ();
  deep #(N + 1) u ();
endmodule
`, Options{Tops: []string{"deep"}, MaxDepth: 4})
	wantCodes(t, d.bag, diag.ElabMaxDepth)
}

func TestDefinitionsAndTops(t *testing.T) {
	d := elaborate(t, `
module a;
endmodule
module a;
endmodule
`, Options{})
	wantCodes(t, d.bag, diag.ElabDuplicateDefinition)

	d = elaborate(t, `
module top;
endmodule
module other;
endmodule
interface ifc;
endinterface
`, Options{Tops: []string{"top"}})
	unused := d.comp.ReportUnused()
	var names []string
	for _, def := range unused {
		names = append(names, def.Name)
	}
	if diff := cmp.Diff([]string{"other", "ifc"}, names); diff != "" {
		t.Fatalf("unused (-want +got):\n%s", diff)
	}
	wantCodes(t, d.bag, diag.ElabUnusedDefinition, diag.ElabUnusedDefinition)

	d = elaborate(t, "module top;\nendmodule\n", Options{Tops: []string{"nope"}})
	wantCodes(t, d.bag, diag.ElabTopNotFound)
	if len(d.tops) != 0 {
		t.Fatalf("tops = %d, want 0", len(d.tops))
	}
}

func TestBlackbox(t *testing.T) {
	ram := Blackbox{
		Name:   "ram",
		Params: []BlackboxParam{{Name: "DEPTH", Value: 16, HasValue: true}},
		Ports: []BlackboxPort{
			{Name: "clk", Direction: "input"},
			{Name: "q", Direction: "output", Width: 8},
		},
	}
	d := elaborate(t, `
module top;
  logic clk;
  logic [7:0] q;
  ram #(.DEPTH(32)) r (.clk(clk), .q(q));
endmodule
`, Options{}, func(c *Compilation) {
		if c.AddBlackbox(ram) == nil {
			t.Fatalf("blackbox rejected")
		}
		c.AddBlackbox(Blackbox{})
	})
	wantCodes(t, d.bag, diag.ElabBlackboxInvalid)
	if len(d.tops) != 1 {
		t.Fatalf("blackbox became a top")
	}
	r := lookup[*Instance](t, d.top(t, "top").Body, "r")
	if got := paramText(t, r.Body, "DEPTH"); got != "32" {
		t.Fatalf("DEPTH = %s, want 32", got)
	}
	var names []string
	for _, p := range r.Body.PortList() {
		names = append(names, p.Name()+":"+d.comp.Types.Format(p.Type))
	}
	if diff := cmp.Diff([]string{"clk:logic", "q:logic [7:0]"}, names); diff != "" {
		t.Fatalf("ports (-want +got):\n%s", diff)
	}
	if len(d.comp.ReportUnused()) != 0 {
		t.Fatalf("instantiated blackbox reported unused")
	}
}

func TestCreateDefaultAndInvalid(t *testing.T) {
	d := newDesign(t, `
module leaf #(parameter W = 8) ();
endmodule
module need #(parameter W) ();
endmodule
`, Options{})
	leaf, _ := d.comp.Definition("leaf")
	inv := d.comp.CreateInvalid(leaf)
	p, _ := inv.Param("W")
	if !p.Value.IsPoison() || !inv.IsUninstantiated() {
		t.Fatalf("CreateInvalid: W = %s, uninstantiated %v", p.Value.Text(), inv.IsUninstantiated())
	}
	if def := d.comp.CreateDefault(leaf); paramText(t, def, "W") != "8" {
		t.Fatalf("CreateDefault did not use the default")
	}
	need, _ := d.comp.Definition("need")
	d.comp.CreateDefault(need)
	wantCodes(t, d.bag, diag.ElabTopMissingParam)
}

func TestPrimitives(t *testing.T) {
	d := elaborate(t, `
module top;
  wire y, a, b;
  and g1 (y, a, b);
  not (y, a);
  nand #(1, 2) g3 (y, a, b);
endmodule
`, Options{})
	wantCodes(t, d.bag)
	body := d.top(t, "top").Body
	g1 := lookup[*PrimitiveInstance](t, body, "g1")
	if g1.Gate.Name != "and" || len(g1.PortExprs) != 3 {
		t.Fatalf("g1 = %+v", g1)
	}
	g3 := lookup[*PrimitiveInstance](t, body, "g3")
	if len(g3.Delays) != 2 || g3.Delays[1].Text() != "2" {
		t.Fatalf("g3 delays = %+v", g3.Delays)
	}
	unnamed := 0
	for _, m := range body.Members() {
		if p, ok := m.(*PrimitiveInstance); ok && p.Name() == "" {
			unnamed++
		}
	}
	if unnamed != 1 || d.comp.Stats().Primitives != 3 {
		t.Fatalf("unnamed = %d, stats = %+v", unnamed, d.comp.Stats())
	}

	tests := []struct {
		name string
		body string
		want diag.Code
	}{
		{"too few terminals", "and g (y);", diag.ElabPrimitivePortCount},
		{"too many delays", "buf #(1, 2, 3) g (y, a);", diag.ElabPrimitiveDelayCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := elaborate(t, "module top;\nwire y, a;\n"+tt.body+"\nendmodule\n", Options{})
			wantCodes(t, d.bag, tt.want)
		})
	}
}

func TestWalkPaths(t *testing.T) {
	d := elaborate(t, `
module leaf;
endmodule
module top;
  leaf u [1:0] ();
  wire w;
endmodule
`, Options{})
	var paths []string
	Walk(d.top(t, "top"), func(path string, s Symbol) bool {
		paths = append(paths, path)
		return true
	})
	want := []string{"top", "top.u", "top.u[1]", "top.u[0]", "top.w"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}
}

func TestScriptBody(t *testing.T) {
	bag := diag.NewBag(16)
	c := NewCompilation(nil, diag.BagReporter{Bag: bag}, Options{})
	b := c.NewScriptBody()

	fs := source.NewFileSet()
	id := fs.AddVirtual("s.sv", []byte(`
module leaf #(parameter W = 1) ();
endmodule
parameter P = 3;
leaf #(.W(P + 1)) u ();
`))
	res := parser.ParseScript(fs.Get(id), parser.Options{})
	var added []Symbol
	for _, it := range res.Items {
		added = append(added, b.AddMember(it.(syntax.Member))...)
	}
	wantCodes(t, bag)
	if len(added) != 2 {
		t.Fatalf("added %d symbols, want parameter and instance", len(added))
	}
	u := lookup[*Instance](t, b, "u")
	if got := paramText(t, u.Body, "W"); got != "4" {
		t.Fatalf("u.W = %s, want 4", got)
	}

	mustPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatalf("%s: no panic", name)
			}
		}()
		fn()
	}
	mustPanic("unsupported construct", func() { b.AddMember(syntax.NewDefparam(source.Span{})) })
	mustPanic("design body", func() { u.Body.AddMember(syntax.NewDefparam(source.Span{})) })
}
