package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"svelab/internal/lexer"
	"svelab/internal/parser"
	"svelab/internal/source"
)

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.sv", []byte("// c\nmodule m;"))
	toks := lexer.New(fs.Get(id), lexer.Options{}).All()

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(pretty.String()), "\n")
	if len(lines) != len(toks) {
		t.Fatalf("got %d lines for %d tokens:\n%s", len(lines), len(toks), pretty.String())
	}
	if !strings.Contains(lines[0], "'module'") || !strings.Contains(lines[0], "at 2:1-2:7") ||
		!strings.Contains(lines[0], "leading: line-comment, newline") {
		t.Errorf("first line = %q", lines[0])
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, toks); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	var texts []string
	for _, o := range out {
		texts = append(texts, o.Text)
	}
	if diff := cmp.Diff([]string{"module", "m", ";", ""}, texts); diff != "" {
		t.Errorf("texts (-want +got):\n%s", diff)
	}
}

func TestFormatSyntax(t *testing.T) {
	fs := source.NewFileSet()
	src := "module top #(parameter int W = 2) (input logic a);\n  wire w;\n  leaf u1 (), u2 ();\n  ;\nendmodule\n"
	id := fs.AddVirtual("s.sv", []byte(src))
	res := parser.ParseFile(fs.Get(id), parser.Options{})

	var buf bytes.Buffer
	if err := FormatSyntaxPretty(&buf, res.Unit, fs); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"ModuleDeclaration module top @ s.sv:1:1",
		"  ParameterDeclaration parameter W @ s.sv:1:14",
		"  PortDeclaration input a @ s.sv:1:36",
		"  NetDeclaration wire w @ s.sv:2:3",
		"  HierarchyInstantiation leaf u1, u2 @ s.sv:3:3",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("outline (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := FormatSyntaxJSON(&buf, res.Unit, fs); err != nil {
		t.Fatal(err)
	}
	var nodes []OutlineNode
	if err := json.Unmarshal(buf.Bytes(), &nodes); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(nodes) != 1 || len(nodes[0].Children) != 4 {
		t.Fatalf("json outline = %+v", nodes)
	}
}
