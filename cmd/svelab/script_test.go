package main

import (
	"bytes"
	"strings"
	"testing"

	"svelab/internal/diag"
	"svelab/internal/lint"
	"svelab/internal/script"
)

func TestBlockDelta(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"module m;", 1},
		{"endmodule", -1},
		{"module m; endmodule", 0},
		{"function automatic int f(int v);", 1},
		{"  if (a) begin", 1},
		{"  end else begin // end", 0},
		{`string s = "module";`, 0},
		{"extern module m(input a);", 0},
		{"virtual interface bus_if vif;", 0},
		{"int x = 1;", 0},
	}
	for _, tt := range tests {
		if got := blockDelta(tt.line); got != tt.want {
			t.Errorf("blockDelta(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestREPL(t *testing.T) {
	input := strings.Join([]string{
		"parameter int W = 8;",
		"W * 2",
		"",
		"module leaf #(parameter int V = 4);",
		"endmodule",
		"leaf #(.V(3)) u ();",
		"u.V + 1",
		"int a = 5;",
		"a = a / 0;",
		"a",
		":quit",
		"99",
	}, "\n")
	var out, errOut bytes.Buffer
	sess := script.New(script.Options{})
	if err := repl(sess, strings.NewReader(input), &out, &errOut, false); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "16\n4\n5\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if n := strings.Count(errOut.String(), "error:"); n != 1 {
		t.Errorf("stderr has %d errors, want 1:\n%s", n, errOut.String())
	}
}

func TestREPLUnterminatedInput(t *testing.T) {
	var out, errOut bytes.Buffer
	sess := script.New(script.Options{})
	// последний ввод без endmodule вычисляется на EOF
	if err := repl(sess, strings.NewReader("module m;\nint x;"), &out, &errOut, false); err != nil {
		t.Fatal(err)
	}
	if errOut.Len() == 0 {
		t.Fatalf("unterminated module accepted")
	}
}

func TestWriteFindings(t *testing.T) {
	findings := []lint.Finding{
		{Rule: "unknown-module", Severity: diag.SevError, File: "top.sv", Line: 2, Message: "module foo is not defined"},
		{Rule: "wide-array", Severity: diag.SevInfo, Message: "array has 2048 elements"},
	}
	var buf bytes.Buffer
	if err := writeFindings(&buf, findings, "pretty", false); err != nil {
		t.Fatal(err)
	}
	want := "top.sv:2: ERROR unknown-module: module foo is not defined\n" +
		"<design>: INFO wide-array: array has 2048 elements\n"
	if buf.String() != want {
		t.Fatalf("pretty:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := writeFindings(&buf, findings, "json", false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"severity": "ERROR"`) || strings.Contains(buf.String(), `"line": 0`) {
		t.Fatalf("json:\n%s", buf.String())
	}
	if !hasErrorFinding(findings) || hasErrorFinding(findings[1:]) {
		t.Fatalf("hasErrorFinding is wrong")
	}
}
