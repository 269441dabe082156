package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"svelab/internal/diag"
	"svelab/internal/source"
)

func TestSarif(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("top.sv", []byte("module top;\n  foo u1();\nendmodule\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevWarning, diag.ElabUnknownModule, source.Span{File: fileID, Start: 14, End: 17}, "unknown module 'foo'").
		WithNote(source.Span{File: fileID, Start: 7, End: 10}, "inside top"))
	bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, source.Span{File: fileID, Start: 0, End: 1}, "bad char"))

	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "svelab", ToolVersion: "1.0", InvocationArgs: []string{"elab", "top.sv"}}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatalf("Sarif: %v", err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("header = %q, runs %d", log.Version, len(log.Runs))
	}
	run := log.Runs[0]

	var rules []string
	for _, r := range run.Tool.Driver.Rules {
		rules = append(rules, r.ID)
	}
	if diff := cmp.Diff([]string{"ELB3002", "LEX1001"}, rules); diff != "" {
		t.Errorf("rules (-want +got):\n%s", diff)
	}

	first := run.Results[0]
	if first.Level != "warning" || first.RuleID != "ELB3002" {
		t.Errorf("first result = %+v", first)
	}
	wantRegion := sarifRegion{StartLine: 2, StartColumn: 3, EndLine: 2, EndColumn: 6}
	if diff := cmp.Diff(wantRegion, first.Locations[0].PhysicalLocation.Region); diff != "" {
		t.Errorf("region (-want +got):\n%s", diff)
	}
	if len(first.RelatedLocations) != 1 || first.RelatedLocations[0].Message.Text != "inside top" {
		t.Errorf("related = %+v", first.RelatedLocations)
	}
	if run.Results[1].Level != "error" {
		t.Errorf("second level = %s", run.Results[1].Level)
	}
	if inv := run.Invocations; len(inv) != 1 || inv[0].ExecutionSuccessful {
		t.Errorf("invocations = %+v", inv)
	}
}
