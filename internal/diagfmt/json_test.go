package diagfmt

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"svelab/internal/diag"
	"svelab/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("module top;\n  foo u1();\nendmodule\n")
	fileID := fs.AddVirtual("top.sv", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevError,
		diag.ElabUnknownModule,
		source.Span{File: fileID, Start: 14, End: 17},
		"unknown module 'foo'",
	)
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 6}, "instantiated here")
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	// Парсим JSON чтобы убедиться что он валидный
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}

	want := DiagnosticsOutput{
		Count: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "ELB3002",
			Message:  "unknown module 'foo'",
			Location: LocationJSON{File: "top.sv", StartByte: 14, EndByte: 17, StartLine: 2, StartCol: 3, EndLine: 2, EndCol: 6},
			Notes: []NoteJSON{{
				Message:  "instantiated here",
				Location: LocationJSON{File: "top.sv", StartByte: 0, EndByte: 6, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 7},
			}},
		}},
	}
	if diff := cmp.Diff(want, output); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

// TestJSONWithoutPositions проверяет JSON без позиций строк/колонок
func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.sv", []byte("wire w;"))

	bag := diag.NewBag(10)
	d := diag.New(diag.SevInfo, diag.LexUnknownChar, source.Span{File: fileID, Start: 4, End: 5}, "Info message")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 4}, "dropped")
	bag.Add(d)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	got := output.Diagnostics[0]
	// omitempty скрывает позиции, байтовые смещения остаются
	if got.Location.StartLine != 0 || got.Location.StartByte != 4 {
		t.Errorf("unexpected location %+v", got.Location)
	}
	if got.Severity != "INFO" {
		t.Errorf("Expected severity=INFO, got %s", got.Severity)
	}
	if len(got.Notes) != 0 {
		t.Errorf("notes leaked without IncludeNotes: %+v", got.Notes)
	}
}

// TestJSONMaxLimit проверяет ограничение количества диагностик
func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.sv", []byte("test content"))

	bag := diag.NewBag(10)
	for i := range 5 {
		bag.Add(diag.New(diag.SevError, diag.LexUnknownChar,
			source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}, "Error message"))
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename, Max: 3}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if output.Count != 3 || len(output.Diagnostics) != 3 {
		t.Errorf("Expected 3 diagnostics (limited), got count=%d len=%d", output.Count, len(output.Diagnostics))
	}
}

// TestJSONPathModes проверяет различные режимы путей
func TestJSONPathModes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rtl", "main.sv")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("module m; endmodule\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSetWithBase(dir)
	fileID, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, source.Span{File: fileID, Start: 0, End: 1}, "Error"))

	tests := []struct {
		name     string
		pathMode PathMode
		expected string
	}{
		{"Absolute", PathModeAbsolute, filepath.ToSlash(path)},
		{"Relative", PathModeRelative, "rtl/main.sv"},
		{"Basename", PathModeBasename, "main.sv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: tt.pathMode})
			if err != nil {
				t.Fatalf("BuildDiagnosticsOutput() error: %v", err)
			}
			if got := out.Diagnostics[0].Location.File; got != tt.expected {
				t.Errorf("Expected file=%s, got %s", tt.expected, got)
			}
		})
	}
}

func TestJSONUnknownFile(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.EvalUndeclared, source.Span{File: 7}, "lost"))
	out, err := BuildDiagnosticsOutput(bag, source.NewFileSet(), JSONOpts{IncludePositions: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Diagnostics[0].Location.File; got != "<unknown>" {
		t.Fatalf("file = %q, want <unknown>", got)
	}
}
