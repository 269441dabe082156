package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"svelab/internal/diag"
	"svelab/internal/source"
)

func prettyString(bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) string {
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, opts)
	return buf.String()
}

func TestPrettyExcerpt(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("module top;\n  logic a;\n  foo u1();\nendmodule\n")
	fileID := fs.AddVirtual("top.sv", content)

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevError, diag.ElabUnknownModule,
		source.Span{File: fileID, Start: 25, End: 28}, "unknown module 'foo'"))

	got := prettyString(bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	want := strings.Join([]string{
		"top.sv:3:3: ERROR ELB3002: unknown module 'foo'",
		"  2 |   logic a;",
		"  3 |   foo u1();",
		"    |   ^^^",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

// Подчёркивание выравнивается по ширине символов, а не байтов.
func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("// 幅 x\n\tfoo\n")
	fileID := fs.AddVirtual("w.sv", content)

	bag := diag.NewBag(4)
	// "x" после двух широких байтовых последовательностей
	start := uint32(strings.Index(string(content), "x"))
	bag.Add(diag.New(diag.SevWarning, diag.SynUnexpectedToken, source.Span{File: fileID, Start: start, End: start + 1}, "stray"))
	// "foo" после табуляции
	foo := uint32(strings.Index(string(content), "foo"))
	bag.Add(diag.New(diag.SevInfo, diag.SynUnexpectedToken, source.Span{File: fileID, Start: foo, End: foo + 3}, "tabbed"))

	lines := strings.Split(prettyString(bag, fs, PrettyOpts{PathMode: PathModeBasename}), "\n")
	if got, want := lines[2], "    |       ^"; got != want {
		t.Errorf("wide caret line = %q, want %q", got, want)
	}
	if got, want := lines[6], "    |     ^^^"; got != want {
		t.Errorf("tab caret line = %q, want %q", got, want)
	}
	if !strings.Contains(lines[0], "WARNING SYN2001") || !strings.Contains(lines[4], "INFO SYN2001") {
		t.Errorf("headers:\n%s\n%s", lines[0], lines[4])
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("n.sv", []byte("module a; endmodule\nmodule a; endmodule\n"))

	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, diag.ElabDuplicateDefinition, source.Span{File: fileID, Start: 27, End: 28}, "duplicate definition of 'a'")
	d = d.WithNote(source.Span{File: fileID, Start: 7, End: 8}, "previous definition here")
	bag.Add(d)

	withNotes := prettyString(bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	if !strings.Contains(withNotes, "= note: n.sv:1:8: previous definition here") {
		t.Fatalf("note missing:\n%s", withNotes)
	}
	without := prettyString(bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(without, "note") {
		t.Fatalf("note printed without ShowNotes:\n%s", without)
	}
}

func TestPrettyColorAndWidth(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("c.sv", []byte("wire w;\n"))
	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, source.Span{File: fileID, Start: 0, End: 4}, strings.Repeat("long ", 20)))

	colored := prettyString(bag, fs, PrettyOpts{Color: true})
	if !strings.Contains(colored, "\x1b[") {
		t.Fatalf("expected ANSI escapes:\n%q", colored)
	}
	plain := prettyString(bag, fs, PrettyOpts{Width: 30})
	if strings.Contains(plain, "\x1b[") {
		t.Fatalf("unexpected ANSI escapes:\n%q", plain)
	}
	if !strings.Contains(plain, "…") {
		t.Fatalf("message not clipped:\n%s", plain)
	}
}

func TestPrettyMaxAndDropped(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("m.sv", []byte("abcdef\n"))
	bag := diag.NewBag(2)
	for i := range 4 {
		bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}, "bad"))
	}
	out := prettyString(bag, fs, PrettyOpts{Max: 1})
	if n := strings.Count(out, "ERROR"); n != 1 {
		t.Fatalf("printed %d diagnostics, want 1:\n%s", n, out)
	}
	if !strings.Contains(out, "2 more diagnostics not shown") {
		t.Fatalf("dropped count missing:\n%s", out)
	}
}
