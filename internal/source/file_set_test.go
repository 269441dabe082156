package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("top.sv", []byte("module top;\n  sub u1();\nendmodule\n"))

	tests := []struct {
		name string
		off  uint32
		line uint32
		col  uint32
	}{
		{"first byte", 0, 1, 1},
		{"second line indent", 14, 2, 3},
		{"newline itself", 11, 1, 12},
		{"last line", 24, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
			if start.Line != tt.line || start.Col != tt.col {
				t.Fatalf("offset %d: got %d:%d, want %d:%d", tt.off, start.Line, start.Col, tt.line, tt.col)
			}
		})
	}
}

func TestFileSetLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.sv")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("module a;\r\nendmodule\r\n")...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected BOM and CRLF flags, got %b", f.Flags)
	}
	if got := string(f.Content); got != "module a;\nendmodule\n" {
		t.Fatalf("unexpected content %q", got)
	}
	if got := f.GetLine(2); got != "endmodule" {
		t.Fatalf("GetLine(2) = %q", got)
	}
	if got := fs.Position(Span{File: id, Start: 10, End: 19}); got != "a.sv:2:1" {
		t.Fatalf("Position = %q", got)
	}
}

func TestFileSetReAddKeepsLatest(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("x.sv", []byte("a"))
	second := fs.AddVirtual("x.sv", []byte("b"))
	if first == second {
		t.Fatalf("expected fresh id on re-add")
	}
	f, ok := fs.Lookup("x.sv")
	if !ok || f.ID != second {
		t.Fatalf("Lookup returned %+v, want id %d", f, second)
	}
}

func TestSpanCoverAndCompare(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 1}); got != a {
		t.Fatalf("Cover across files must keep receiver, got %v", got)
	}
	if a.Compare(b) <= 0 || b.Compare(a) >= 0 || a.Compare(a) != 0 {
		t.Fatalf("Compare is not a strict order")
	}
	if !a.Contains(4) || a.Contains(8) {
		t.Fatalf("Contains must be half-open")
	}
}
