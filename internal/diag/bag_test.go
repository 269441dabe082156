package diag

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"svelab/internal/source"
)

func TestBagSortKeepsEmissionOrderOnTies(t *testing.T) {
	b := NewBag(10)
	r := BagReporter{Bag: b}
	sp := func(start uint32) source.Span { return source.Span{File: 0, Start: start, End: start + 1} }

	r.Report(ElabPortUnconnected, SevWarning, sp(20), "late", nil)
	r.Report(ElabUnknownModule, SevError, sp(5), "first at 5", nil)
	r.Report(ElabParamNoValue, SevError, sp(5), "second at 5", nil)

	b.Sort()
	got := b.Codes()
	want := []Code{ElabUnknownModule, ElabParamNoValue, ElabPortUnconnected}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sorted codes mismatch (-want +got):\n%s", diff)
	}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := range 5 {
		b.Add(New(SevError, EvalDivByZero, source.Span{Start: uint32(i)}, "x"))
	}
	if b.Len() != 2 || b.Dropped() != 3 {
		t.Fatalf("Len=%d Dropped=%d, want 2 and 3", b.Len(), b.Dropped())
	}
	if !b.HasErrors() || b.Count(SevWarning) != 0 {
		t.Fatalf("unexpected severity counts")
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: b})
	sp := source.Span{Start: 1, End: 4}
	r.Report(ElabUnknownModule, SevError, sp, "unknown module 'foo'", nil)
	r.Report(ElabUnknownModule, SevError, sp, "unknown module 'foo'", nil)
	r.Report(ElabUnknownModule, SevError, sp, "unknown module 'bar'", nil)
	if b.Len() != 2 {
		t.Fatalf("expected 2 diagnostics after dedup, got %d", b.Len())
	}
}

func TestFilterReporterDropsValueDependent(t *testing.T) {
	b := NewBag(10)
	r := FilterReporter{Next: BagReporter{Bag: b}, Keep: func(c Code) bool { return !c.ValueDependent() }}
	r.Report(EvalDivByZero, SevError, source.Span{}, "division by zero", nil)
	r.Report(ElabArrayRangeInvalid, SevError, source.Span{}, "bad range", nil)
	r.Report(ElabUnknownModule, SevError, source.Span{}, "unknown module", nil)
	if diff := cmp.Diff([]Code{ElabUnknownModule}, b.Codes()); diff != "" {
		t.Fatalf("filtered codes mismatch (-want +got):\n%s", diff)
	}
}

func TestCodeIDs(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{LexBadNumber, "LEX1004"},
		{SynExpectSemicolon, "SYN2002"},
		{ElabParamNoValue, "ELB3003"},
		{EvalDivByZero, "EVL3503"},
		{LintViolation, "LNT7001"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.sv", []byte("module t;\n  foo u1();\nendmodule\n"))
	d := New(SevError, ElabUnknownModule, source.Span{File: id, Start: 12, End: 15}, "unknown module 'foo'").
		WithNote(source.Span{File: id, Start: 0, End: 6}, "while elaborating 't'")

	got := FormatShort([]Diagnostic{d}, fs, true)
	want := "error ELB3002 t.sv:2:3 unknown module 'foo'\nnote ELB3002 t.sv:1:1 while elaborating 't'"
	if got != want {
		t.Fatalf("FormatShort mismatch:\n got: %q\nwant: %q", got, want)
	}
}
