package types

import "testing"

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Logic == NoTypeID || b.Int == NoTypeID || b.Error == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	if !in.IsError(b.Error) || !in.IsError(NoTypeID) || in.IsError(b.Int) {
		t.Fatalf("IsError misclassifies")
	}
	if got := in.BitWidth(b.Integer); got != 32 {
		t.Fatalf("$bits(integer) = %d", got)
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	v1 := in.Intern(MakeVector(FlavorLogic, false, 7, 0))
	v2 := in.Intern(MakeVector(FlavorLogic, false, 7, 0))
	if v1 != v2 {
		t.Fatalf("vector types should be deduplicated")
	}
	if v3 := in.Intern(MakeVector(FlavorLogic, false, 0, 7)); v3 == v1 {
		t.Fatalf("[0:7] and [7:0] are different types")
	}
	if v4 := in.Intern(MakeVector(FlavorBit, false, 7, 0)); v4 == v1 {
		t.Fatalf("bit and logic vectors must differ")
	}
}

func TestFormatAndWidth(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	vec := in.Intern(MakeVector(FlavorLogic, true, 15, 0))
	arr := in.Intern(MakeUnpackedArray(vec, 0, 3))
	tests := []struct {
		id    TypeID
		text  string
		width uint64
	}{
		{b.Int, "int", 32},
		{in.Intern(MakeAtom(FlavorInt, false)), "int unsigned", 32},
		{b.Logic, "logic", 1},
		{vec, "logic signed [15:0]", 16},
		{arr, "logic signed [15:0]$[0:3]", 64},
		{b.Real, "real", 64},
		{b.String, "string", 0},
	}
	for _, tt := range tests {
		if got := in.Format(tt.id); got != tt.text {
			t.Errorf("Format = %q, want %q", got, tt.text)
		}
		if got := in.BitWidth(tt.id); got != tt.width {
			t.Errorf("BitWidth(%s) = %d, want %d", tt.text, got, tt.width)
		}
	}
}
