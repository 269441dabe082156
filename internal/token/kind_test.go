package token

import "testing"

func TestKeywordLookupRoundTrip(t *testing.T) {
	for text, kind := range keywords {
		if !kind.IsKeyword() {
			t.Errorf("%q maps to non-keyword kind %d", text, kind)
		}
		if got := kind.String(); got != "'"+text+"'" {
			t.Errorf("String(%q) = %s", text, got)
		}
	}
	if _, ok := LookupKeyword("Module"); ok {
		t.Fatalf("keywords must be case sensitive")
	}
	if _, ok := LookupKeyword("and"); ok {
		t.Fatalf("gate names are identifiers, not keywords")
	}
}

func TestKindClasses(t *testing.T) {
	tests := []struct {
		kind                         Kind
		netType, dataType, direction bool
	}{
		{KwWire, true, false, false},
		{KwSupply1, true, false, false},
		{KwLogic, false, true, false},
		{KwInteger, false, true, false},
		{KwInout, false, false, true},
		{KwModule, false, false, false},
	}
	for _, tt := range tests {
		if tt.kind.IsNetType() != tt.netType || tt.kind.IsDataTypeKeyword() != tt.dataType || tt.kind.IsDirection() != tt.direction {
			t.Errorf("%s: unexpected classification", tt.kind)
		}
	}
	if !StringLit.IsLiteral() || Ident.IsLiteral() {
		t.Fatalf("IsLiteral misclassifies")
	}
	if got := OverlapImpl.String(); got != "'|->'" {
		t.Fatalf("OverlapImpl.String() = %s", got)
	}
}

func TestProceduralKeywords(t *testing.T) {
	for _, text := range []string{"always", "always_ff", "initial", "final"} {
		k, ok := LookupKeyword(text)
		if !ok || !k.IsProcedural() {
			t.Errorf("%q should open a procedural block", text)
		}
	}
	if KwGenerate.IsProcedural() {
		t.Fatalf("generate is not procedural")
	}
}
