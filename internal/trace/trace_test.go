package trace

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func names(events []Event) []string {
	out := make([]string, len(events))
	for i := range events {
		out[i] = events[i].Kind.String() + ":" + events[i].Name
	}
	return out
}

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		want  []string
	}{
		{LevelPhase, []string{"begin:elaborate", "end:elaborate"}},
		{LevelDetail, []string{"begin:elaborate", "point:def", "end:elaborate"}},
		{LevelDebug, []string{"begin:elaborate", "point:def", "point:body-cache-hit", "end:elaborate"}},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			r := NewRingTracer(16, tt.level)
			sp := Begin(r, ScopePass, "elaborate", 0)
			Point(r, ScopeDefinition, "def", sp.ID(), "top")
			Point(r, ScopeInstance, "body-cache-hit", sp.ID(), "leaf")
			sp.End("")
			if diff := cmp.Diff(tt.want, names(r.Snapshot())); diff != "" {
				t.Fatalf("events (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopePass, n, 0, "")
	}
	want := []string{"point:c", "point:d", "point:e"}
	if diff := cmp.Diff(want, names(r.Snapshot())); diff != "" {
		t.Fatalf("ring (-want +got):\n%s", diff)
	}
}

func TestSpanEndCarriesExtra(t *testing.T) {
	r := NewRingTracer(8, LevelDebug)
	sp := Begin(r, ScopeInstance, "body:leaf", 0).WithExtra("members", "3")
	sp.End("W=8#")
	ev := r.Snapshot()
	if len(ev) != 2 {
		t.Fatalf("events = %d, want 2", len(ev))
	}
	end := ev[1]
	if end.Detail != "W=8#" || end.Extra["members"] != "3" || end.SpanID != sp.ID() {
		t.Fatalf("end event = %+v", end)
	}
}

func TestDisabledTracerIsSilent(t *testing.T) {
	sp := Begin(Nop, ScopeDriver, "run", 0)
	if sp.ID() != 0 {
		t.Fatalf("nop span has id %d", sp.ID())
	}
	if d := sp.End(""); d != 0 {
		t.Fatalf("nop span measured %v", d)
	}
	Point(nil, ScopeDriver, "x", 0, "")
}

func TestFormatEvent(t *testing.T) {
	ev := &Event{
		Time:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Seq:      7,
		Kind:     KindSpanEnd,
		Scope:    ScopeInstance,
		SpanID:   4,
		ParentID: 2,
		Name:     "body:leaf",
		Detail:   "W=8#",
		Extra:    map[string]string{"members": "3", "b": "x"},
	}

	text := string(FormatEvent(ev, FormatText))
	if !strings.Contains(text, "← body:leaf (W=8#) {b=x, members=3}") {
		t.Fatalf("text = %q", text)
	}

	var nd map[string]any
	if err := json.Unmarshal(FormatEvent(ev, FormatNDJSON), &nd); err != nil {
		t.Fatalf("ndjson: %v", err)
	}
	if nd["kind"] != "end" || nd["scope"] != "instance" || nd["name"] != "body:leaf" {
		t.Fatalf("ndjson = %v", nd)
	}

	var ch struct {
		Ph   string            `json:"ph"`
		Cat  string            `json:"cat"`
		Args map[string]string `json:"args"`
	}
	if err := json.Unmarshal(FormatEvent(ev, FormatChrome), &ch); err != nil {
		t.Fatalf("chrome: %v", err)
	}
	if ch.Ph != "E" || ch.Cat != "instance" || ch.Args["detail"] != "W=8#" {
		t.Fatalf("chrome = %+v", ch)
	}
	if _, ok := ev.Extra["detail"]; ok {
		t.Fatalf("chrome formatting mutated the event")
	}
}

func TestParseOptions(t *testing.T) {
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("ParseLevel accepted an unknown level")
	}
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if f, err := ParseFormat("Chrome"); err != nil || f != FormatChrome {
		t.Fatalf("ParseFormat(Chrome) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("ParseFormat accepted xml")
	}
}

func TestRingDump(t *testing.T) {
	r := NewRingTracer(4, LevelPhase)
	Begin(r, ScopeDriver, "run", 0).End("ok")
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 2 {
		t.Fatalf("dump has %d lines, want 2:\n%s", lines, buf.String())
	}
}
