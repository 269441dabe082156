package observ

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func fakeClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	parse := tm.Begin("parse")
	tm.End(parse, "3 files")
	done := tm.Track("elaborate")
	done("")
	tm.End(99, "ignored")

	want := Report{
		TotalMS: 4,
		Phases: []PhaseReport{
			{Name: "parse", DurationMS: 2, Note: "3 files"},
			{Name: "elaborate", DurationMS: 2},
		},
	}
	if diff := cmp.Diff(want, tm.Report()); diff != "" {
		t.Fatalf("report (-want +got):\n%s", diff)
	}
	s := tm.Summary()
	for _, frag := range []string{"parse", "// 3 files", "elaborate", "total"} {
		if !strings.Contains(s, frag) {
			t.Fatalf("summary %q lacks %q", s, frag)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	done := tm.Track("x")
	done("note")
	if tm.Phases() != nil || len(tm.Report().Phases) != 0 {
		t.Fatalf("nil timer recorded phases")
	}
}
