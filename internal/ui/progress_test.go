package ui

import (
	"strings"
	"testing"

	"svelab/internal/buildpipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("elaborating design", []string{"a.sv", "b.sv"}, events).(*progressModel)

	m.applyEvent(buildpipeline.Event{File: "a.sv", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})
	m.applyEvent(buildpipeline.Event{File: "b.sv", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusDone})
	m.applyEvent(buildpipeline.Event{File: "ghost.sv", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusError})
	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageElaborate, Status: buildpipeline.StatusWorking})

	if got := m.items[0].status; got != "parsing" {
		t.Fatalf("a.sv status = %q, want parsing", got)
	}
	if got := m.items[1].status; got != "done" {
		t.Fatalf("b.sv status = %q, want done", got)
	}
	if m.stageLabel != "elaborating" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}

	m.Update(doneMsg{})
	view := m.View()
	for _, frag := range []string{"done: elaborating design (elaborating)", "a.sv", "b.sv"} {
		if !strings.Contains(view, frag) {
			t.Fatalf("view lacks %q:\n%s", frag, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.sv", 20, "short.sv"},
		{"very/long/path/to/file.sv", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"файл.sv", 0, "файл.sv"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
