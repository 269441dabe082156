package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestBanner(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"1.2.3", "", "", "svelab 1.2.3"},
		{"1.2.3", "abc123", "", "svelab 1.2.3 (abc123)"},
		{"0.1.0-dev", "1234567890abcdef1234", "2024-01-15", "svelab 0.1.0-dev (1234567890ab, 2024-01-15)"},
		{"", "", "2024-01-15", "svelab  (2024-01-15)"},
	}
	for _, tt := range tests {
		Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
		if got := Banner(false); got != tt.want {
			t.Errorf("Banner() = %q, want %q", got, tt.want)
		}
	}
}

func TestColored(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()

	color.NoColor = true
	for _, v := range []string{"0.1.0", "1.0.0-beta.1", "1.2.3-rc.1+build.123", "weird"} {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() without color = %q, want %q", got, v)
		}
	}

	color.NoColor = false
	Version = "1.2.3-dev"
	got := Colored()
	if got == Version || len(got) <= len(Version) {
		t.Errorf("Colored() = %q, want escape sequences around the components", got)
	}
}
