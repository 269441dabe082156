package main

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func flagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "t"}
	registerGlobalFlags(cmd.Flags())
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

const manifestText = `[design]
files = ["rtl/*.sv"]
top = ["top"]
default_nettype = "none"

[params]
W = 5
MODE = "2'b10"

[diagnostics]
max = 7
format = "short"

[lint]
policies = "policy"
`

func TestLoadSettingsFromManifest(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"svelab.toml": manifestText,
		"rtl/b.sv":    cliTop,
		"rtl/a.sv":    cliLeaf,
	})
	t.Chdir(dir)

	s, err := loadSettings(flagCommand(t, "--color", "off", "-G", "W=9"), nil)
	if err != nil {
		t.Fatal(err)
	}
	var bases []string
	for _, f := range s.files {
		bases = append(bases, filepath.Base(f))
	}
	if diff := cmp.Diff([]string{"a.sv", "b.sv"}, bases); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}
	// -G идёт последним и перекрывает [params]
	if diff := cmp.Diff([]string{"MODE=2'b10", "W=5", "W=9"}, s.params); diff != "" {
		t.Errorf("params (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"top"}, s.tops); diff != "" {
		t.Errorf("tops (-want +got):\n%s", diff)
	}
	if s.maxDiagnostics != 7 || s.format != "short" || s.netType != "none" || s.color {
		t.Errorf("settings = %+v", s)
	}
	if filepath.Base(s.policies) != "policy" || !filepath.IsAbs(s.policies) {
		t.Errorf("policies = %q, want an absolute path", s.policies)
	}
}

func TestFlagsOverrideManifest(t *testing.T) {
	dir := writeFiles(t, map[string]string{"svelab.toml": manifestText, "rtl/a.sv": cliLeaf})
	t.Chdir(dir)

	s, err := loadSettings(flagCommand(t, "--color", "off", "--top", "leaf", "--max-diagnostics", "3", "--format", "json", "--nettype", "wire"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"leaf"}, s.tops); diff != "" {
		t.Errorf("tops (-want +got):\n%s", diff)
	}
	if s.maxDiagnostics != 3 || s.format != "json" || s.netType != "wire" {
		t.Errorf("settings = %+v", s)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := loadSettings(flagCommand(t, "--color", "off"), nil); err == nil {
		t.Errorf("no files and no manifest accepted")
	}
	if _, err := loadSettings(flagCommand(t, "--color", "off", "--format", "xml"), []string{"a.sv"}); err == nil {
		t.Errorf("format xml accepted")
	}
	if _, err := loadSettings(flagCommand(t, "--color", "sometimes"), []string{"a.sv"}); err == nil {
		t.Errorf("color sometimes accepted")
	}
}

func TestExpandInputs(t *testing.T) {
	dir := writeFiles(t, map[string]string{"rtl/b.sv": "", "rtl/a.v": "", "rtl/notes.txt": "", "x.sv": ""})
	got, err := expandInputs([]string{filepath.Join(dir, "x.sv"), filepath.Join(dir, "rtl"), filepath.Join(dir, "gone.sv")})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "x.sv"),
		filepath.Join(dir, "rtl", "a.v"),
		filepath.Join(dir, "rtl", "b.sv"),
		filepath.Join(dir, "gone.sv"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("inputs (-want +got):\n%s", diff)
	}

	empty := writeFiles(t, map[string]string{"doc/readme.md": ""})
	if _, err := expandInputs([]string{filepath.Join(empty, "doc")}); err == nil {
		t.Fatalf("directory without sources accepted")
	}
}

func TestSummaryLanguage(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_NUMERIC", "")
	t.Setenv("LANG", "de_DE.UTF-8")
	base, _ := summaryLanguage().Base()
	if base.String() != "de" {
		t.Fatalf("language = %v, want de", summaryLanguage())
	}
	t.Setenv("LANG", "")
	if got := summaryLanguage(); got.String() != "und" {
		t.Fatalf("language = %v, want und", got)
	}
}
