package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"svelab/internal/driver"
	"svelab/internal/elab"
	"svelab/internal/project"
)

// settings is the merged view of svelab.toml and the command line. Flags
// that were set explicitly win over the manifest.
type settings struct {
	manifest *project.Manifest

	files      []string
	baseDir    string
	tops       []string
	params     []string
	blackboxes []elab.Blackbox
	netType    string
	maxDepth   int
	jobs       int

	maxDiagnostics int
	format         string
	color          bool
	quiet          bool
	timings        bool
	policies       string

	traceOutput    string
	traceLevel     string
	traceMode      string
	traceFormat    string
	traceRing      int
	traceHeartbeat time.Duration
}

var diagnosticFormats = []string{"pretty", "short", "json", "sarif"}

// loadSettings reads the flags of cmd. With no positional files the
// manifest found from the working directory supplies the design.
func loadSettings(cmd *cobra.Command, args []string) (*settings, error) {
	flags := cmd.Flags()
	str := func(name string) string { v, _ := flags.GetString(name); return v }
	num := func(name string) int { v, _ := flags.GetInt(name); return v }
	set := flags.Changed

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	s := &settings{baseDir: cwd}
	s.quiet, _ = flags.GetBool("quiet")
	s.timings, _ = flags.GetBool("timings")

	if len(args) == 0 {
		m, ok, err := project.LoadManifest(cwd)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no input files and no %s found", project.ManifestName)
		}
		s.manifest = m
		s.baseDir = m.Root
		if s.files, err = m.SourceFiles(); err != nil {
			return nil, err
		}
		if len(s.files) == 0 {
			return nil, fmt.Errorf("%s: [design] lists no files", m.Path)
		}
	} else if s.files, err = expandInputs(args); err != nil {
		return nil, err
	}

	var cfg project.Config
	if s.manifest != nil {
		cfg = s.manifest.Config
	}

	s.tops = cfg.Design.Top
	if set("top") {
		s.tops, _ = flags.GetStringSlice("top")
	}
	// -G после [params]: при совпадении имён побеждает флаг
	s.params = cfg.ParamAssignments()
	cliParams, _ := flags.GetStringArray("param")
	s.params = append(s.params, cliParams...)
	s.blackboxes = cfg.Blackboxes()

	s.netType = pick(set("nettype"), str("nettype"), cfg.Design.DefaultNetType)
	s.maxDepth = pickInt(set("max-depth"), num("max-depth"), cfg.Design.MaxDepth)
	s.jobs = pickInt(set("jobs"), num("jobs"), cfg.Design.Jobs)
	s.maxDiagnostics = pickInt(set("max-diagnostics"), num("max-diagnostics"), cfg.Diagnostics.Max)
	s.policies = cfg.Lint.Policies
	if s.policies != "" && !filepath.IsAbs(s.policies) && s.manifest != nil {
		s.policies = filepath.Join(s.manifest.Root, s.policies)
	}

	s.format = strings.ToLower(pick(set("format"), str("format"), cfg.Diagnostics.Format))
	if !slices.Contains(diagnosticFormats, s.format) {
		return nil, fmt.Errorf("unsupported format %q (expected %s)", s.format, strings.Join(diagnosticFormats, "|"))
	}
	if s.color, err = colorEnabled(pick(set("color"), str("color"), cfg.Diagnostics.Color)); err != nil {
		return nil, err
	}

	s.traceOutput = pick(set("trace"), str("trace"), cfg.Trace.Output)
	s.traceLevel = pick(set("trace-level"), str("trace-level"), cfg.Trace.Level)
	s.traceMode = str("trace-mode")
	s.traceFormat = pick(set("trace-format"), str("trace-format"), cfg.Trace.Format)
	s.traceRing = pickInt(set("trace-ring-size"), num("trace-ring-size"), cfg.Trace.Ring)
	s.traceHeartbeat, _ = flags.GetDuration("trace-heartbeat")
	return s, nil
}

// outputSettings reads only the output flags. Single-file commands use it
// and do not look for a manifest.
func outputSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Flags()
	s := &settings{}
	s.maxDiagnostics, _ = flags.GetInt("max-diagnostics")
	s.quiet, _ = flags.GetBool("quiet")
	s.timings, _ = flags.GetBool("timings")
	s.netType, _ = flags.GetString("nettype")
	format, _ := flags.GetString("format")
	s.format = strings.ToLower(format)
	if !slices.Contains(diagnosticFormats, s.format) {
		return nil, fmt.Errorf("unsupported format %q (expected %s)", s.format, strings.Join(diagnosticFormats, "|"))
	}
	mode, _ := flags.GetString("color")
	var err error
	if s.color, err = colorEnabled(mode); err != nil {
		return nil, err
	}
	return s, nil
}

// pick returns flag when it was given or the manifest has nothing.
func pick(changed bool, flag, manifest string) string {
	if changed || manifest == "" {
		return flag
	}
	return manifest
}

func pickInt(changed bool, flag, manifest int) int {
	if changed || manifest == 0 {
		return flag
	}
	return manifest
}

// colorEnabled resolves auto|on|off and applies the result to fatih/color.
func colorEnabled(mode string) (bool, error) {
	var on bool
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		on = isTerminal(os.Stderr) && os.Getenv("NO_COLOR") == ""
	case "on":
		on = true
	case "off":
		on = false
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	color.NoColor = !on
	return on, nil
}

var sourceExts = []string{".sv", ".v"}

// expandInputs keeps files as given and replaces directories with their
// .sv and .v files, sorted.
func expandInputs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				// пусть драйвер сообщит IO4001 с позицией
				out = append(out, arg)
				continue
			}
			return nil, err
		}
		if !st.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && slices.Contains(sourceExts, filepath.Ext(e.Name())) {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("%s: no %s files", arg, strings.Join(sourceExts, " or "))
		}
		slices.Sort(found)
		out = append(out, found...)
	}
	return out, nil
}

// driverOptions converts settings for driver.Elaborate.
func (s *settings) driverOptions() driver.Options {
	return driver.Options{
		Files:          s.files,
		BaseDir:        s.baseDir,
		Tops:           s.tops,
		Params:         s.params,
		Blackboxes:     s.blackboxes,
		DefaultNetType: s.netType,
		MaxDepth:       s.maxDepth,
		MaxDiagnostics: s.maxDiagnostics,
		Jobs:           s.jobs,
	}
}
