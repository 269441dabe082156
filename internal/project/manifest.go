// Package project locates and reads the svelab.toml manifest of a design.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"svelab/internal/elab"
)

// ManifestName is the file the CLI looks for when no files are given.
const ManifestName = "svelab.toml"

// Manifest is a parsed svelab.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Design      DesignConfig      `toml:"design"`
	Params      map[string]any    `toml:"params"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Trace       TraceConfig       `toml:"trace"`
	Lint        LintConfig        `toml:"lint"`
	Blackbox    []BlackboxConfig  `toml:"blackbox"`
}

type DesignConfig struct {
	Files          []string `toml:"files"`
	Top            []string `toml:"top"`
	DefaultNetType string   `toml:"default_nettype"`
	MaxDepth       int      `toml:"max_depth"`
	Jobs           int      `toml:"jobs"`
}

type DiagnosticsConfig struct {
	Max    int    `toml:"max"`
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
	Ring   int    `toml:"ring"`
}

type LintConfig struct {
	Policies string `toml:"policies"`
}

type BlackboxConfig struct {
	Name      string          `toml:"name"`
	Interface bool            `toml:"interface"`
	Params    []BlackboxParam `toml:"param"`
	Ports     []BlackboxPort  `toml:"port"`
}

type BlackboxParam struct {
	Name  string `toml:"name"`
	Value *int64 `toml:"value"`
	Local bool   `toml:"local"`
}

type BlackboxPort struct {
	Name      string `toml:"name"`
	Direction string `toml:"direction"`
	Width     uint32 `toml:"width"`
}

// FindManifest walks up from startDir to locate svelab.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and parses the manifest above startDir. ok is false
// when there is none.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig parses one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("design") {
		return Config{}, fmt.Errorf("%s: missing [design]", path)
	}
	if !meta.IsDefined("design", "files") || len(cfg.Design.Files) == 0 {
		return Config{}, fmt.Errorf("%s: missing [design].files", path)
	}
	switch cfg.Design.DefaultNetType {
	case "", "none", "wire", "tri", "wand", "wor", "triand", "trior", "tri0", "tri1", "supply0", "supply1", "uwire":
	default:
		return Config{}, fmt.Errorf("%s: [design].default_nettype: unknown net type %q", path, cfg.Design.DefaultNetType)
	}
	for name, v := range cfg.Params {
		if _, err := paramText(v); err != nil {
			return Config{}, fmt.Errorf("%s: [params].%s: %w", path, name, err)
		}
	}
	return cfg, nil
}

// SourceFiles expands the [design].files globs relative to the manifest
// directory. Order follows the patterns; matches of one pattern are sorted.
func (m *Manifest) SourceFiles() ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, pat := range m.Config.Design.Files {
		if !filepath.IsAbs(pat) {
			pat = filepath.Join(m.Root, filepath.FromSlash(pat))
		}
		matches, err := filepath.Glob(pat)
		if err != nil {
			return nil, fmt.Errorf("%s: bad pattern %q: %w", m.Path, pat, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: %q matches no files", m.Path, pat)
		}
		slices.Sort(matches)
		for _, f := range matches {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out, nil
}

// ParamAssignments renders [params] as NAME=VALUE strings sorted by name,
// the same form -G accepts.
func (c Config) ParamAssignments() []string {
	names := make([]string, 0, len(c.Params))
	for n := range c.Params {
		names = append(names, n)
	}
	slices.Sort(names)
	out := make([]string, 0, len(names))
	for _, n := range names {
		text, _ := paramText(c.Params[n])
		out = append(out, n+"="+text)
	}
	return out
}

func paramText(v any) (string, error) {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case bool:
		if x {
			return "1", nil
		}
		return "0", nil
	case string:
		if strings.TrimSpace(x) == "" {
			return "", fmt.Errorf("empty value")
		}
		return x, nil
	}
	return "", fmt.Errorf("unsupported value %v (%T)", v, v)
}

// Blackboxes converts [[blackbox]] entries for elab.Compilation.AddBlackbox.
func (c Config) Blackboxes() []elab.Blackbox {
	out := make([]elab.Blackbox, 0, len(c.Blackbox))
	for _, bc := range c.Blackbox {
		bb := elab.Blackbox{Name: bc.Name, Interface: bc.Interface}
		for _, p := range bc.Params {
			bp := elab.BlackboxParam{Name: p.Name, Local: p.Local}
			if p.Value != nil {
				bp.Value, bp.HasValue = *p.Value, true
			}
			bb.Params = append(bb.Params, bp)
		}
		for _, p := range bc.Ports {
			bb.Ports = append(bb.Ports, elab.BlackboxPort{Name: p.Name, Direction: p.Direction, Width: p.Width})
		}
		out = append(out, bb)
	}
	return out
}
