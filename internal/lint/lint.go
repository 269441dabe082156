// Package lint runs structural checks over an elaborated design. Facts are
// checked against an embedded CUE contract and then handed to Rego
// policies; every policy contributes to data.svelab.lint.violation.
package lint

import (
	"cmp"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/open-policy-agent/opa/v1/rego"

	"svelab/internal/diag"
)

//go:embed schema.cue
var schemaSrc []byte

//go:embed policies/*.rego
var builtinPolicies embed.FS

// Query is the rule set every policy adds to.
const Query = "data.svelab.lint.violation"

// Finding is one policy violation.
type Finding struct {
	Rule     string
	Severity diag.Severity
	File     string
	Line     int
	Message  string
}

// Options configures an Engine.
type Options struct {
	// PolicyDir adds every *.rego file in the directory to the built-in
	// policies. Files must declare package svelab.lint.
	PolicyDir string
	// NoBuiltin drops the built-in rules.
	NoBuiltin bool
}

// Engine holds the compiled contract and the prepared policy query.
type Engine struct {
	cue    *cue.Context
	facts  cue.Value
	query  rego.PreparedEvalQuery
	loaded []string
}

// New compiles the schema and prepares the policies.
func New(ctx context.Context, opts Options) (*Engine, error) {
	cctx := cuecontext.New()
	schema := cctx.CompileBytes(schemaSrc)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling lint schema: %w", err)
	}
	facts := schema.LookupPath(cue.ParsePath("#Facts"))
	if err := facts.Err(); err != nil {
		return nil, fmt.Errorf("looking up #Facts: %w", err)
	}

	var modules []func(*rego.Rego)
	var loaded []string
	if !opts.NoBuiltin {
		entries, err := builtinPolicies.ReadDir("policies")
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			name := "policies/" + e.Name()
			src, err := builtinPolicies.ReadFile(name)
			if err != nil {
				return nil, err
			}
			modules = append(modules, rego.Module("builtin/"+e.Name(), string(src)))
			loaded = append(loaded, "builtin/"+e.Name())
		}
	}
	if opts.PolicyDir != "" {
		files, err := filepath.Glob(filepath.Join(opts.PolicyDir, "*.rego"))
		if err != nil {
			return nil, fmt.Errorf("finding policy files: %w", err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no policy files found in %s", opts.PolicyDir)
		}
		slices.Sort(files)
		for _, f := range files {
			src, err := os.ReadFile(f)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", f, err)
			}
			modules = append(modules, rego.Module(f, string(src)))
			loaded = append(loaded, f)
		}
	}
	if len(modules) == 0 {
		return nil, fmt.Errorf("no lint policies to run")
	}

	args := append(modules, rego.Query(Query))
	q, err := rego.New(args...).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("preparing lint policies: %w", err)
	}
	return &Engine{cue: cctx, facts: facts, query: q, loaded: loaded}, nil
}

// Policies lists the loaded policy modules in load order.
func (e *Engine) Policies() []string { return e.loaded }

// Validate checks f against the #Facts contract.
func (e *Engine) Validate(f Facts) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling facts: %w", err)
	}
	return e.validateJSON(data)
}

func (e *Engine) validateJSON(data []byte) error {
	v := e.cue.CompileBytes(data)
	if err := v.Err(); err != nil {
		return fmt.Errorf("compiling facts: %w", err)
	}
	if err := e.facts.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("lint facts do not match the schema: %w", err)
	}
	return nil
}

// Run validates f and evaluates the policies. Findings are ordered by
// file, line and rule.
func (e *Engine) Run(ctx context.Context, f Facts) ([]Finding, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshaling facts: %w", err)
	}
	if err := e.validateJSON(data); err != nil {
		return nil, err
	}
	var input map[string]any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, err
	}

	rs, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, fmt.Errorf("evaluating lint policies: %w", err)
	}
	var out []Finding
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		items, _ := rs[0].Expressions[0].Value.([]any)
		for _, it := range items {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, Finding{
				Rule:     getString(m, "rule"),
				Severity: severity(getString(m, "severity")),
				File:     getString(m, "file"),
				Line:     getInt(m, "line"),
				Message:  getString(m, "message"),
			})
		}
	}
	slices.SortFunc(out, func(a, b Finding) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Rule, b.Rule),
			cmp.Compare(a.Message, b.Message),
		)
	})
	return out, nil
}

func severity(s string) diag.Severity {
	if sev, ok := diag.ParseSeverity(s); ok {
		return sev
	}
	return diag.SevWarning
}

func getString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func getInt(m map[string]any, key string) int {
	switch n := m[key].(type) {
	case int:
		return n
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}
