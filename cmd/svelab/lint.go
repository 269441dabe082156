package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"svelab/internal/diag"
	"svelab/internal/driver"
	"svelab/internal/lint"
)

var lintCmd = &cobra.Command{
	Use:   "lint [files...]",
	Short: "Check structural rules on the elaborated hierarchy",
	Long: `Lint elaborates the design, extracts facts about its hierarchy and
evaluates the built-in Rego rules plus any policies from --policies.`,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().String("policies", "", "directory with extra .rego policies (package svelab.lint)")
	lintCmd.Flags().Bool("no-builtin", false, "skip the built-in rules")
	lintCmd.Flags().String("emit", "pretty", "findings format (pretty|json|facts)")
	lintCmd.Flags().Bool("list", false, "list loaded policy modules and exit")
}

type findingPayload struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
}

func runLint(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	emit, _ := flags.GetString("emit")
	noBuiltin, _ := flags.GetBool("no-builtin")
	list, _ := flags.GetBool("list")
	switch emit {
	case "pretty", "json", "facts":
	default:
		return fmt.Errorf("unknown emit format: %s", emit)
	}

	s, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}
	if flags.Changed("policies") {
		s.policies, _ = flags.GetString("policies")
	}
	cleanup, err := setupTracing(cmd, s)
	if err != nil {
		return err
	}
	defer cleanup()

	engine, err := lint.New(cmd.Context(), lint.Options{PolicyDir: s.policies, NoBuiltin: noBuiltin})
	if err != nil {
		return err
	}
	if list {
		for _, p := range engine.Policies() {
			fmt.Fprintln(cmd.OutOrStdout(), filepath.ToSlash(p))
		}
		return nil
	}

	res, err := driver.Elaborate(cmd.Context(), s.driverOptions())
	if err != nil {
		return err
	}
	// stdout занят находками
	if machineFormat(s.format) {
		s.format = "pretty"
	}
	if err := writeDiagnostics(cmd, res.Bag, res.Files, s); err != nil {
		return err
	}

	facts := lint.Collect(res.Compilation, res.Tops, res.Unused, res.Files)
	if emit == "facts" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(facts)
	}
	findings, err := engine.Run(cmd.Context(), facts)
	if err != nil {
		return err
	}
	if err := writeFindings(cmd.OutOrStdout(), findings, emit, s.color); err != nil {
		return err
	}
	if res.HasErrors() || hasErrorFinding(findings) {
		return errReported
	}
	return nil
}

func hasErrorFinding(findings []lint.Finding) bool {
	for _, f := range findings {
		if f.Severity == diag.SevError {
			return true
		}
	}
	return false
}

// writeFindings prints one line per finding, "file:line: SEVERITY rule: message",
// or a JSON array.
func writeFindings(w io.Writer, findings []lint.Finding, emit string, colored bool) error {
	if emit == "json" {
		out := make([]findingPayload, 0, len(findings))
		for _, f := range findings {
			out = append(out, findingPayload{
				Rule:     f.Rule,
				Severity: f.Severity.String(),
				File:     f.File,
				Line:     f.Line,
				Message:  f.Message,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	sevColor := map[diag.Severity]*color.Color{
		diag.SevError:   color.New(color.FgRed, color.Bold),
		diag.SevWarning: color.New(color.FgYellow, color.Bold),
		diag.SevInfo:    color.New(color.FgCyan, color.Bold),
	}
	for _, c := range sevColor {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	for _, f := range findings {
		loc := f.File
		switch {
		case loc == "":
			loc = "<design>"
		case f.Line > 0:
			loc = fmt.Sprintf("%s:%d", loc, f.Line)
		}
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n", loc, sevColor[f.Severity].Sprint(f.Severity), f.Rule, f.Message); err != nil {
			return err
		}
	}
	return nil
}
