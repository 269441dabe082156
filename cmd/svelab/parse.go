package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"svelab/internal/diagfmt"
	"svelab/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.sv",
	Short: "Parse a SystemVerilog source file and print its outline",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("emit", "pretty", "outline format (pretty|json|none)")
}

func runParse(cmd *cobra.Command, args []string) error {
	emit, _ := cmd.Flags().GetString("emit")
	s, err := outputSettings(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Parse(args[0], s.maxDiagnostics, s.netType)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	// json/sarif диагностики занимают stdout сами
	if machineFormat(s.format) {
		emit = "none"
	}
	if err := writeDiagnostics(cmd, result.Bag, result.FileSet, s); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch emit {
	case "pretty":
		err = diagfmt.FormatSyntaxPretty(out, result.Unit, result.FileSet)
	case "json":
		err = diagfmt.FormatSyntaxJSON(out, result.Unit, result.FileSet)
	case "none":
	default:
		return fmt.Errorf("unknown emit format: %s", emit)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errReported
	}
	return nil
}
