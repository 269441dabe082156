package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"svelab/internal/diagfmt"
	"svelab/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.sv",
	Short: "Tokenize a SystemVerilog source file",
	Long:  `Tokenize breaks a source file into tokens and prints them with their trivia`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("emit", "pretty", "token output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	emit, err := cmd.Flags().GetString("emit")
	if err != nil {
		return fmt.Errorf("failed to get emit flag: %w", err)
	}
	s, err := outputSettings(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], s.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Диагностика в stderr, токены в stdout
	if err := writeDiagnostics(cmd, result.Bag, result.FileSet, s); err != nil {
		return err
	}
	if machineFormat(s.format) {
		emit = "none"
	}

	out := cmd.OutOrStdout()
	switch emit {
	case "pretty":
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	case "json":
		err = diagfmt.FormatTokensJSON(out, result.Tokens)
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
