package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"svelab/internal/diag"
	"svelab/internal/diagfmt"
	"svelab/internal/source"
	"svelab/internal/version"
)

// machineFormat reports whether diagnostics go to stdout as a document
// instead of to stderr as text.
func machineFormat(format string) bool {
	return format == "json" || format == "sarif"
}

// writeDiagnostics prints bag in the selected format. Text formats go to
// stderr and print nothing for an empty bag; json and sarif always write
// a document to stdout.
func writeDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, s *settings) error {
	switch s.format {
	case "json":
		return diagfmt.JSON(cmd.OutOrStdout(), bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			Max:              s.maxDiagnostics,
			IncludeNotes:     true,
		})
	case "sarif":
		return diagfmt.Sarif(cmd.OutOrStdout(), bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "svelab",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	case "short":
		if bag.Len() == 0 {
			return nil
		}
		_, err := io.WriteString(cmd.ErrOrStderr(), diag.FormatShort(bag.Items(), fs, true)+"\n")
		return err
	default:
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{
			Color:     s.color,
			Context:   1,
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: true,
			Max:       s.maxDiagnostics,
		})
		return nil
	}
}
