package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"svelab/internal/astdump"
	"svelab/internal/driver"
	"svelab/internal/observ"
)

var elabCmd = &cobra.Command{
	Use:   "elab [files...]",
	Short: "Elaborate a design and report its hierarchy",
	Long: `Elaborate parses the given files (or the files of svelab.toml), builds
the instance hierarchy from the top modules and prints a summary.
Directories are expanded to their .sv and .v files.`,
	RunE: runElab,
}

func init() {
	elabCmd.Flags().String("dump", "", "dump the hierarchy (json|msgpack)")
	elabCmd.Flags().StringP("output", "o", "", "write the dump to a file instead of stdout")
	elabCmd.Flags().Bool("members", false, "include nets, variables and typedefs in the dump")
	elabCmd.Flags().Bool("locations", false, "include source locations in the dump")
	elabCmd.Flags().Bool("levels", false, "print definitions leaf first with their digests")
	elabCmd.Flags().Bool("no-unused", false, "do not warn about definitions that are never instantiated")
	elabCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

func runElab(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd, s)
	if err != nil {
		return err
	}
	defer cleanup()

	dumpFlag, _ := cmd.Flags().GetString("dump")
	outPath, _ := cmd.Flags().GetString("output")
	showLevels, _ := cmd.Flags().GetBool("levels")
	noUnused, _ := cmd.Flags().GetBool("no-unused")
	uiFlag, _ := cmd.Flags().GetString("ui")

	var dumpFormat astdump.Format
	if dumpFlag != "" {
		if dumpFormat, err = astdump.ParseFormat(dumpFlag); err != nil {
			return err
		}
		if outPath == "" && machineFormat(s.format) {
			return fmt.Errorf("--dump to stdout cannot be combined with --format %s; use --output", s.format)
		}
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	opts := s.driverOptions()
	opts.NoUnused = noUnused
	if s.timings {
		opts.Timer = observ.NewTimer()
	}

	var res *driver.Result
	if !s.quiet && shouldUseTUI(mode, len(s.files)) {
		res, err = runElaborateWithUI(cmd.Context(), "elaborating", opts)
	} else {
		res, err = driver.Elaborate(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}
	if s.timings {
		driver.AppendTimings(res.Bag, res.Timings, "")
	}

	if dumpFlag != "" {
		members, _ := cmd.Flags().GetBool("members")
		locations, _ := cmd.Flags().GetBool("locations")
		doc := astdump.Build(res.Compilation, res.Tops, res.Files, astdump.Options{Members: members, Locations: locations})
		if err := writeDump(cmd.OutOrStdout(), outPath, doc, dumpFormat); err != nil {
			return err
		}
	}

	if err := writeDiagnostics(cmd, res.Bag, res.Files, s); err != nil {
		return err
	}

	stdoutFree := !machineFormat(s.format) && (dumpFlag == "" || outPath != "")
	if !s.quiet && stdoutFree {
		out := cmd.OutOrStdout()
		driver.WriteSummary(out, res, summaryLanguage())
		if showLevels {
			printLevels(out, res)
		}
	}
	if res.HasErrors() {
		return errReported
	}
	return nil
}

func writeDump(stdout io.Writer, path string, doc *astdump.Document, f astdump.Format) error {
	if path == "" || path == "-" {
		return astdump.Write(stdout, doc, f)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	if err := astdump.Write(file, doc, f); err != nil {
		file.Close()
		return fmt.Errorf("dump: %w", err)
	}
	return file.Close()
}

// printLevels lists definitions leaf first. Members of one level do not
// instantiate each other.
func printLevels(w io.Writer, res *driver.Result) {
	for i, level := range res.Order.Levels {
		fmt.Fprintf(w, "level %d:\n", i)
		for _, name := range level {
			if d, ok := res.Digests[name]; ok {
				fmt.Fprintf(w, "  %-24s %s\n", name, d.Short())
				continue
			}
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(res.Order.Cycles) > 0 {
		fmt.Fprintf(w, "cycle: %s\n", strings.Join(res.Order.Cycles, ", "))
	}
}

// summaryLanguage picks the digit grouping from LC_ALL or LANG.
func summaryLanguage() language.Tag {
	for _, key := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		v, _, _ = strings.Cut(v, ".")
		if tag, err := language.Parse(v); err == nil {
			return tag
		}
		return language.Und
	}
	return language.Und
}
