package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"svelab/internal/version"
)

// errReported means the command already printed why it failed.
var errReported = errors.New("errors reported")

var rootCmd = &cobra.Command{
	Use:   "svelab",
	Short: "SystemVerilog hierarchy elaborator",
	Long: `svelab parses SystemVerilog sources, resolves parameters and builds
the instance hierarchy of a design`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		stop, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		stopProfiling = stop
		return nil
	},
}

// stopProfiling is replaced by the pre-run hook of the running command.
var stopProfiling = func() {}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(elabCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(versionCmd)

	registerGlobalFlags(rootCmd.PersistentFlags())
}

// registerGlobalFlags adds the flags every command shares.
func registerGlobalFlags(pf *pflag.FlagSet) {
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("format", "pretty", "diagnostics format (pretty|short|json|sarif)")
	pf.StringSlice("top", nil, "top-level module (repeatable; default: every uninstantiated definition)")
	pf.StringArrayP("param", "G", nil, "override a top-level parameter, NAME=VALUE (repeatable)")
	pf.Int("jobs", 0, "parallel parse workers (0 = number of CPUs)")
	pf.String("nettype", "", "initial default_nettype (wire|tri|...|none)")
	pf.Int("max-depth", 0, "maximum instance nesting depth (0 = default)")
	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "ring", "trace storage mode (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson|chrome)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 = off)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")
}

// main runs the root command. Any error exits with status 1.
func main() {
	err := rootCmd.Execute()
	stopProfiling()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "svelab: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
