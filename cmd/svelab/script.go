package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"svelab/internal/diag"
	"svelab/internal/elab"
	"svelab/internal/script"
	"svelab/internal/token"
)

var scriptCmd = &cobra.Command{
	Use:   "script [file]",
	Short: "Evaluate declarations and expressions interactively",
	Long: `Script keeps one scope across inputs: parameters, variables, modules and
statements accumulate, and a bare expression prints its value.
With -e each snippet is evaluated in order; with a file its whole text is
one input; otherwise lines are read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScriptCmd,
}

func init() {
	scriptCmd.Flags().StringArrayP("eval", "e", nil, "evaluate a snippet (repeatable)")
}

const scriptPrompt = "svelab> "
const scriptContinue = "   ...> "

func runScriptCmd(cmd *cobra.Command, args []string) error {
	s, err := outputSettings(cmd)
	if err != nil {
		return err
	}
	snippets, _ := cmd.Flags().GetStringArray("eval")
	maxDepth, _ := cmd.Flags().GetInt("max-depth")
	sess := script.New(script.Options{
		Elab:           elab.Options{MaxDepth: maxDepth},
		MaxDiagnostics: s.maxDiagnostics,
	})
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		snippets = append([]string{string(data)}, snippets...)
	}
	if len(snippets) > 0 {
		for _, text := range snippets {
			if !evalAndPrint(sess, text, out, errOut) {
				if !s.quiet {
					fmt.Fprintln(errOut, diag.FormatShort(sess.Diagnostics(), sess.Files, true))
				}
				return errReported
			}
		}
		return nil
	}

	interactive := isTerminal(os.Stdin) && isTerminal(os.Stdout)
	return repl(sess, cmd.InOrStdin(), out, errOut, interactive)
}

// evalAndPrint runs one input and prints its value or error. It reports
// whether the input succeeded.
func evalAndPrint(sess *script.Session, text string, out, errOut io.Writer) bool {
	v, err := sess.Eval(text)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return false
	}
	if s := script.Format(v); s != "" {
		fmt.Fprintln(out, s)
	}
	return true
}

// repl reads inputs line by line. An input ends at a line where every
// module, function, task and begin block opened so far is closed.
// Errors are printed and the loop goes on.
func repl(sess *script.Session, in io.Reader, out, errOut io.Writer, interactive bool) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var buf strings.Builder
	depth := 0
	prompt := func() {
		if !interactive {
			return
		}
		if buf.Len() == 0 {
			fmt.Fprint(out, scriptPrompt)
		} else {
			fmt.Fprint(out, scriptContinue)
		}
	}

	prompt()
	for sc.Scan() {
		line := sc.Text()
		if buf.Len() == 0 {
			switch strings.TrimSpace(line) {
			case "":
				prompt()
				continue
			case ":quit", ":q":
				return nil
			case ":diag":
				if ds := sess.Diagnostics(); len(ds) > 0 {
					fmt.Fprintln(out, diag.FormatShort(ds, sess.Files, true))
				}
				prompt()
				continue
			}
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
		depth += blockDelta(line)
		if depth > 0 {
			prompt()
			continue
		}
		evalAndPrint(sess, buf.String(), out, errOut)
		buf.Reset()
		depth = 0
		prompt()
	}
	if interactive {
		fmt.Fprintln(out)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(buf.String()) != "" {
		evalAndPrint(sess, buf.String(), out, errOut)
	}
	return nil
}

var blockOpen = map[token.Kind]bool{
	token.KwModule: true, token.KwInterface: true, token.KwProgram: true,
	token.KwFunction: true, token.KwTask: true, token.KwBegin: true,
	token.KwGenerate: true, token.KwCase: true, token.KwCasez: true, token.KwCasex: true,
}

var blockClose = map[token.Kind]bool{
	token.KwEndmodule: true, token.KwEndinterface: true, token.KwEndprogram: true,
	token.KwEndfunction: true, token.KwEndtask: true, token.KwEnd: true,
	token.KwEndgenerate: true, token.KwEndcase: true,
}

// blockDelta counts block keywords on line outside // comments and
// string literals. "extern module" and "virtual interface" open nothing.
func blockDelta(line string) int {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	var words []string
	start, inString := -1, false
	flush := func(end int) {
		if start >= 0 {
			words = append(words, line[start:end])
			start = -1
		}
	}
	for i, r := range line {
		switch {
		case r == '"':
			flush(i)
			inString = !inString
		case inString:
		case r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r):
			if start < 0 {
				start = i
			}
		default:
			flush(i)
		}
	}
	if !inString {
		flush(len(line))
	}

	delta := 0
	prev := ""
	for _, w := range words {
		k, ok := token.LookupKeyword(w)
		switch {
		case !ok:
		case prev == "extern" || prev == "virtual" || prev == "import":
		case blockOpen[k]:
			delta++
		case blockClose[k]:
			delta--
		}
		prev = w
	}
	return delta
}
