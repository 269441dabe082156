package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"svelab/internal/diag"
	"svelab/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty prints diagnostics with a source excerpt and an underline
// below the primary span:
//
//	rtl/top.sv:4:3: ERROR ELB3002: unknown module 'foo'
//	  4 |   foo u1();
//	    |   ^^^
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pr := prettyPrinter{w: w, fs: fs, opts: opts, pal: newPalette(opts.Color)}
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		pr.diagnostic(d)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n%s\n", pr.pal.note.Sprintf("... %d more diagnostics not shown", n))
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	pal  palette
}

func (pr *prettyPrinter) known(sp source.Span) bool {
	return pr.fs != nil && int(sp.File) < pr.fs.Len()
}

func (pr *prettyPrinter) position(sp source.Span) string {
	if !pr.known(sp) {
		return "<unknown>"
	}
	f := pr.fs.Get(sp.File)
	start, _ := pr.fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.FormatPath(pr.opts.PathMode.mode(), pr.fs.BaseDir()), start.Line, start.Col)
}

func (pr *prettyPrinter) diagnostic(d diag.Diagnostic) {
	sev := pr.pal.severity(d.Severity)
	fmt.Fprintf(pr.w, "%s: %s %s: %s\n",
		pr.pal.bold.Sprint(pr.position(d.Primary)),
		sev.Sprint(d.Severity.String()),
		sev.Sprint(d.Code.ID()),
		pr.pal.bold.Sprint(pr.clip(d.Message)))
	pr.excerpt(d.Primary, int(pr.opts.Context))
	if !pr.opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		fmt.Fprintf(pr.w, "  %s %s: %s\n", pr.pal.note.Sprint("= note:"), pr.position(n.Span), n.Msg)
		pr.excerpt(n.Span, 0)
	}
}

func (pr *prettyPrinter) excerpt(sp source.Span, context int) {
	if !pr.known(sp) {
		return
	}
	f := pr.fs.Get(sp.File)
	start, end := pr.fs.Resolve(sp)
	first := max(int(start.Line)-max(context, 0), 1)
	digits := len(strconv.Itoa(int(start.Line)))
	gutter := func(label string) string {
		return pr.pal.gutter.Sprintf("%*s |", digits+2, label)
	}
	for ln := first; ln <= int(start.Line); ln++ {
		text := f.GetLine(uint32(ln))
		if ln < int(start.Line) && strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(pr.w, "%s %s\n", gutter(strconv.Itoa(ln)), pr.clip(expandTabs(text)))
	}

	line := f.GetLine(start.Line)
	col := min(int(start.Col)-1, len(line))
	stop := len(line)
	if end.Line == start.Line {
		stop = min(int(end.Col)-1, len(line))
	}
	pad := runewidth.StringWidth(expandTabs(line[:col]))
	width := max(runewidth.StringWidth(expandTabs(line[col:max(stop, col)])), 1)
	fmt.Fprintf(pr.w, "%s %s%s\n", gutter(""), strings.Repeat(" ", pad), pr.pal.caret.Sprint(strings.Repeat("^", width)))
}

// clip cuts s to opts.Width display columns.
func (pr *prettyPrinter) clip(s string) string {
	if pr.opts.Width == 0 || runewidth.StringWidth(s) <= int(pr.opts.Width) {
		return s
	}
	return runewidth.Truncate(s, int(pr.opts.Width), "…")
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
