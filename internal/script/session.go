// Package script evaluates SystemVerilog snippets one construct at a time
// against a scope that persists between calls.
package script

import (
	"fmt"
	"strconv"

	"github.com/zclconf/go-cty/cty"

	"svelab/internal/consteval"
	"svelab/internal/diag"
	"svelab/internal/elab"
	"svelab/internal/parser"
	"svelab/internal/source"
	"svelab/internal/syntax"
)

const defaultMaxDiagnostics = 1024

// Options configures a Session.
type Options struct {
	Elab           elab.Options
	MaxDiagnostics int
}

// Session is an incremental evaluation context. Declarations accumulate in
// one script body; variables get storage that statements can update.
// A Session is not safe for concurrent use.
type Session struct {
	Files *source.FileSet

	comp  *elab.Compilation
	body  *elab.InstanceBody
	ev    *consteval.Evaluator
	bag   *diag.Bag
	count int
}

// New creates an empty session.
func New(opts Options) *Session {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = defaultMaxDiagnostics
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	comp := elab.NewCompilation(nil, diag.BagReporter{Bag: bag}, opts.Elab)
	body := comp.NewScriptBody()
	ev := consteval.New(comp.Types, comp.Reporter(), body)
	ev.Script = true
	ev.Frame = consteval.NewFrame(nil)
	return &Session{
		Files: source.NewFileSet(),
		comp:  comp,
		body:  body,
		ev:    ev,
		bag:   bag,
	}
}

// Compilation exposes the design units declared so far.
func (s *Session) Compilation() *elab.Compilation { return s.comp }

// Body is the script scope.
func (s *Session) Body() *elab.InstanceBody { return s.body }

// Eval parses text and runs its constructs in order. It returns the value
// of a trailing bare expression, or cty.NilVal. New error diagnostics turn
// into an error; the constructs before the failure stay in effect.
func (s *Session) Eval(text string) (cty.Value, error) {
	s.count++
	id := s.Files.AddVirtual("<script-"+strconv.Itoa(s.count)+">", []byte(text))
	errorsBefore := s.bag.Count(diag.SevError)
	seen := s.bag.Len()

	res := parser.ParseScript(s.Files.Get(id), parser.Options{Reporter: s.comp.Reporter()})
	if err := s.failure(errorsBefore, seen); err != nil {
		return cty.NilVal, err
	}

	result := cty.NilVal
	for _, it := range res.Items {
		result = s.run(it)
		if err := s.failure(errorsBefore, seen); err != nil {
			return cty.NilVal, err
		}
	}
	return result, nil
}

func (s *Session) run(n syntax.Node) cty.Value {
	switch x := n.(type) {
	case syntax.Expr:
		c := s.ev.Eval(x)
		if c.IsPoison() {
			return cty.NilVal
		}
		return s.ev.Normalize(c).Val
	case syntax.Stmt:
		s.ev.Exec(x)
		return cty.NilVal
	case syntax.Member:
		s.body.AddMember(x)
		if dd, ok := x.(*syntax.DataDeclaration); ok && s.isStorage(dd) {
			s.ev.Declare(dd)
		}
		return cty.NilVal
	}
	panic(fmt.Sprintf("script: unsupported top-level construct %T", n))
}

// isStorage reports whether dd declared variables rather than instances
// written without parentheses.
func (s *Session) isStorage(dd *syntax.DataDeclaration) bool {
	if dd.Virtual || len(dd.Declarators) == 0 {
		return false
	}
	sym, ok := s.body.Lookup(dd.Declarators[0].Name.Text)
	if !ok {
		return false
	}
	_, isVar := sym.(*elab.VariableSymbol)
	return isVar
}

func (s *Session) failure(errorsBefore, seen int) error {
	if s.bag.Count(diag.SevError) == errorsBefore {
		return nil
	}
	for _, d := range s.bag.Items()[seen:] {
		if d.Severity == diag.SevError {
			return fmt.Errorf("%s: %s", d.Code.ID(), d.Message)
		}
	}
	return fmt.Errorf("evaluation failed")
}

// Diagnostics returns everything reported so far, sorted by location.
func (s *Session) Diagnostics() []diag.Diagnostic {
	s.bag.Sort()
	return s.bag.Items()
}

// Format renders a value returned by Eval; cty.NilVal renders as "".
func Format(v cty.Value) string {
	if !v.IsKnown() || v.IsNull() {
		return ""
	}
	switch v.Type() {
	case cty.String:
		return strconv.Quote(v.AsString())
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int(nil)
			return i.String()
		}
		f, _ := bf.Float64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return v.GoString()
}
