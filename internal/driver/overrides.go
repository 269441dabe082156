package driver

import (
	"fmt"
	"strings"

	"svelab/internal/diag"
	"svelab/internal/elab"
	"svelab/internal/parser"
	"svelab/internal/source"
	"svelab/internal/syntax"
)

// ParseOverride turns "NAME=VALUE" into an elab.Override. The value text
// is added to fs so diagnostics about it point somewhere readable. A
// value that is a data type (-G T=logic[3:0]) overrides a type parameter.
func ParseOverride(fs *source.FileSet, text string) (elab.Override, error) {
	name, value, ok := strings.Cut(text, "=")
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if !ok || name == "" || value == "" {
		return elab.Override{}, fmt.Errorf("parameter override %q: expected NAME=VALUE", text)
	}

	if e, ok := parseOverrideExpr(fs, name, value); ok {
		return elab.Override{Name: name, Value: e}, nil
	}
	// типы не разбираются как выражения верхнего уровня; $bits(...) принимает оба
	if e, ok := parseOverrideExpr(fs, name, "$bits("+value+")"); ok {
		if call, isCall := e.(*syntax.SystemCallExpr); isCall && len(call.Args) == 1 {
			if dt, isType := syntax.Unparen(call.Args[0]).(*syntax.DataTypeExpr); isType {
				return elab.Override{Name: name, Type: dt.Type}, nil
			}
		}
	}
	return elab.Override{}, fmt.Errorf("parameter override %q: %q is neither an expression nor a data type", name, value)
}

func parseOverrideExpr(fs *source.FileSet, name, text string) (syntax.Expr, bool) {
	id := fs.AddVirtual("<-G "+name+">", []byte(text))
	bag := diag.NewBag(4)
	res := parser.ParseScript(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() || len(res.Items) != 1 {
		return nil, false
	}
	e, ok := res.Items[0].(syntax.Expr)
	return e, ok
}

// ParseOverrides parses every assignment, stopping at the first bad one.
func ParseOverrides(fs *source.FileSet, texts []string) ([]elab.Override, error) {
	out := make([]elab.Override, 0, len(texts))
	for _, t := range texts {
		o, err := ParseOverride(fs, t)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
