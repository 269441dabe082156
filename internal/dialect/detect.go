package dialect

import (
	"fmt"

	"svelab/internal/diag"
	"svelab/internal/lexer"
	"svelab/internal/source"
	"svelab/internal/token"
)

// Пороги, ниже которых файл считаем просто сломанным SystemVerilog.
const (
	minScore      = 8
	minConfidence = 0.6
)

// Scan collects evidence from toks, which must be in source order.
func Scan(toks []token.Token) *Evidence {
	e := NewEvidence()
	var prev token.Token
	for i, tok := range toks {
		if tok.Kind == token.Ident {
			RecordIdent(e, tok.Text, tok.Span)
		}
		if i > 0 {
			ObserveTokenPair(e, prev, tok)
		}
		prev = tok
	}
	return e
}

// Foreign reports whether c is confident enough to call the file foreign.
func (c Classification) Foreign() bool {
	return c.Kind != Unknown && c.Score >= minScore && c.Confidence >= minConfidence
}

// Check lexes file on its own and, when it reads like another language,
// reports one SynForeignLanguage info with the strongest hint as a note.
func Check(file *source.File, rep diag.Reporter) Classification {
	toks := lexer.New(file, lexer.Options{}).All()
	e := Scan(toks)
	c := Classifier{}.Classify(e)
	if !c.Foreign() || rep == nil {
		return c
	}
	primary := source.Span{File: file.ID}
	b := diag.ReportInfo(rep, diag.SynForeignLanguage, primary,
		fmt.Sprintf("this file looks like %s, not SystemVerilog", c.Kind))
	if h, ok := e.Strongest(c.Kind); ok {
		b.WithNote(h.Span, h.Reason)
	}
	b.Emit()
	return c
}
