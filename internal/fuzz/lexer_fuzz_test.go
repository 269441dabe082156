package fuzztests

import (
	"testing"

	"svelab/internal/diag"
	"svelab/internal/lexer"
	"svelab/internal/source"
	"svelab/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.sv", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		prev := uint32(0)
		for n := 0; ; n++ {
			tok := lx.Next()
			if tok.Span.Start < prev || tok.Span.End < tok.Span.Start {
				t.Fatalf("token %d (%v) span %v goes backwards from %d", n, tok.Kind, tok.Span, prev)
			}
			prev = tok.Span.End
			if tok.Kind == token.EOF {
				break
			}
			// каждый токен съедает хотя бы байт
			if n > len(input) {
				t.Fatalf("lexer produced more tokens than input bytes")
			}
		}
	})
}
