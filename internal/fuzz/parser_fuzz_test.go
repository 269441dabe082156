package fuzztests

import (
	"context"
	"testing"
	"time"

	"svelab/internal/diag"
	"svelab/internal/elab"
	"svelab/internal/parser"
	"svelab/internal/source"
	"svelab/internal/testkit"
	"svelab/internal/types"
)

// parseTimeout is the maximum time allowed for one input. Longer runs
// point at a loop in error recovery.
const parseTimeout = 5 * time.Second

func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.sv", input))
			bag := diag.NewBag(128)
			res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 128})
			if bag.HasErrors() {
				done <- nil
				return
			}
			done <- testkit.CheckSpanInvariants(res.Unit, file)
		}()

		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzElaborate builds the hierarchy of whatever parses without errors.
func FuzzElaborate(f *testing.F) {
	addDesignSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.sv", input))
		bag := diag.NewBag(256)
		rep := diag.BagReporter{Bag: bag}
		res := parser.ParseFile(file, parser.Options{Reporter: rep, MaxErrors: 64})
		if bag.HasErrors() || res.Unit == nil {
			return
		}

		comp := elab.NewCompilation(types.NewInterner(), rep, elab.Options{MaxDepth: 16})
		comp.AddUnit(res.Unit)
		tops := comp.Elaborate()
		comp.ReportUnused()
		st := comp.Stats()
		if st.Instances < len(tops) {
			t.Fatalf("stats count %d instances for %d tops", st.Instances, len(tops))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
