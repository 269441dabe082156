package dialect

import "svelab/internal/source"

// Hint is a small piece of evidence suggesting a particular dialect.
// It is not itself a diagnostic.
type Hint struct {
	Dialect Kind
	Score   int
	Reason  string
	Span    source.Span
}

// Evidence aggregates per-file hints collected from the token stream.
type Evidence struct {
	hints []Hint
}

// NewEvidence creates a new Evidence container.
func NewEvidence() *Evidence {
	return &Evidence{
		hints: make([]Hint, 0, 16),
	}
}

// Add appends a hint to the evidence collection.
func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
}

// Hints returns the collected hints.
func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}

// Strongest returns the first hint with the highest score for k.
func (e *Evidence) Strongest(k Kind) (Hint, bool) {
	var best Hint
	found := false
	for _, h := range e.Hints() {
		if h.Dialect == k && (!found || h.Score > best.Score) {
			best, found = h, true
		}
	}
	return best, found
}
