package driver

import (
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"svelab/internal/diag"
)

// WriteSummary prints the one-paragraph result of an elaboration run.
// Counts use the digit grouping of lang; the zero tag means English.
func WriteSummary(w io.Writer, r *Result, lang language.Tag) {
	if lang == language.Und {
		lang = language.English
	}
	p := message.NewPrinter(lang)
	st := r.Compilation.Stats()

	tops := make([]string, 0, len(r.Tops))
	for _, t := range r.Tops {
		tops = append(tops, t.Name())
	}
	p.Fprintf(w, "design %s: %d files, %d definitions, top %s\n",
		r.Digest.Short(), len(r.Parsed), st.Definitions, strings.Join(tops, ", "))
	p.Fprintf(w, "  %d instances in %d arrays, %d bodies (%d reused)\n",
		st.Instances, st.Arrays, st.Bodies, st.BodyCacheHits)
	if st.UnknownModules > 0 || st.Primitives > 0 {
		p.Fprintf(w, "  %d unknown modules, %d primitives\n", st.UnknownModules, st.Primitives)
	}
	p.Fprintf(w, "  %d errors, %d warnings\n", r.Bag.Count(diag.SevError), r.Bag.Count(diag.SevWarning))
}
