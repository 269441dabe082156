package diag

import (
	"fmt"
	"strings"

	"svelab/internal/source"
)

// FormatShort renders one line per diagnostic, "severity CODE path:line:col message",
// in the order given. Notes follow their diagnostic when includeNotes is set.
// Script sessions and tests compare against this form.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	line := func(label string, code Code, sp source.Span, msg string) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s %s", label, code.ID(), location(fs, sp), sanitizeMessage(msg))
	}
	for _, d := range diags {
		line(severityLabel(d.Severity), d.Code, d.Primary, d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			line("note", d.Code, n.Span, n.Msg)
		}
	}
	return b.String()
}

func location(fs *source.FileSet, sp source.Span) string {
	if fs == nil || int(sp.File) >= fs.Len() {
		return "<unknown>"
	}
	return fs.Position(sp)
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
