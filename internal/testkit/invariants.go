// Package testkit holds checks shared by parser tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"svelab/internal/source"
	"svelab/internal/syntax"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) every member span points into sf and lies within its content
// 2) members of one list start in source order
// 3) members of a design unit lie within the unit's span
func CheckSpanInvariants(unit *syntax.CompilationUnit, sf *source.File) error {
	if unit == nil || sf == nil {
		return fmt.Errorf("nil unit or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	whole := source.Span{File: sf.ID, Start: 0, End: lenContent}
	return checkMembers(unit.Members, whole, sf.ID)
}

func checkMembers(ms []syntax.Member, outer source.Span, id source.FileID) error {
	var prev uint32
	for i, m := range ms {
		sp := m.Span()
		if sp.File != id {
			return fmt.Errorf("%v span file mismatch: got=%d want=%d", m.Kind(), sp.File, id)
		}
		if sp.End < sp.Start {
			return fmt.Errorf("%v span is inverted: %v", m.Kind(), sp)
		}
		if sp.Start < outer.Start || sp.End > outer.End {
			return fmt.Errorf("%v span %v is outside %v", m.Kind(), sp, outer)
		}
		if i > 0 && sp.Start < prev {
			return fmt.Errorf("%v at %d starts before the previous member at %d", m.Kind(), sp.Start, prev)
		}
		prev = sp.Start

		switch x := m.(type) {
		case *syntax.ModuleDeclaration:
			if err := checkMembers(x.Members, sp, id); err != nil {
				return fmt.Errorf("module %s: %w", x.Name.Text, err)
			}
		case *syntax.GenerateRegion:
			if err := checkMembers(x.Members, sp, id); err != nil {
				return err
			}
		}
	}
	return nil
}
