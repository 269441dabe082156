package lint

import (
	"slices"

	"svelab/internal/elab"
	"svelab/internal/source"
)

// Facts is the lint input: a flat view of an elaborated design.
type Facts struct {
	Instances      []InstanceFact   `json:"instances"`
	Arrays         []ArrayFact      `json:"arrays"`
	UnknownModules []UnknownFact    `json:"unknown_modules"`
	Unused         []DefinitionFact `json:"unused"`
	Ports          []PortFact       `json:"ports"`
	Stats          StatsFact        `json:"stats"`
}

type InstanceFact struct {
	Path           string `json:"path"`
	Definition     string `json:"definition"`
	Body           uint32 `json:"body"`
	Uninstantiated bool   `json:"uninstantiated"`
	File           string `json:"file"`
	Line           int    `json:"line"`
}

// ArrayFact describes an outermost instance array; Size counts the
// elements across all dimensions.
type ArrayFact struct {
	Path       string `json:"path"`
	Definition string `json:"definition"`
	Size       int    `json:"size"`
	File       string `json:"file"`
	Line       int    `json:"line"`
}

type UnknownFact struct {
	Path    string `json:"path"`
	Module  string `json:"module"`
	Checker bool   `json:"checker"`
	File    string `json:"file"`
	Line    int    `json:"line"`
}

type DefinitionFact struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// PortFact is one port connection of a non-top instance.
type PortFact struct {
	Instance   string `json:"instance"`
	Port       string `json:"port"`
	Direction  string `json:"direction"`
	Connection string `json:"connection"`
	File       string `json:"file"`
	Line       int    `json:"line"`
}

type StatsFact struct {
	Definitions   int `json:"definitions"`
	Bodies        int `json:"bodies"`
	BodyCacheHits int `json:"body_cache_hits"`
	Instances     int `json:"instances"`
}

// Collect walks the hierarchy below tops. unused lists the definitions
// that were never instantiated.
func Collect(comp *elab.Compilation, tops []*elab.Instance, unused []*elab.Definition, fs *source.FileSet) Facts {
	f := Facts{
		Instances:      []InstanceFact{},
		Arrays:         []ArrayFact{},
		UnknownModules: []UnknownFact{},
		Unused:         []DefinitionFact{},
		Ports:          []PortFact{},
	}
	for _, top := range tops {
		elab.Walk(top, func(path string, s elab.Symbol) bool {
			switch x := s.(type) {
			case *elab.Instance:
				file, line := locate(fs, x.Span())
				f.Instances = append(f.Instances, InstanceFact{
					Path:           path,
					Definition:     x.Body.Definition.Name,
					Body:           uint32(x.Body.ID()),
					Uninstantiated: x.Body.IsUninstantiated(),
					File:           file,
					Line:           line,
				})
				if x.Parent != nil {
					x.ForEachPortConnection(func(pc *elab.PortConnection) bool {
						pfile, pline := locate(fs, pc.Span)
						if pc.Span.Empty() {
							pfile, pline = file, line
						}
						f.Ports = append(f.Ports, PortFact{
							Instance:   path,
							Port:       pc.Port.Name(),
							Direction:  pc.Port.DirectionString(),
							Connection: pc.Kind.String(),
							File:       pfile,
							Line:       pline,
						})
						return true
					})
				}
			case *elab.InstanceArray:
				if x.ParentArray == nil {
					file, line := locate(fs, x.Span())
					af := ArrayFact{Path: path, Size: 1, File: file, Line: line}
					if x.Definition != nil {
						af.Definition = x.Definition.Name
					}
					if !x.Valid {
						af.Size = 0
					}
					for _, r := range x.ArrayDimensions() {
						af.Size *= r.Len()
					}
					f.Arrays = append(f.Arrays, af)
				}
			case *elab.UnknownModule:
				file, line := locate(fs, x.Span())
				f.UnknownModules = append(f.UnknownModules, UnknownFact{
					Path:    path,
					Module:  x.ModuleName,
					Checker: x.IsChecker(),
					File:    file,
					Line:    line,
				})
			}
			return true
		})
	}
	for _, d := range unused {
		file, line := locate(fs, d.Span)
		f.Unused = append(f.Unused, DefinitionFact{Name: d.Name, Kind: d.KindString(), File: file, Line: line})
	}
	slices.SortFunc(f.Unused, func(a, b DefinitionFact) int {
		if a.File != b.File {
			if a.File < b.File {
				return -1
			}
			return 1
		}
		return a.Line - b.Line
	})
	st := comp.Stats()
	f.Stats = StatsFact{
		Definitions:   st.Definitions,
		Bodies:        st.Bodies,
		BodyCacheHits: st.BodyCacheHits,
		Instances:     st.Instances,
	}
	return f
}

func locate(fs *source.FileSet, sp source.Span) (string, int) {
	if fs == nil || int(sp.File) >= fs.Len() {
		return "", 0
	}
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return f.FormatPath("relative", fs.BaseDir()), int(start.Line)
}
