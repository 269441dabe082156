package driver

import (
	"svelab/internal/buildpipeline"
	"svelab/internal/diag"
	"svelab/internal/elab"
	"svelab/internal/observ"
	"svelab/internal/project"
	"svelab/internal/project/dag"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/trace"
)

// Options configures one elaboration run.
type Options struct {
	Files   []string
	BaseDir string
	// Tops overrides automatic top detection.
	Tops []string
	// Params are "NAME=VALUE" overrides for every top-level instance; a
	// value that parses as a data type overrides a type parameter.
	Params     []string
	Blackboxes []elab.Blackbox
	// DefaultNetType applies at the top of every file: wire, tri, none, ...
	DefaultNetType string
	MaxDepth       int
	MaxDiagnostics int
	Jobs           int

	// NoUnused skips the never-instantiated warnings.
	NoUnused bool

	Tracer trace.Tracer
	Sink   buildpipeline.ProgressSink
	Timer  *observ.Timer
}

// ParsedFile is one design file after parsing.
type ParsedFile struct {
	Path   string
	FileID source.FileID
	Unit   *syntax.CompilationUnit
	Bag    *diag.Bag
}

// Result is everything a command needs after elaboration.
type Result struct {
	Files       *source.FileSet
	Parsed      []ParsedFile
	Bag         *diag.Bag
	Compilation *elab.Compilation
	Tops        []*elab.Instance
	Unused      []*elab.Definition
	// Order lists definitions leaf first, grouped into levels whose
	// members do not instantiate each other.
	Order   dag.Order
	Digest  project.Digest
	Digests map[string]project.Digest
	Timings observ.Report
}

// HasErrors reports whether any stage produced an error diagnostic.
func (r *Result) HasErrors() bool {
	return r != nil && r.Bag.HasErrors()
}
