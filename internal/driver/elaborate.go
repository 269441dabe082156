package driver

import (
	"context"
	"fmt"
	"time"

	"svelab/internal/buildpipeline"
	"svelab/internal/diag"
	"svelab/internal/elab"
	"svelab/internal/project/dag"
	"svelab/internal/source"
	"svelab/internal/trace"
	"svelab/internal/types"
)

const defaultMaxDiagnostics = 100

// Elaborate loads and parses opts.Files, then elaborates the design. The
// returned error covers configuration problems only; everything wrong
// with the design itself is in Result.Bag.
func Elaborate(ctx context.Context, opts Options) (*Result, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = defaultMaxDiagnostics
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	dirs, err := initialDirectives(opts.DefaultNetType)
	if err != nil {
		return nil, err
	}

	root := trace.Begin(tracer, trace.ScopeDriver, "elaborate", trace.CurrentSpan(ctx).SpanID)
	defer root.End("")

	fs := source.NewFileSetWithBase(opts.BaseDir)
	res := &Result{Files: fs, Bag: diag.NewBag(opts.MaxDiagnostics)}

	overrides, err := ParseOverrides(fs, opts.Params)
	if err != nil {
		return nil, err
	}

	done := opts.Timer.Track("load")
	res.Parsed = loadFiles(fs, opts.Files, opts.Sink, opts.MaxDiagnostics)
	done(fmt.Sprintf("%d files", len(opts.Files)))

	done = opts.Timer.Track("parse")
	span := trace.Begin(tracer, trace.ScopePass, "parse", root.ID())
	err = parseFiles(ctx, fs, res.Parsed, dirs, opts)
	span.End("")
	done("")
	if err != nil {
		return nil, err
	}
	for _, pf := range res.Parsed {
		res.Bag.Merge(pf.Bag)
	}

	done = opts.Timer.Track("elaborate")
	span = trace.Begin(tracer, trace.ScopePass, "elaborate", root.ID())
	start := time.Now()
	buildpipeline.Emit(opts.Sink, buildpipeline.Event{Stage: buildpipeline.StageElaborate, Status: buildpipeline.StatusWorking})
	comp := elab.NewCompilation(types.NewInterner(), diag.BagReporter{Bag: res.Bag}, elab.Options{
		Tops:      opts.Tops,
		Overrides: overrides,
		MaxDepth:  opts.MaxDepth,
		Tracer:    tracer,
	})
	for _, bb := range opts.Blackboxes {
		comp.AddBlackbox(bb)
	}
	for _, pf := range res.Parsed {
		if pf.Unit != nil {
			comp.AddUnit(pf.Unit)
		}
	}
	res.Compilation = comp
	res.Tops = comp.Elaborate()
	if !opts.NoUnused {
		res.Unused = comp.ReportUnused()
	}
	status := buildpipeline.StatusDone
	if res.Bag.HasErrors() {
		status = buildpipeline.StatusError
	}
	buildpipeline.Emit(opts.Sink, buildpipeline.Event{Stage: buildpipeline.StageElaborate, Status: status, Elapsed: time.Since(start)})
	span.End("")
	stats := comp.Stats()
	done(fmt.Sprintf("%d instances, %d bodies", stats.Instances, stats.Bodies))

	done = opts.Timer.Track("order")
	deps := comp.Dependencies()
	res.Order = dag.Sort(deps)
	res.Digests = definitionDigests(comp, fs, deps, res.Order)
	res.Digest = designDigest(fs, res.Parsed, opts.Params)
	done(fmt.Sprintf("%d levels", len(res.Order.Levels)))

	res.Bag.Sort()
	res.Timings = opts.Timer.Report()
	return res, nil
}
