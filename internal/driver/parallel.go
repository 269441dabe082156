package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"svelab/internal/buildpipeline"
	"svelab/internal/diag"
	"svelab/internal/dialect"
	"svelab/internal/parser"
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/token"
)

// initialDirectives maps a default net type name to the directive state
// every file starts with.
func initialDirectives(netType string) (*syntax.DirectiveState, error) {
	dirs := syntax.DefaultDirectives()
	switch netType {
	case "":
		return &dirs, nil
	case "none":
		dirs.DefaultNetType = token.Invalid
		return &dirs, nil
	}
	k, ok := token.LookupKeyword(netType)
	if !ok || !k.IsNetType() {
		return nil, fmt.Errorf("unknown default net type %q", netType)
	}
	dirs.DefaultNetType = k
	return &dirs, nil
}

// loadFiles reads every path into fs. Files that fail to load get an
// I/O diagnostic in their own bag and no FileID.
func loadFiles(fs *source.FileSet, paths []string, sink buildpipeline.ProgressSink, maxDiagnostics int) []ParsedFile {
	out := make([]ParsedFile, len(paths))
	for i, path := range paths {
		buildpipeline.Emit(sink, buildpipeline.Event{File: path, Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusWorking})
		out[i] = ParsedFile{Path: path, Bag: diag.NewBag(maxDiagnostics)}
		id, err := fs.Load(path)
		if err != nil {
			// Span пустой: файла в FileSet нет
			out[i].Bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Span{File: noFile}, "failed to load file: "+err.Error()))
			buildpipeline.Emit(sink, buildpipeline.Event{File: path, Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusError, Err: err})
			out[i].FileID = noFile
			continue
		}
		out[i].FileID = id
		buildpipeline.Emit(sink, buildpipeline.Event{File: path, Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusDone})
	}
	return out
}

// noFile marks a ParsedFile whose content never made it into the FileSet.
const noFile = source.FileID(^uint32(0))

// parseFiles parses loaded files in parallel. Each goroutine writes only
// its own slot, so results need no lock; the FileSet is read-only here.
func parseFiles(ctx context.Context, fs *source.FileSet, files []ParsedFile, dirs *syntax.DirectiveState, opts Options) error {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if len(files) == 0 {
		return nil
	}

	maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
	if err != nil {
		return fmt.Errorf("max diagnostics: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i := range files {
		if files[i].FileID == noFile {
			continue
		}
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			pf := &files[i]
			start := time.Now()
			buildpipeline.Emit(opts.Sink, buildpipeline.Event{File: pf.Path, Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})

			// у каждого файла своя копия состояния директив
			initial := *dirs
			res := parser.ParseFile(fs.Get(pf.FileID), parser.Options{
				Reporter:   diag.BagReporter{Bag: pf.Bag},
				MaxErrors:  maxErrors,
				Directives: &initial,
			})
			pf.Unit = res.Unit

			status := buildpipeline.StatusDone
			if pf.Bag.HasErrors() {
				status = buildpipeline.StatusError
				// может, это вообще не SystemVerilog
				dialect.Check(fs.Get(pf.FileID), diag.BagReporter{Bag: pf.Bag})
			}
			buildpipeline.Emit(opts.Sink, buildpipeline.Event{File: pf.Path, Stage: buildpipeline.StageParse, Status: status, Elapsed: time.Since(start)})
			return nil
		})
	}
	return g.Wait()
}
