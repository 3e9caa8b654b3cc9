// Package batch evaluates independent calculator scripts in parallel, each
// in a fresh engine.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"exactcalc/internal/calc"
	"exactcalc/internal/observ"
	"exactcalc/internal/trace"
)

// ScriptExt is the extension collected from directories.
const ScriptExt = ".dc"

// Request describes a batch run.
type Request struct {
	Files []string
	// Jobs bounds concurrent scripts; GOMAXPROCS when not positive.
	Jobs int
	// Setup prepares each fresh engine, for example with the configured
	// precision and constants.
	Setup func(*calc.Engine) error
	// FailFast cancels the remaining scripts after the first failure.
	FailFast bool
	Progress ProgressSink
	Timer    *observ.Timer
}

// FileResult is the outcome of one script.
type FileResult struct {
	File    string
	Output  string
	Stack   []calc.Value
	Err     error
	Elapsed time.Duration
}

// Result holds per-file results in input order.
type Result struct {
	Files   []FileResult
	Failed  int
	Elapsed time.Duration
}

// Run evaluates every file of req. Script failures are reported per file;
// the returned error is non-nil only when the run itself was cut short by
// cancellation or FailFast.
func Run(ctx context.Context, req *Request) (Result, error) {
	if req == nil {
		return Result{}, errors.New("missing batch request")
	}
	start := time.Now()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "batch", trace.ParentSpan(ctx))
	ctx = trace.WithParent(ctx, span.ID())

	results := make([]FileResult, len(req.Files))
	for i, file := range req.Files {
		results[i].File = file
		emit(req.Progress, Event{File: file, Status: StatusQueued})
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(req.Files))))
	for i, file := range req.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			emit(req.Progress, Event{File: file, Status: StatusWorking})
			res := runScript(gctx, req, file)
			results[i] = res
			req.Timer.Record("script "+filepath.Base(file), res.Elapsed, statusNote(res.Err))
			if res.Err != nil {
				emit(req.Progress, Event{File: file, Status: StatusError, Err: res.Err, Elapsed: res.Elapsed})
				if req.FailFast {
					return fmt.Errorf("%s: %w", file, res.Err)
				}
				return nil
			}
			emit(req.Progress, Event{File: file, Status: StatusDone, Elapsed: res.Elapsed})
			return nil
		})
	}
	err := g.Wait()

	out := Result{Files: results, Elapsed: time.Since(start)}
	for _, r := range results {
		if r.Err != nil {
			out.Failed++
		}
	}
	span.WithExtra("files", strconv.Itoa(len(results))).
		WithExtra("failed", strconv.Itoa(out.Failed)).
		End("")
	if err != nil {
		emit(req.Progress, Event{Status: StatusError, Err: err, Elapsed: out.Elapsed})
		return out, err
	}
	emit(req.Progress, Event{Status: StatusDone, Elapsed: out.Elapsed})
	return out, nil
}

func runScript(ctx context.Context, req *Request, file string) FileResult {
	started := time.Now()
	res := FileResult{File: file}
	var buf bytes.Buffer
	engine := calc.New(&buf)
	err := func() error {
		if req.Setup != nil {
			if err := req.Setup(engine); err != nil {
				return err
			}
		}
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		return engine.Eval(ctx, file, f)
	}()
	res.Output = buf.String()
	res.Stack = engine.Stack()
	res.Err = err
	res.Elapsed = time.Since(started)
	return res
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

func statusNote(err error) string {
	if err != nil {
		return "error"
	}
	return ""
}

// CollectFiles expands directories into their *.dc scripts (sorted) and
// keeps plain file arguments as given.
func CollectFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ScriptExt) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		slices.Sort(found)
		files = append(files, found...)
	}
	return files, nil
}
