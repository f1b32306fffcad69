// Package runner checks and fixes member order across many files.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/typeorder/config"
	"github.com/dhamidi/typeorder/fix"
	"github.com/dhamidi/typeorder/order"
)

// ErrFindings is returned by hosts when a check found misordered types.
var ErrFindings = errors.New("type members are not in canonical order")

// FileResult is the outcome for one file.
type FileResult struct {
	Path string
	// Diagnostics are the findings of a check, or what is left after a fix.
	Diagnostics []order.Diagnostic
	Original    []byte
	// Output is the fixed source; nil for a check.
	Output  []byte
	Passes  int
	Applied int
}

// Changed reports whether a fix rewrote the file.
func (f *FileResult) Changed() bool {
	return f.Output != nil && string(f.Output) != string(f.Original)
}

type Runner struct {
	cfg  *config.Config
	jobs int
	log  commonlog.Logger
}

func New(cfg *config.Config) *Runner {
	jobs := cfg.Run.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		cfg:  cfg,
		jobs: jobs,
		log:  commonlog.GetLogger("typeorder.runner"),
	}
}

// Check analyses every file under paths and reports the misordered types.
func (r *Runner) Check(ctx context.Context, paths []string) ([]FileResult, error) {
	analyzer := order.NewAnalyzer(r.cfg.Order(), order.ModeDiagnose)
	return r.each(ctx, paths, func(path string, src []byte) (FileResult, error) {
		diags, err := analyzer.Analyze(src, path)
		if err != nil {
			return FileResult{}, err
		}
		r.log.Debugf("%s: %d finding(s)", path, len(diags))
		return FileResult{Path: path, Diagnostics: diags, Original: src}, nil
	})
}

// Fix reorders every misordered type under paths. With write set, changed
// files are written back in place; otherwise the results only carry the
// new contents.
func (r *Runner) Fix(ctx context.Context, paths []string, write bool) ([]FileResult, error) {
	analyzer := order.NewAnalyzer(r.cfg.Order(), order.ModeRefactor)
	return r.each(ctx, paths, func(path string, src []byte) (FileResult, error) {
		res, err := fix.Converge(src, func(src []byte) ([]order.Diagnostic, error) {
			return analyzer.Analyze(src, path)
		}, r.cfg.Run.MaxPasses)
		if err != nil {
			return FileResult{}, err
		}
		for _, skipped := range res.Skipped {
			r.log.Debugf("%s: deferred fix for %s in pass %d: %s", path, skipped.TypeName, skipped.Pass, skipped.Reason)
		}
		if len(res.Remaining) > 0 {
			r.log.Warningf("%s: %d type(s) still misordered after %d pass(es)", path, len(res.Remaining), res.Passes)
		}

		result := FileResult{
			Path:        path,
			Diagnostics: res.Remaining,
			Original:    src,
			Output:      res.Output,
			Passes:      res.Passes,
			Applied:     len(res.Applied),
		}
		if write && result.Changed() {
			if err := writeFile(path, result.Output); err != nil {
				return FileResult{}, err
			}
			r.log.Infof("%s: reordered %d type(s)", path, result.Applied)
		}
		return result, nil
	})
}

// each runs fn over the discovered files in parallel. Results keep the
// discovery order. The first error cancels the files not yet started.
func (r *Runner) each(ctx context.Context, paths []string, fn func(path string, src []byte) (FileResult, error)) ([]FileResult, error) {
	files, err := Discover(paths, r.cfg.Files)
	if err != nil {
		return nil, err
	}
	r.log.Infof("analysing %d file(s) with %d job(s)", len(files), r.jobs)
	if len(files) == 0 {
		return nil, nil
	}

	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(r.jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			res, err := fn(path, src)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Findings counts the diagnostics across results.
func Findings(results []FileResult) int {
	n := 0
	for _, res := range results {
		n += len(res.Diagnostics)
	}
	return n
}
