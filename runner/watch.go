package runner

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Watcher polls a set of paths and re-checks the files whose modification
// time changed since the previous poll.
type Watcher struct {
	runner   *Runner
	paths    []string
	interval time.Duration
	modTimes map[string]time.Time
}

func (r *Runner) NewWatcher(paths []string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		runner:   r,
		paths:    paths,
		interval: interval,
		modTimes: make(map[string]time.Time),
	}
}

// Run polls until ctx is done, calling report with the results of every
// poll that found new or modified files. The first poll checks every file.
func (w *Watcher) Run(ctx context.Context, report func([]FileResult)) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		results, err := w.Scan(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if len(results) > 0 {
			report(results)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Scan performs a single poll and checks the files that changed.
func (w *Watcher) Scan(ctx context.Context) ([]FileResult, error) {
	files, err := Discover(w.paths, w.runner.cfg.Files)
	if err != nil {
		return nil, err
	}

	current := make(map[string]bool, len(files))
	var changed []string
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			// Deleted between discovery and stat.
			continue
		}
		current[path] = true

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			changed = append(changed, path)
		}
	}

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			w.runner.log.Debugf("%s: removed", path)
		}
	}

	if len(changed) == 0 {
		return nil, nil
	}
	w.runner.log.Infof("%d file(s) changed", len(changed))
	results, err := w.runner.Check(ctx, changed)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	return results, nil
}
