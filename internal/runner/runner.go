// Package runner fans per-file statistics jobs out across a worker pool.
package runner

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/romanian-parlamint/future-tense-usage/internal/logger"
)

// ResolveJobs converts a jobs flag value into a worker count. Positive
// values are used as-is. Negative values count down from the number of
// CPUs: -1 means all cores, -2 all but one, and so on, with a floor of
// one worker. Zero falls back to all cores.
func ResolveJobs(n int) int {
	cpus := runtime.NumCPU()
	if n > 0 {
		return n
	}
	if n == 0 {
		return cpus
	}
	workers := cpus + 1 + n
	if workers < 1 {
		workers = 1
	}
	return workers
}

// Map runs fn over every file with at most workers concurrent jobs and
// returns the results in input order. Each job is a self-contained unit
// of work over its own file; no state is shared between jobs. The first
// failing job cancels the remaining ones and aborts the whole batch — no
// retries, no partial results.
func Map[T any](ctx context.Context, files []string, workers int, fn func(string) (T, error)) ([]T, error) {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	results := make([]T, len(files))
	for i, file := range files {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			logger.Infof("Extracting statistics from %s.", file)
			result, err := fn(file)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
