package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"lualint/internal/diag"
)

// CheckFiles lints jobs with at most workers goroutines. Results come
// back in job order regardless of completion order, and the run totals
// are folded in deterministically afterwards. workers <= 0 picks
// GOMAXPROCS.
func (c *Checker) CheckFiles(ctx context.Context, jobs []FileJob, opts Options, workers int) ([]Result, diag.RunTotals, error) {
	sink := opts.Progress
	if sink == nil {
		sink = nopSink{}
	}
	if len(jobs) == 0 {
		return nil, diag.RunTotals{}, nil
	}
	for _, job := range jobs {
		sink.OnEvent(Event{File: job.Path, Stage: StageCompile, Status: StatusQueued})
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(jobs)))
	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = c.CheckFile(gctx, job, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, diag.RunTotals{}, err
	}

	var totals diag.RunTotals
	for i := range results {
		totals.AddFile(results[i].Bag)
	}
	return results, totals, nil
}
