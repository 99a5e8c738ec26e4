// Package batch runs many independent trials across a pool of workers and
// reduces the per-worker histograms into a single summary.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"fullset/internal/collector"
	"fullset/internal/sim"
)

// ErrInvalidTrialCount is returned by Run when asked for fewer than one
// trial. A zero-trial batch has no mean.
var ErrInvalidTrialCount = errors.New("trial count must be at least 1")

// seedStride spreads worker seeds apart so workers never start from the
// same generator state.
const seedStride = 1337

// progressBatch is how many trials a worker completes between progress
// reports and cancellation checks.
const progressBatch = 512

// Reporter receives completed-trial counts while a batch runs.
type Reporter interface {
	Add(n int)
}

type nullReporter struct{}

func (nullReporter) Add(int) {}

// Options configure a batch run.
type Options struct {
	// Trials is the number of independent trials to run. Must be >= 1.
	Trials int
	// Workers sets the parallelism. Zero or negative selects one worker
	// per CPU; the count never exceeds Trials.
	Workers int
	// Seed is the base random seed. Zero selects a time-based seed. With
	// Workers == 1 and a fixed seed a run is fully reproducible.
	Seed int64
	// Progress, when non-nil, is notified as trials complete.
	Progress Reporter
	// Trace, when non-nil, records the first few trials draw by draw.
	Trace *TraceLogger
}

// Run executes opts.Trials independent trials and aggregates their lengths.
// Trials share nothing; each worker owns a private random source and a
// private histogram, merged additively once every worker has stopped.
func Run(ctx context.Context, opts Options) (*collector.Summary, error) {
	if opts.Trials < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTrialCount, opts.Trials)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > opts.Trials {
		workers = opts.Trials
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	progress := opts.Progress
	if progress == nil {
		progress = nullReporter{}
	}

	// Split the batch evenly; the first trials%workers workers take one
	// extra so every trial is assigned.
	share := opts.Trials / workers
	extra := opts.Trials % workers

	hists := make([]*collector.Hist, workers)
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < workers; i++ {
		n := share
		if i < extra {
			n++
		}
		hist := collector.NewHist()
		hists[i] = hist

		wg.Add(1)
		go func(id, trials int) {
			defer wg.Done()
			src := sim.NewSource(seed + int64(id)*seedStride)
			runWorker(ctx, id, trials, src, hist, progress, opts.Trace)
		}(i, n)
	}
	wg.Wait()
	elapsed := time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}

	merged := collector.NewHist()
	for _, h := range hists {
		merged.Merge(h)
	}

	summary := collector.ComputeSummary(merged, elapsed)
	summary.RunID = uuid.New().String()
	return summary, nil
}

func runWorker(ctx context.Context, id, trials int, src sim.Source, hist *collector.Hist, progress Reporter, trace *TraceLogger) {
	pending := 0
	for i := 0; i < trials; i++ {
		if i%progressBatch == 0 && ctx.Err() != nil {
			return
		}

		trial := sim.Run(src)
		hist.Observe(trial.Len())
		trace.LogTrial(id, trial)

		pending++
		if pending == progressBatch {
			progress.Add(pending)
			pending = 0
		}
	}
	if pending > 0 {
		progress.Add(pending)
	}
}
