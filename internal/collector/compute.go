package collector

import (
	"math"
	"time"

	"fullset/internal/sim"
)

// LengthStats summarizes the distribution of trial lengths in a batch.
type LengthStats struct {
	Min  int
	Max  int
	Mean float64
	P50  int
	P90  int
	P95  int
	P99  int
}

// Summary is the result of one batch run: the aggregate statistics plus the
// full histogram. It is the only data handed to formatters, renderers and
// the run store.
type Summary struct {
	RunID        string
	Trials       int
	Lengths      LengthStats
	Histogram    map[int]int
	ExpectedMean float64
	Elapsed      time.Duration
	TrialsPerSec float64
}

// ComputeSummary reduces a histogram to a Summary. Pure function, no side
// effects; the caller assigns RunID. A histogram with no observations yields
// a zero Summary rather than dividing by zero.
func ComputeSummary(h *Hist, elapsed time.Duration) *Summary {
	s := &Summary{
		Trials:       h.Total(),
		Histogram:    h.Map(),
		ExpectedMean: sim.ExpectedMeanLength(),
		Elapsed:      elapsed,
	}
	if s.Trials == 0 {
		return s
	}

	sum := 0
	min := -1
	max := 0
	for length, count := range h.counts {
		if count == 0 {
			continue
		}
		sum += length * count
		if min < 0 {
			min = length
		}
		max = length
	}

	s.Lengths = LengthStats{
		Min:  min,
		Max:  max,
		Mean: float64(sum) / float64(s.Trials),
		P50:  h.percentile(50),
		P90:  h.percentile(90),
		P95:  h.percentile(95),
		P99:  h.percentile(99),
	}
	if elapsed > 0 {
		s.TrialsPerSec = float64(s.Trials) / elapsed.Seconds()
	}
	return s
}

// percentile returns the smallest length whose cumulative count covers the
// given fraction of trials (nearest rank).
func (h *Hist) percentile(p float64) int {
	if h.total == 0 {
		return 0
	}
	rank := int(math.Ceil(p / 100 * float64(h.total)))
	if rank < 1 {
		rank = 1
	}
	seen := 0
	for length, count := range h.counts {
		seen += count
		if count > 0 && seen >= rank {
			return length
		}
	}
	return sim.MaxTrialLen
}
