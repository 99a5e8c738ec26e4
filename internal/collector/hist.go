// Package collector aggregates trial lengths into a histogram and reduces
// them to the summary statistics a batch run reports.
package collector

import (
	"fmt"

	"fullset/internal/sim"
)

// Hist counts completed trials by length. Buckets cover every length the
// simulator can produce. A Hist is not safe for concurrent use; each worker
// owns one and the partials are combined with Merge after the workers stop.
type Hist struct {
	counts [sim.MaxTrialLen + 1]int
	total  int
}

// NewHist returns an empty histogram.
func NewHist() *Hist {
	return &Hist{}
}

// Observe records one completed trial of the given length.
func (h *Hist) Observe(length int) {
	if length < 0 || length >= len(h.counts) {
		panic(fmt.Sprintf("collector: trial length %d out of range", length))
	}
	h.counts[length]++
	h.total++
}

// Merge folds other into h. Merging is additive, so the order in which
// worker partials arrive does not matter.
func (h *Hist) Merge(other *Hist) {
	for length, count := range other.counts {
		h.counts[length] += count
	}
	h.total += other.total
}

// Total returns the number of trials observed.
func (h *Hist) Total() int {
	return h.total
}

// Count returns the number of trials of exactly the given length.
func (h *Hist) Count(length int) int {
	if length < 0 || length >= len(h.counts) {
		return 0
	}
	return h.counts[length]
}

// Map returns the non-empty buckets as a length to count mapping.
func (h *Hist) Map() map[int]int {
	m := make(map[int]int)
	for length, count := range h.counts {
		if count > 0 {
			m[length] = count
		}
	}
	return m
}
