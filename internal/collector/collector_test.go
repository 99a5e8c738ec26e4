package collector

import (
	"reflect"
	"testing"

	"fullset/internal/sim"
)

func TestHist_ObserveCounts(t *testing.T) {
	h := NewHist()
	for _, length := range []int{8, 8, 10, 32} {
		h.Observe(length)
	}

	if h.Total() != 4 {
		t.Errorf("expected 4 observations, got %d", h.Total())
	}
	if h.Count(8) != 2 {
		t.Errorf("expected 2 trials of length 8, got %d", h.Count(8))
	}
	if h.Count(10) != 1 {
		t.Errorf("expected 1 trial of length 10, got %d", h.Count(10))
	}
	if h.Count(9) != 0 {
		t.Errorf("expected empty bucket 9, got %d", h.Count(9))
	}
}

func TestHist_Merge(t *testing.T) {
	a := NewHist()
	a.Observe(8)
	a.Observe(10)

	b := NewHist()
	b.Observe(10)
	b.Observe(sim.MaxTrialLen)

	a.Merge(b)

	if a.Total() != 4 {
		t.Errorf("expected total 4 after merge, got %d", a.Total())
	}
	if a.Count(10) != 2 {
		t.Errorf("expected 2 trials of length 10, got %d", a.Count(10))
	}
	if a.Count(sim.MaxTrialLen) != 1 {
		t.Errorf("expected 1 trial of length %d, got %d", sim.MaxTrialLen, a.Count(sim.MaxTrialLen))
	}
	if b.Total() != 2 {
		t.Errorf("merge modified the source histogram: total %d", b.Total())
	}
}

func TestHist_MergeOrderIrrelevant(t *testing.T) {
	partials := [][]int{{8, 9}, {9, 9, 30}, {12}}

	forward := NewHist()
	backward := NewHist()
	for i := range partials {
		fw := NewHist()
		for _, length := range partials[i] {
			fw.Observe(length)
		}
		forward.Merge(fw)

		bw := NewHist()
		for _, length := range partials[len(partials)-1-i] {
			bw.Observe(length)
		}
		backward.Merge(bw)
	}

	if !reflect.DeepEqual(forward.Map(), backward.Map()) {
		t.Errorf("merge order changed the result: %v vs %v", forward.Map(), backward.Map())
	}
}

func TestHist_MapSkipsEmptyBuckets(t *testing.T) {
	h := NewHist()
	h.Observe(8)
	h.Observe(8)
	h.Observe(15)

	want := map[int]int{8: 2, 15: 1}
	if got := h.Map(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestHist_CountOutOfRange(t *testing.T) {
	h := NewHist()
	h.Observe(8)

	if h.Count(-1) != 0 || h.Count(sim.MaxTrialLen+1) != 0 {
		t.Error("expected zero for out-of-range buckets")
	}
}
