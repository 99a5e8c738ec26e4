package sim

import "testing"

func TestSet_ZeroValue(t *testing.T) {
	var s Set
	if s.Count() != 0 {
		t.Errorf("expected empty set, got %d earned", s.Count())
	}
	if s.Full() {
		t.Error("empty set reported full")
	}
	if missing, ok := s.FirstMissing(); !ok || missing != First {
		t.Errorf("expected first missing %v, got %v (ok=%v)", First, missing, ok)
	}
}

func TestSet_AddIsIdempotent(t *testing.T) {
	var s Set
	s.Add(Third)
	s.Add(Third)

	if !s.Has(Third) {
		t.Error("expected Third to be earned")
	}
	if s.Has(Second) {
		t.Error("Second earned without being added")
	}
	if s.Count() != 1 {
		t.Errorf("expected count 1, got %d", s.Count())
	}
}

func TestSet_FirstMissingSkipsEarned(t *testing.T) {
	var s Set
	s.Add(First)
	s.Add(Second)
	s.Add(Fourth)

	if missing, ok := s.FirstMissing(); !ok || missing != Third {
		t.Errorf("expected %v missing, got %v (ok=%v)", Third, missing, ok)
	}
}

func TestSet_Full(t *testing.T) {
	var s Set
	for _, p := range Prizes() {
		s.Add(p)
	}

	if !s.Full() {
		t.Fatalf("expected full set, count %d", s.Count())
	}
	if _, ok := s.FirstMissing(); ok {
		t.Error("full set reported a missing prize")
	}
}
