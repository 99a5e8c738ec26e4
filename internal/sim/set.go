package sim

import "math/bits"

// Set tracks which prizes have been earned during a trial. Bits are only
// ever set, never cleared; a trial ends when the set is full.
type Set uint8

const fullSet = Set(1<<Count - 1)

// Add marks p as earned. Adding an already earned prize changes nothing.
func (s *Set) Add(p Prize) {
	*s |= 1 << p
}

// Has reports whether p has been earned.
func (s Set) Has(p Prize) bool {
	return s&(1<<p) != 0
}

// Count returns how many distinct prizes have been earned.
func (s Set) Count() int {
	return bits.OnesCount8(uint8(s))
}

// Full reports whether every prize has been earned.
func (s Set) Full() bool {
	return s == fullSet
}

// FirstMissing returns the lowest-indexed prize not yet earned, and false
// when the set is already full.
func (s Set) FirstMissing() (Prize, bool) {
	if s.Full() {
		return 0, false
	}
	return Prize(bits.TrailingZeros8(^uint8(s))), true
}
