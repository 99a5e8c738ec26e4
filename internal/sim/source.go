package sim

import "math/rand"

// Source supplies the randomness for trials. *rand.Rand satisfies it; tests
// substitute scripted sources to pin draw sequences down exactly.
type Source interface {
	// Intn returns a uniform value in [0, n). Panics if n <= 0.
	Intn(n int) int
}

// NewSource returns a pseudo-random source seeded with the given value. The
// same seed always yields the same draw sequence. The returned source is not
// safe for concurrent use; give each worker its own.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}
