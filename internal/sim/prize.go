// Package sim implements the prize-draw trial: drawing from a fixed pool of
// eight equally likely prizes until every one has been earned at least once.
package sim

import "fmt"

// Prize identifies one of the eight possible draw results. The zero value is
// the first prize.
type Prize uint8

const (
	First Prize = iota
	Second
	Third
	Fourth
	Fifth
	Sixth
	Seventh
	Eighth
)

// Count is the number of distinct prizes in the pool.
const Count = 8

var prizeNames = [Count]string{
	"first", "second", "third", "fourth", "fifth", "sixth", "seventh", "eighth",
}

// String returns a label like "third prize".
func (p Prize) String() string {
	if int(p) >= Count {
		return fmt.Sprintf("prize(%d)", uint8(p))
	}
	return prizeNames[p] + " prize"
}

// Index returns the dense index of p in [0, Count).
func (p Prize) Index() int {
	return int(p)
}

// FromIndex converts a dense index back into a Prize.
func FromIndex(i int) (Prize, error) {
	if i < 0 || i >= Count {
		return 0, fmt.Errorf("prize index out of range: %d", i)
	}
	return Prize(i), nil
}

// Prizes returns all prizes in index order.
func Prizes() []Prize {
	all := make([]Prize, Count)
	for i := range all {
		all[i] = Prize(i)
	}
	return all
}

// Sample draws one prize uniformly at random from src.
func Sample(src Source) Prize {
	return Prize(src.Intn(Count))
}
