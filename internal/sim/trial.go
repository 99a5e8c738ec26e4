package sim

// uniformDrawLimit caps the uniform phase of a trial. While the sequence is
// shorter than this, draws come uniformly at random and may repeat earned
// prizes. Past it a uniform draw would almost surely repeat, so the
// remaining gaps are filled deterministically instead, lowest index first.
// The cutoff bounds every trial at MaxTrialLen draws.
const uniformDrawLimit = 25

// MinTrialLen and MaxTrialLen bound the length of any trial: a perfect run
// earns all eight prizes in eight draws, and past the uniform phase at most
// seven prizes can still be missing, each resolved in one draw.
const (
	MinTrialLen = Count
	MaxTrialLen = uniformDrawLimit + Count - 1
)

// Trial is the ordered sequence of prizes drawn during one completed trial.
// It is not modified after Run returns it.
type Trial []Prize

// Len returns the number of draws the trial took.
func (t Trial) Len() int {
	return len(t)
}

// Run performs one trial: prizes are drawn from src and recorded until every
// distinct prize has appeared at least once. The operation cannot fail and
// always terminates within MaxTrialLen draws.
func Run(src Source) Trial {
	var earned Set
	draws := make(Trial, 0, MaxTrialLen)
	for !earned.Full() {
		var p Prize
		if len(draws) < uniformDrawLimit {
			p = Sample(src)
		} else {
			missing, ok := earned.FirstMissing()
			if !ok {
				// The loop condition guarantees a missing prize here.
				panic("sim: deterministic draw with no prize missing")
			}
			p = missing
		}
		earned.Add(p)
		draws = append(draws, p)
	}
	return draws
}

// ExpectedMeanLength returns the mean draw count of this drawing policy,
// computed exactly from the completion probabilities of the uniform phase
// plus the one-draw-per-missing-prize finish. For eight prizes the value is
// about 19.84; the uncapped collect-them-all expectation (eight times the
// eighth harmonic number, about 21.74) does not apply because roughly a
// quarter of all trials reach the deterministic phase.
func ExpectedMeanLength() float64 {
	// state[c] holds the probability that a still-running trial has earned
	// c distinct prizes after t draws.
	var state [Count + 1]float64
	state[0] = 1
	mean := 0.0
	for t := 1; t <= uniformDrawLimit; t++ {
		var next [Count + 1]float64
		for c := 0; c < Count; c++ {
			if state[c] == 0 {
				continue
			}
			pNew := float64(Count-c) / Count
			next[c+1] += state[c] * pNew
			next[c] += state[c] * (1 - pNew)
		}
		mean += float64(t) * next[Count]
		next[Count] = 0
		state = next
	}
	for c := 0; c < Count; c++ {
		mean += state[c] * float64(uniformDrawLimit+Count-c)
	}
	return mean
}
