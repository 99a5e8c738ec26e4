package batch

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"fullset/internal/sim"
)

// maxTracedTrials caps how many trials a TraceLogger prints per run. A
// million-trial batch in verbose mode should show a sample, not a flood.
const maxTracedTrials = 10

// TraceLogger prints the draw-by-draw sequence of the first few completed
// trials. A nil TraceLogger is valid and logs nothing, so callers never
// guard their log calls.
type TraceLogger struct {
	out    io.Writer
	mu     sync.Mutex
	logged int
}

// NewTraceLogger returns a logger writing to out.
func NewTraceLogger(out io.Writer) *TraceLogger {
	return &TraceLogger{out: out}
}

// LogTrial records one completed trial. After the cap is reached it becomes
// a no-op.
func (l *TraceLogger) LogTrial(workerID int, trial sim.Trial) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logged >= maxTracedTrials {
		return
	}
	l.logged++

	indexes := make([]string, trial.Len())
	for i, p := range trial {
		indexes[i] = fmt.Sprintf("%d", p.Index()+1)
	}
	fmt.Fprintf(l.out, "[worker %d] trial %d: %d draws: %s\n",
		workerID, l.logged, trial.Len(), strings.Join(indexes, " "))
}

// Logged returns how many trials have been printed.
func (l *TraceLogger) Logged() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logged
}
