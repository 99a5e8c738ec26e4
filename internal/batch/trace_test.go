package batch

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"fullset/internal/sim"
)

func TestTraceLogger_NilIsSilent(t *testing.T) {
	var l *TraceLogger
	l.LogTrial(0, sim.Trial{sim.First, sim.Second})

	if l.Logged() != 0 {
		t.Errorf("nil logger reported %d trials", l.Logged())
	}
}

func TestTraceLogger_PrintsDrawSequence(t *testing.T) {
	var buf bytes.Buffer
	l := NewTraceLogger(&buf)

	l.LogTrial(3, sim.Trial{sim.Second, sim.Second, sim.Eighth})

	out := buf.String()
	if !strings.Contains(out, "[worker 3]") {
		t.Errorf("output missing worker tag: %q", out)
	}
	if !strings.Contains(out, "3 draws") {
		t.Errorf("output missing draw count: %q", out)
	}
	if !strings.Contains(out, "2 2 8") {
		t.Errorf("output missing one-based draw sequence: %q", out)
	}
}

func TestTraceLogger_StopsAtCap(t *testing.T) {
	var buf bytes.Buffer
	l := NewTraceLogger(&buf)

	trial := sim.Trial{sim.First}
	for i := 0; i < maxTracedTrials*3; i++ {
		l.LogTrial(0, trial)
	}

	if l.Logged() != maxTracedTrials {
		t.Errorf("expected %d logged trials, got %d", maxTracedTrials, l.Logged())
	}
	if lines := strings.Count(buf.String(), "\n"); lines != maxTracedTrials {
		t.Errorf("expected %d output lines, got %d", maxTracedTrials, lines)
	}
}

func TestTraceLogger_ConcurrentUse(t *testing.T) {
	var buf bytes.Buffer
	l := NewTraceLogger(&buf)
	trial := sim.Trial{sim.First, sim.Second}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				l.LogTrial(id, trial)
			}
		}(w)
	}
	wg.Wait()

	if l.Logged() != maxTracedTrials {
		t.Errorf("expected %d logged trials, got %d", maxTracedTrials, l.Logged())
	}
}
