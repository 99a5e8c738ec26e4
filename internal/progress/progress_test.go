package progress

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestProgress(total int, quiet bool) (*Progress, *MockWriter, *FakeClock) {
	p := New(total, quiet)
	w := &MockWriter{}
	c := NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	p.SetOutput(w)
	p.SetClock(c)
	return p, w, c
}

func TestProgress_AddPaintsStatusLine(t *testing.T) {
	p, w, c := newTestProgress(1000, false)
	p.Start()
	c.Advance(2 * time.Second)

	p.Add(500)

	out := w.String()
	if !strings.Contains(out, "[00:02]") {
		t.Errorf("output missing elapsed time: %q", out)
	}
	if !strings.Contains(out, "500/1000 trials (50.0%)") {
		t.Errorf("output missing completion: %q", out)
	}
	if !strings.Contains(out, "250 trials/s") {
		t.Errorf("output missing rate: %q", out)
	}
	if !strings.Contains(out, "ETA") {
		t.Errorf("output missing ETA: %q", out)
	}
}

func TestProgress_QuietPrintsNothing(t *testing.T) {
	p, w, _ := newTestProgress(100, true)
	p.Start()

	p.Add(50)
	p.Printf("phase %d", 1)
	p.Print("message")
	p.Finish()

	if out := w.String(); out != "" {
		t.Errorf("quiet progress produced output: %q", out)
	}
	if p.Done() != 50 {
		t.Errorf("quiet progress lost the count: %d", p.Done())
	}
}

func TestProgress_RedrawsAreRateLimited(t *testing.T) {
	p, w, _ := newTestProgress(10000, false)
	p.Start()

	for i := 0; i < 100; i++ {
		p.Add(1)
	}

	// The limiter admits a single burst; the rest of the tight loop is
	// swallowed.
	if lines := strings.Count(w.String(), "\033[K"); lines > 2 {
		t.Errorf("expected at most 2 repaints in a tight loop, got %d", lines)
	}
	if p.Done() != 100 {
		t.Errorf("limiter dropped counts: %d", p.Done())
	}
}

func TestProgress_FinishPaintsFinalLine(t *testing.T) {
	p, w, c := newTestProgress(200, false)
	p.Start()
	c.Advance(time.Second)
	p.done.Store(200)

	p.Finish()

	out := w.String()
	if !strings.Contains(out, "200/200 trials (100.0%)") {
		t.Errorf("final line missing completion: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("final line not terminated: %q", out)
	}
	if strings.Contains(out, "ETA") {
		t.Errorf("final line still shows an ETA: %q", out)
	}

	// Finishing twice paints once.
	p.Finish()
	if second := w.String(); second != out {
		t.Errorf("second Finish added output: %q", second)
	}
}

func TestProgress_PrintClearsStatusLine(t *testing.T) {
	p, w, _ := newTestProgress(10, false)
	p.Start()

	p.Printf("running %d trials", 10)

	out := w.String()
	if !strings.HasPrefix(out, "\r\033[K") {
		t.Errorf("message does not clear the line first: %q", out)
	}
	if !strings.HasSuffix(out, "running 10 trials\n") {
		t.Errorf("unexpected message: %q", out)
	}
}

func TestProgress_ConcurrentAdds(t *testing.T) {
	p, _, _ := newTestProgress(8000, false)
	p.Start()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				p.Add(1)
			}
		}()
	}
	wg.Wait()

	if p.Done() != 8000 {
		t.Errorf("expected 8000 completed, got %d", p.Done())
	}
}
