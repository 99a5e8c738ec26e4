// Package progress prints a live single-line status for a running batch.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"fullset/internal/collector"
)

// redrawsPerSec bounds how often Add repaints the status line. Workers call
// Add far more often than a terminal can usefully update.
const redrawsPerSec = 10

// Progress tracks completed trials and keeps one overwriting status line on
// its output. Safe for concurrent use; workers call Add, the driver calls
// Start and Finish.
type Progress struct {
	total   int
	quiet   bool
	clock   Clock
	limiter *rate.Limiter

	done     atomic.Int64
	finished atomic.Bool

	mu     sync.Mutex
	output io.Writer
	start  time.Time
}

// New returns a Progress for a batch of total trials, writing to stderr.
func New(total int, quiet bool) *Progress {
	return &Progress{
		total:   total,
		quiet:   quiet,
		clock:   RealClock{},
		limiter: rate.NewLimiter(rate.Limit(redrawsPerSec), 1),
		output:  os.Stderr,
	}
}

// SetOutput redirects the status line, for tests.
func (p *Progress) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = w
}

// SetClock substitutes the time source, for tests.
func (p *Progress) SetClock(c Clock) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = c
}

// Start records the batch start time.
func (p *Progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.start = p.clock.Now()
}

// Add records n more completed trials and repaints the status line if the
// redraw limiter allows it. Implements batch.Reporter.
func (p *Progress) Add(n int) {
	if n <= 0 {
		return
	}
	done := p.done.Add(int64(n))
	if p.quiet || p.finished.Load() {
		return
	}
	if !p.limiter.Allow() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printLine(done, false)
}

// Done returns how many trials have completed so far.
func (p *Progress) Done() int {
	return int(p.done.Load())
}

// Finish paints a final status line and moves past it. Further Add calls
// still count but no longer print.
func (p *Progress) Finish() {
	if p.finished.Swap(true) || p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printLine(p.done.Load(), true)
}

// printLine paints the status line in place. Callers hold p.mu.
func (p *Progress) printLine(done int64, last bool) {
	elapsed := p.clock.Since(p.start)
	pct := 0.0
	if p.total > 0 {
		pct = float64(done) / float64(p.total) * 100
	}

	perSec := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		perSec = float64(done) / secs
	}

	eta := ""
	if remaining := int64(p.total) - done; remaining > 0 && perSec > 0 {
		d := time.Duration(float64(remaining)/perSec*1000) * time.Millisecond
		eta = " | ETA " + collector.FormatDuration(d)
	}

	mins := int(elapsed.Minutes())
	secs := int(elapsed.Seconds()) % 60
	fmt.Fprintf(p.output, "\r\033[K[%02d:%02d] %d/%d trials (%.1f%%) | %.0f trials/s%s",
		mins, secs, done, p.total, pct, perSec, eta)
	if last {
		fmt.Fprintln(p.output)
	}
}

// Print writes a message on its own line, clearing any status line first.
func (p *Progress) Print(message string) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.output, "\r\033[K%s\n", message)
}

// Printf formats a message on its own line, clearing any status line first.
func (p *Progress) Printf(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.output, "\r\033[K"+format+"\n", args...)
}
