// Package render draws batch results: a terminal histogram, plain-text
// tables and the PNG chart artifact.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// The fixed histogram axis. Trial lengths live in [8, 32]; the reference
// chart leaves headroom above the maximum, so empty rows up to 35 render
// as empty rather than being dropped.
const (
	axisMin = 8
	axisMax = 35
)

const (
	minBarWidth        = 10
	defaultTerminalCol = 80
	colorBar           = "\x1b[34m"
	colorReset         = "\x1b[0m"
)

// HistogramOptions adjust the terminal histogram.
type HistogramOptions struct {
	// Width is the total output width in columns. Zero detects the
	// terminal width, falling back to 80.
	Width int
	// ForceColor colors the bars even when w is not a terminal.
	ForceColor bool
}

// Histogram writes a horizontal bar chart of trial-length counts covering
// the full axis range. Bars are scaled against the modal bucket.
func Histogram(w io.Writer, hist map[int]int, opts HistogramOptions) error {
	total := 0
	modal := 0
	for length, count := range hist {
		if length < axisMin || length > axisMax {
			return fmt.Errorf("histogram key %d outside axis [%d, %d]", length, axisMin, axisMax)
		}
		total += count
		if count > modal {
			modal = count
		}
	}
	if total == 0 {
		_, err := fmt.Fprintln(w, "no trials")
		return err
	}

	width := opts.Width
	if width <= 0 {
		width = terminalWidth(w)
	}
	// "NN draws " plus the count and percent columns flank the bar area.
	barWidth := width - len("NN draws ") - len(" 1,000,000 100.0%")
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	useColor := shouldUseColor(w, opts.ForceColor)
	for length := axisMin; length <= axisMax; length++ {
		count := hist[length]
		filled := 0
		if count > 0 {
			filled = count * barWidth / modal
			if filled == 0 {
				filled = 1
			}
		}

		bar := strings.Repeat("█", filled) + strings.Repeat(" ", barWidth-filled)
		if useColor {
			bar = colorBar + bar + colorReset
		}
		pct := float64(count) / float64(total) * 100
		if _, err := fmt.Fprintf(w, "%2d draws %s %10s %5.1f%%\n",
			length, bar, groupDigits(count), pct); err != nil {
			return err
		}
	}
	return nil
}

func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return defaultTerminalCol
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalCol
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func groupDigits(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return groupDigits(n/1000) + fmt.Sprintf(",%03d", n%1000)
}
