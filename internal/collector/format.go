package collector

import (
	"encoding/json"
	"fmt"
	"io"
)

// FormatText writes a summary in human-readable format.
func FormatText(w io.Writer, s *Summary, thresholds *ThresholdResults) {
	if s.Trials == 0 {
		fmt.Fprintln(w, "No trials run")
		return
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Fullset - Prize Draw Simulation")
	fmt.Fprintln(w, "==============================")
	fmt.Fprintln(w, "")
	if s.RunID != "" {
		fmt.Fprintf(w, "Run ID:     %s\n", s.RunID)
	}
	fmt.Fprintf(w, "Trials:     %s\n", formatNumber(s.Trials))
	fmt.Fprintf(w, "Elapsed:    %s\n", FormatDuration(s.Elapsed))
	fmt.Fprintf(w, "Trials/sec: %.1f\n", s.TrialsPerSec)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Draws To Earn All Prizes:")
	fmt.Fprintf(w, "  Min:    %d\n", s.Lengths.Min)
	fmt.Fprintf(w, "  Mean:   %.4f (expected %.4f)\n", s.Lengths.Mean, s.ExpectedMean)
	fmt.Fprintf(w, "  P50:    %d\n", s.Lengths.P50)
	fmt.Fprintf(w, "  P90:    %d\n", s.Lengths.P90)
	fmt.Fprintf(w, "  P95:    %d\n", s.Lengths.P95)
	fmt.Fprintf(w, "  P99:    %d\n", s.Lengths.P99)
	fmt.Fprintf(w, "  Max:    %d\n", s.Lengths.Max)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Histogram:")
	for length := s.Lengths.Min; length <= s.Lengths.Max; length++ {
		count := s.Histogram[length]
		pct := float64(count) / float64(s.Trials) * 100
		fmt.Fprintf(w, "  %2d draws  %10s  %5.1f%%\n", length, formatNumber(count), pct)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Average number of rolls to earn all prizes: %g\n", s.Lengths.Mean)

	if thresholds != nil && len(thresholds.Results) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Thresholds:")
		for _, result := range thresholds.Results {
			symbol := "✓"
			if !result.Passed {
				symbol = "✗"
			}
			fmt.Fprintf(w, "  %s %s %s (actual: %s)\n",
				symbol, result.Name, result.Threshold, result.Actual)
		}
	}
}

// FormatJSON writes a summary in JSON format.
func FormatJSON(w io.Writer, s *Summary, thresholds *ThresholdResults) {
	output := struct {
		RunID        string            `json:"runId,omitempty"`
		Trials       int               `json:"trials"`
		Lengths      jsonLengthStats   `json:"lengths"`
		ExpectedMean float64           `json:"expectedMean"`
		Histogram    map[int]int       `json:"histogram"`
		Elapsed      string            `json:"elapsed"`
		TrialsPerSec float64           `json:"trialsPerSec"`
		Thresholds   *ThresholdResults `json:"thresholds,omitempty"`
	}{
		RunID:        s.RunID,
		Trials:       s.Trials,
		Lengths:      toJSONLengthStats(s.Lengths),
		ExpectedMean: s.ExpectedMean,
		Histogram:    s.Histogram,
		Elapsed:      FormatDuration(s.Elapsed),
		TrialsPerSec: s.TrialsPerSec,
		Thresholds:   thresholds,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(output) // stdout errors are unrecoverable
}

type jsonLengthStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P50  int     `json:"p50"`
	P90  int     `json:"p90"`
	P95  int     `json:"p95"`
	P99  int     `json:"p99"`
}

func toJSONLengthStats(ls LengthStats) jsonLengthStats {
	return jsonLengthStats{
		Min:  ls.Min,
		Max:  ls.Max,
		Mean: ls.Mean,
		P50:  ls.P50,
		P90:  ls.P90,
		P95:  ls.P95,
		P99:  ls.P99,
	}
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return formatNumber(n/1000) + fmt.Sprintf(",%03d", n%1000)
}
