package collector

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// ReadSummaryFile loads a summary previously written by FormatJSON.
func ReadSummaryFile(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading summary file: %w", err)
	}
	s, err := ParseSummary(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// ParseSummary decodes the JSON form of a Summary and verifies that the
// histogram accounts for every trial.
func ParseSummary(data []byte) (*Summary, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("not valid JSON")
	}
	root := gjson.ParseBytes(data)

	hist := root.Get("histogram")
	if !hist.Exists() || !hist.IsObject() {
		return nil, fmt.Errorf("missing histogram")
	}

	s := &Summary{
		RunID:        root.Get("runId").String(),
		Trials:       int(root.Get("trials").Int()),
		ExpectedMean: root.Get("expectedMean").Float(),
		TrialsPerSec: root.Get("trialsPerSec").Float(),
		Histogram:    make(map[int]int),
		Lengths: LengthStats{
			Min:  int(root.Get("lengths.min").Int()),
			Max:  int(root.Get("lengths.max").Int()),
			Mean: root.Get("lengths.mean").Float(),
			P50:  int(root.Get("lengths.p50").Int()),
			P90:  int(root.Get("lengths.p90").Int()),
			P95:  int(root.Get("lengths.p95").Int()),
			P99:  int(root.Get("lengths.p99").Int()),
		},
	}

	var keyErr error
	hist.ForEach(func(key, value gjson.Result) bool {
		length, err := strconv.Atoi(key.String())
		if err != nil {
			keyErr = fmt.Errorf("histogram key %q is not a trial length", key.String())
			return false
		}
		s.Histogram[length] = int(value.Int())
		return true
	})
	if keyErr != nil {
		return nil, keyErr
	}

	sum := 0
	for _, count := range s.Histogram {
		sum += count
	}
	if sum != s.Trials {
		return nil, fmt.Errorf("histogram counts sum to %d, summary claims %d trials", sum, s.Trials)
	}

	if elapsed := root.Get("elapsed"); elapsed.Exists() {
		if parsed, err := time.ParseDuration(elapsed.String()); err == nil {
			s.Elapsed = parsed
		}
	}

	return s, nil
}
