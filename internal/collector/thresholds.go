package collector

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// defaultMeanTolerance applies when a mean threshold names no tolerance.
const defaultMeanTolerance = 2.0

// Thresholds defines pass/fail criteria for a batch run.
type Thresholds struct {
	MeanTrialLength *MeanThreshold `yaml:"mean_trial_length"`
	MaxTrialLength  int            `yaml:"max_trial_length"`
	MinTrialLength  int            `yaml:"min_trial_length"`
}

// MeanThreshold bounds the empirical mean's deviation from a target value.
type MeanThreshold struct {
	// Target is the mean to compare against. Zero selects the analytic
	// expectation of the drawing policy.
	Target float64 `yaml:"target"`
	// Tolerance is the allowed deviation as a percentage, e.g. "2%".
	Tolerance string `yaml:"tolerance"`
}

// ThresholdResult represents the outcome of a single threshold check.
type ThresholdResult struct {
	Name      string `json:"name"`
	Passed    bool   `json:"passed"`
	Threshold string `json:"threshold"`
	Actual    string `json:"actual"`
}

// ThresholdResults contains all threshold check results.
type ThresholdResults struct {
	Passed  bool              `json:"passed"`
	Results []ThresholdResult `json:"results"`
}

// Validate reports configuration problems before any trial runs.
func (t *Thresholds) Validate() error {
	if t == nil {
		return nil
	}
	if t.MeanTrialLength != nil && t.MeanTrialLength.Tolerance != "" {
		if _, err := parsePercentage(t.MeanTrialLength.Tolerance); err != nil {
			return fmt.Errorf("mean_trial_length: %w", err)
		}
	}
	if t.MaxTrialLength < 0 {
		return fmt.Errorf("max_trial_length must not be negative: %d", t.MaxTrialLength)
	}
	if t.MinTrialLength < 0 {
		return fmt.Errorf("min_trial_length must not be negative: %d", t.MinTrialLength)
	}
	return nil
}

// Check evaluates all thresholds against a computed summary.
func (t *Thresholds) Check(s *Summary) *ThresholdResults {
	if t == nil {
		return &ThresholdResults{Passed: true, Results: nil}
	}

	results := &ThresholdResults{
		Passed:  true,
		Results: make([]ThresholdResult, 0),
	}

	if t.MeanTrialLength != nil {
		results.checkMean(t.MeanTrialLength, s)
	}
	if t.MaxTrialLength > 0 {
		results.add("max_trial_length",
			s.Lengths.Max <= t.MaxTrialLength,
			fmt.Sprintf("<= %d", t.MaxTrialLength),
			fmt.Sprintf("%d", s.Lengths.Max))
	}
	if t.MinTrialLength > 0 {
		results.add("min_trial_length",
			s.Lengths.Min >= t.MinTrialLength,
			fmt.Sprintf(">= %d", t.MinTrialLength),
			fmt.Sprintf("%d", s.Lengths.Min))
	}

	return results
}

func (r *ThresholdResults) checkMean(threshold *MeanThreshold, s *Summary) {
	target := threshold.Target
	if target == 0 {
		target = s.ExpectedMean
	}
	if target == 0 {
		return
	}

	tolerance := defaultMeanTolerance
	if threshold.Tolerance != "" {
		parsed, err := parsePercentage(threshold.Tolerance)
		if err != nil {
			return
		}
		tolerance = parsed
	}

	deviation := math.Abs(s.Lengths.Mean-target) / target * 100
	r.add("mean_trial_length",
		deviation <= tolerance,
		fmt.Sprintf("within %.4g%% of %.4f", tolerance, target),
		fmt.Sprintf("%.4f (%.2f%% off)", s.Lengths.Mean, deviation))
}

func (r *ThresholdResults) add(name string, passed bool, threshold, actual string) {
	if !passed {
		r.Passed = false
	}
	r.Results = append(r.Results, ThresholdResult{
		Name:      name,
		Passed:    passed,
		Threshold: threshold,
		Actual:    actual,
	})
}

func parsePercentage(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return 0, fmt.Errorf("invalid percentage format: %s", s)
	}
	s = strings.TrimSuffix(s, "%")
	return strconv.ParseFloat(s, 64)
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// Violations returns only the failed threshold results.
func (r *ThresholdResults) Violations() []ThresholdResult {
	violations := make([]ThresholdResult, 0)
	for _, result := range r.Results {
		if !result.Passed {
			violations = append(violations, result)
		}
	}
	return violations
}
