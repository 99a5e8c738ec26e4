package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fullset/internal/collector"
)

func chartSummary() *collector.Summary {
	h := collector.NewHist()
	for _, length := range []int{8, 12, 12, 15, 15, 15, 20, 32} {
		h.Observe(length)
	}
	return collector.ComputeSummary(h, 20*time.Millisecond)
}

func TestSaveChart_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "100-sim.png")

	if err := SaveChart(path, chartSummary(), ChartOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading chart: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("output is not a PNG file")
	}
}

func TestSaveChart_CustomSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.png")

	err := SaveChart(path, chartSummary(), ChartOptions{Width: 320, Height: 240, Title: "tiny"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("chart not written: %v", err)
	}
}

func TestSaveChart_EmptySummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")

	if err := SaveChart(path, &collector.Summary{}, ChartOptions{}); err == nil {
		t.Fatal("expected error for an empty summary")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("chart file written for an empty summary")
	}
}

func TestSaveChart_RejectsOutOfAxisKeys(t *testing.T) {
	s := &collector.Summary{
		Trials:    1,
		Histogram: map[int]int{40: 1},
	}
	if err := SaveChart(filepath.Join(t.TempDir(), "bad.png"), s, ChartOptions{}); err == nil {
		t.Fatal("expected error for an out-of-axis key")
	}
}
