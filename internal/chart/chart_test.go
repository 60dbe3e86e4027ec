package chart

import (
	"os"
	"path/filepath"
	"testing"

	"subwaysim/internal/sim"
)

func assertPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("chart file is empty")
	}
}

func testPoints() []sim.Point {
	return []sim.Point{
		{Interval: 1, MeanWait: 0.6, Demand: 16.4},
		{Interval: 5, MeanWait: 2.7, Demand: 7.4},
		{Interval: 10, MeanWait: 6.6, Demand: 2.7},
		{Interval: 19, MeanWait: 12.1, Demand: 0.4},
	}
}

func TestArrivalHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arrivals.png")
	if err := ArrivalHistogram([]float64{10, 20, 20, 150, 300, 390}, path); err != nil {
		t.Fatalf("ArrivalHistogram failed: %v", err)
	}
	assertPNG(t, path)
}

func TestWaitCurve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wait.png")
	if err := WaitCurve(testPoints(), path); err != nil {
		t.Fatalf("WaitCurve failed: %v", err)
	}
	assertPNG(t, path)
}

func TestDemandCurve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demand.png")
	if err := DemandCurve(testPoints(), path); err != nil {
		t.Fatalf("DemandCurve failed: %v", err)
	}
	assertPNG(t, path)
}

func TestTravelVsWait(t *testing.T) {
	path := filepath.Join(t.TempDir(), "travel.png")
	if err := TravelVsWait([]float64{12, 7, 22}, []float64{3, 9, 100}, path); err != nil {
		t.Fatalf("TravelVsWait failed: %v", err)
	}
	assertPNG(t, path)
}

func TestTravelVsWaitLengthMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "travel.png")
	if err := TravelVsWait([]float64{12}, []float64{3, 9}, path); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestSaveBadPath(t *testing.T) {
	err := WaitCurve(testPoints(), filepath.Join(t.TempDir(), "missing", "wait.png"))
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
