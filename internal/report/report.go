// Package report renders the end-of-run console summary.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"subwaysim/internal/model"
	"subwaysim/internal/passenger"
	"subwaysim/internal/sim"
)

const sparkChars = " .:-=+*#%@"

// Summary carries everything the console report prints.
type Summary struct {
	Params        model.Params
	Passengers    []passenger.Passenger
	BaselineWaits []float64 // waits at the baseline interval
	Missed        int       // passengers stranded at the baseline interval
	Sweep         []sim.Point
	CrowdedEntry  string
	CrowdedExit   string
	NearestEntry  string // nearest neighbor of the crowded entry station
	NearestExit   string
	TablePath     string
	ChartPaths    []string
}

// CrowdedStations returns the most common entry and exit stations. Ties are
// broken alphabetically so the result is stable.
func CrowdedStations(passengers []passenger.Passenger) (entry, exit string) {
	return modeStation(passengers, func(p passenger.Passenger) string { return p.Entry }),
		modeStation(passengers, func(p passenger.Passenger) string { return p.Exit })
}

func modeStation(passengers []passenger.Passenger, key func(passenger.Passenger) string) string {
	counts := make(map[string]int)
	for _, p := range passengers {
		counts[key(p)]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	best := ""
	bestCount := -1
	for _, name := range names {
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}
	return best
}

// Histogram buckets values into bins over [lo, hi].
func Histogram(values []float64, bins int, lo, hi float64) []float64 {
	out := make([]float64, bins)
	if bins <= 0 || hi <= lo {
		return out
	}
	width := (hi - lo) / float64(bins)
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		out[idx]++
	}
	return out
}

// Sparkline renders a single-line ASCII profile of the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		return strings.Repeat(string(sparkChars[0]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round(v / maxVal * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Render prints the summary.
func Render(w io.Writer, s Summary) error {
	meanWait := 0.0
	maxWait := 0.0
	if len(s.BaselineWaits) > 0 {
		meanWait = stat.Mean(s.BaselineWaits, nil)
		for _, v := range s.BaselineWaits {
			if v > maxWait {
				maxWait = v
			}
		}
	}
	profile := Sparkline(Histogram(passenger.Arrivals(s.Passengers), 40, 0, s.Params.TimeTotal))

	lines := []string{
		"=== Simulation Report ===",
		fmt.Sprintf("Passengers generated: %d (seed %d, policy %s)", len(s.Passengers), s.Params.Seed, s.Params.Policy),
		fmt.Sprintf("Operating window: %.0f minutes, baseline interval: %.0f minutes", s.Params.TimeTotal, s.Params.TrainFreq),
		fmt.Sprintf("Arrival profile: |%s|", profile),
		fmt.Sprintf("Mean wait at baseline: %.2f minutes (max %.2f)", meanWait, maxWait),
		fmt.Sprintf("Missed the last train: %d passengers (penalty %.0f minutes each)", s.Missed, s.Params.MissCost),
	}
	if s.CrowdedEntry != "" {
		lines = append(lines, fmt.Sprintf("Busiest entry: %s (nearest: %s)", s.CrowdedEntry, orNone(s.NearestEntry)))
	}
	if s.CrowdedExit != "" {
		lines = append(lines, fmt.Sprintf("Busiest exit: %s (nearest: %s)", s.CrowdedExit, orNone(s.NearestExit)))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if len(s.Sweep) > 0 {
		if _, err := fmt.Fprintln(w, "Interval sweep (minutes / mean wait / demand):"); err != nil {
			return err
		}
		for _, pt := range s.Sweep {
			if _, err := fmt.Fprintf(w, "  %4.0f  %8.2f  %8.2f\n", pt.Interval, pt.MeanWait, pt.Demand); err != nil {
				return err
			}
		}
	}

	if s.TablePath != "" {
		if _, err := fmt.Fprintf(w, "Passenger table: %s\n", s.TablePath); err != nil {
			return err
		}
	}
	for _, path := range s.ChartPaths {
		if _, err := fmt.Fprintf(w, "Chart: %s\n", path); err != nil {
			return err
		}
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
