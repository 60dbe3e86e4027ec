// Package passenger generates the synthetic passenger table.
package passenger

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"subwaysim/internal/model"
)

// Passenger is one synthetic rider: where they enter the line, where they
// leave it, and when they show up at the platform.
type Passenger struct {
	Entry   string
	Exit    string
	Arrival float64 // minutes after the operating window opens
}

// Generator draws synthetic passengers from a locally-owned random source.
// Two generators built from identical Params produce identical tables.
type Generator struct {
	params  model.Params
	rng     *rand.Rand
	arrival distuv.Normal
}

// New returns a Generator seeded from the run parameters.
func New(params model.Params) *Generator {
	src := rand.NewSource(params.Seed)
	return &Generator{
		params: params,
		rng:    rand.New(src),
		arrival: distuv.Normal{
			Mu:    params.Average,
			Sigma: params.Deviation,
			Src:   src,
		},
	}
}

// Generate draws exactly NPeople passengers over the given station list.
func (g *Generator) Generate(stations []string) ([]Passenger, error) {
	if len(stations) < 2 {
		return nil, fmt.Errorf("need at least two stations, got %d", len(stations))
	}
	out := make([]Passenger, 0, g.params.NPeople)
	for i := 0; i < g.params.NPeople; i++ {
		entry, exit, err := g.pickPair(len(stations))
		if err != nil {
			return nil, err
		}
		out = append(out, Passenger{
			Entry:   stations[entry],
			Exit:    stations[exit],
			Arrival: g.pickArrival(),
		})
	}
	return out, nil
}

func (g *Generator) pickPair(n int) (entry, exit int, err error) {
	switch g.params.Policy {
	case model.PolicyForward:
		entry = g.rng.Intn(n - 1)
		exit = entry + 1 + g.rng.Intn(n-entry-1)
	case model.PolicyUniform:
		entry = g.rng.Intn(n)
		exit = g.rng.Intn(n)
		for exit == entry {
			exit = g.rng.Intn(n)
		}
	default:
		return 0, 0, fmt.Errorf("unknown station policy %q", g.params.Policy)
	}
	return entry, exit, nil
}

// pickArrival redraws until the sample lands inside the operating window,
// giving a truncated normal rather than a clipped one.
func (g *Generator) pickArrival() float64 {
	for {
		x := g.arrival.Rand()
		if x >= 0 && x <= g.params.TimeTotal {
			return x
		}
	}
}

// Arrivals extracts the arrival-time column.
func Arrivals(passengers []Passenger) []float64 {
	out := make([]float64, len(passengers))
	for i, p := range passengers {
		out[i] = p.Arrival
	}
	return out
}

// WriteCSV dumps the generated table for reference and reproducibility. The
// file is not consumed by anything downstream.
func WriteCSV(path string, passengers []Passenger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create passenger table: %w", err)
	}
	w := csv.NewWriter(f)
	record := []string{"entry_station", "exit_station", "arrival_minute"}
	if err := w.Write(record); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write passenger table: %w", err)
	}
	for _, p := range passengers {
		record[0] = p.Entry
		record[1] = p.Exit
		record[2] = strconv.FormatFloat(p.Arrival, 'f', 6, 64)
		if err := w.Write(record); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write passenger table: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush passenger table: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close passenger table: %w", err)
	}
	return nil
}
