// Package model defines shared simulation data structures.
package model

import "fmt"

// StationPolicy selects how entry/exit stations are paired for synthetic
// passengers.
type StationPolicy string

const (
	// PolicyForward draws an exit station strictly after the entry station
	// in line order.
	PolicyForward StationPolicy = "forward"
	// PolicyUniform draws any pair of distinct stations.
	PolicyUniform StationPolicy = "uniform"
)

// Params is the immutable configuration bundle for a single simulation run.
type Params struct {
	TrainFreq float64 // baseline interval between trains, minutes
	Average   float64 // mean passenger arrival time, minutes
	Deviation float64 // stddev of passenger arrival times, minutes
	TimeTotal float64 // operating window length, minutes
	NPeople   int
	MissCost  float64 // penalty wait for missing the last train, minutes
	Seed      uint64
	Policy    StationPolicy
	SweepMin  int // first train interval of the sweep, minutes
	SweepMax  int // last train interval of the sweep, minutes
}

// DemandParams configures the service-demand curve. The values are
// illustrative constants, not calibrated to operational data.
type DemandParams struct {
	Scale float64
	Decay float64
	Floor float64
}

// Validate reports the first invalid parameter.
func (p Params) Validate() error {
	if p.TrainFreq <= 0 {
		return fmt.Errorf("--interval must be > 0")
	}
	if p.Deviation <= 0 {
		return fmt.Errorf("--stddev must be > 0")
	}
	if p.TimeTotal <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	if p.TrainFreq >= p.TimeTotal {
		return fmt.Errorf("--interval must be smaller than --window")
	}
	if p.NPeople <= 0 {
		return fmt.Errorf("--people must be > 0")
	}
	if p.MissCost < 0 {
		return fmt.Errorf("--miss-cost must be >= 0")
	}
	if p.Policy != PolicyForward && p.Policy != PolicyUniform {
		return fmt.Errorf("--station-policy must be %q or %q", PolicyForward, PolicyUniform)
	}
	if p.SweepMin < 1 {
		return fmt.Errorf("--sweep-min must be >= 1")
	}
	if p.SweepMax < p.SweepMin {
		return fmt.Errorf("--sweep-max must be >= --sweep-min")
	}
	return nil
}

// Validate reports the first invalid demand constant.
func (d DemandParams) Validate() error {
	if d.Scale <= 0 {
		return fmt.Errorf("--demand-scale must be > 0")
	}
	if d.Decay <= 0 {
		return fmt.Errorf("--demand-decay must be > 0")
	}
	if d.Floor < 0 {
		return fmt.Errorf("--demand-floor must be >= 0")
	}
	return nil
}
