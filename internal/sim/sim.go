// Package sim implements the wait-time and service-demand models.
package sim

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"subwaysim/internal/model"
)

// ErrNonPositiveInterval rejects train intervals that are zero or negative.
var ErrNonPositiveInterval = errors.New("train interval must be positive")

// Waits computes the waiting time for every arrival under a fixed train
// interval. Trains depart at every multiple of the interval inside the
// operating window; a passenger arriving at minute t boards the next
// departure and waits interval - mod(t, interval).
//
// Last-train rule: the final boardable departure is at minute
// timeTotal - interval, so an arrival at or after timeTotal - interval
// misses service and is charged missCost instead. With interval 10 and a
// 400-minute window the last train leaves at minute 390; an arrival at
// 389.9 waits 0.1 minutes, an arrival at 390.0 is stranded.
func Waits(arrivals []float64, interval, timeTotal, missCost float64) ([]float64, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrNonPositiveInterval, interval)
	}
	waits := make([]float64, len(arrivals))
	for i, t := range arrivals {
		if t >= timeTotal-interval {
			waits[i] = missCost
			continue
		}
		waits[i] = interval - math.Mod(t, interval)
	}
	return waits, nil
}

// Missed counts the arrivals that fall after the last boardable departure.
func Missed(arrivals []float64, interval, timeTotal float64) int {
	n := 0
	for _, t := range arrivals {
		if t >= timeTotal-interval {
			n++
		}
	}
	return n
}

// Demand maps a train interval to a service-demand score: an abstract proxy
// for the maintenance and operational effort of sustaining that frequency.
// The curve decays exponentially from Floor+Scale toward Floor as the
// interval grows.
func Demand(interval float64, p model.DemandParams) (float64, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrNonPositiveInterval, interval)
	}
	return p.Floor + p.Scale*math.Exp(-p.Decay*interval), nil
}

// Point is one sample of the interval sweep.
type Point struct {
	Interval float64
	MeanWait float64
	Demand   float64
}

// Sweep evaluates mean wait and demand for every whole-minute train interval
// in [params.SweepMin, params.SweepMax].
func Sweep(arrivals []float64, params model.Params, demand model.DemandParams) ([]Point, error) {
	if params.SweepMin < 1 || params.SweepMax < params.SweepMin {
		return nil, fmt.Errorf("invalid sweep range [%d, %d]", params.SweepMin, params.SweepMax)
	}
	points := make([]Point, 0, params.SweepMax-params.SweepMin+1)
	for iv := params.SweepMin; iv <= params.SweepMax; iv++ {
		interval := float64(iv)
		waits, err := Waits(arrivals, interval, params.TimeTotal, params.MissCost)
		if err != nil {
			return nil, err
		}
		d, err := Demand(interval, demand)
		if err != nil {
			return nil, err
		}
		points = append(points, Point{
			Interval: interval,
			MeanWait: stat.Mean(waits, nil),
			Demand:   d,
		})
	}
	return points, nil
}
