// Package chart renders the static simulation charts as PNG files.
package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"subwaysim/internal/sim"
)

const (
	chartWidth    = 10 * vg.Inch
	chartHeight   = 6 * vg.Inch
	histogramBins = 40
)

// ArrivalHistogram renders the arrival-time distribution.
func ArrivalHistogram(arrivals []float64, path string) error {
	p := plot.New()
	p.Title.Text = "Passenger Arrival Times"
	p.X.Label.Text = "Arrival (minutes)"
	p.Y.Label.Text = "Passengers"

	h, err := plotter.NewHist(plotter.Values(arrivals), histogramBins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	h.FillColor = color.RGBA{R: 0x4c, G: 0x78, B: 0xc8, A: 0xc0}
	p.Add(h)
	return save(p, path)
}

// WaitCurve renders mean waiting time against the train interval.
func WaitCurve(points []sim.Point, path string) error {
	return curve(points, path, "Average Wait Time vs Interval", "Mean Wait (minutes)",
		"mean wait", 0, func(pt sim.Point) float64 { return pt.MeanWait })
}

// DemandCurve renders the service-demand score against the train interval.
func DemandCurve(points []sim.Point, path string) error {
	return curve(points, path, "Service Demand vs Interval", "Demand Score",
		"service demand", 1, func(pt sim.Point) float64 { return pt.Demand })
}

func curve(points []sim.Point, path, title, yLabel, legend string, colorIdx int, value func(sim.Point) float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Interval Between Trains (minutes)"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = pt.Interval
		xys[i].Y = value(pt)
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("failed to build line: %w", err)
	}
	line.Width = vg.Points(2)
	line.Color = plotutil.Color(colorIdx)
	p.Add(line)
	p.Legend.Add(legend, line)
	p.Legend.Top = true
	return save(p, path)
}

// TravelVsWait renders per-passenger travel and wait times as paired bars.
func TravelVsWait(travel, wait []float64, path string) error {
	if len(travel) != len(wait) {
		return fmt.Errorf("travel and wait series differ in length: %d vs %d", len(travel), len(wait))
	}
	p := plot.New()
	p.Title.Text = "Travel Time vs Wait Time"
	p.X.Label.Text = "Passenger"
	p.Y.Label.Text = "Time (minutes)"

	barWidth := vg.Points(1)
	travelBars, err := plotter.NewBarChart(plotter.Values(travel), barWidth)
	if err != nil {
		return fmt.Errorf("failed to build travel bars: %w", err)
	}
	travelBars.LineStyle.Width = 0
	travelBars.Color = plotutil.Color(0)
	travelBars.Offset = -barWidth / 2

	waitBars, err := plotter.NewBarChart(plotter.Values(wait), barWidth)
	if err != nil {
		return fmt.Errorf("failed to build wait bars: %w", err)
	}
	waitBars.LineStyle.Width = 0
	waitBars.Color = plotutil.Color(1)
	waitBars.Offset = barWidth / 2

	p.Add(travelBars, waitBars)
	p.Legend.Add("travel", travelBars)
	p.Legend.Add("wait", waitBars)
	p.Legend.Top = true
	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}
