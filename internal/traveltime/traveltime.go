// Package traveltime loads station-to-station travel durations.
package traveltime

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// DataError reports an unreadable or structurally incompatible travel-time
// source. Downstream computation is meaningless without the table, so
// callers treat it as fatal.
type DataError struct {
	Path string
	Err  error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("travel time data %s: %v", e.Path, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// Matrix holds cleaned travel durations between station pairs. Stations keep
// the order of the source rows, which is the order of the line.
type Matrix struct {
	stations  []string
	durations map[[2]string]float64
}

// Load reads a station-by-station CSV matrix. The header row is an empty
// cell followed by destination station names; every data row is an origin
// station name followed by one duration per destination. Cells that are
// empty, "-", non-numeric, or negative count as missing and are dropped.
func Load(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataError{Path: path, Err: err}
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, &DataError{Path: path, Err: err}
	}
	if len(rows) < 3 || len(rows[0]) < 3 {
		return nil, &DataError{Path: path, Err: fmt.Errorf("matrix needs at least two stations")}
	}

	header := rows[0][1:]
	m := &Matrix{durations: make(map[[2]string]float64)}
	for i, row := range rows[1:] {
		origin := strings.TrimSpace(row[0])
		if origin == "" {
			return nil, &DataError{Path: path, Err: fmt.Errorf("row %d has no station name", i+2)}
		}
		m.stations = append(m.stations, origin)
		for j, cell := range row[1:] {
			dest := strings.TrimSpace(header[j])
			if dest == "" || dest == origin {
				continue
			}
			v, ok := parseDuration(cell)
			if !ok {
				continue
			}
			m.durations[[2]string{origin, dest}] = v
		}
	}
	return m, nil
}

func parseDuration(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || v < 0 {
		return 0, false
	}
	return v, true
}

// Stations returns the station names in line order.
func (m *Matrix) Stations() []string {
	out := make([]string, len(m.stations))
	copy(out, m.stations)
	return out
}

// Pairs returns the number of usable station pairs after cleaning.
func (m *Matrix) Pairs() int { return len(m.durations) }

// Duration returns the travel time between two stations. When the source
// only records one direction of a pair, the reverse direction is used, so a
// symmetric source behaves symmetrically.
func (m *Matrix) Duration(origin, dest string) (float64, bool) {
	if v, ok := m.durations[[2]string{origin, dest}]; ok {
		return v, true
	}
	v, ok := m.durations[[2]string{dest, origin}]
	return v, ok
}

// Durations maps each entry/exit pair through the matrix. Pairs with no
// recorded duration yield zero; the second return value counts them.
func (m *Matrix) Durations(pairs [][2]string) ([]float64, int) {
	out := make([]float64, len(pairs))
	missing := 0
	for i, pair := range pairs {
		v, ok := m.Duration(pair[0], pair[1])
		if !ok {
			missing++
			continue
		}
		out[i] = v
	}
	return out, missing
}

// Nearest returns the neighbor with the smallest travel duration from the
// given station.
func (m *Matrix) Nearest(station string) (string, float64, bool) {
	best := math.Inf(1)
	name := ""
	for _, other := range m.stations {
		if other == station {
			continue
		}
		if v, ok := m.Duration(station, other); ok && v < best {
			best = v
			name = other
		}
	}
	if name == "" {
		return "", 0, false
	}
	return name, best, true
}
