package weather

import "fmt"

type cell struct {
	// Quarter-degree cell coordinates scaled by 4, so 10.25 becomes 41.
	lat int32
	lon int32
}

func cellAt(lat, lon float64) cell {
	return cell{lat: int32(RoundQuarter(lat) * 4), lon: int32(RoundQuarter(lon) * 4)}
}

// Grid is an in-memory quarter-degree cloud-cover grid for one scenario.
type Grid struct {
	cells map[cell]float64
}

// NewGrid creates an empty grid.
func NewGrid() *Grid {
	return &Grid{cells: make(map[cell]float64)}
}

// Set stores the cover fraction for the cell at the given coordinates.
func (g *Grid) Set(lat, lon, cover float64) {
	g.cells[cellAt(lat, lon)] = cover
}

// Lookup returns the cover for the cell containing the coordinates.
func (g *Grid) Lookup(lat, lon float64) (float64, error) {
	v, ok := g.cells[cellAt(lat, lon)]
	if !ok {
		return 0, fmt.Errorf("%w: (%.2f, %.2f)", ErrNoCell, RoundQuarter(lat), RoundQuarter(lon))
	}
	return v, nil
}

// Len returns the number of populated cells.
func (g *Grid) Len() int { return len(g.cells) }

// GridSet is a GridSource backed by one grid per scenario.
type GridSet []*Grid

// CloudCover implements GridSource.
func (s GridSet) CloudCover(scenario int, lat, lon float64) (float64, error) {
	if scenario < 0 || scenario >= len(s) {
		return 0, fmt.Errorf("no cloud-cover grid for scenario %d (have %d)", scenario, len(s))
	}
	return s[scenario].Lookup(lat, lon)
}
