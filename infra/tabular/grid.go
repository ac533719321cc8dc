package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/orbitalsys/taskopt/core/weather"
)

// Grid-table column names. Value is a cover percentage in [0, 100] as
// flattened from the upstream raster products.
const (
	colGridLat   = "Latitude"
	colGridLon   = "Longitude"
	colGridValue = "Value"
)

// LoadGrid reads one quarter-degree cloud-cover grid from a CSV file. Cover
// percentages are rescaled to fractions.
func LoadGrid(path string) (*weather.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cloud grid: %w", err)
	}
	defer f.Close()
	g, err := ReadGrid(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return g, nil
}

// ReadGrid parses a grid table from r.
func ReadGrid(r io.Reader) (*weather.Grid, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read grid header: %w", err)
	}
	idx, err := columnIndex(header, colGridLat, colGridLon, colGridValue)
	if err != nil {
		return nil, err
	}

	g := weather.NewGrid()
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read grid row %d: %w", row, err)
		}
		lat, err := cellFloat(rec, idx[colGridLat], row, colGridLat)
		if err != nil {
			return nil, err
		}
		lon, err := cellFloat(rec, idx[colGridLon], row, colGridLon)
		if err != nil {
			return nil, err
		}
		pct, err := cellFloat(rec, idx[colGridValue], row, colGridValue)
		if err != nil {
			return nil, err
		}
		g.Set(lat, lon, pct/100)
	}
	if g.Len() == 0 {
		return nil, fmt.Errorf("grid table has no cells")
	}
	return g, nil
}

// LoadGridDir loads one grid per scenario from the CSV files in dir, sorted
// by file name. The directory must hold at least scenarios grid files; extra
// files are ignored.
func LoadGridDir(dir string, scenarios int) (weather.GridSet, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list cloud grids: %w", err)
	}
	sort.Strings(paths)
	if len(paths) < scenarios {
		return nil, fmt.Errorf("cloud grid dir %s has %d csv files, need %d", dir, len(paths), scenarios)
	}

	set := make(weather.GridSet, scenarios)
	for i := 0; i < scenarios; i++ {
		g, err := LoadGrid(paths[i])
		if err != nil {
			return nil, err
		}
		set[i] = g
	}
	return set, nil
}
