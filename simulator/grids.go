package simulator

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/orbitalsys/taskopt/core/model"
	"github.com/orbitalsys/taskopt/core/weather"
)

// WriteGrids writes one cloud-cover grid CSV per scenario into dir, covering
// exactly the quarter-degree cells the deck's orders fall into. Values are
// percentages drawn uniformly from [0, 100).
func WriteGrids(dir string, orders []model.Order, scenarios int, rng *rand.Rand) error {
	if scenarios <= 0 {
		return fmt.Errorf("scenario count must be positive, got %d", scenarios)
	}
	if rng == nil {
		return fmt.Errorf("grid generator requires a random source")
	}

	type cell struct{ lat, lon float64 }
	seen := make(map[cell]struct{})
	cells := make([]cell, 0, len(orders))
	for _, o := range orders {
		c := cell{weather.RoundQuarter(o.Latitude), weather.RoundQuarter(o.Longitude)}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cells = append(cells, c)
	}

	for s := 0; s < scenarios; s++ {
		path := filepath.Join(dir, fmt.Sprintf("scenario_%03d.csv", s))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create grid file: %w", err)
		}
		w := csv.NewWriter(f)
		if err := w.Write([]string{"Latitude", "Longitude", "Value"}); err != nil {
			f.Close()
			return err
		}
		for _, c := range cells {
			rec := []string{
				strconv.FormatFloat(c.lat, 'f', 2, 64),
				strconv.FormatFloat(c.lon, 'f', 2, 64),
				strconv.FormatFloat(100*rng.Float64(), 'f', 1, 64),
			}
			if err := w.Write(rec); err != nil {
				f.Close()
				return err
			}
		}
		w.Flush()
		err = w.Error()
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write grid %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}
