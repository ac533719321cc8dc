// Package simulator generates synthetic order decks and cloud-cover grids
// for exercising the optimizer without access to production extracts.
package simulator

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/orbitalsys/taskopt/core/model"
)

// Config bounds the synthetic deck.
type Config struct {
	Orders int `json:"orders"`
	// Latitude band of the synthetic constellation footprint.
	MinLatitude  float64 `json:"min_latitude"`
	MaxLatitude  float64 `json:"max_latitude"`
	MinLongitude float64 `json:"min_longitude"`
	MaxLongitude float64 `json:"max_longitude"`
	// Customers to draw from. The draw is uniform.
	Customers []int `json:"customers"`
	// MaxTaskPriority caps the uniform integer priority draw, inclusive
	// from 1.
	MaxTaskPriority int `json:"max_task_priority"`
	// MeanDollar is the mean of the exponential dollar-per-area draw.
	MeanDollar float64 `json:"mean_dollar"`
}

// SetDefaults fills unset fields with a plausible mid-latitude deck.
func (c *Config) SetDefaults() {
	if c.Orders == 0 {
		c.Orders = 500
	}
	if c.MinLatitude == 0 && c.MaxLatitude == 0 {
		c.MinLatitude = -60
		c.MaxLatitude = 60
	}
	if c.MinLongitude == 0 && c.MaxLongitude == 0 {
		c.MinLongitude = -180
		c.MaxLongitude = 180
	}
	if len(c.Customers) == 0 {
		c.Customers = []int{101, 204, 306, 412}
	}
	if c.MaxTaskPriority == 0 {
		c.MaxTaskPriority = 9
	}
	if c.MeanDollar == 0 {
		c.MeanDollar = 6
	}
}

// Validate checks the configuration for input defects.
func (c *Config) Validate() error {
	if c.Orders <= 0 {
		return fmt.Errorf("order count must be positive, got %d", c.Orders)
	}
	if c.MaxLatitude <= c.MinLatitude {
		return fmt.Errorf("latitude range [%v, %v] is empty", c.MinLatitude, c.MaxLatitude)
	}
	if c.MaxLongitude <= c.MinLongitude {
		return fmt.Errorf("longitude range [%v, %v] is empty", c.MinLongitude, c.MaxLongitude)
	}
	if c.MeanDollar <= 0 {
		return fmt.Errorf("mean dollar must be positive, got %v", c.MeanDollar)
	}
	return nil
}

// Generate draws a synthetic order deck. Dollar values follow an exponential
// distribution so a few orders dominate revenue, matching real decks. Cloud
// ceilings are drawn uniformly from [0.1, 1).
func Generate(cfg Config, rng *rand.Rand) ([]model.Order, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("generator requires a random source")
	}

	lat := distuv.Uniform{Min: cfg.MinLatitude, Max: cfg.MaxLatitude, Src: rng}
	lon := distuv.Uniform{Min: cfg.MinLongitude, Max: cfg.MaxLongitude, Src: rng}
	dollar := distuv.Exponential{Rate: 1 / cfg.MeanDollar, Src: rng}

	orders := make([]model.Order, cfg.Orders)
	for i := range orders {
		orders[i] = model.Order{
			ID:            uuid.NewString(),
			Latitude:      lat.Rand(),
			Longitude:     lon.Rand(),
			CustomerID:    cfg.Customers[rng.IntN(len(cfg.Customers))],
			TaskPriority:  1 + rng.IntN(cfg.MaxTaskPriority),
			DollarPerArea: dollar.Rand(),
			MaxCloudCover: 0.1 + 0.9*rng.Float64(),
		}
	}
	return orders, nil
}

// WriteDeck writes orders as a CSV in the order-table layout.
func WriteDeck(path string, orders []model.Order) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create deck file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Latitude", "Longitude", "Cust_Num", "Task_Pri", "DollarPerSquare", "MAX_CC"}); err != nil {
		return err
	}
	for _, o := range orders {
		rec := []string{
			strconv.FormatFloat(o.Latitude, 'f', 4, 64),
			strconv.FormatFloat(o.Longitude, 'f', 4, 64),
			strconv.Itoa(o.CustomerID),
			strconv.Itoa(o.TaskPriority),
			strconv.FormatFloat(o.DollarPerArea, 'f', 2, 64),
			strconv.FormatFloat(o.MaxCloudCover, 'f', 2, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write deck: %w", err)
	}
	return nil
}
