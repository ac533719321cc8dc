// Package weather produces the per-order, per-scenario actual and predicted
// cloud-cover columns consumed by scheduling and settlement.
package weather

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/orbitalsys/taskopt/core/logger"
	"github.com/orbitalsys/taskopt/core/model"
)

// Mode selects the source of actual cloud cover.
type Mode string

const (
	// ModeClear assigns zero cover everywhere; predictions are exact.
	ModeClear Mode = "clear"
	// ModeCloudy assigns a constant 0.9 cover.
	ModeCloudy Mode = "cloudy"
	// ModeRandom draws cover uniformly from [0, 0.9).
	ModeRandom Mode = "random"
	// ModeGrid looks cover up from a quarter-degree grid, one grid per
	// scenario.
	ModeGrid Mode = "grid"
)

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeClear, ModeCloudy, ModeRandom, ModeGrid:
		return true
	}
	return false
}

const cloudyCover = 0.9

// Config holds the weather parameters loaded from configuration.
type Config struct {
	Mode Mode `json:"mode"`
	// Scenarios is the number of simulated weather realizations.
	Scenarios int `json:"scenarios"`
	// UncertaintyStd is the standard deviation of the normal perturbation
	// applied to actual cover to form the prediction.
	UncertaintyStd float64 `json:"uncertainty_std"`
}

// SetDefaults fills unset fields with workable values.
func (c *Config) SetDefaults() {
	if c.Mode == "" {
		c.Mode = ModeClear
	}
	if c.Scenarios == 0 {
		c.Scenarios = 5
	}
}

// Validate checks the configuration for input defects.
func (c *Config) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("unknown weather mode %q", c.Mode)
	}
	if c.Scenarios <= 0 {
		return fmt.Errorf("weather scenarios must be positive, got %d", c.Scenarios)
	}
	if c.UncertaintyStd < 0 {
		return fmt.Errorf("uncertainty std must not be negative, got %v", c.UncertaintyStd)
	}
	return nil
}

// ErrNoCell reports a grid lookup with no matching cell. The condition is
// flagged, not fatal: the affected order carries a NaN sentinel and never
// settles.
var ErrNoCell = errors.New("no cloud-cover cell for coordinates")

// GridSource supplies actual cloud cover for one scenario at a quarter-degree
// cell. Implementations return an error wrapping ErrNoCell on a miss.
type GridSource interface {
	CloudCover(scenario int, lat, lon float64) (float64, error)
}

// Assignment is the result of weather assignment: cloud-cover fractions in
// [0,1] indexed [scenario][order], plus the number of grid misses.
type Assignment struct {
	Actual    [][]float64
	Predicted [][]float64
	Misses    int
}

// Assigner draws actual and predicted cloud cover for a deck of orders.
type Assigner struct {
	cfg  Config
	grid GridSource
	rng  *rand.Rand
	log  logger.Logger
}

// NewAssigner builds an assigner. grid may be nil unless the mode is
// ModeGrid. The random source is required for every mode except clear.
func NewAssigner(cfg Config, grid GridSource, rng *rand.Rand, log logger.Logger) (*Assigner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode == ModeGrid && grid == nil {
		return nil, fmt.Errorf("weather mode %s requires a grid source", ModeGrid)
	}
	if cfg.Mode != ModeClear && rng == nil {
		return nil, fmt.Errorf("weather mode %s requires a random source", cfg.Mode)
	}
	return &Assigner{cfg: cfg, grid: grid, rng: rng, log: log}, nil
}

// Assign produces the weather columns for the given orders.
func (a *Assigner) Assign(orders []model.Order) (Assignment, error) {
	out := Assignment{
		Actual:    make([][]float64, a.cfg.Scenarios),
		Predicted: make([][]float64, a.cfg.Scenarios),
	}

	var uniform distuv.Uniform
	if a.cfg.Mode == ModeRandom {
		uniform = distuv.Uniform{Min: 0, Max: cloudyCover, Src: a.rng}
	}
	var noise *distuv.Normal
	if a.cfg.Mode != ModeClear && a.cfg.UncertaintyStd > 0 {
		noise = &distuv.Normal{Mu: 0, Sigma: a.cfg.UncertaintyStd, Src: a.rng}
	}

	for s := 0; s < a.cfg.Scenarios; s++ {
		actual := make([]float64, len(orders))
		predicted := make([]float64, len(orders))
		for i, o := range orders {
			v, err := a.actualCover(s, o, uniform)
			if err != nil {
				if !errors.Is(err, ErrNoCell) {
					return Assignment{}, err
				}
				out.Misses++
				if a.log != nil {
					a.log.Warnf("cloud cover miss for order %s at (%.2f, %.2f), scenario %d", o.ID, o.Latitude, o.Longitude, s)
				}
				v = math.NaN()
			}
			actual[i] = v
			predicted[i] = predict(v, noise, a.cfg.Mode)
		}
		out.Actual[s] = actual
		out.Predicted[s] = predicted
	}
	return out, nil
}

func (a *Assigner) actualCover(scenario int, o model.Order, uniform distuv.Uniform) (float64, error) {
	switch a.cfg.Mode {
	case ModeClear:
		return 0, nil
	case ModeCloudy:
		return cloudyCover, nil
	case ModeRandom:
		return uniform.Rand(), nil
	default:
		return a.grid.CloudCover(scenario, o.Latitude, o.Longitude)
	}
}

// predict perturbs the actual cover and clamps to [0, 1]. Clear mode always
// predicts zero; a zero uncertainty reproduces the actual value exactly.
func predict(actual float64, noise *distuv.Normal, mode Mode) float64 {
	if mode == ModeClear {
		return 0
	}
	if noise == nil {
		return actual
	}
	p := actual + noise.Rand()
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// RoundQuarter rounds a coordinate to the nearest quarter degree, matching
// the grid cell spacing.
func RoundQuarter(v float64) float64 {
	return math.Round(v*4) / 4
}
