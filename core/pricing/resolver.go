// Package pricing resolves the dollar value of every order before the
// optimization starts. Flat-rate customers are priced from a lookup table and
// the high-volume segment is priced by task priority code.
package pricing

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/orbitalsys/taskopt/core/model"
)

// Config describes the pricing override tables.
type Config struct {
	// FlatRate maps customer IDs to a fixed dollar-per-area value that
	// replaces whatever the input table carried.
	FlatRate map[int]float64 `json:"flat_rate"`
	// SegmentCustomer is the high-volume customer whose orders are priced by
	// task priority code instead. Zero disables segment pricing.
	SegmentCustomer int `json:"segment_customer"`
	// SegmentRates maps task priority codes to dollar values for the segment
	// customer.
	SegmentRates map[int]float64 `json:"segment_rates"`
	// JitterStd adds a zero-mean normal perturbation to segment prices so
	// otherwise-identical orders stay distinguishable. Zero disables jitter.
	JitterStd float64 `json:"jitter_std"`
}

// Resolver applies the override tables to an order deck.
type Resolver struct {
	cfg Config
	rng *rand.Rand
}

// NewResolver builds a resolver. The generator may be nil when JitterStd is 0.
func NewResolver(cfg Config, rng *rand.Rand) *Resolver {
	return &Resolver{cfg: cfg, rng: rng}
}

// Resolve overwrites DollarPerArea in place. Every order ends with exactly one
// resolved value; a segment order whose task priority has no configured rate
// is an input defect.
func (r *Resolver) Resolve(orders []model.Order) error {
	var jitter *distuv.Normal
	if r.cfg.JitterStd > 0 {
		if r.rng == nil {
			return fmt.Errorf("pricing: jitter configured without a random source")
		}
		jitter = &distuv.Normal{Mu: 0, Sigma: r.cfg.JitterStd, Src: r.rng}
	}

	for i := range orders {
		o := &orders[i]
		if v, ok := r.cfg.FlatRate[o.CustomerID]; ok {
			o.DollarPerArea = v
		}
		if r.cfg.SegmentCustomer == 0 || o.CustomerID != r.cfg.SegmentCustomer {
			continue
		}
		v, ok := r.cfg.SegmentRates[o.TaskPriority]
		if !ok {
			return fmt.Errorf("pricing: order %s has no segment rate for task priority %d", o.ID, o.TaskPriority)
		}
		if jitter != nil {
			v += jitter.Rand()
		}
		o.DollarPerArea = v
	}
	return nil
}
