package engine

import (
	"fmt"

	"github.com/orbitalsys/taskopt/core/curve"
)

// Config holds the optimization parameters loaded from configuration.
type Config struct {
	// Method names the derivative-free search backend. An unsupported name
	// fails the whole run before any case executes.
	Method string `json:"method"`
	// Tolerance is the absolute function-convergence tolerance.
	Tolerance float64 `json:"tolerance"`
	// MaxIterations caps each case's search. Exhausting it downgrades to a
	// warning and keeps the best point found.
	MaxIterations int `json:"max_iterations"`
	// JitterStd is the standard deviation of the zero-mean perturbation added
	// to every cost evaluation so the search does not stall on flat plateaus.
	// Zero disables the jitter (deterministic objective).
	JitterStd float64 `json:"jitter_std"`
	// Basis selects the priority-curve family.
	Basis curve.Basis `json:"basis"`
	// ScoreOffset is subtracted from priorities before the FOM transform.
	ScoreOffset float64 `json:"score_offset"`
	// Cases are the starting coefficient vectors, one search per row.
	Cases [][]float64 `json:"cases"`
}

// SetDefaults fills unset fields with the production values.
func (c *Config) SetDefaults() {
	if c.Method == "" {
		c.Method = "nelder-mead"
	}
	if c.Tolerance == 0 {
		c.Tolerance = 0.01
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = 150
	}
	if c.JitterStd == 0 {
		c.JitterStd = 0.1
	}
	if c.Basis == "" {
		c.Basis = curve.BasisPolyTrig
	}
}

// Validate checks for input defects.
func (c *Config) Validate() error {
	if _, err := methodFor(c.Method); err != nil {
		return err
	}
	if !c.Basis.Valid() {
		return fmt.Errorf("unknown curve basis %q", c.Basis)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.JitterStd < 0 {
		return fmt.Errorf("jitter_std must not be negative, got %v", c.JitterStd)
	}
	if len(c.Cases) == 0 {
		return fmt.Errorf("no starting coefficient vectors configured")
	}
	if n := c.Basis.Coefficients(); n != 0 {
		for i, cs := range c.Cases {
			if len(cs) != n {
				return fmt.Errorf("case %d: basis %s expects %d coefficients, got %d", i, c.Basis, n, len(cs))
			}
		}
	}
	return nil
}
