package engine

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/optimize"
)

// methodFor resolves a configured method name to a gonum search backend.
// Only gradient-free methods are registered; the objective is stochastic and
// has no usable derivative.
func methodFor(name string) (optimize.Method, error) {
	switch strings.ToLower(name) {
	case "nelder-mead":
		return &optimize.NelderMead{}, nil
	case "cmaes":
		return &optimize.CmaEsChol{}, nil
	default:
		return nil, fmt.Errorf("unsupported optimization method %q", name)
	}
}
