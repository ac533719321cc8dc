// Package curve implements the priority curve evaluated during optimization,
// the figure-of-merit score transform and the curve admissibility penalty.
package curve

import (
	"fmt"
	"math"
)

// Basis identifies the family of elementary functions combined by a curve.
type Basis string

const (
	// BasisPolyTrig is the production basis: constant, linear, exponential,
	// square root, quadratic about x=15 and a sine/cosine pair. Seven
	// coefficients.
	BasisPolyTrig Basis = "poly-trig"
	// BasisPolynomial is a plain polynomial, one coefficient per power.
	BasisPolynomial Basis = "polynomial"
	// BasisLinear is an intercept plus slope. Two coefficients.
	BasisLinear Basis = "linear"
)

// Coefficients returns the coefficient count the basis expects, or 0 when any
// length is accepted.
func (b Basis) Coefficients() int {
	switch b {
	case BasisPolyTrig:
		return 7
	case BasisLinear:
		return 2
	default:
		return 0
	}
}

// Valid reports whether b names a known basis.
func (b Basis) Valid() bool {
	switch b {
	case BasisPolyTrig, BasisPolynomial, BasisLinear:
		return true
	}
	return false
}

// Curve maps an order's dollar value to a scheduling priority. Instances are
// cheap and transient: one is built per cost-function call.
type Curve struct {
	basis Basis
	coeff []float64
}

// New builds a curve from sanitized copies of the given coefficients.
// Non-finite coefficients are substituted with 0 so the search can wander
// through distant points without poisoning the evaluation.
func New(basis Basis, coefficients []float64) (Curve, error) {
	if !basis.Valid() {
		return Curve{}, fmt.Errorf("unknown curve basis %q", basis)
	}
	if n := basis.Coefficients(); n != 0 && len(coefficients) != n {
		return Curve{}, fmt.Errorf("basis %s expects %d coefficients, got %d", basis, n, len(coefficients))
	}
	return Curve{basis: basis, coeff: Sanitize(coefficients)}, nil
}

// Sanitize returns a copy of the vector with NaN and infinities replaced by 0.
func Sanitize(coefficients []float64) []float64 {
	out := make([]float64, len(coefficients))
	for i, c := range coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			continue
		}
		out[i] = c
	}
	return out
}

// Evaluate returns the priority for the given dollar value.
func (c Curve) Evaluate(dollarValue float64) float64 {
	x := dollarValue
	switch c.basis {
	case BasisPolyTrig:
		a, b, cc, d, e, f, g := c.coeff[0], c.coeff[1], c.coeff[2], c.coeff[3], c.coeff[4], c.coeff[5], c.coeff[6]
		return a + b*x + cc*math.Exp(0.04*x) + d*math.Sqrt(x) +
			e*(x-15)*(x-15) + f*math.Sin(0.2*(x-10)) + g*math.Cos(0.2*(x-10))
	case BasisLinear:
		return c.coeff[0] + c.coeff[1]*x
	default: // BasisPolynomial
		v := 0.0
		pow := 1.0
		for _, co := range c.coeff {
			v += co * pow
			pow *= x
		}
		return v
	}
}

// Basis returns the basis the curve was built with.
func (c Curve) Basis() Basis { return c.basis }
