package curve

import "math"

// Admissible priority range sampled by the validity check.
const (
	priorityMax      = 100.0
	penaltyDomainMax = 50
)

// ValidityPenalty samples the curve at integer dollar values 0..49 and turns
// any excursion outside [0, 100] into a multiplicative penalty. A curve that
// stays in range scores exactly 1. The derivative-free search has no hard
// constraint mechanism, so range violations are folded into the objective.
func ValidityPenalty(c Curve) float64 {
	maxVal := math.Inf(-1)
	minVal := math.Inf(1)
	for i := 0; i < penaltyDomainMax; i++ {
		v := c.Evaluate(float64(i))
		if v > maxVal {
			maxVal = v
		}
		if v < minVal {
			minVal = v
		}
	}

	over := math.Max(0, maxVal-priorityMax)
	under := math.Max(0, -minVal)
	p := math.Ceil((over*over + under*under) / 2)
	if p < 1 {
		p = 1
	}
	return p
}

// SampleValues returns the curve values over the penalty domain. Used for
// diagnostics when a starting curve is rejected.
func SampleValues(c Curve) []float64 {
	vals := make([]float64, penaltyDomainMax)
	for i := range vals {
		vals[i] = c.Evaluate(float64(i))
	}
	return vals
}
