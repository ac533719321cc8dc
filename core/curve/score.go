package curve

import "math"

// Figure-of-merit constants. The FOM curve is fixed; only the priority offset
// varies with the priority range chosen upstream.
const (
	fomCoefficient = 0.47
	fomPowers      = 10.0
	fomRange       = 100.0
)

// ScoreFunc converts a priority into a dispatch score. It is strictly
// decreasing in priority: lower priority values win head-to-head comparisons.
type ScoreFunc struct {
	// Offset is subtracted from the priority before scoring. Zero for the
	// 0-100 priority range, 700 for the legacy 700-800 range.
	Offset float64
}

// Score returns exp(k*(p - 5*(priority-offset)/r)). Out-of-range priorities
// are not special-cased here; the validity penalty handles them upstream.
func (s ScoreFunc) Score(priority float64) float64 {
	return math.Exp(fomCoefficient * (fomPowers - 5*(priority-s.Offset)/fomRange))
}
