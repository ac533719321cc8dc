// Package revenue settles scheduled orders against realized weather.
package revenue

import (
	"errors"

	"github.com/orbitalsys/taskopt/core/model"
)

// ErrNoScenarios is returned when an average is requested over zero scenarios.
var ErrNoScenarios = errors.New("no weather scenarios to evaluate")

// TotalDollars sums the dollar value of orders that won a slot and whose
// realized cloud cover stayed below their own ceiling. A NaN actual value
// (failed weather lookup) never pays out because the comparison is false.
func TotalDollars(t *model.Table, scenario int) float64 {
	total := 0.0
	actual := t.Actual[scenario]
	for i, o := range t.Orders {
		if t.Scheduled[i] && actual[i] < o.MaxCloudCover {
			total += o.DollarPerArea
		}
	}
	return total
}

// Average returns the arithmetic mean of the given per-scenario totals. The
// reduction is order-independent up to float summation.
func Average(totals []float64) (float64, error) {
	if len(totals) == 0 {
		return 0, ErrNoScenarios
	}
	sum := 0.0
	for _, v := range totals {
		sum += v
	}
	return sum / float64(len(totals)), nil
}
