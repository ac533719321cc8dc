package revenue

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/orbitalsys/taskopt/core/model"
)

func settledTable(t *testing.T) *model.Table {
	t.Helper()
	orders := []model.Order{
		{ID: "a", Latitude: 10.5, DollarPerArea: 5, MaxCloudCover: 0.5},
		{ID: "b", Latitude: 12.5, DollarPerArea: 8, MaxCloudCover: 0.3},
		{ID: "c", Latitude: 14.5, DollarPerArea: 3, MaxCloudCover: 0.9},
	}
	tbl, err := model.NewTable(orders)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	actual := [][]float64{
		{0.2, 0.4, 0.1}, // b over its ceiling
		{0.6, 0.1, 0.95},
	}
	predicted := [][]float64{{0, 0, 0}, {0, 0, 0}}
	if err := tbl.SetWeather(actual, predicted); err != nil {
		t.Fatalf("weather: %v", err)
	}
	return tbl
}

func TestTotalDollarsRespectsCloudCeiling(t *testing.T) {
	tbl := settledTable(t)
	for i := range tbl.Scheduled {
		tbl.Scheduled[i] = true
	}
	if got := TotalDollars(tbl, 0); got != 8 {
		t.Errorf("scenario 0 total = %v, want 8 (a=5, c=3; b over ceiling)", got)
	}
	if got := TotalDollars(tbl, 1); got != 8 {
		t.Errorf("scenario 1 total = %v, want 8 (b=8; a and c over ceiling)", got)
	}
}

func TestTotalDollarsUnscheduledOrdersIgnored(t *testing.T) {
	tbl := settledTable(t)
	tbl.Scheduled[0] = true
	if got := TotalDollars(tbl, 0); got != 5 {
		t.Errorf("total = %v, want only the scheduled order", got)
	}
}

func TestTotalDollarsNaNSentinelNeverPays(t *testing.T) {
	tbl := settledTable(t)
	tbl.Actual[0][0] = math.NaN()
	tbl.Scheduled[0] = true
	if got := TotalDollars(tbl, 0); got != 0 {
		t.Errorf("total = %v, want 0 for NaN actual", got)
	}
}

func TestAverageOrderInvariant(t *testing.T) {
	totals := make([]float64, 40)
	rng := rand.New(rand.NewPCG(7, 7))
	for i := range totals {
		totals[i] = rng.Float64() * 1000
	}
	want, err := Average(totals)
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	shuffled := append([]float64(nil), totals...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	got, _ := Average(shuffled)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("average changed under reordering: %v vs %v", got, want)
	}
}

func TestAverageEmpty(t *testing.T) {
	if _, err := Average(nil); err != ErrNoScenarios {
		t.Fatalf("expected ErrNoScenarios, got %v", err)
	}
}
