package engine

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/orbitalsys/taskopt/core/curve"
	"github.com/orbitalsys/taskopt/core/model"
	"github.com/orbitalsys/taskopt/core/schedule"
)

// testTable builds a three-order deck under clear weather: bands (10,11) and
// (30,31), with the (10,11) band contested by a $5 and an $8 order.
func testTable(t *testing.T, scenarios int) *model.Table {
	t.Helper()
	orders := []model.Order{
		{ID: "a", Latitude: 10.2, DollarPerArea: 5, MaxCloudCover: 0.5},
		{ID: "b", Latitude: 10.6, DollarPerArea: 8, MaxCloudCover: 0.5},
		{ID: "c", Latitude: 30.4, DollarPerArea: 9, MaxCloudCover: 0.5},
	}
	tbl, err := model.NewTable(orders)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	actual := make([][]float64, scenarios)
	predicted := make([][]float64, scenarios)
	for s := range actual {
		actual[s] = make([]float64, len(orders))
		predicted[s] = make([]float64, len(orders))
	}
	if err := tbl.SetWeather(actual, predicted); err != nil {
		t.Fatalf("weather: %v", err)
	}
	return tbl
}

func testConfig(cases [][]float64) Config {
	return Config{
		Method:        "nelder-mead",
		Tolerance:     0.01,
		MaxIterations: 25,
		JitterStd:     0, // deterministic objective for tests
		Basis:         curve.BasisLinear,
		Cases:         cases,
	}
}

func newTestEngine(t *testing.T, cfg Config, tbl *model.Table) *Engine {
	t.Helper()
	e, err := New(cfg, tbl, schedule.New(schedule.BandExclusive), rand.New(rand.NewPCG(3, 5)), nil, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e
}

func TestNewRejectsUnknownMethod(t *testing.T) {
	cfg := testConfig([][]float64{{50, 0}})
	cfg.Method = "gradient-descent"
	tbl := testTable(t, 1)
	if _, err := New(cfg, tbl, schedule.New(schedule.BandExclusive), nil, nil, nil); err == nil {
		t.Fatal("expected error for unsupported method")
	}
}

func TestNewRejectsZeroScenarios(t *testing.T) {
	orders := []model.Order{{ID: "a", Latitude: 10.5, DollarPerArea: 1, MaxCloudCover: 1}}
	tbl, _ := model.NewTable(orders)
	if _, err := New(testConfig([][]float64{{50, 0}}), tbl, schedule.New(schedule.BandExclusive), nil, nil, nil); err == nil {
		t.Fatal("expected error for table without weather scenarios")
	}
}

func TestCostDeNegatesAverageRevenue(t *testing.T) {
	tbl := testTable(t, 2)
	e := newTestEngine(t, testConfig([][]float64{{50, 0}}), tbl)

	// Constant priority 50: tie in band (10,11) resolves to the $5 order, the
	// $9 order wins its band alone. Clear weather settles both.
	if got := e.cost([]float64{50, 0}); got != -14 {
		t.Errorf("cost = %v, want -14", got)
	}
	// Decreasing curve ranks the $8 order above the $5 order. Stays inside
	// [0, 100] over the sampled domain, so the penalty divisor is 1.
	if got := e.cost([]float64{90, -0.5}); got != -17 {
		t.Errorf("cost = %v, want -17", got)
	}
}

func TestCostDividesByValidityPenalty(t *testing.T) {
	tbl := testTable(t, 2)
	e := newTestEngine(t, testConfig([][]float64{{50, 0}}), tbl)

	// 100 - 5x drops to -145 at x=49: under = 145, so the penalty is
	// ceil(145^2 / 2) = 10513. The ranking still pays $17, scaled down.
	if got, want := e.cost([]float64{100, -5}), -(17.0 / 10513.0); got != want {
		t.Errorf("cost = %v, want %v", got, want)
	}
}

func TestRunAppendsRefinementCase(t *testing.T) {
	tbl := testTable(t, 2)
	e := newTestEngine(t, testConfig([][]float64{{50, 0}, {80, -0.2}}), tbl)

	results, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d rows, want 2 cases + refinement", len(results))
	}
	last := results[len(results)-1]
	if !last.Refinement {
		t.Errorf("last row should be the refinement case")
	}
	for _, r := range results {
		if r.Status != StatusConverged && r.Status != StatusBudgetExhausted {
			t.Errorf("case %d status = %q", r.Index, r.Status)
		}
		// The search minimizes from a -14 starting cost, so the achieved
		// revenue can only improve on the starting deck value.
		if r.Revenue < 14-1e-9 {
			t.Errorf("case %d revenue = %v, want >= 14", r.Index, r.Revenue)
		}
	}
}

func TestRunSkipsInadmissibleStartingCurve(t *testing.T) {
	tbl := testTable(t, 1)
	e := newTestEngine(t, testConfig([][]float64{{150, 0}, {50, 0}}), tbl)

	results, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d rows, want 3", len(results))
	}
	if results[0].Status != StatusSkipped {
		t.Errorf("case 0 status = %q, want skipped", results[0].Status)
	}
	if results[0].Revenue != 0 {
		t.Errorf("skipped case revenue = %v, want 0", results[0].Revenue)
	}
	if results[1].Status == StatusSkipped {
		t.Errorf("admissible case was skipped")
	}
}

func TestRunAllCasesSkippedOmitsRefinement(t *testing.T) {
	tbl := testTable(t, 1)
	e := newTestEngine(t, testConfig([][]float64{{150, 0}, {-20, 0}}), tbl)

	results, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d rows, want 2 (no refinement seed)", len(results))
	}
	for _, r := range results {
		if r.Status != StatusSkipped {
			t.Errorf("case %d status = %q, want skipped", r.Index, r.Status)
		}
	}
}

func TestRunCanceledContext(t *testing.T) {
	tbl := testTable(t, 1)
	e := newTestEngine(t, testConfig([][]float64{{50, 0}}), tbl)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Run(ctx); err == nil {
		t.Fatal("expected context error")
	}
}

func TestEvaluateReturnsOneRowPerCase(t *testing.T) {
	tbl := testTable(t, 2)
	e := newTestEngine(t, testConfig([][]float64{{50, 0}, {90, -0.5}}), tbl)

	results, err := e.Evaluate(context.Background())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d rows, want 2", len(results))
	}
	if results[0].Revenue != 14 || results[1].Revenue != 17 {
		t.Errorf("revenues = %v, %v, want 14 and 17", results[0].Revenue, results[1].Revenue)
	}
}

func TestCostSanitizesNaNCoefficients(t *testing.T) {
	tbl := testTable(t, 1)
	e := newTestEngine(t, testConfig([][]float64{{50, 0}}), tbl)
	if got, want := e.cost([]float64{50, math.NaN()}), e.cost([]float64{50, 0}); got != want {
		t.Errorf("NaN coefficient cost = %v, zero coefficient cost = %v", got, want)
	}
}

func TestConfigValidateCoefficientCount(t *testing.T) {
	cfg := Config{
		Method:        "nelder-mead",
		MaxIterations: 10,
		Basis:         curve.BasisPolyTrig,
		Cases:         [][]float64{{1, 2, 3}},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for wrong coefficient count")
	}
}
