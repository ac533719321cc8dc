package pricing

import (
	"math/rand/v2"
	"testing"

	"github.com/orbitalsys/taskopt/core/model"
)

func TestResolveFlatRateOverride(t *testing.T) {
	orders := []model.Order{
		{ID: "a", CustomerID: 82, DollarPerArea: 99},
		{ID: "b", CustomerID: 7, DollarPerArea: 12},
	}
	r := NewResolver(Config{FlatRate: map[int]float64{82: 1}}, nil)
	if err := r.Resolve(orders); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if orders[0].DollarPerArea != 1 {
		t.Errorf("flat-rate customer value = %v, want 1", orders[0].DollarPerArea)
	}
	if orders[1].DollarPerArea != 12 {
		t.Errorf("unlisted customer value changed: %v", orders[1].DollarPerArea)
	}
}

func TestResolveSegmentByTaskPriority(t *testing.T) {
	orders := []model.Order{
		{ID: "a", CustomerID: 306, TaskPriority: 708, DollarPerArea: 0},
		{ID: "b", CustomerID: 306, TaskPriority: 788, DollarPerArea: 0},
	}
	cfg := Config{
		SegmentCustomer: 306,
		SegmentRates:    map[int]float64{708: 2.75, 788: 0.3},
	}
	if err := NewResolver(cfg, nil).Resolve(orders); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if orders[0].DollarPerArea != 2.75 || orders[1].DollarPerArea != 0.3 {
		t.Errorf("segment values = %v, %v", orders[0].DollarPerArea, orders[1].DollarPerArea)
	}
}

func TestResolveSegmentMissingRateFatal(t *testing.T) {
	orders := []model.Order{{ID: "a", CustomerID: 306, TaskPriority: 999}}
	cfg := Config{SegmentCustomer: 306, SegmentRates: map[int]float64{708: 2.75}}
	if err := NewResolver(cfg, nil).Resolve(orders); err == nil {
		t.Fatal("expected error for unmapped task priority")
	}
}

func TestResolveJitterDistinguishesOrders(t *testing.T) {
	orders := []model.Order{
		{ID: "a", CustomerID: 306, TaskPriority: 708},
		{ID: "b", CustomerID: 306, TaskPriority: 708},
	}
	cfg := Config{SegmentCustomer: 306, SegmentRates: map[int]float64{708: 2.75}, JitterStd: 0.05}
	rng := rand.New(rand.NewPCG(1, 2))
	if err := NewResolver(cfg, rng).Resolve(orders); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if orders[0].DollarPerArea == orders[1].DollarPerArea {
		t.Errorf("jittered identical orders still share value %v", orders[0].DollarPerArea)
	}
}

func TestResolveJitterWithoutSource(t *testing.T) {
	cfg := Config{SegmentCustomer: 306, SegmentRates: map[int]float64{708: 1}, JitterStd: 0.1}
	orders := []model.Order{{ID: "a", CustomerID: 306, TaskPriority: 708}}
	if err := NewResolver(cfg, nil).Resolve(orders); err == nil {
		t.Fatal("expected error when jitter has no generator")
	}
}
