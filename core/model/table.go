package model

import (
	"errors"
	"fmt"
)

// ErrEmptyTable is returned when a table is built without any orders.
var ErrEmptyTable = errors.New("order table is empty")

// Table holds the order deck together with its per-scenario weather columns
// and the scratch columns recomputed on every curve evaluation. Scenario data
// is indexed by integer scenario number so the schema is fixed at build time.
type Table struct {
	Orders []Order

	MinLatitude float64
	MaxLatitude float64

	// Actual and Predicted are cloud-cover fractions, [scenario][order].
	// They are immutable once assigned.
	Actual    [][]float64
	Predicted [][]float64

	// Derived columns, one entry per order. Overwritten on each evaluation.
	Priority   []float64
	Score      []float64
	TotalScore []float64
	Scheduled  []bool
}

// NewTable builds a table around the given orders and derives the latitude
// extent. An empty deck is an input defect.
func NewTable(orders []Order) (*Table, error) {
	if len(orders) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{
		Orders:     orders,
		Priority:   make([]float64, len(orders)),
		Score:      make([]float64, len(orders)),
		TotalScore: make([]float64, len(orders)),
		Scheduled:  make([]bool, len(orders)),
	}
	t.MinLatitude = orders[0].Latitude
	t.MaxLatitude = orders[0].Latitude
	for _, o := range orders[1:] {
		if o.Latitude < t.MinLatitude {
			t.MinLatitude = o.Latitude
		}
		if o.Latitude > t.MaxLatitude {
			t.MaxLatitude = o.Latitude
		}
	}
	return t, nil
}

// SetWeather installs the per-scenario cloud-cover columns. Both slices must
// have one row per scenario and one value per order.
func (t *Table) SetWeather(actual, predicted [][]float64) error {
	if len(actual) != len(predicted) {
		return fmt.Errorf("weather columns mismatch: %d actual vs %d predicted scenarios", len(actual), len(predicted))
	}
	for s := range actual {
		if len(actual[s]) != len(t.Orders) || len(predicted[s]) != len(t.Orders) {
			return fmt.Errorf("weather scenario %d: column length does not match %d orders", s, len(t.Orders))
		}
	}
	t.Actual = actual
	t.Predicted = predicted
	return nil
}

// Scenarios returns the number of weather scenarios assigned to the table.
func (t *Table) Scenarios() int { return len(t.Actual) }

// ResetSchedule clears all scheduled flags. Called before every scenario.
func (t *Table) ResetSchedule() {
	for i := range t.Scheduled {
		t.Scheduled[i] = false
	}
}

// Clone returns a copy safe for concurrent evaluation of an independent case.
// Input columns (orders, weather) are shared read-only; the scratch columns
// are owned by the copy.
func (t *Table) Clone() *Table {
	cp := &Table{
		Orders:      t.Orders,
		MinLatitude: t.MinLatitude,
		MaxLatitude: t.MaxLatitude,
		Actual:      t.Actual,
		Predicted:   t.Predicted,
		Priority:    make([]float64, len(t.Orders)),
		Score:       make([]float64, len(t.Orders)),
		TotalScore:  make([]float64, len(t.Orders)),
		Scheduled:   make([]bool, len(t.Orders)),
	}
	copy(cp.Priority, t.Priority)
	copy(cp.Score, t.Score)
	copy(cp.TotalScore, t.TotalScore)
	copy(cp.Scheduled, t.Scheduled)
	return cp
}
