// Package tabular loads the engine's external inputs from cleaned CSV
// tables: the active order deck, quarter-degree cloud-cover grids and
// starting-coefficient case files.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/orbitalsys/taskopt/core/model"
)

// Order-table column names as produced by the upstream extraction jobs.
const (
	colLatitude  = "Latitude"
	colLongitude = "Longitude"
	colCustomer  = "Cust_Num"
	colTaskPri   = "Task_Pri"
	colDollar    = "DollarPerSquare"
	colMaxCC     = "MAX_CC"
)

// LoadOrders reads the active order deck. All columns are required; a missing
// column or malformed cell is an input defect.
func LoadOrders(path string) ([]model.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open orders table: %w", err)
	}
	defer f.Close()
	return ReadOrders(f)
}

// ReadOrders parses the order deck from r.
func ReadOrders(r io.Reader) ([]model.Order, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read orders header: %w", err)
	}
	idx, err := columnIndex(header, colLatitude, colLongitude, colCustomer, colTaskPri, colDollar, colMaxCC)
	if err != nil {
		return nil, err
	}

	var orders []model.Order
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read orders row %d: %w", row, err)
		}
		o := model.Order{ID: fmt.Sprintf("order-%d", row-1)}
		if o.Latitude, err = cellFloat(rec, idx[colLatitude], row, colLatitude); err != nil {
			return nil, err
		}
		if o.Longitude, err = cellFloat(rec, idx[colLongitude], row, colLongitude); err != nil {
			return nil, err
		}
		if o.DollarPerArea, err = cellFloat(rec, idx[colDollar], row, colDollar); err != nil {
			return nil, err
		}
		if o.MaxCloudCover, err = cellFloat(rec, idx[colMaxCC], row, colMaxCC); err != nil {
			return nil, err
		}
		if o.CustomerID, err = cellInt(rec, idx[colCustomer], row, colCustomer); err != nil {
			return nil, err
		}
		if o.TaskPriority, err = cellInt(rec, idx[colTaskPri], row, colTaskPri); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if len(orders) == 0 {
		return nil, model.ErrEmptyTable
	}
	return orders, nil
}

func columnIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("orders table is missing column %q", name)
		}
	}
	return idx, nil
}

func cellFloat(rec []string, col, row int, name string) (float64, error) {
	if col >= len(rec) {
		return 0, fmt.Errorf("row %d: missing cell for column %q", row, name)
	}
	v, err := strconv.ParseFloat(rec[col], 64)
	if err != nil {
		return 0, fmt.Errorf("row %d, column %q: %w", row, name, err)
	}
	return v, nil
}

func cellInt(rec []string, col, row int, name string) (int, error) {
	v, err := cellFloat(rec, col, row, name)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
