package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// LoadCases reads the starting-coefficient table: one row per search case,
// one column per curve coefficient. An unnamed leading column (a row index
// left over from the extraction) is skipped.
func LoadCases(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cases table: %w", err)
	}
	defer f.Close()
	return ReadCases(f)
}

// ReadCases parses the starting-coefficient table from r.
func ReadCases(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read cases header: %w", err)
	}
	start := 0
	if len(header) > 0 && header[0] == "" {
		start = 1
	}
	if len(header)-start == 0 {
		return nil, fmt.Errorf("cases table has no coefficient columns")
	}

	var cases [][]float64
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read cases row %d: %w", row, err)
		}
		coeffs := make([]float64, 0, len(rec)-start)
		for col := start; col < len(rec); col++ {
			v, err := cellFloat(rec, col, row, header[col])
			if err != nil {
				return nil, err
			}
			coeffs = append(coeffs, v)
		}
		cases = append(cases, coeffs)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("cases table has no rows")
	}
	return cases, nil
}
