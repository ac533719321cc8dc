// Package export writes optimizer run results to files for downstream
// analysis.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/orbitalsys/taskopt/core/engine"
)

// WriteJSON writes run results to w in JSON format.
func WriteJSON(w io.Writer, results []engine.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// WriteCSV writes run results to w in CSV format, coefficients last so the
// column count can vary with the curve basis.
func WriteCSV(w io.Writer, results []engine.Result) error {
	cw := csv.NewWriter(w)
	header := []string{"case_id", "index", "status", "revenue", "cost", "elapsed_ms", "refinement"}
	width := 0
	for _, r := range results {
		if len(r.Coefficients) > width {
			width = len(r.Coefficients)
		}
	}
	for i := 0; i < width; i++ {
		header = append(header, fmt.Sprintf("c%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{
			r.CaseID,
			strconv.Itoa(r.Index),
			r.Status,
			strconv.FormatFloat(r.Revenue, 'f', -1, 64),
			strconv.FormatFloat(r.Cost, 'f', -1, 64),
			strconv.FormatInt(r.Elapsed.Milliseconds(), 10),
			strconv.FormatBool(r.Refinement),
		}
		for i := 0; i < width; i++ {
			if i < len(r.Coefficients) {
				rec = append(rec, strconv.FormatFloat(r.Coefficients[i], 'f', -1, 64))
			} else {
				rec = append(rec, "")
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DefaultFilename returns a timestamped results file name, e.g.
// results_20260831T142233.csv.
func DefaultFilename(format string) string {
	return fmt.Sprintf("results_%s.%s", time.Now().Format("20060102T150405"), format)
}

// WriteFile writes results to path, picking the format from the extension
// (.json or .csv).
func WriteFile(path string, results []engine.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	defer f.Close()
	if strings.HasSuffix(path, ".json") {
		return WriteJSON(f, results)
	}
	return WriteCSV(f, results)
}
