package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orbitalsys/taskopt/core/engine"
)

func sampleResults() []engine.Result {
	return []engine.Result{
		{
			CaseID:       "case-000",
			Index:        0,
			Status:       engine.StatusConverged,
			Coefficients: []float64{50, -0.5},
			Revenue:      120.5,
			Cost:         -120.5,
			Elapsed:      250 * time.Millisecond,
		},
		{
			CaseID:     "refinement",
			Index:      1,
			Status:     engine.StatusBudgetExhausted,
			Revenue:    118,
			Cost:       -118,
			Refinement: true,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResults()))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	require.Equal(t, []string{"case_id", "index", "status", "revenue", "cost", "elapsed_ms", "refinement", "c0", "c1"}, recs[0])
	require.Equal(t, "case-000", recs[1][0])
	require.Equal(t, "250", recs[1][5])
	require.Equal(t, "50", recs[1][7])
	// Results without coefficients pad with empty cells.
	require.Equal(t, "", recs[2][7])
	require.Equal(t, "true", recs[2][6])
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResults()))

	var got []engine.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, "case-000", got[0].CaseID)
	require.True(t, got[1].Refinement)
}

func TestWriteFilePicksFormat(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out.json")
	require.NoError(t, WriteFile(jsonPath, sampleResults()))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.True(t, json.Valid(data))

	csvPath := filepath.Join(dir, "out.csv")
	require.NoError(t, WriteFile(csvPath, sampleResults()))
	data, err = os.ReadFile(csvPath)
	require.NoError(t, err)
	recs, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
}

func TestDefaultFilename(t *testing.T) {
	name := DefaultFilename("csv")
	require.Regexp(t, `^results_\d{8}T\d{6}\.csv$`, name)
}
