package tabular

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orbitalsys/taskopt/core/model"
)

const ordersCSV = `Latitude,Longitude,Cust_Num,Task_Pri,DollarPerSquare,MAX_CC
10.2,40.1,101,3,5.0,0.5
30.4,41.6,306,7,9.5,0.2
`

func TestReadOrders(t *testing.T) {
	orders, err := ReadOrders(strings.NewReader(ordersCSV))
	require.NoError(t, err)
	require.Len(t, orders, 2)

	require.Equal(t, "order-1", orders[0].ID)
	require.Equal(t, 10.2, orders[0].Latitude)
	require.Equal(t, 101, orders[0].CustomerID)
	require.Equal(t, 3, orders[0].TaskPriority)
	require.Equal(t, 5.0, orders[0].DollarPerArea)
	require.Equal(t, 0.5, orders[0].MaxCloudCover)

	require.Equal(t, 306, orders[1].CustomerID)
	require.Equal(t, 9.5, orders[1].DollarPerArea)
}

func TestReadOrdersMissingColumn(t *testing.T) {
	_, err := ReadOrders(strings.NewReader("Latitude,Longitude\n10.2,40.1\n"))
	require.ErrorContains(t, err, "Cust_Num")
}

func TestReadOrdersEmpty(t *testing.T) {
	_, err := ReadOrders(strings.NewReader(ordersCSV[:strings.Index(ordersCSV, "\n")+1]))
	require.ErrorIs(t, err, model.ErrEmptyTable)
}

func TestReadOrdersBadCell(t *testing.T) {
	bad := "Latitude,Longitude,Cust_Num,Task_Pri,DollarPerSquare,MAX_CC\nten,40.1,101,3,5.0,0.5\n"
	_, err := ReadOrders(strings.NewReader(bad))
	require.ErrorContains(t, err, "Latitude")
	require.ErrorContains(t, err, "row 2")
}

func TestReadGrid(t *testing.T) {
	g, err := ReadGrid(strings.NewReader("Latitude,Longitude,Value\n10.25,40.0,65\n10.5,40.0,0\n"))
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())

	// Coordinates inside a cell resolve through quarter-degree rounding.
	v, err := g.Lookup(10.3, 40.05)
	require.NoError(t, err)
	require.InDelta(t, 0.65, v, 1e-12)
}

func TestLoadGridDir(t *testing.T) {
	dir := t.TempDir()
	for i, pct := range []string{"10", "90", "50"} {
		content := "Latitude,Longitude,Value\n10.25,40.0," + pct + "\n"
		name := filepath.Join(dir, "scenario_"+string(rune('0'+i))+".csv")
		require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	}

	set, err := LoadGridDir(dir, 2)
	require.NoError(t, err)
	require.Len(t, set, 2)

	v, err := set.CloudCover(0, 10.25, 40.0)
	require.NoError(t, err)
	require.InDelta(t, 0.1, v, 1e-12)
	v, err = set.CloudCover(1, 10.25, 40.0)
	require.NoError(t, err)
	require.InDelta(t, 0.9, v, 1e-12)

	_, err = LoadGridDir(dir, 5)
	require.ErrorContains(t, err, "need 5")
}

func TestReadCases(t *testing.T) {
	csv := "a,b,c\n50,0,0\n100,-1,0.5\n"
	cases, err := ReadCases(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{50, 0, 0}, {100, -1, 0.5}}, cases)
}

func TestReadCasesSkipsIndexColumn(t *testing.T) {
	csv := ",a,b\n0,50,0\n1,100,-1\n"
	cases, err := ReadCases(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{50, 0}, {100, -1}}, cases)
}

func TestReadCasesEmpty(t *testing.T) {
	_, err := ReadCases(strings.NewReader("a,b\n"))
	require.ErrorContains(t, err, "no rows")
}
