package simulator

import (
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orbitalsys/taskopt/infra/tabular"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(7, 7))
}

func TestGenerateBounds(t *testing.T) {
	cfg := Config{Orders: 200, MinLatitude: 10, MaxLatitude: 30, MinLongitude: -5, MaxLongitude: 5}
	orders, err := Generate(cfg, testRNG())
	require.NoError(t, err)
	require.Len(t, orders, 200)

	ids := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		require.GreaterOrEqual(t, o.Latitude, 10.0)
		require.Less(t, o.Latitude, 30.0)
		require.GreaterOrEqual(t, o.Longitude, -5.0)
		require.Less(t, o.Longitude, 5.0)
		require.Positive(t, o.DollarPerArea)
		require.GreaterOrEqual(t, o.TaskPriority, 1)
		require.LessOrEqual(t, o.TaskPriority, 9)
		require.GreaterOrEqual(t, o.MaxCloudCover, 0.1)
		require.Less(t, o.MaxCloudCover, 1.0)
		ids[o.ID] = struct{}{}
	}
	require.Len(t, ids, 200, "order ids must be unique")
}

func TestGenerateRejectsEmptyRange(t *testing.T) {
	_, err := Generate(Config{Orders: 10, MinLatitude: 30, MaxLatitude: 10, MinLongitude: 0, MaxLongitude: 1}, testRNG())
	require.ErrorContains(t, err, "latitude range")
}

func TestDeckRoundTrip(t *testing.T) {
	orders, err := Generate(Config{Orders: 25}, testRNG())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "deck.csv")
	require.NoError(t, WriteDeck(path, orders))

	loaded, err := tabular.LoadOrders(path)
	require.NoError(t, err)
	require.Len(t, loaded, 25)
	for i, o := range loaded {
		require.InDelta(t, orders[i].Latitude, o.Latitude, 1e-4)
		require.Equal(t, orders[i].CustomerID, o.CustomerID)
		require.InDelta(t, orders[i].DollarPerArea, o.DollarPerArea, 0.01)
	}
}

func TestWriteGridsCoverDeck(t *testing.T) {
	orders, err := Generate(Config{Orders: 40}, testRNG())
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, WriteGrids(dir, orders, 3, testRNG()))

	set, err := tabular.LoadGridDir(dir, 3)
	require.NoError(t, err)
	for s := 0; s < 3; s++ {
		for _, o := range orders {
			v, err := set.CloudCover(s, o.Latitude, o.Longitude)
			require.NoError(t, err)
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
		}
	}
}
