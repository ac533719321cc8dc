package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/orbitalsys/taskopt/infra/logger"
	"github.com/orbitalsys/taskopt/simulator"
)

var (
	synthDir       string
	synthOrders    int
	synthScenarios int
	synthSeed      uint64
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Generate a synthetic order deck and cloud-cover grids",
	RunE: func(cmd *cobra.Command, args []string) error {
		rng := rand.New(rand.NewPCG(synthSeed, synthSeed))
		orders, err := simulator.Generate(simulator.Config{Orders: synthOrders}, rng)
		if err != nil {
			return err
		}

		gridDir := filepath.Join(synthDir, "grids")
		if err := os.MkdirAll(gridDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		deckPath := filepath.Join(synthDir, "orders.csv")
		if err := simulator.WriteDeck(deckPath, orders); err != nil {
			return err
		}
		if err := simulator.WriteGrids(gridDir, orders, synthScenarios, rng); err != nil {
			return err
		}

		log := logger.New("synth")
		log.Infof("wrote %d orders to %s", len(orders), deckPath)
		log.Infof("wrote %d cloud grids to %s", synthScenarios, gridDir)
		return nil
	},
}

func init() {
	synthCmd.Flags().StringVar(&synthDir, "dir", "testdata", "output directory")
	synthCmd.Flags().IntVar(&synthOrders, "orders", 500, "number of orders")
	synthCmd.Flags().IntVar(&synthScenarios, "scenarios", 5, "number of cloud grids")
	synthCmd.Flags().Uint64Var(&synthSeed, "seed", 1, "random seed")
}
