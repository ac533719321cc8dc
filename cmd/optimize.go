package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orbitalsys/taskopt/app"
	"github.com/orbitalsys/taskopt/config"
	"github.com/orbitalsys/taskopt/infra/logger"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run the full multi-start curve search",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		svc, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := svc.Close(); err != nil {
				logger.New("main").Errorf("service close: %v", err)
			}
		}()
		return svc.Run(ctx, outPath)
	},
}
