// Package cmd defines the command-line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	cfgPath string
	outPath string
)

var rootCmd = &cobra.Command{
	Use:   "taskopt",
	Short: "Priority-curve revenue optimizer for satellite tasking",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&outPath, "output", "o", "", "results file (defaults to a timestamped csv)")
	rootCmd.AddCommand(optimizeCmd, evaluateCmd, synthCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
