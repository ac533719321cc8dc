package main

import (
	"os"

	"github.com/orbitalsys/taskopt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
