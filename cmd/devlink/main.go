// Package main is the entry point for the devlink CLI/TUI.
package main

import (
	"os"

	"github.com/devlink-io/devlink/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
