// Package cli implements the devlink CLI commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/devlink-io/devlink/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "devlink",
	Short: "Pair with and monitor nearby devices",
	Long: `Devlink talks to the device connectivity daemon to discover nearby
devices, pair with them, watch their battery and signal state, and
exchange pings. Run without arguments for the interactive device list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run()
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(broadcastCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(pairCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(unpairCmd)
	rootCmd.AddCommand(versionCmd)
}
