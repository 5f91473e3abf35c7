package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devlink-io/devlink/internal/backend"
	"github.com/devlink-io/devlink/internal/config"
	"github.com/devlink-io/devlink/internal/session"
	"github.com/devlink-io/devlink/internal/view"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"ls"},
	Short:   "List known devices and their state",
	RunE:    runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := config.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open device record: %w", err)
	}

	return withBackend(func(h *backend.Handle) error {
		devices, err := h.Snapshot()
		if err != nil {
			return fmt.Errorf("failed to enumerate devices: %w", err)
		}

		// Feed the snapshot through the same reducer the applet uses, so
		// the CLI reports the identical merged view of live and persisted
		// state.
		mgr := session.NewManager(store.Load())
		for _, d := range devices {
			mgr.Apply(session.DeviceEventMsg{ID: d.ID, Facts: d.Facts})
		}
		rows := view.Project(mgr.Sessions())

		if len(rows) == 0 {
			fmt.Println(styleHint.Render("No devices found. Try 'devlink broadcast'."))
			return nil
		}

		fmt.Println(styleBrand.Render("Devices"))
		for _, row := range rows {
			printDeviceRow(row)
		}
		return nil
	})
}

func printDeviceRow(row view.DeviceRow) {
	var status string
	switch row.Status {
	case "connected":
		status = badgeConnected.Render(row.Status)
	case "pairing…":
		status = badgePending.Render(row.Status)
	default:
		status = badgeOffline.Render(row.Status)
	}

	line := fmt.Sprintf("  %s  %s", styleValue.Render(row.Name), status)
	if row.Paired {
		line += "  " + badgePaired.Render("paired")
	}
	if row.Battery != "" {
		line += "  " + styleLabel.Render(row.Battery)
	}
	if row.Signal != "" {
		line += "  " + styleLabel.Render(row.Signal)
	}
	fmt.Println(line)
	fmt.Printf("    %s\n", styleLabel.Render(string(row.ID)))
}
