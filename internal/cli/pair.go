package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devlink-io/devlink/internal/backend"
	"github.com/devlink-io/devlink/internal/config"
)

var pairCmd = &cobra.Command{
	Use:   "pair <device>",
	Short: "Request pairing with a device",
	Long: `Request pairing with a device by ID or name prefix. The device is
remembered as trusted; the remote side still has to accept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPair(args[0], true)
	},
}

var unpairCmd = &cobra.Command{
	Use:   "unpair <device>",
	Short: "Revoke pairing with a device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPair(args[0], false)
	},
}

func runPair(arg string, approve bool) error {
	store, err := config.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open device record: %w", err)
	}

	return withBackend(func(h *backend.Handle) error {
		id, err := resolveDevice(h, arg)
		if err != nil {
			return err
		}

		if err := h.Pair(id, approve); err != nil {
			verb := "pair"
			if !approve {
				verb = "unpair"
			}
			return fmt.Errorf("failed to %s %s: %w", verb, id, err)
		}

		// Keep the durable record in step with what we just asked for.
		cfg := store.Load()
		var changed bool
		if approve {
			changed = cfg.AddPaired(id)
		} else {
			changed = cfg.RemovePaired(id)
		}
		if changed {
			if err := store.Save(cfg); err != nil {
				return fmt.Errorf("failed to save device record: %w", err)
			}
		}

		if approve {
			fmt.Println(styleSuccess.Render("Pairing requested."))
			fmt.Println(styleHint.Render("Accept the request on the other device."))
		} else {
			fmt.Println(styleSuccess.Render("Device unpaired."))
		}
		return nil
	})
}
