package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devlink-io/devlink/internal/backend"
)

var pingCmd = &cobra.Command{
	Use:   "ping <device> [message...]",
	Short: "Send a ping to a device",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args[1:], " ")
		return withBackend(func(h *backend.Handle) error {
			id, err := resolveDevice(h, args[0])
			if err != nil {
				return err
			}
			if err := h.Ping(id, text); err != nil {
				return fmt.Errorf("failed to ping %s: %w", id, err)
			}
			fmt.Println(styleSuccess.Render("Ping sent."))
			return nil
		})
	},
}
