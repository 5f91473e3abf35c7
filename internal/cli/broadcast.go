package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devlink-io/devlink/internal/backend"
)

var broadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "Re-announce this machine on all links",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(func(h *backend.Handle) error {
			if err := h.Broadcast(); err != nil {
				return fmt.Errorf("broadcast failed: %w", err)
			}
			fmt.Println(styleSuccess.Render("Broadcast sent."))
			fmt.Println(styleHint.Render("Nearby devices should appear within a few seconds."))
			return nil
		})
	},
}
