package cli

import (
	"fmt"
	"strings"

	"github.com/devlink-io/devlink/internal/backend"
	"github.com/devlink-io/devlink/internal/models"
)

// withBackend opens a one-shot backend connection, runs fn, and closes it.
func withBackend(fn func(h *backend.Handle) error) error {
	h, _, actions, err := backend.Connect()
	if err != nil {
		return fmt.Errorf("failed to reach the connectivity daemon: %w", err)
	}
	defer h.Close()
	defer actions.Close()
	return fn(h)
}

// resolveDevice matches arg against known device IDs and names. A unique
// name prefix is enough; an ambiguous one lists the candidates.
func resolveDevice(h *backend.Handle, arg string) (models.DeviceID, error) {
	devices, err := h.Snapshot()
	if err != nil {
		return "", err
	}

	var matches []backend.DeviceUpdated
	for _, d := range devices {
		if string(d.ID) == arg {
			return d.ID, nil
		}
		if strings.HasPrefix(strings.ToLower(d.Facts.Name), strings.ToLower(arg)) {
			matches = append(matches, d)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no device matches %q", arg)
	case 1:
		return matches[0].ID, nil
	default:
		names := make([]string, 0, len(matches))
		for _, d := range matches {
			names = append(names, d.Facts.Name)
		}
		return "", fmt.Errorf("%q is ambiguous: %s", arg, strings.Join(names, ", "))
	}
}
