// Package tui implements the interactive device list shown in the popup.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/devlink-io/devlink/internal/config"
	"github.com/devlink-io/devlink/internal/notify"
	"github.com/devlink-io/devlink/internal/session"
)

// Run launches the TUI. It loads the persisted device record, seeds the
// session manager from it and connects to the backend from Init.
func Run() error {
	store, err := config.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open device record: %w", err)
	}

	mgr := session.NewManager(store.Load())
	model := NewModel(mgr, store, notify.Desktop{})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
