package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/devlink-io/devlink/internal/backend"
)

func connectBackendCmd() tea.Cmd {
	return func() tea.Msg {
		handle, events, actions, err := backend.Connect()
		if err != nil {
			return errorMsg{err: err}
		}
		return backendConnectedMsg{handle: handle, events: events, actions: actions}
	}
}

// waitForEventCmd blocks on the backend stream and resolves with the next
// event. The model re-issues it after every delivery.
func waitForEventCmd(events <-chan backend.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return backendGoneMsg{}
		}
		return backendEventMsg{ev: ev}
	}
}

func clearErrorCmd() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}
