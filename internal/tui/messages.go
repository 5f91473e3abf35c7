package tui

import "github.com/devlink-io/devlink/internal/backend"

// backendConnectedMsg signals a successful backend connection.
type backendConnectedMsg struct {
	handle  *backend.Handle
	events  <-chan backend.Event
	actions *backend.ActionSender
}

// backendEventMsg carries one item from the backend event stream.
type backendEventMsg struct {
	ev backend.Event
}

// backendGoneMsg signals the event stream ended; a new connect is needed.
type backendGoneMsg struct{}

// errorMsg carries an error to display in the status line.
type errorMsg struct {
	err error
}

// clearErrorMsg clears the error display.
type clearErrorMsg struct{}
