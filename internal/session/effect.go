package session

import (
	"github.com/devlink-io/devlink/internal/backend"
	"github.com/devlink-io/devlink/internal/models"
)

// ActionSink is where the reducer's send effects are delivered. Satisfied
// by backend.ActionSender; tests substitute a recorder.
type ActionSink interface {
	Send(id models.DeviceID, act backend.Action) error
}

// Effect is a side effect produced by one reducer step. Effects are
// executed after the state mutation, never during it, so state reads
// within a step cannot observe a pending effect's result.
type Effect interface {
	effect()
}

// SendActionEffect delivers one action to the backend. Via is captured at
// reduction time: a Disconnect that tears down the shared handle still
// sends its final action through the handle it tore down.
type SendActionEffect struct {
	Target models.DeviceID
	Action backend.Action
	Via    ActionSink
}

// SaveConfigEffect persists a snapshot of the device record. The snapshot
// is taken inside the reducer step so later steps cannot bleed into it.
type SaveConfigEffect struct {
	Config models.Connections
}

// NotifyEffect surfaces a desktop notification.
type NotifyEffect struct {
	Title string
	Body  string
}

func (SendActionEffect) effect() {}
func (SaveConfigEffect) effect() {}
func (NotifyEffect) effect()     {}
