// Package session owns the in-memory device session state. Every backend
// event, user action and config reload is funneled through one reducer,
// applied strictly in arrival order, so the view and the persisted record
// can never diverge across two observable states.
package session

import (
	"github.com/devlink-io/devlink/internal/backend"
	"github.com/devlink-io/devlink/internal/models"
)

// Message is one item of the reducer's input. Exactly one message is applied
// at a time; a later message observes all state changes of an earlier one.
type Message interface {
	message()
}

// BackendConnectedMsg delivers a freshly connected backend handle together
// with its action sender. The two always arrive and leave together.
type BackendConnectedMsg struct {
	Handle  *backend.Handle
	Actions ActionSink
}

// DeviceEventMsg carries new facts about a device. The first event naming
// an unseen identity creates its session.
type DeviceEventMsg struct {
	ID    models.DeviceID
	Facts backend.DeviceFacts
}

// PingReceivedMsg reports an incoming ping from a device.
type PingReceivedMsg struct {
	ID   models.DeviceID
	Text string
}

// PairRequestMsg is the user approving (or revoking) pairing for a device.
type PairRequestMsg struct {
	ID      models.DeviceID
	Approve bool
}

// DisconnectMsg is the user dropping a device.
type DisconnectMsg struct {
	ID models.DeviceID
}

// BroadcastMsg asks the backend to re-announce us on all links.
type BroadcastMsg struct{}

// SendPingMsg sends a short text message to a device.
type SendPingMsg struct {
	ID   models.DeviceID
	Text string
}

// ConfigReloadedMsg replaces the persisted record wholesale after an
// external edit was detected on disk.
type ConfigReloadedMsg struct {
	Config models.Connections
}

func (BackendConnectedMsg) message() {}
func (DeviceEventMsg) message()      {}
func (PingReceivedMsg) message()     {}
func (PairRequestMsg) message()      {}
func (DisconnectMsg) message()       {}
func (BroadcastMsg) message()        {}
func (SendPingMsg) message()         {}
func (ConfigReloadedMsg) message()   {}
