package backend

import (
	"errors"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/devlink-io/devlink/internal/models"
)

// ErrBackendGone is returned when an action is sent after the backend
// handle was closed or replaced.
var ErrBackendGone = errors.New("backend: action sender is closed")

// ActionSender delivers actions to the daemon without blocking the caller.
// Calls are dispatched fire-and-forget; a send after Close fails softly
// with ErrBackendGone and must be treated as a warning, never a crash.
type ActionSender struct {
	h      *Handle
	mu     sync.Mutex
	closed bool
}

func newActionSender(h *Handle) *ActionSender {
	return &ActionSender{h: h}
}

// Send dispatches act for the device id. ActionBroadcast ignores id.
func (s *ActionSender) Send(id models.DeviceID, act Action) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrBackendGone
	}

	switch act.Kind {
	case ActionPair:
		if act.Approve {
			s.fire(devicePath(id), deviceIface+".requestPair")
		} else {
			s.fire(devicePath(id), deviceIface+".unpair")
		}
	case ActionDisconnect:
		s.fire(devicePath(id), deviceIface+".disconnect")
	case ActionPing:
		s.fire(dbus.ObjectPath(string(devicePath(id))+"/ping"), pingIface+".sendPing", act.Text)
	case ActionBroadcast:
		s.fire(daemonPath, daemonIface+".forceOnNetworkChange")
	default:
		return fmt.Errorf("backend: unknown action kind %d", act.Kind)
	}
	return nil
}

// Close marks the sender dead. Subsequent sends return ErrBackendGone.
func (s *ActionSender) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *ActionSender) fire(path dbus.ObjectPath, method string, args ...interface{}) {
	obj := s.h.conn.Object(busName, path)
	obj.Go(method, dbus.FlagNoReplyExpected, nil, args...)
}

// The synchronous variants below exist for one-shot CLI use, where the user
// wants the daemon's answer before the process exits.

// Pair requests (approve) or revokes pairing and waits for the reply.
func (h *Handle) Pair(id models.DeviceID, approve bool) error {
	method := deviceIface + ".requestPair"
	if !approve {
		method = deviceIface + ".unpair"
	}
	return h.conn.Object(busName, devicePath(id)).Call(method, 0).Err
}

// Ping sends a text message to the device and waits for the reply.
func (h *Handle) Ping(id models.DeviceID, text string) error {
	path := dbus.ObjectPath(string(devicePath(id)) + "/ping")
	return h.conn.Object(busName, path).Call(pingIface+".sendPing", 0, text).Err
}

// Broadcast asks the daemon to re-announce on all links and waits.
func (h *Handle) Broadcast() error {
	return h.conn.Object(busName, daemonPath).Call(daemonIface+".forceOnNetworkChange", 0).Err
}

// Snapshot enumerates every device the daemon knows and reads its current
// facts. Used by the CLI status command; the applet uses the event stream.
func (h *Handle) Snapshot() ([]DeviceUpdated, error) {
	ids, err := h.listDevices()
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}
	out := make([]DeviceUpdated, 0, len(ids))
	for _, id := range ids {
		out = append(out, DeviceUpdated{ID: id, Facts: h.snapshotDevice(id)})
	}
	return out, nil
}
