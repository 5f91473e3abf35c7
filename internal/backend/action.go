// Package backend talks to the peer-device connectivity daemon over the
// session D-Bus. The daemon owns discovery, the pairing handshake and the
// wire protocol; this package only translates its signals into events and
// our actions into method calls.
package backend

// ActionKind enumerates the operations the daemon accepts for a device.
type ActionKind int

const (
	// ActionPair requests or revokes pairing, depending on Approve.
	ActionPair ActionKind = iota
	// ActionDisconnect drops the link to a device.
	ActionDisconnect
	// ActionPing sends a short text message to a device.
	ActionPing
	// ActionBroadcast asks the daemon to re-announce us on all links.
	// It targets no particular device.
	ActionBroadcast
)

// Action is one fire-and-forget instruction for the daemon.
type Action struct {
	Kind    ActionKind
	Approve bool   // ActionPair only
	Text    string // ActionPing only
}

// String names the action for log lines.
func (a Action) String() string {
	switch a.Kind {
	case ActionPair:
		if a.Approve {
			return "pair"
		}
		return "unpair"
	case ActionDisconnect:
		return "disconnect"
	case ActionPing:
		return "ping"
	case ActionBroadcast:
		return "broadcast"
	}
	return "unknown"
}
