// Package models contains shared data structures used across the application.
package models

// DeviceID is the stable, backend-assigned identifier for a remote device.
// It is the only field used for equality and lookup; display names may change
// between sessions and must never be used as a key.
type DeviceID string

// DeviceIdentity pairs a stable device ID with its current display name.
type DeviceIdentity struct {
	ID   DeviceID
	Name string
}

// PairingState describes where a device is in the pairing lifecycle.
type PairingState int

const (
	// Unpaired means the device has no trust relationship with us.
	Unpaired PairingState = iota
	// Requested means we asked the backend to pair and are waiting for the
	// device's answer. The UI shows this optimistically before confirmation.
	Requested
	// Paired means the device accepted pairing.
	Paired
)

// String returns the lowercase name of the pairing state.
func (s PairingState) String() string {
	switch s {
	case Requested:
		return "requested"
	case Paired:
		return "paired"
	default:
		return "unpaired"
	}
}

// BatteryInfo is the last battery snapshot reported for a device.
type BatteryInfo struct {
	Percent  int
	Charging bool
}

// ConnectivityInfo holds signal strengths keyed by network handle
// (e.g. "lte", "wifi"). Strength ranges 0-4, -1 when unknown.
type ConnectivityInfo struct {
	Signals map[string]int
}

// DeviceSession is the in-memory record for one device known this run.
// A session is created the first time a device event names an unseen
// identity and is updated in place on every later event for that identity.
// Connectivity and battery are whole-snapshot fields: a newer event replaces
// them outright rather than merging field by field.
type DeviceSession struct {
	Identity     DeviceIdentity
	LinkKind     string
	Connectivity *ConnectivityInfo
	Battery      *BatteryInfo
	Pairing      PairingState
	Reachable    bool
}
