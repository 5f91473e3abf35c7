package backend

import "github.com/devlink-io/devlink/internal/models"

// Event is one item from the daemon's event stream.
type Event interface {
	event()
}

// DeviceFacts is the payload of a device update. Nil pointer fields were not
// part of the update; non-nil connectivity and battery values are complete
// snapshots that replace whatever was stored before.
type DeviceFacts struct {
	Name         string
	LinkKind     string
	Reachable    *bool
	Paired       *bool
	Battery      *models.BatteryInfo
	Connectivity *models.ConnectivityInfo
}

// DeviceUpdated reports new facts about a device. The first update for an
// unseen identity introduces the device.
type DeviceUpdated struct {
	ID    models.DeviceID
	Facts DeviceFacts
}

// PingReceived reports an incoming ping announcement from a device.
type PingReceived struct {
	ID   models.DeviceID
	Text string
}

func (DeviceUpdated) event() {}
func (PingReceived) event()  {}
