// Package tray implements the system tray icon and menu for the daemon.
package tray

import "github.com/devlink-io/devlink/internal/models"

// DaemonState lets tray clicks reach the daemon without the tray owning
// any session state itself.
type DaemonState interface {
	PairDevice(id models.DeviceID, approve bool)
	PingDevice(id models.DeviceID)
	DisconnectDevice(id models.DeviceID)
	Broadcast()
	TogglePopup()
	RequestShutdown()
}
