package tray

import (
	"fmt"
	"log"
	"sync"

	"github.com/getlantern/systray"

	"github.com/devlink-io/devlink/internal/models"
	"github.com/devlink-io/devlink/internal/view"
)

const maxDeviceSlots = 6

var (
	state   DaemonState
	onStart func()
	onExit  func()

	// Pre-allocated device menu slots
	deviceSlots      [maxDeviceSlots]*systray.MenuItem
	devicePair       [maxDeviceSlots]*systray.MenuItem
	devicePing       [maxDeviceSlots]*systray.MenuItem
	deviceDisconnect [maxDeviceSlots]*systray.MenuItem
	noDevicesItem    *systray.MenuItem
	devicesItem      *systray.MenuItem
	broadcastItem    *systray.MenuItem
	quitItem         *systray.MenuItem

	// Maps slot index to device ID for click actions
	slotMu      sync.RWMutex
	slotDevices [maxDeviceSlots]models.DeviceID
	slotPaired  [maxDeviceSlots]bool
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready (connect the backend here).
// onExitFn is called when the tray exits (cleanup here).
func Run(s DaemonState, onStartFn, onExitFn func()) {
	state = s
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTooltip(formatTooltip(0))

	header := systray.AddMenuItem("Devlink", "")
	header.Disable()

	systray.AddSeparator()

	for i := 0; i < maxDeviceSlots; i++ {
		deviceSlots[i] = systray.AddMenuItem("", "")
		devicePair[i] = deviceSlots[i].AddSubMenuItem("Pair", "")
		devicePing[i] = deviceSlots[i].AddSubMenuItem("Send Ping", "")
		deviceDisconnect[i] = deviceSlots[i].AddSubMenuItem("Disconnect", "")
		deviceSlots[i].Hide()
	}

	noDevicesItem = systray.AddMenuItem("No devices found", "")
	noDevicesItem.Disable()

	systray.AddSeparator()

	devicesItem = systray.AddMenuItem("Devices…", "Open the device list")
	broadcastItem = systray.AddMenuItem("Find Devices", "Re-announce on all links")
	quitItem = systray.AddMenuItem("Quit", "Shut down the devlink daemon")

	if onStart != nil {
		onStart()
	}

	go handleClicks()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

func handleClicks() {
	for {
		select {
		case <-devicesItem.ClickedCh:
			if state != nil {
				state.TogglePopup()
			}

		case <-broadcastItem.ClickedCh:
			if state != nil {
				state.Broadcast()
			}

		case <-quitItem.ClickedCh:
			if state != nil {
				state.RequestShutdown()
			}

		// Device slot clicks
		case <-devicePair[0].ClickedCh:
			pairAtSlot(0)
		case <-devicePing[0].ClickedCh:
			pingAtSlot(0)
		case <-deviceDisconnect[0].ClickedCh:
			disconnectAtSlot(0)
		case <-devicePair[1].ClickedCh:
			pairAtSlot(1)
		case <-devicePing[1].ClickedCh:
			pingAtSlot(1)
		case <-deviceDisconnect[1].ClickedCh:
			disconnectAtSlot(1)
		case <-devicePair[2].ClickedCh:
			pairAtSlot(2)
		case <-devicePing[2].ClickedCh:
			pingAtSlot(2)
		case <-deviceDisconnect[2].ClickedCh:
			disconnectAtSlot(2)
		case <-devicePair[3].ClickedCh:
			pairAtSlot(3)
		case <-devicePing[3].ClickedCh:
			pingAtSlot(3)
		case <-deviceDisconnect[3].ClickedCh:
			disconnectAtSlot(3)
		case <-devicePair[4].ClickedCh:
			pairAtSlot(4)
		case <-devicePing[4].ClickedCh:
			pingAtSlot(4)
		case <-deviceDisconnect[4].ClickedCh:
			disconnectAtSlot(4)
		case <-devicePair[5].ClickedCh:
			pairAtSlot(5)
		case <-devicePing[5].ClickedCh:
			pingAtSlot(5)
		case <-deviceDisconnect[5].ClickedCh:
			disconnectAtSlot(5)
		}
	}
}

func slotDevice(slot int) (models.DeviceID, bool, bool) {
	slotMu.RLock()
	defer slotMu.RUnlock()
	id := slotDevices[slot]
	return id, slotPaired[slot], id != ""
}

func pairAtSlot(slot int) {
	id, paired, ok := slotDevice(slot)
	if !ok || state == nil {
		return
	}
	log.Printf("Tray: pair toggle for %s (slot %d)", id, slot)
	go state.PairDevice(id, !paired)
}

func pingAtSlot(slot int) {
	id, _, ok := slotDevice(slot)
	if !ok || state == nil {
		return
	}
	go state.PingDevice(id)
}

func disconnectAtSlot(slot int) {
	id, _, ok := slotDevice(slot)
	if !ok || state == nil {
		return
	}
	log.Printf("Tray: disconnect %s (slot %d)", id, slot)
	go state.DisconnectDevice(id)
}

// UpdateDevices refreshes the device menu items and tooltip. Called from the
// session loop after every applied message.
func UpdateDevices(rows []view.DeviceRow) {
	slotMu.Lock()
	for i := 0; i < maxDeviceSlots; i++ {
		slotDevices[i] = ""
		slotPaired[i] = false
	}
	for i, row := range rows {
		if i >= maxDeviceSlots {
			break
		}
		slotDevices[i] = row.ID
		slotPaired[i] = row.Paired
	}
	slotMu.Unlock()

	for i := 0; i < maxDeviceSlots; i++ {
		deviceSlots[i].Hide()
	}

	if len(rows) == 0 {
		noDevicesItem.Show()
	} else {
		noDevicesItem.Hide()
		for i, row := range rows {
			if i >= maxDeviceSlots {
				break
			}
			deviceSlots[i].SetTitle(formatDeviceTitle(row))
			devicePair[i].SetTitle(row.PairLabel)
			deviceSlots[i].Show()
		}
	}

	connected := 0
	for _, row := range rows {
		if row.Connected {
			connected++
		}
	}
	systray.SetTooltip(formatTooltip(connected))
}

func formatTooltip(connected int) string {
	if connected == 0 {
		return "Devlink: no devices connected"
	}
	return fmt.Sprintf("Devlink: %d connected", connected)
}

func formatDeviceTitle(row view.DeviceRow) string {
	marker := "○"
	if row.Connected {
		marker = "●"
	}
	title := fmt.Sprintf("%s %s", marker, row.Name)
	if row.Battery != "" {
		title += "  " + row.Battery
	}
	if row.Status == "pairing…" {
		title += "  (pairing)"
	}
	return title
}
