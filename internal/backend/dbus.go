package backend

import (
	"fmt"
	"log"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/devlink-io/devlink/internal/models"
)

const (
	busName           = "org.kde.kdeconnect"
	daemonPath        = dbus.ObjectPath("/modules/kdeconnect")
	daemonIface       = "org.kde.kdeconnect.daemon"
	deviceIface       = "org.kde.kdeconnect.device"
	batteryIface      = deviceIface + ".battery"
	connectivityIface = deviceIface + ".connectivity_report"
	pingIface         = deviceIface + ".ping"
	propsIface        = "org.freedesktop.DBus.Properties"
)

// devicePath converts a device ID to its daemon object path.
func devicePath(id models.DeviceID) dbus.ObjectPath {
	return dbus.ObjectPath(string(daemonPath) + "/devices/" + string(id))
}

// idFromPath extracts a device ID from a daemon object path. Plugin objects
// live one level below the device ("/devices/<id>/battery"), so everything
// after the next separator is dropped. Returns "" for unrelated paths.
func idFromPath(path dbus.ObjectPath) models.DeviceID {
	prefix := string(daemonPath) + "/devices/"
	s := string(path)
	if !strings.HasPrefix(s, prefix) {
		return ""
	}
	rest := s[len(prefix):]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return models.DeviceID(rest)
}

// Handle is an open connection to the connectivity daemon. It is owned by
// whoever received it from Connect and is replaced wholesale on reconnect;
// a Handle is never reused after Close.
type Handle struct {
	conn    *dbus.Conn
	events  chan Event
	signals chan *dbus.Signal
	done    chan struct{}
}

// Connect dials the session bus, verifies the daemon is present, and starts
// the event stream. The returned channel yields events until the handle is
// closed; it is not restartable, after a failure a new Connect is required.
func Connect() (*Handle, <-chan Event, *ActionSender, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to session bus: %w", err)
	}

	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return nil, nil, nil, fmt.Errorf("list bus names: %w", err)
	}
	found := false
	for _, n := range names {
		if n == busName {
			found = true
			break
		}
	}
	if !found {
		return nil, nil, nil, fmt.Errorf("%s not found on session bus, is the connectivity daemon running?", busName)
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(daemonIface),
	); err != nil {
		return nil, nil, nil, fmt.Errorf("subscribe to daemon signals: %w", err)
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(propsIface),
		dbus.WithMatchMember("PropertiesChanged"),
		dbus.WithMatchPathNamespace(daemonPath),
	); err != nil {
		return nil, nil, nil, fmt.Errorf("subscribe to property changes: %w", err)
	}

	h := &Handle{
		conn:    conn,
		events:  make(chan Event, 32),
		signals: make(chan *dbus.Signal, 32),
		done:    make(chan struct{}),
	}
	conn.Signal(h.signals)

	go h.run()

	return h, h.events, newActionSender(h), nil
}

// Close tears down the handle. The event channel is closed once the
// translation goroutine drains.
func (h *Handle) Close() {
	close(h.done)
	h.conn.RemoveSignal(h.signals)
}

func (h *Handle) run() {
	defer close(h.events)

	// Seed the stream with every device the daemon already knows, reachable
	// or not, so paired-but-offline devices show up immediately.
	ids, err := h.listDevices()
	if err != nil {
		log.Printf("Warning: initial device enumeration failed: %v", err)
	}
	for _, id := range ids {
		h.emit(DeviceUpdated{ID: id, Facts: h.snapshotDevice(id)})
	}

	for {
		select {
		case <-h.done:
			return
		case sig, ok := <-h.signals:
			if !ok {
				return
			}
			h.handleSignal(sig)
		}
	}
}

func (h *Handle) emit(ev Event) {
	select {
	case h.events <- ev:
	case <-h.done:
	}
}

func (h *Handle) listDevices() ([]models.DeviceID, error) {
	var ids []string
	obj := h.conn.Object(busName, daemonPath)
	if err := obj.Call(daemonIface+".devices", 0, false, false).Store(&ids); err != nil {
		return nil, err
	}
	out := make([]models.DeviceID, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.DeviceID(id))
	}
	return out, nil
}

// snapshotDevice reads everything the daemon exposes for one device.
// Missing plugin interfaces (no battery, no modem) are left nil.
func (h *Handle) snapshotDevice(id models.DeviceID) DeviceFacts {
	facts := DeviceFacts{}

	if v, err := h.getProp(devicePath(id), deviceIface, "name"); err == nil {
		if s, ok := v.Value().(string); ok {
			facts.Name = s
		}
	}
	if v, err := h.getProp(devicePath(id), deviceIface, "type"); err == nil {
		if s, ok := v.Value().(string); ok {
			facts.LinkKind = s
		}
	}
	if v, err := h.getProp(devicePath(id), deviceIface, "isReachable"); err == nil {
		if b, ok := v.Value().(bool); ok {
			facts.Reachable = &b
		}
	}
	if v, err := h.getProp(devicePath(id), deviceIface, "isPaired"); err == nil {
		if b, ok := v.Value().(bool); ok {
			facts.Paired = &b
		}
	}

	batteryPath := dbus.ObjectPath(string(devicePath(id)) + "/battery")
	if v, err := h.getProp(batteryPath, batteryIface, "charge"); err == nil {
		if pct, ok := variantInt(v); ok && pct >= 0 {
			battery := &models.BatteryInfo{Percent: pct}
			if cv, err := h.getProp(batteryPath, batteryIface, "isCharging"); err == nil {
				if b, ok := cv.Value().(bool); ok {
					battery.Charging = b
				}
			}
			facts.Battery = battery
		}
	}

	connPath := dbus.ObjectPath(string(devicePath(id)) + "/connectivity_report")
	if v, err := h.getProp(connPath, connectivityIface, "cellularNetworkType"); err == nil {
		if kind, ok := v.Value().(string); ok && kind != "" {
			strength := -1
			if sv, err := h.getProp(connPath, connectivityIface, "cellularNetworkStrength"); err == nil {
				if n, ok := variantInt(sv); ok {
					strength = n
				}
			}
			facts.Connectivity = &models.ConnectivityInfo{
				Signals: map[string]int{kind: strength},
			}
		}
	}

	return facts
}

func (h *Handle) getProp(path dbus.ObjectPath, iface, prop string) (dbus.Variant, error) {
	obj := h.conn.Object(busName, path)
	var v dbus.Variant
	err := obj.Call(propsIface+".Get", 0, iface, prop).Store(&v)
	return v, err
}

func (h *Handle) handleSignal(sig *dbus.Signal) {
	switch sig.Name {
	case daemonIface + ".deviceAdded":
		if id, ok := signalDeviceID(sig); ok {
			h.emit(DeviceUpdated{ID: id, Facts: h.snapshotDevice(id)})
		}

	case daemonIface + ".deviceRemoved":
		// The daemon forgot the device. Sessions are only removed by an
		// explicit user disconnect, so this surfaces as unreachable.
		if id, ok := signalDeviceID(sig); ok {
			unreachable := false
			h.emit(DeviceUpdated{ID: id, Facts: DeviceFacts{Reachable: &unreachable}})
		}

	case daemonIface + ".deviceVisibilityChanged":
		if len(sig.Body) < 2 {
			return
		}
		id, ok1 := sig.Body[0].(string)
		visible, ok2 := sig.Body[1].(bool)
		if !ok1 || !ok2 {
			return
		}
		facts := h.snapshotDevice(models.DeviceID(id))
		facts.Reachable = &visible
		h.emit(DeviceUpdated{ID: models.DeviceID(id), Facts: facts})

	case pingIface + ".pingReceived":
		id := idFromPath(sig.Path)
		if id == "" || len(sig.Body) < 1 {
			return
		}
		text, _ := sig.Body[0].(string)
		h.emit(PingReceived{ID: id, Text: text})

	case propsIface + ".PropertiesChanged":
		id := idFromPath(sig.Path)
		if id == "" || len(sig.Body) < 2 {
			return
		}
		iface, ok := sig.Body[0].(string)
		if !ok {
			return
		}
		changed, ok := sig.Body[1].(map[string]dbus.Variant)
		if !ok {
			return
		}
		facts, any := factsFromProps(iface, changed)
		if !any {
			return
		}
		if facts.Battery != nil && facts.Battery.Percent < 0 {
			resolvePartialBattery(&facts, func() (int, bool) {
				path := dbus.ObjectPath(string(devicePath(id)) + "/battery")
				if v, err := h.getProp(path, batteryIface, "charge"); err == nil {
					return variantInt(v)
				}
				return 0, false
			})
			if facts.Battery == nil && iface == batteryIface {
				return
			}
		}
		h.emit(DeviceUpdated{ID: id, Facts: facts})
	}
}

// resolvePartialBattery completes a battery update that arrived without a
// charge, such as a lone isCharging flip. readCharge supplies the daemon's
// current value; when none is available the update is dropped so a known
// charge is never replaced by an unknown one.
func resolvePartialBattery(facts *DeviceFacts, readCharge func() (int, bool)) {
	if facts.Battery == nil || facts.Battery.Percent >= 0 {
		return
	}
	if pct, ok := readCharge(); ok && pct >= 0 {
		facts.Battery.Percent = pct
		return
	}
	facts.Battery = nil
}

func signalDeviceID(sig *dbus.Signal) (models.DeviceID, bool) {
	if len(sig.Body) < 1 {
		return "", false
	}
	id, ok := sig.Body[0].(string)
	if !ok || id == "" {
		return "", false
	}
	return models.DeviceID(id), true
}

// factsFromProps translates a PropertiesChanged payload into device facts.
// Returns false when the interface carries nothing we track.
func factsFromProps(iface string, changed map[string]dbus.Variant) (DeviceFacts, bool) {
	facts := DeviceFacts{}
	any := false

	switch iface {
	case deviceIface:
		if v, ok := changed["name"]; ok {
			if s, ok := v.Value().(string); ok {
				facts.Name = s
				any = true
			}
		}
		if v, ok := changed["isReachable"]; ok {
			if b, ok := v.Value().(bool); ok {
				facts.Reachable = &b
				any = true
			}
		}
		if v, ok := changed["isPaired"]; ok {
			if b, ok := v.Value().(bool); ok {
				facts.Paired = &b
				any = true
			}
		}

	case batteryIface:
		battery := &models.BatteryInfo{Percent: -1}
		if v, ok := changed["charge"]; ok {
			if pct, ok := variantInt(v); ok {
				battery.Percent = pct
				any = true
			}
		}
		if v, ok := changed["isCharging"]; ok {
			if b, ok := v.Value().(bool); ok {
				battery.Charging = b
				any = true
			}
		}
		if any {
			facts.Battery = battery
		}

	case connectivityIface:
		kind := ""
		strength := -1
		if v, ok := changed["cellularNetworkType"]; ok {
			if s, ok := v.Value().(string); ok {
				kind = s
			}
		}
		if v, ok := changed["cellularNetworkStrength"]; ok {
			if n, ok := variantInt(v); ok {
				strength = n
			}
		}
		if kind != "" {
			facts.Connectivity = &models.ConnectivityInfo{Signals: map[string]int{kind: strength}}
			any = true
		}
	}

	return facts, any
}

// variantInt widens the integer types D-Bus may use for numeric properties.
func variantInt(v dbus.Variant) (int, bool) {
	switch n := v.Value().(type) {
	case int16:
		return int(n), true
	case uint16:
		return int(n), true
	case int32:
		return int(n), true
	case uint32:
		return int(n), true
	case int64:
		return int(n), true
	}
	return 0, false
}
