package backend

import (
	"reflect"
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/devlink-io/devlink/internal/models"
)

func TestDevicePathRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		path dbus.ObjectPath
		want models.DeviceID
	}{
		{"device object", "/modules/kdeconnect/devices/abc123", "abc123"},
		{"plugin object", "/modules/kdeconnect/devices/abc123/battery", "abc123"},
		{"daemon object", "/modules/kdeconnect", ""},
		{"unrelated", "/org/freedesktop/DBus", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idFromPath(tt.path); got != tt.want {
				t.Errorf("idFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	id := models.DeviceID("abc123")
	if got := idFromPath(devicePath(id)); got != id {
		t.Errorf("idFromPath(devicePath(%q)) = %q", id, got)
	}
}

func TestFactsFromProps(t *testing.T) {
	tests := []struct {
		name    string
		iface   string
		changed map[string]dbus.Variant
		want    DeviceFacts
		wantAny bool
	}{
		{
			name:  "device rename and reachability",
			iface: deviceIface,
			changed: map[string]dbus.Variant{
				"name":        dbus.MakeVariant("Phone"),
				"isReachable": dbus.MakeVariant(true),
			},
			want:    DeviceFacts{Name: "Phone", Reachable: boolPtr(true)},
			wantAny: true,
		},
		{
			name:    "pairing settled",
			iface:   deviceIface,
			changed: map[string]dbus.Variant{"isPaired": dbus.MakeVariant(false)},
			want:    DeviceFacts{Paired: boolPtr(false)},
			wantAny: true,
		},
		{
			name:  "battery snapshot",
			iface: batteryIface,
			changed: map[string]dbus.Variant{
				"charge":     dbus.MakeVariant(int32(73)),
				"isCharging": dbus.MakeVariant(true),
			},
			want:    DeviceFacts{Battery: &models.BatteryInfo{Percent: 73, Charging: true}},
			wantAny: true,
		},
		{
			name:  "connectivity snapshot",
			iface: connectivityIface,
			changed: map[string]dbus.Variant{
				"cellularNetworkType":     dbus.MakeVariant("lte"),
				"cellularNetworkStrength": dbus.MakeVariant(int32(3)),
			},
			want: DeviceFacts{Connectivity: &models.ConnectivityInfo{
				Signals: map[string]int{"lte": 3},
			}},
			wantAny: true,
		},
		{
			name:    "untracked interface",
			iface:   "org.example.other",
			changed: map[string]dbus.Variant{"name": dbus.MakeVariant("x")},
			wantAny: false,
		},
		{
			name:    "tracked interface, untracked props",
			iface:   deviceIface,
			changed: map[string]dbus.Variant{"statusIconName": dbus.MakeVariant("ok")},
			wantAny: false,
		},
		{
			name:    "malformed value types",
			iface:   deviceIface,
			changed: map[string]dbus.Variant{"isReachable": dbus.MakeVariant("yes")},
			wantAny: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, any := factsFromProps(tt.iface, tt.changed)
			if any != tt.wantAny {
				t.Fatalf("any = %v, want %v", any, tt.wantAny)
			}
			if !any {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("facts = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolvePartialBattery(t *testing.T) {
	tests := []struct {
		name     string
		facts    DeviceFacts
		charge   int
		readable bool
		want     *models.BatteryInfo
	}{
		{
			name:     "charging flip completed from known charge",
			facts:    DeviceFacts{Battery: &models.BatteryInfo{Percent: -1, Charging: true}},
			charge:   85,
			readable: true,
			want:     &models.BatteryInfo{Percent: 85, Charging: true},
		},
		{
			name:     "charging flip dropped when charge unreadable",
			facts:    DeviceFacts{Battery: &models.BatteryInfo{Percent: -1, Charging: true}},
			readable: false,
			want:     nil,
		},
		{
			name:     "full snapshot untouched",
			facts:    DeviceFacts{Battery: &models.BatteryInfo{Percent: 42}},
			charge:   99,
			readable: true,
			want:     &models.BatteryInfo{Percent: 42},
		},
		{
			name:     "no battery untouched",
			facts:    DeviceFacts{Name: "Phone"},
			charge:   99,
			readable: true,
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := tt.facts
			resolvePartialBattery(&facts, func() (int, bool) {
				return tt.charge, tt.readable
			})
			if !reflect.DeepEqual(facts.Battery, tt.want) {
				t.Errorf("battery = %+v, want %+v", facts.Battery, tt.want)
			}
		})
	}
}

func TestVariantInt(t *testing.T) {
	for _, v := range []dbus.Variant{
		dbus.MakeVariant(int16(7)),
		dbus.MakeVariant(uint16(7)),
		dbus.MakeVariant(int32(7)),
		dbus.MakeVariant(uint32(7)),
		dbus.MakeVariant(int64(7)),
	} {
		if got, ok := variantInt(v); !ok || got != 7 {
			t.Errorf("variantInt(%v) = %d, %v", v, got, ok)
		}
	}
	if _, ok := variantInt(dbus.MakeVariant("7")); ok {
		t.Error("variantInt accepted a string")
	}
}

func boolPtr(b bool) *bool { return &b }
