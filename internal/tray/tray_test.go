package tray

import (
	"testing"

	"github.com/devlink-io/devlink/internal/view"
)

func TestFormatTooltip(t *testing.T) {
	if got := formatTooltip(0); got != "Devlink: no devices connected" {
		t.Errorf("formatTooltip(0) = %q", got)
	}
	if got := formatTooltip(3); got != "Devlink: 3 connected" {
		t.Errorf("formatTooltip(3) = %q", got)
	}
}

func TestFormatDeviceTitle(t *testing.T) {
	tests := []struct {
		name string
		row  view.DeviceRow
		want string
	}{
		{
			name: "connected with battery",
			row:  view.DeviceRow{Name: "Phone", Connected: true, Battery: "85%"},
			want: "● Phone  85%",
		},
		{
			name: "offline",
			row:  view.DeviceRow{Name: "Tablet"},
			want: "○ Tablet",
		},
		{
			name: "pairing pending",
			row:  view.DeviceRow{Name: "Phone", Connected: true, Status: "pairing…"},
			want: "● Phone  (pairing)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDeviceTitle(tt.row); got != tt.want {
				t.Errorf("formatDeviceTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
