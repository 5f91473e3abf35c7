// Package view projects session state into display rows. Projection is a
// pure function of its input: the same sessions in the same order always
// produce the same rows, which the UI layers rely on for diffing.
package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/devlink-io/devlink/internal/models"
)

// DeviceRow is one line of the device list, ready for rendering.
type DeviceRow struct {
	ID        models.DeviceID
	Name      string
	PairLabel string // "Pair" or "Unpair", from the persisted trust state
	Status    string // "connected", "offline", "pairing…"
	Signal    string
	Battery   string
	Paired    bool
	Connected bool
}

// Project maps sessions, already in first-seen order, to display rows.
func Project(sessions []models.DeviceSession) []DeviceRow {
	rows := make([]DeviceRow, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, projectOne(s))
	}
	return rows
}

func projectOne(s models.DeviceSession) DeviceRow {
	name := s.Identity.Name
	if name == "" {
		name = string(s.Identity.ID)
	}

	row := DeviceRow{
		ID:        s.Identity.ID,
		Name:      name,
		Paired:    s.Pairing == models.Paired,
		Connected: s.Reachable,
		Signal:    FormatSignal(s.Connectivity),
		Battery:   FormatBattery(s.Battery),
	}

	if row.Paired {
		row.PairLabel = "Unpair"
	} else {
		row.PairLabel = "Pair"
	}

	switch {
	case s.Pairing == models.Requested:
		row.Status = "pairing…"
	case s.Reachable:
		row.Status = "connected"
	default:
		row.Status = "offline"
	}
	return row
}

// FormatBattery renders a battery snapshot, "" when none was reported.
func FormatBattery(b *models.BatteryInfo) string {
	if b == nil || b.Percent < 0 {
		return ""
	}
	if b.Charging {
		return fmt.Sprintf("%d%%+", b.Percent)
	}
	return fmt.Sprintf("%d%%", b.Percent)
}

// FormatSignal renders signal strengths sorted by network handle so the
// output is stable across updates.
func FormatSignal(c *models.ConnectivityInfo) string {
	if c == nil || len(c.Signals) == 0 {
		return ""
	}
	kinds := make([]string, 0, len(c.Signals))
	for kind := range c.Signals {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		strength := c.Signals[kind]
		if strength < 0 {
			parts = append(parts, kind)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d/4", kind, strength))
	}
	return strings.Join(parts, ", ")
}
