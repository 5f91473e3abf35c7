package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/devlink-io/devlink/internal/backend"
	"github.com/devlink-io/devlink/internal/session"
	"github.com/devlink-io/devlink/internal/view"
)

// Model is the root Bubbletea model for the device list.
type Model struct {
	mgr      *session.Manager
	saver    session.Saver
	notifier session.Notifier

	rows   []view.DeviceRow
	cursor int

	events <-chan backend.Event

	// Ping text entry state
	typing    bool
	pingInput textinput.Model

	connected bool
	err       error
	width     int
	height    int
}

// NewModel creates the initial model around a seeded session manager.
func NewModel(mgr *session.Manager, saver session.Saver, notifier session.Notifier) Model {
	ti := textinput.New()
	ti.Placeholder = "ping message"
	ti.CharLimit = 140
	ti.Width = 40

	return Model{
		mgr:       mgr,
		saver:     saver,
		notifier:  notifier,
		rows:      view.Project(mgr.Sessions()),
		pingInput: ti,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return connectBackendCmd()
}

// applySession runs one reducer step, executes its effects and refreshes
// the projected rows. This is the TUI's equivalent of the daemon loop step;
// Bubbletea's single Update goroutine provides the serialization.
func (m *Model) applySession(msg session.Message) {
	effects := m.mgr.Apply(msg)
	for _, eff := range effects {
		session.ExecuteEffect(eff, m.saver, m.notifier)
	}
	m.rows = view.Project(m.mgr.Sessions())
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case backendConnectedMsg:
		m.connected = true
		m.events = msg.events
		m.applySession(session.BackendConnectedMsg{Handle: msg.handle, Actions: msg.actions})
		return m, waitForEventCmd(m.events)

	case backendEventMsg:
		if sm := translateEvent(msg.ev); sm != nil {
			m.applySession(sm)
		}
		return m, waitForEventCmd(m.events)

	case backendGoneMsg:
		m.connected = false
		m.err = fmt.Errorf("backend connection lost")
		return m, clearErrorCmd()

	case errorMsg:
		m.err = msg.err
		return m, clearErrorCmd()

	case clearErrorMsg:
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text entry mode captures everything except enter and esc.
	if m.typing {
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.pingInput.Value())
			m.typing = false
			m.pingInput.Blur()
			m.pingInput.Reset()
			if row, ok := m.selected(); ok {
				m.applySession(session.SendPingMsg{ID: row.ID, Text: text})
			}
			return m, nil
		case "esc":
			m.typing = false
			m.pingInput.Blur()
			m.pingInput.Reset()
			return m, nil
		}
		var cmd tea.Cmd
		m.pingInput, cmd = m.pingInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Pair):
		if row, ok := m.selected(); ok {
			m.applySession(session.PairRequestMsg{ID: row.ID, Approve: !row.Paired})
		}

	case key.Matches(msg, keys.Ping):
		if _, ok := m.selected(); ok {
			m.typing = true
			m.pingInput.Focus()
			return m, textinput.Blink
		}

	case key.Matches(msg, keys.Disconnect):
		if row, ok := m.selected(); ok {
			m.applySession(session.DisconnectMsg{ID: row.ID})
		}

	case key.Matches(msg, keys.Broadcast):
		m.applySession(session.BroadcastMsg{})
	}

	return m, nil
}

// translateEvent maps a backend stream item to its reducer message.
func translateEvent(ev backend.Event) session.Message {
	switch ev := ev.(type) {
	case backend.DeviceUpdated:
		return session.DeviceEventMsg{ID: ev.ID, Facts: ev.Facts}
	case backend.PingReceived:
		return session.PingReceivedMsg{ID: ev.ID, Text: ev.Text}
	}
	return nil
}

func (m Model) selected() (view.DeviceRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return view.DeviceRow{}, false
	}
	return m.rows[m.cursor], true
}

// View renders the device list.
func (m Model) View() string {
	var b strings.Builder

	title := "Devices"
	if !m.connected {
		title += " (connecting…)"
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(detailStyle.Render("No devices found. Press b to broadcast."))
		b.WriteString("\n")
	}

	for i, row := range m.rows {
		b.WriteString(m.renderRow(i, row))
		b.WriteString("\n")
	}

	if m.typing {
		b.WriteString("\n")
		b.WriteString(detailStyle.Render("Ping: "))
		b.WriteString(m.pingInput.View())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("↑/↓ move · p pair/unpair · i ping · d disconnect · b broadcast · q quit"))
	return b.String()
}

func (m Model) renderRow(i int, row view.DeviceRow) string {
	cursor := "  "
	if i == m.cursor {
		cursor = "> "
	}

	var status string
	switch row.Status {
	case "connected":
		status = connectedStyle.Render(row.Status)
	case "pairing…":
		status = pendingStyle.Render(row.Status)
	default:
		status = offlineStyle.Render(row.Status)
	}

	name := row.Name
	if i == m.cursor {
		name = selectedRowStyle.Render(name)
	}

	parts := []string{cursor + name, status}
	if row.Paired {
		parts = append(parts, pairedStyle.Render("paired"))
	}
	if row.Battery != "" {
		parts = append(parts, detailStyle.Render(row.Battery))
	}
	if row.Signal != "" {
		parts = append(parts, detailStyle.Render(row.Signal))
	}
	return strings.Join(parts, "  ")
}
