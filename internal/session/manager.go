package session

import (
	"github.com/devlink-io/devlink/internal/backend"
	"github.com/devlink-io/devlink/internal/models"
)

// Manager is the device session reconciliation core. It merges backend
// events, user actions and the persisted record into one consistent view
// of which devices exist, which are paired and which are connected.
//
// Invariants held after every Apply:
//   - session identities are unique; insertion order is tracked for the
//     projector
//   - a live Paired session is in the config's paired set by the time the
//     step's save effect lands
//   - handle and action sink are both set or both nil
//   - removing a session never touches the paired set; unpairing is a
//     separate, explicit action
type Manager struct {
	handle   *backend.Handle
	actions  ActionSink
	sessions map[models.DeviceID]*models.DeviceSession
	order    []models.DeviceID
	config   models.Connections
}

// NewManager creates a manager seeded with the loaded device record.
func NewManager(cfg models.Connections) *Manager {
	return &Manager{
		sessions: make(map[models.DeviceID]*models.DeviceSession),
		config:   cfg.Clone(),
	}
}

// Connected reports whether a backend handle is currently owned.
func (m *Manager) Connected() bool {
	return m.handle != nil
}

// Config returns a copy of the current persisted record.
func (m *Manager) Config() models.Connections {
	return m.config.Clone()
}

// Session returns a copy of the session for id.
func (m *Manager) Session(id models.DeviceID) (models.DeviceSession, bool) {
	s, ok := m.sessions[id]
	if !ok {
		return models.DeviceSession{}, false
	}
	return *s, true
}

// Sessions returns copies of all sessions in first-seen order.
func (m *Manager) Sessions() []models.DeviceSession {
	out := make([]models.DeviceSession, 0, len(m.order))
	for _, id := range m.order {
		if s, ok := m.sessions[id]; ok {
			out = append(out, *s)
		}
	}
	return out
}

// Apply runs one reducer step: mutate state, then return the effects the
// caller must execute. At most one send and one save are produced per step.
func (m *Manager) Apply(msg Message) []Effect {
	switch msg := msg.(type) {
	case BackendConnectedMsg:
		return m.applyBackendConnected(msg)
	case DeviceEventMsg:
		return m.applyDeviceEvent(msg)
	case PingReceivedMsg:
		return m.applyPingReceived(msg)
	case PairRequestMsg:
		return m.applyPairRequest(msg)
	case DisconnectMsg:
		return m.applyDisconnect(msg)
	case BroadcastMsg:
		return m.applyBroadcast()
	case SendPingMsg:
		return m.applySendPing(msg)
	case ConfigReloadedMsg:
		return m.applyConfigReloaded(msg)
	}
	return nil
}

func (m *Manager) applyBackendConnected(msg BackendConnectedMsg) []Effect {
	// Both or neither: a handle without a sender would strand every action.
	if msg.Handle == nil || msg.Actions == nil {
		return nil
	}
	m.handle = msg.Handle
	m.actions = msg.Actions
	return nil
}

func (m *Manager) applyDeviceEvent(msg DeviceEventMsg) []Effect {
	if msg.ID == "" {
		return nil
	}

	s, ok := m.sessions[msg.ID]
	if !ok {
		s = &models.DeviceSession{Identity: models.DeviceIdentity{ID: msg.ID}}
		if m.config.IsPaired(msg.ID) {
			// Paired in an earlier run, rediscovered now.
			s.Pairing = models.Paired
		}
		m.sessions[msg.ID] = s
		m.order = append(m.order, msg.ID)
	}

	facts := msg.Facts
	if facts.Name != "" {
		s.Identity.Name = facts.Name
	}
	if facts.LinkKind != "" {
		s.LinkKind = facts.LinkKind
	}
	if facts.Reachable != nil {
		s.Reachable = *facts.Reachable
	}
	// Snapshot fields replace wholesale; a newer snapshot always wins.
	if facts.Battery != nil {
		s.Battery = facts.Battery
	}
	if facts.Connectivity != nil {
		s.Connectivity = facts.Connectivity
	}

	changed := false
	if facts.Paired != nil {
		if *facts.Paired {
			s.Pairing = models.Paired
			if m.config.AddPaired(msg.ID) {
				changed = true
			}
		} else {
			// Explicit negative fact: rejection of a pending request or a
			// revocation from the remote side.
			s.Pairing = models.Unpaired
			if m.config.RemovePaired(msg.ID) {
				changed = true
			}
		}
	}

	if m.config.Remember(models.Linked{ID: msg.ID, Name: s.Identity.Name, LinkKind: s.LinkKind}) {
		changed = true
	}

	if changed {
		return []Effect{SaveConfigEffect{Config: m.config.Clone()}}
	}
	return nil
}

func (m *Manager) applyPingReceived(msg PingReceivedMsg) []Effect {
	title := "Ping"
	if s, ok := m.sessions[msg.ID]; ok && s.Identity.Name != "" {
		title = "Ping from " + s.Identity.Name
	}
	body := msg.Text
	if body == "" {
		body = "Ping!"
	}
	return []Effect{NotifyEffect{Title: title, Body: body}}
}

func (m *Manager) applyPairRequest(msg PairRequestMsg) []Effect {
	if m.handle == nil {
		return nil
	}
	s, ok := m.sessions[msg.ID]
	if !ok {
		// Never mark a device paired that the backend has not reported.
		return nil
	}

	var changed bool
	if msg.Approve {
		if s.Pairing != models.Paired {
			s.Pairing = models.Requested
		}
		changed = m.config.AddPaired(msg.ID)
	} else {
		s.Pairing = models.Unpaired
		changed = m.config.RemovePaired(msg.ID)
	}

	// The backend call always goes out, even when the membership did not
	// change, so the user can force a re-handshake.
	effects := []Effect{SendActionEffect{
		Target: msg.ID,
		Action: backend.Action{Kind: backend.ActionPair, Approve: msg.Approve},
		Via:    m.actions,
	}}
	if changed {
		effects = append(effects, SaveConfigEffect{Config: m.config.Clone()})
	}
	return effects
}

func (m *Manager) applyDisconnect(msg DisconnectMsg) []Effect {
	var effects []Effect
	if m.actions != nil {
		effects = append(effects, SendActionEffect{
			Target: msg.ID,
			Action: backend.Action{Kind: backend.ActionDisconnect},
			Via:    m.actions,
		})
	}

	if _, ok := m.sessions[msg.ID]; ok {
		delete(m.sessions, msg.ID)
		for i, id := range m.order {
			if id == msg.ID {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}

	// The shared handle is torn down only when the last session goes; a
	// disconnect of one device must not cut connectivity for the rest.
	if len(m.sessions) == 0 {
		m.handle = nil
		m.actions = nil
	}
	return effects
}

func (m *Manager) applyBroadcast() []Effect {
	if m.actions == nil {
		return nil
	}
	return []Effect{SendActionEffect{
		Action: backend.Action{Kind: backend.ActionBroadcast},
		Via:    m.actions,
	}}
}

func (m *Manager) applySendPing(msg SendPingMsg) []Effect {
	if m.handle == nil {
		return nil
	}
	return []Effect{SendActionEffect{
		Target: msg.ID,
		Action: backend.Action{Kind: backend.ActionPing, Text: msg.Text},
		Via:    m.actions,
	}}
}

func (m *Manager) applyConfigReloaded(msg ConfigReloadedMsg) []Effect {
	m.config = msg.Config.Clone()

	// The edited file is the new truth; settle live sessions against it so
	// the view never shows a pairing state the record contradicts. Pending
	// requests are left alone; the backend still owes us an answer.
	for id, s := range m.sessions {
		switch {
		case m.config.IsPaired(id) && s.Pairing == models.Unpaired:
			s.Pairing = models.Paired
		case !m.config.IsPaired(id) && s.Pairing == models.Paired:
			s.Pairing = models.Unpaired
		}
	}
	return nil
}
