package session

import (
	"reflect"
	"testing"

	"github.com/devlink-io/devlink/internal/backend"
	"github.com/devlink-io/devlink/internal/models"
)

type recordedSend struct {
	id  models.DeviceID
	act backend.Action
}

// sinkRecorder captures actions the reducer wants delivered.
type sinkRecorder struct {
	sends []recordedSend
	err   error
}

func (r *sinkRecorder) Send(id models.DeviceID, act backend.Action) error {
	r.sends = append(r.sends, recordedSend{id: id, act: act})
	return r.err
}

func boolPtr(b bool) *bool { return &b }

// connect attaches a fake backend so preconditions on pair/ping pass.
func connect(t *testing.T, m *Manager) *sinkRecorder {
	t.Helper()
	sink := &sinkRecorder{}
	if effects := m.Apply(BackendConnectedMsg{Handle: &backend.Handle{}, Actions: sink}); len(effects) != 0 {
		t.Fatalf("BackendConnected produced %d effects, want 0", len(effects))
	}
	if !m.Connected() {
		t.Fatal("manager not connected after BackendConnectedMsg")
	}
	return sink
}

func applyDevice(m *Manager, id models.DeviceID, facts backend.DeviceFacts) []Effect {
	return m.Apply(DeviceEventMsg{ID: id, Facts: facts})
}

func TestDeviceEventCreatesSession(t *testing.T) {
	m := NewManager(models.NewConnections())

	effects := applyDevice(m, "dev-1", backend.DeviceFacts{
		Name:      "Phone",
		LinkKind:  "phone",
		Reachable: boolPtr(true),
		Battery:   &models.BatteryInfo{Percent: 80, Charging: true},
	})

	s, ok := m.Session("dev-1")
	if !ok {
		t.Fatal("session for dev-1 not created")
	}
	if s.Identity.Name != "Phone" || !s.Reachable {
		t.Errorf("unexpected session: %+v", s)
	}
	if s.Battery == nil || s.Battery.Percent != 80 || !s.Battery.Charging {
		t.Errorf("battery snapshot not stored: %+v", s.Battery)
	}
	if s.Pairing != models.Unpaired {
		t.Errorf("new device should start unpaired, got %v", s.Pairing)
	}

	// A newly seen identity is remembered and persisted.
	if len(effects) != 1 {
		t.Fatalf("got %d effects, want 1 save", len(effects))
	}
	save, ok := effects[0].(SaveConfigEffect)
	if !ok {
		t.Fatalf("effect is %T, want SaveConfigEffect", effects[0])
	}
	want := []models.Linked{{ID: "dev-1", Name: "Phone", LinkKind: "phone"}}
	if !reflect.DeepEqual(save.Config.LastConnections, want) {
		t.Errorf("last_connections = %+v, want %+v", save.Config.LastConnections, want)
	}
}

func TestDeviceEventLatestSnapshotWins(t *testing.T) {
	m := NewManager(models.NewConnections())

	applyDevice(m, "dev-1", backend.DeviceFacts{
		Name:    "Phone",
		Battery: &models.BatteryInfo{Percent: 80},
		Connectivity: &models.ConnectivityInfo{
			Signals: map[string]int{"lte": 3, "wifi": 4},
		},
	})
	applyDevice(m, "dev-1", backend.DeviceFacts{
		Battery:      &models.BatteryInfo{Percent: 75, Charging: true},
		Connectivity: &models.ConnectivityInfo{Signals: map[string]int{"lte": 1}},
	})

	s, _ := m.Session("dev-1")
	if s.Battery.Percent != 75 || !s.Battery.Charging {
		t.Errorf("battery not replaced wholesale: %+v", s.Battery)
	}
	// Whole-snapshot semantics: the wifi entry from the first update is gone.
	if !reflect.DeepEqual(s.Connectivity.Signals, map[string]int{"lte": 1}) {
		t.Errorf("connectivity not replaced wholesale: %+v", s.Connectivity.Signals)
	}
	if s.Identity.Name != "Phone" {
		t.Errorf("name should survive an update that omits it, got %q", s.Identity.Name)
	}

	cfg := m.Config()
	if len(cfg.LastConnections) != 1 {
		t.Errorf("last_connections has %d entries for one identity, want 1", len(cfg.LastConnections))
	}
}

func TestDeviceEventSavesOnlyOnChange(t *testing.T) {
	m := NewManager(models.NewConnections())

	applyDevice(m, "dev-1", backend.DeviceFacts{Name: "Phone", LinkKind: "phone"})

	tests := []struct {
		name      string
		facts     backend.DeviceFacts
		wantSaves int
	}{
		{"same name and kind", backend.DeviceFacts{Name: "Phone", LinkKind: "phone"}, 0},
		{"battery only", backend.DeviceFacts{Battery: &models.BatteryInfo{Percent: 50}}, 0},
		{"renamed", backend.DeviceFacts{Name: "Phone 2"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effects := applyDevice(m, "dev-1", tt.facts)
			saves := 0
			for _, eff := range effects {
				if _, ok := eff.(SaveConfigEffect); ok {
					saves++
				}
			}
			if saves != tt.wantSaves {
				t.Errorf("got %d save effects, want %d", saves, tt.wantSaves)
			}
		})
	}
}

func TestPairRequestScenario(t *testing.T) {
	// Start with nothing paired, discover a device, approve pairing.
	m := NewManager(models.NewConnections())
	sink := connect(t, m)

	applyDevice(m, "dev-1", backend.DeviceFacts{Name: "Phone"})
	effects := m.Apply(PairRequestMsg{ID: "dev-1", Approve: true})

	s, _ := m.Session("dev-1")
	if s.Pairing != models.Requested {
		t.Errorf("pairing state = %v, want Requested before backend confirms", s.Pairing)
	}
	cfg := m.Config()
	if !reflect.DeepEqual(cfg.Paired, []models.DeviceID{"dev-1"}) {
		t.Errorf("config.paired = %v, want [dev-1]", cfg.Paired)
	}
	if len(sink.sends) != 0 {
		t.Fatalf("reducer sent directly; sends must be returned as effects")
	}
	var sends []SendActionEffect
	for _, eff := range effects {
		if sa, ok := eff.(SendActionEffect); ok {
			sends = append(sends, sa)
		}
	}
	if len(sends) != 1 || sends[0].Target != "dev-1" ||
		sends[0].Action.Kind != backend.ActionPair || !sends[0].Action.Approve {
		t.Fatalf("send effects = %+v, want one Pair(true) for dev-1", sends)
	}

	// Backend confirms: the optimistic request settles.
	applyDevice(m, "dev-1", backend.DeviceFacts{Paired: boolPtr(true)})
	s, _ = m.Session("dev-1")
	if s.Pairing != models.Paired {
		t.Errorf("pairing state = %v after confirmation, want Paired", s.Pairing)
	}
}

func TestPairRequestIdempotent(t *testing.T) {
	m := NewManager(models.NewConnections())
	connect(t, m)
	applyDevice(m, "dev-1", backend.DeviceFacts{Name: "Phone"})

	first := m.Apply(PairRequestMsg{ID: "dev-1", Approve: true})
	stateAfterFirst, _ := m.Session("dev-1")
	cfgAfterFirst := m.Config()

	second := m.Apply(PairRequestMsg{ID: "dev-1", Approve: true})
	stateAfterSecond, _ := m.Session("dev-1")
	cfgAfterSecond := m.Config()

	if stateAfterFirst.Pairing != stateAfterSecond.Pairing {
		t.Errorf("pairing state changed on repeat: %v then %v",
			stateAfterFirst.Pairing, stateAfterSecond.Pairing)
	}
	if !reflect.DeepEqual(cfgAfterFirst.Paired, cfgAfterSecond.Paired) {
		t.Errorf("paired set changed on repeat: %v then %v",
			cfgAfterFirst.Paired, cfgAfterSecond.Paired)
	}

	// The backend call still goes out both times (forced re-handshake),
	// but only the first run changed the record and needs a save.
	countSends := func(effects []Effect) (sends, saves int) {
		for _, eff := range effects {
			switch eff.(type) {
			case SendActionEffect:
				sends++
			case SaveConfigEffect:
				saves++
			}
		}
		return
	}
	s1, v1 := countSends(first)
	s2, v2 := countSends(second)
	if s1 != 1 || s2 != 1 {
		t.Errorf("send effects = %d then %d, want 1 and 1", s1, s2)
	}
	if v1 != 1 || v2 != 0 {
		t.Errorf("save effects = %d then %d, want 1 and 0", v1, v2)
	}
}

func TestPairRequestUnseenDeviceIsNoop(t *testing.T) {
	m := NewManager(models.NewConnections())
	connect(t, m)

	effects := m.Apply(PairRequestMsg{ID: "ghost", Approve: true})
	if len(effects) != 0 {
		t.Fatalf("pairing an unseen device produced %d effects, want 0", len(effects))
	}
	if cfg := m.Config(); len(cfg.Paired) != 0 {
		t.Errorf("config.paired gained an identity never seen in a device event: %v", cfg.Paired)
	}
}

func TestPairRequestRequiresBackend(t *testing.T) {
	m := NewManager(models.NewConnections())
	applyDevice(m, "dev-1", backend.DeviceFacts{Name: "Phone"})

	if effects := m.Apply(PairRequestMsg{ID: "dev-1", Approve: true}); len(effects) != 0 {
		t.Fatalf("pair without a backend produced %d effects, want 0", len(effects))
	}
	if s, _ := m.Session("dev-1"); s.Pairing != models.Unpaired {
		t.Errorf("pairing state = %v without a backend, want Unpaired", s.Pairing)
	}
}

func TestUnpairRevokesMembership(t *testing.T) {
	m := NewManager(models.NewConnections())
	connect(t, m)
	applyDevice(m, "dev-1", backend.DeviceFacts{Name: "Phone", Paired: boolPtr(true)})

	effects := m.Apply(PairRequestMsg{ID: "dev-1", Approve: false})

	if s, _ := m.Session("dev-1"); s.Pairing != models.Unpaired {
		t.Errorf("pairing state = %v after revoke, want Unpaired", s.Pairing)
	}
	if cfg := m.Config(); len(cfg.Paired) != 0 {
		t.Errorf("config.paired = %v after revoke, want empty", cfg.Paired)
	}
	foundSend := false
	for _, eff := range effects {
		if sa, ok := eff.(SendActionEffect); ok {
			foundSend = true
			if sa.Action.Kind != backend.ActionPair || sa.Action.Approve {
				t.Errorf("revoke sent %+v, want Pair(false)", sa.Action)
			}
		}
	}
	if !foundSend {
		t.Error("revoke issued no backend call")
	}
}

func TestDisconnectClearsExactlyOneSession(t *testing.T) {
	m := NewManager(models.NewConnections())
	connect(t, m)
	applyDevice(m, "dev-1", backend.DeviceFacts{Name: "Phone", Battery: &models.BatteryInfo{Percent: 50}})
	applyDevice(m, "dev-2", backend.DeviceFacts{Name: "Tablet", Reachable: boolPtr(true)})

	before, _ := m.Session("dev-2")
	effects := m.Apply(DisconnectMsg{ID: "dev-1"})

	if _, ok := m.Session("dev-1"); ok {
		t.Error("dev-1 session still present after disconnect")
	}
	after, ok := m.Session("dev-2")
	if !ok {
		t.Fatal("dev-2 session removed by dev-1 disconnect")
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("dev-2 session mutated by dev-1 disconnect: %+v vs %+v", before, after)
	}

	// Another session is still live, so the shared handle survives.
	if !m.Connected() {
		t.Error("backend handle torn down while dev-2 is still connected")
	}

	var sends []SendActionEffect
	for _, eff := range effects {
		if sa, ok := eff.(SendActionEffect); ok {
			sends = append(sends, sa)
		}
	}
	if len(sends) != 1 || sends[0].Target != "dev-1" || sends[0].Action.Kind != backend.ActionDisconnect {
		t.Fatalf("send effects = %+v, want one Disconnect for dev-1", sends)
	}

	// Dropping the last session releases the handle.
	m.Apply(DisconnectMsg{ID: "dev-2"})
	if m.Connected() {
		t.Error("backend handle kept after the last session was disconnected")
	}
}

func TestDisconnectNeverTouchesPairedSet(t *testing.T) {
	m := NewManager(models.NewConnections())
	connect(t, m)
	applyDevice(m, "dev-1", backend.DeviceFacts{Name: "Phone", Paired: boolPtr(true)})

	m.Apply(DisconnectMsg{ID: "dev-1"})

	if cfg := m.Config(); !cfg.IsPaired("dev-1") {
		t.Error("disconnect removed dev-1 from the paired set; unpairing is a separate action")
	}
}

func TestDisconnectEffectUsesTornDownSender(t *testing.T) {
	m := NewManager(models.NewConnections())
	sink := connect(t, m)
	applyDevice(m, "dev-1", backend.DeviceFacts{Name: "Phone"})

	effects := m.Apply(DisconnectMsg{ID: "dev-1"})
	if m.Connected() {
		t.Fatal("handle should be gone after the last disconnect")
	}
	// The effect still carries the sink captured before teardown.
	for _, eff := range effects {
		if sa, ok := eff.(SendActionEffect); ok {
			if sa.Via != ActionSink(sink) {
				t.Error("disconnect effect lost the pre-teardown action sink")
			}
		}
	}
}

func TestBroadcast(t *testing.T) {
	m := NewManager(models.NewConnections())

	if effects := m.Apply(BroadcastMsg{}); len(effects) != 0 {
		t.Fatalf("broadcast without a sender produced %d effects, want 0", len(effects))
	}

	connect(t, m)
	effects := m.Apply(BroadcastMsg{})
	if len(effects) != 1 {
		t.Fatalf("got %d effects, want 1", len(effects))
	}
	sa, ok := effects[0].(SendActionEffect)
	if !ok || sa.Action.Kind != backend.ActionBroadcast {
		t.Fatalf("effect = %+v, want Broadcast send", effects[0])
	}
}

func TestSendPing(t *testing.T) {
	m := NewManager(models.NewConnections())

	if effects := m.Apply(SendPingMsg{ID: "dev-1", Text: "hi"}); len(effects) != 0 {
		t.Fatalf("ping without a backend produced %d effects, want 0", len(effects))
	}

	connect(t, m)
	effects := m.Apply(SendPingMsg{ID: "dev-1", Text: "hi"})
	if len(effects) != 1 {
		t.Fatalf("got %d effects, want 1", len(effects))
	}
	sa := effects[0].(SendActionEffect)
	if sa.Target != "dev-1" || sa.Action.Kind != backend.ActionPing || sa.Action.Text != "hi" {
		t.Errorf("ping effect = %+v", sa)
	}
}

func TestPingReceivedNotifies(t *testing.T) {
	m := NewManager(models.NewConnections())
	applyDevice(m, "dev-1", backend.DeviceFacts{Name: "Phone"})

	effects := m.Apply(PingReceivedMsg{ID: "dev-1", Text: "hello there"})
	if len(effects) != 1 {
		t.Fatalf("got %d effects, want 1", len(effects))
	}
	n, ok := effects[0].(NotifyEffect)
	if !ok {
		t.Fatalf("effect is %T, want NotifyEffect", effects[0])
	}
	if n.Title != "Ping from Phone" || n.Body != "hello there" {
		t.Errorf("notification = %+v", n)
	}
}

func TestConfigReloadedResyncsSessions(t *testing.T) {
	m := NewManager(models.NewConnections())
	connect(t, m)
	applyDevice(m, "dev-1", backend.DeviceFacts{Name: "Phone", Paired: boolPtr(true)})
	applyDevice(m, "dev-2", backend.DeviceFacts{Name: "Tablet"})

	// External edit: dev-1 dropped, dev-2 added.
	edited := models.NewConnections()
	edited.AddPaired("dev-2")
	if effects := m.Apply(ConfigReloadedMsg{Config: edited}); len(effects) != 0 {
		t.Fatalf("config reload produced %d effects, want 0", len(effects))
	}

	if s, _ := m.Session("dev-1"); s.Pairing != models.Unpaired {
		t.Errorf("dev-1 pairing = %v after reload removed it, want Unpaired", s.Pairing)
	}
	if s, _ := m.Session("dev-2"); s.Pairing != models.Paired {
		t.Errorf("dev-2 pairing = %v after reload added it, want Paired", s.Pairing)
	}
}

func TestPairedDeviceRediscoveredFromConfig(t *testing.T) {
	cfg := models.NewConnections()
	cfg.AddPaired("dev-1")
	m := NewManager(cfg)

	applyDevice(m, "dev-1", backend.DeviceFacts{Name: "Phone"})

	if s, _ := m.Session("dev-1"); s.Pairing != models.Paired {
		t.Errorf("device paired in an earlier run came back as %v, want Paired", s.Pairing)
	}
}

func TestSessionsKeepInsertionOrder(t *testing.T) {
	m := NewManager(models.NewConnections())
	for _, id := range []models.DeviceID{"c", "a", "b"} {
		applyDevice(m, id, backend.DeviceFacts{Name: string(id)})
	}
	// Updates must not reorder.
	applyDevice(m, "a", backend.DeviceFacts{Battery: &models.BatteryInfo{Percent: 10}})

	var got []models.DeviceID
	for _, s := range m.Sessions() {
		got = append(got, s.Identity.ID)
	}
	want := []models.DeviceID{"c", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("session order = %v, want %v", got, want)
	}
}
