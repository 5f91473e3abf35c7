package session

import (
	"errors"
	"reflect"
	"testing"

	"github.com/devlink-io/devlink/internal/backend"
	"github.com/devlink-io/devlink/internal/models"
	"github.com/devlink-io/devlink/internal/view"
)

type saveRecorder struct {
	saved []models.Connections
	err   error
}

func (r *saveRecorder) Save(c models.Connections) error {
	r.saved = append(r.saved, c)
	return r.err
}

type notifyRecorder struct {
	titles []string
}

func (r *notifyRecorder) Notify(title, body string) error {
	r.titles = append(r.titles, title)
	return nil
}

func TestLoopExecutesEffectsAndProjects(t *testing.T) {
	mgr := NewManager(models.NewConnections())
	saver := &saveRecorder{}
	notifier := &notifyRecorder{}

	var lastRows []view.DeviceRow
	loop := NewLoop(mgr, saver, notifier, func(rows []view.DeviceRow) {
		lastRows = rows
	})

	loop.step(DeviceEventMsg{ID: "dev-1", Facts: backend.DeviceFacts{Name: "Phone"}})

	if len(saver.saved) != 1 {
		t.Fatalf("got %d saves, want 1", len(saver.saved))
	}
	want := []models.Linked{{ID: "dev-1", Name: "Phone"}}
	if !reflect.DeepEqual(saver.saved[0].LastConnections, want) {
		t.Errorf("saved last_connections = %+v, want %+v", saver.saved[0].LastConnections, want)
	}
	if len(lastRows) != 1 || lastRows[0].Name != "Phone" {
		t.Errorf("projected rows = %+v, want one Phone row", lastRows)
	}

	loop.step(PingReceivedMsg{ID: "dev-1", Text: "hi"})
	if len(notifier.titles) != 1 || notifier.titles[0] != "Ping from Phone" {
		t.Errorf("notifications = %v", notifier.titles)
	}
}

func TestLoopSaveFailureDoesNotRollBackState(t *testing.T) {
	mgr := NewManager(models.NewConnections())
	saver := &saveRecorder{err: errors.New("disk full")}
	loop := NewLoop(mgr, saver, nil, nil)

	loop.step(DeviceEventMsg{ID: "dev-1", Facts: backend.DeviceFacts{Name: "Phone"}})

	// Transient I/O failure: logged, in-memory state stands.
	if _, ok := mgr.Session("dev-1"); !ok {
		t.Error("session lost after a failed save")
	}
}

func TestLoopSendFailureIsSoft(t *testing.T) {
	mgr := NewManager(models.NewConnections())
	sink := &sinkRecorder{err: errors.New("receiver gone")}
	mgr.Apply(BackendConnectedMsg{Handle: &backend.Handle{}, Actions: sink})
	mgr.Apply(DeviceEventMsg{ID: "dev-1", Facts: backend.DeviceFacts{Name: "Phone"}})

	loop := NewLoop(mgr, &saveRecorder{}, nil, nil)
	loop.step(SendPingMsg{ID: "dev-1", Text: "hi"})

	if len(sink.sends) != 1 {
		t.Fatalf("send not attempted: %d", len(sink.sends))
	}
	// The failed send must not disturb the session.
	if _, ok := mgr.Session("dev-1"); !ok {
		t.Error("session lost after a failed send")
	}
}
