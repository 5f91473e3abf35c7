package session

import (
	"context"
	"log"

	"github.com/devlink-io/devlink/internal/backend"
	"github.com/devlink-io/devlink/internal/models"
	"github.com/devlink-io/devlink/internal/view"
)

// Saver persists the device record. Satisfied by config.Store.
type Saver interface {
	Save(models.Connections) error
}

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, body string) error
}

// Loop serializes all reducer input onto one goroutine. Backend events,
// tray clicks and config reloads all enter through Dispatch; Run applies
// them one at a time and executes each step's effects before the next
// message is touched.
type Loop struct {
	mgr      *Manager
	msgs     chan Message
	saver    Saver
	notifier Notifier
	onUpdate func([]view.DeviceRow)
}

// NewLoop wires a manager to its effect executors. onUpdate receives the
// projected rows after every applied message; pass nil to skip projection.
func NewLoop(mgr *Manager, saver Saver, notifier Notifier, onUpdate func([]view.DeviceRow)) *Loop {
	return &Loop{
		mgr:      mgr,
		msgs:     make(chan Message, 64),
		saver:    saver,
		notifier: notifier,
		onUpdate: onUpdate,
	}
}

// Dispatch queues a message for the reducer. Safe from any goroutine.
func (l *Loop) Dispatch(msg Message) {
	l.msgs <- msg
}

// Forward translates a backend event stream into reducer messages until
// the stream closes. Run in its own goroutine.
func (l *Loop) Forward(events <-chan backend.Event) {
	for ev := range events {
		switch ev := ev.(type) {
		case backend.DeviceUpdated:
			l.Dispatch(DeviceEventMsg{ID: ev.ID, Facts: ev.Facts})
		case backend.PingReceived:
			l.Dispatch(PingReceivedMsg{ID: ev.ID, Text: ev.Text})
		}
	}
}

// Run applies messages until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-l.msgs:
			l.step(msg)
		}
	}
}

func (l *Loop) step(msg Message) {
	effects := l.mgr.Apply(msg)
	for _, eff := range effects {
		ExecuteEffect(eff, l.saver, l.notifier)
	}
	if l.onUpdate != nil {
		l.onUpdate(view.Project(l.mgr.Sessions()))
	}
}

// ExecuteEffect runs one effect against its executors. Failures here are
// transient I/O: they are logged and the already-applied state stands.
func ExecuteEffect(eff Effect, saver Saver, notifier Notifier) {
	switch eff := eff.(type) {
	case SendActionEffect:
		if eff.Via == nil {
			return
		}
		if err := eff.Via.Send(eff.Target, eff.Action); err != nil {
			log.Printf("Warning: %s action for %q not delivered: %v", eff.Action, eff.Target, err)
		}
	case SaveConfigEffect:
		if saver == nil {
			return
		}
		if err := saver.Save(eff.Config); err != nil {
			log.Printf("Warning: failed to save connections: %v", err)
		}
	case NotifyEffect:
		if notifier == nil {
			return
		}
		if err := notifier.Notify(eff.Title, eff.Body); err != nil {
			log.Printf("Warning: notification failed: %v", err)
		}
	}
}
