// Package daemon wires the session loop, backend connection, config watcher
// and popup controller into the long-running tray process.
package daemon

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/devlink-io/devlink/internal/backend"
	"github.com/devlink-io/devlink/internal/config"
	"github.com/devlink-io/devlink/internal/models"
	"github.com/devlink-io/devlink/internal/notify"
	"github.com/devlink-io/devlink/internal/popup"
	"github.com/devlink-io/devlink/internal/session"
	"github.com/devlink-io/devlink/internal/view"
)

// Daemon owns every long-lived collaborator of the tray process. All state
// mutation goes through the session loop; the Daemon itself only routes.
type Daemon struct {
	store   *config.Store
	mgr     *session.Manager
	loop    *session.Loop
	watcher *config.Watcher

	popupMu sync.Mutex
	popup   *popup.Controller

	handle  *backend.Handle
	actions *backend.ActionSender

	cancel   context.CancelFunc
	shutdown func()
}

// New builds a daemon. onUpdate receives the projected device rows after
// every applied message; shutdown is invoked when the user asks to quit.
func New(terminal string, onUpdate func([]view.DeviceRow), shutdown func()) (*Daemon, error) {
	store, err := config.NewStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open device record: %w", err)
	}

	d := &Daemon{
		store:    store,
		shutdown: shutdown,
	}

	d.mgr = session.NewManager(store.Load())
	d.loop = session.NewLoop(d.mgr, store, notify.Desktop{}, onUpdate)

	win := popup.NewExecWindowing(terminal)
	win.OnExternalClose = d.popupClosed
	d.popup = popup.NewController(win)

	return d, nil
}

// Start connects the backend and launches the loop, event forwarding and
// config watching goroutines.
func (d *Daemon) Start() error {
	handle, events, actions, err := backend.Connect()
	if err != nil {
		return fmt.Errorf("failed to reach the connectivity daemon: %w", err)
	}
	d.handle = handle
	d.actions = actions

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	go d.loop.Run(ctx)
	d.loop.Dispatch(session.BackendConnectedMsg{Handle: handle, Actions: actions})
	go d.loop.Forward(events)

	watcher, err := config.NewWatcher()
	if err != nil {
		log.Printf("Warning: config watching disabled: %v", err)
		return nil
	}
	if err := watcher.Start(); err != nil {
		log.Printf("Warning: config watching disabled: %v", err)
		return nil
	}
	d.watcher = watcher

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Reloads():
				if !ok {
					return
				}
				if !d.store.ChangedExternally() {
					// Our own atomic save settling back through fsnotify.
					continue
				}
				log.Println("Connections file changed externally, reloading")
				d.loop.Dispatch(session.ConfigReloadedMsg{Config: d.store.Load()})
			}
		}
	}()

	return nil
}

// Stop tears the daemon down in reverse start order.
func (d *Daemon) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.watcher != nil {
		d.watcher.Stop()
	}
	if d.actions != nil {
		d.actions.Close()
	}
	if d.handle != nil {
		d.handle.Close()
	}
}

func (d *Daemon) popupClosed(id popup.WindowID) {
	d.popupMu.Lock()
	defer d.popupMu.Unlock()
	d.popup.ExternalClose(id)
}

// The methods below satisfy tray.DaemonState. Tray clicks arrive on the
// systray goroutine; everything stateful is forwarded to the loop or
// guarded by popupMu.

func (d *Daemon) PairDevice(id models.DeviceID, approve bool) {
	d.loop.Dispatch(session.PairRequestMsg{ID: id, Approve: approve})
}

func (d *Daemon) PingDevice(id models.DeviceID) {
	d.loop.Dispatch(session.SendPingMsg{ID: id})
}

func (d *Daemon) DisconnectDevice(id models.DeviceID) {
	d.loop.Dispatch(session.DisconnectMsg{ID: id})
}

func (d *Daemon) Broadcast() {
	d.loop.Dispatch(session.BroadcastMsg{})
}

func (d *Daemon) TogglePopup() {
	d.popupMu.Lock()
	defer d.popupMu.Unlock()
	d.popup.Toggle("tray")
}

func (d *Daemon) RequestShutdown() {
	if d.shutdown != nil {
		d.shutdown()
	}
}
