package popup

import (
	"sync"
	"testing"
	"time"
)

// The windowing close callback and Toggle share one lock in the daemon, so
// a spawn failure must never invoke the callback on the caller's goroutine.
func TestSpawnFailureLeavesControllerClosed(t *testing.T) {
	win := NewExecWindowing("/nonexistent-terminal-emulator")
	ctrl := NewController(win)

	var mu sync.Mutex
	win.OnExternalClose = func(id WindowID) {
		mu.Lock()
		defer mu.Unlock()
		ctrl.ExternalClose(id)
	}

	done := make(chan struct{})
	go func() {
		mu.Lock()
		ctrl.Toggle("tray")
		mu.Unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Toggle blocked on popup spawn failure")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		open := ctrl.Open()
		mu.Unlock()
		if !open {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("controller still tracks a window that never opened")
}
