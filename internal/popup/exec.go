package popup

import (
	"log"
	"os/exec"
	"sync"

	"github.com/google/uuid"
)

// ExecWindowing opens the popup as a terminal window running the devlink
// TUI. It is the windowing collaborator used by the tray applet, which has
// no GUI toolkit of its own.
type ExecWindowing struct {
	// Terminal is the terminal emulator command; "-e" is appended before
	// the devlink invocation.
	Terminal string
	// OnExternalClose is invoked when a spawned window exits on its own
	// (user closed it) rather than through DestroyPopup.
	OnExternalClose func(id WindowID)

	mu    sync.Mutex
	procs map[WindowID]*exec.Cmd
}

// NewExecWindowing creates a windowing collaborator using the given
// terminal emulator command.
func NewExecWindowing(terminal string) *ExecWindowing {
	return &ExecWindowing{
		Terminal: terminal,
		procs:    make(map[WindowID]*exec.Cmd),
	}
}

// CreatePopup spawns the popup process and returns its window id.
func (w *ExecWindowing) CreatePopup(anchor string) WindowID {
	id := uuid.New()
	cmd := exec.Command(w.Terminal, "-e", "devlink")

	w.mu.Lock()
	w.procs[id] = cmd
	w.mu.Unlock()

	if err := cmd.Start(); err != nil {
		log.Printf("Warning: failed to open popup: %v", err)
		w.forget(id)
		// The caller is still recording this id inside Toggle, and the close
		// callback re-enters the same lock, so it must be delivered out of
		// band. By the time it lands the id is current and gets cleared.
		if w.OnExternalClose != nil {
			go w.OnExternalClose(id)
		}
		return id
	}

	go func() {
		_ = cmd.Wait()
		if w.forget(id) && w.OnExternalClose != nil {
			w.OnExternalClose(id)
		}
	}()
	return id
}

// DestroyPopup closes the window for id. Unknown ids are ignored.
func (w *ExecWindowing) DestroyPopup(id WindowID) {
	w.mu.Lock()
	cmd := w.procs[id]
	delete(w.procs, id)
	w.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

// forget drops id from the tracked set, reporting whether it was present.
func (w *ExecWindowing) forget(id WindowID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.procs[id]; !ok {
		return false
	}
	delete(w.procs, id)
	return true
}
