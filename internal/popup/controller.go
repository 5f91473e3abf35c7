// Package popup tracks the single device-list popup window. The controller
// stores at most one window identifier at a time, which is what prevents a
// toggle from ever destroying a stale id or a late close notification from
// clobbering a newer window.
package popup

import (
	"github.com/google/uuid"
)

// WindowID identifies one popup window instance. UUIDs guarantee an id
// from a destroyed window can never equal a newly issued one.
type WindowID = uuid.UUID

// Windowing is the collaborator that actually creates and destroys popup
// windows. Both calls are fire-and-forget from the controller's view.
type Windowing interface {
	CreatePopup(anchor string) WindowID
	DestroyPopup(id WindowID)
}

// Controller is the popup state machine: Closed or Open(id).
type Controller struct {
	win     Windowing
	current *WindowID
}

// NewController creates a closed controller over the windowing collaborator.
func NewController(win Windowing) *Controller {
	return &Controller{win: win}
}

// Open reports whether a popup is currently tracked.
func (c *Controller) Open() bool {
	return c.current != nil
}

// Current returns the tracked window id, if any.
func (c *Controller) Current() (WindowID, bool) {
	if c.current == nil {
		return WindowID{}, false
	}
	return *c.current, true
}

// Toggle flips the popup: closed becomes open with a fresh id, open is
// destroyed using the id that created it.
func (c *Controller) Toggle(anchor string) {
	if c.current != nil {
		id := *c.current
		c.current = nil
		c.win.DestroyPopup(id)
		return
	}
	id := c.win.CreatePopup(anchor)
	c.current = &id
}

// ExternalClose records that a window was closed outside our control.
// A stale id, one for a window already replaced, is ignored.
func (c *Controller) ExternalClose(id WindowID) {
	if c.current != nil && *c.current == id {
		c.current = nil
	}
}
