// Package notify surfaces desktop notifications.
package notify

import "github.com/gen2brain/beeep"

// Desktop sends notifications through the platform notification service.
type Desktop struct{}

// Notify shows a notification with the given title and body.
func (Desktop) Notify(title, body string) error {
	return beeep.Notify(title, body, "")
}
