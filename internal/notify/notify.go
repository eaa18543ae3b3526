// Package notify delivers desktop notifications and the session completion cue.
package notify

import (
	"github.com/gen2brain/beeep"
)

// Desktop sends notifications through the OS notification service.
// Either signal can be switched off; disabled signals succeed silently.
type Desktop struct {
	Notifications bool
	Sound         bool
}

// New returns a Desktop notifier with the given signals enabled
func New(notifications, sound bool) *Desktop {
	return &Desktop{Notifications: notifications, Sound: sound}
}

// Notify shows a desktop notification
func (d *Desktop) Notify(title, message string) error {
	if d == nil || !d.Notifications {
		return nil
	}
	return beeep.Notify(title, message, "")
}

// Cue plays a short beep
func (d *Desktop) Cue() error {
	if d == nil || !d.Sound {
		return nil
	}
	return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
}
