// Package notify surfaces transcription outcomes as desktop
// notifications.
package notify

import (
	"github.com/gen2brain/beeep"

	"murmur/log"
)

var disabled bool

// Disable suppresses all notifications.
func Disable() { disabled = true }

const appTitle = "murmur"

func Show(message string) {
	if disabled {
		return
	}
	if err := beeep.Notify(appTitle, message, ""); err != nil {
		log.Debugf("notification failed: %v", err)
	}
}

// ShowError uses the platform alert variant where available.
func ShowError(message string) {
	if disabled {
		return
	}
	if err := beeep.Alert(appTitle, message, ""); err != nil {
		log.Debugf("alert failed: %v", err)
	}
}
