// Package notify provides the agent's default notification and badge
// collaborators. Real delivery (desktop toast, extension badge) is
// owned by the UI surfaces; these implementations log so a headless
// agent still leaves a trace of every completion.
package notify

import (
	"log"
	"sync"
)

type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(title, message string, requireInteraction bool) {
	log.Printf("notification: %s: %s (requireInteraction=%t)", title, message, requireInteraction)
}

// LogBadge mirrors the badge text to the log, deduplicating so a
// once-per-second tick produces at most one line per minute.
type LogBadge struct {
	mu   sync.Mutex
	last string
}

func NewLogBadge() *LogBadge {
	return &LogBadge{}
}

func (b *LogBadge) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if text == b.last {
		return
	}
	b.last = text
	if text == "" {
		log.Printf("badge cleared")
		return
	}
	log.Printf("badge: %s min remaining", text)
}
