package timer

import (
	"time"

	"github.com/miguel-sanchez/PomodoroPal/internal/model"
)

// EventType identifies what a controller event describes.
type EventType string

const (
	// EventStateChange fires on every command that mutated the
	// snapshot and on automatic mode switches after completion.
	EventStateChange EventType = "state_change"
	// EventProgress fires once per tick while the timer runs.
	EventProgress EventType = "progress"
	// EventSessionComplete fires when a run counts down to zero.
	EventSessionComplete EventType = "session_complete"
)

// Event carries the post-transition snapshot to subscribers. The
// polling command contract is unchanged; subscriptions are a push
// convenience for in-process consumers such as the badge writer.
type Event struct {
	Type     EventType
	Snapshot model.TimerSnapshot
	At       time.Time
}
