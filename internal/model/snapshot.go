package model

import "time"

// Mode values use the wire names shared with the dashboard and the
// session API, so a persisted snapshot and a reported session agree.
const (
	ModeWork       = "pomodoro"
	ModeShortBreak = "shortBreak"
	ModeLongBreak  = "longBreak"
)

const (
	DefaultWorkDurationSeconds       = 25 * 60
	DefaultShortBreakDurationSeconds = 5 * 60
	DefaultLongBreakDurationSeconds  = 15 * 60
)

// TimerSnapshot is the complete state of the one timer owned by an
// installation. There is never more than one; it is overwritten in
// place and survives agent restarts through the state store.
type TimerSnapshot struct {
	Mode                 string `json:"mode"`
	TimeRemainingSeconds int    `json:"timeRemainingSeconds"`
	IsRunning            bool   `json:"isRunning"`
	// Epoch milliseconds; zero means unset. Millis rather than
	// time.Time so a stored snapshot round-trips bit-identically.
	StartedAtMs int64 `json:"startedAtMs,omitempty"`
	PausedAtMs  int64 `json:"pausedAtMs,omitempty"`
}

func ValidMode(mode string) bool {
	return mode == ModeWork || mode == ModeShortBreak || mode == ModeLongBreak
}

// SessionRecord is the reported outcome of one timer run. Ownership
// passes to the session backend on send; the agent keeps no copy.
type SessionRecord struct {
	SessionType     string `json:"session_type"`
	DurationMinutes int    `json:"duration_minutes"`
	Completed       bool   `json:"completed"`
	StartedAt       string `json:"started_at"`
	EndedAt         string `json:"ended_at"`
}

// FormatEpochMs renders an epoch-millisecond timestamp the way the
// session API expects its started_at/ended_at fields.
func FormatEpochMs(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
