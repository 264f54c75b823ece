package model

import "time"

// Session is a stored Pomodoro session as the backend keeps it.
// UserID is nullable: the agent reports anonymously unless the caller
// authenticated.
type Session struct {
	ID              string     `json:"id"`
	UserID          *string    `json:"user_id,omitempty"`
	SessionType     string     `json:"session_type"`
	DurationMinutes int        `json:"duration_minutes"`
	Completed       bool       `json:"completed"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Stats is the aggregate view served by GET /api/stats.
type Stats struct {
	TotalSessions     int            `json:"total_sessions"`
	CompletedSessions int            `json:"completed_sessions"`
	CompletionRate    float64        `json:"completion_rate"`
	SessionsByType    map[string]int `json:"sessions_by_type"`
	TotalFocusMinutes int            `json:"total_focus_minutes"`
	TotalFocusHours   float64        `json:"total_focus_hours"`
}
