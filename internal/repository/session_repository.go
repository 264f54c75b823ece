package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/miguel-sanchez/PomodoroPal/internal/model"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Insert(ctx context.Context, session *model.Session) error {
	var endedAt interface{}
	if session.EndedAt != nil {
		endedAt = session.EndedAt.UTC().Format(time.RFC3339Nano)
	}
	var userID interface{}
	if session.UserID != nil {
		userID = *session.UserID
	}

	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO sessions (
			id, user_id, session_type, duration_minutes, completed,
			started_at, ended_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		userID,
		session.SessionType,
		session.DurationMinutes,
		session.Completed,
		session.StartedAt.UTC().Format(time.RFC3339Nano),
		endedAt,
		session.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*model.Session, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, session_type, duration_minutes, completed,
		        started_at, ended_at, created_at
		 FROM sessions
		 WHERE id = ?`,
		id,
	)
	return scanSession(row)
}

func (r *SessionRepository) Update(ctx context.Context, session *model.Session) error {
	var endedAt interface{}
	if session.EndedAt != nil {
		endedAt = session.EndedAt.UTC().Format(time.RFC3339Nano)
	}

	_, err := r.db.ExecContext(
		ctx,
		`UPDATE sessions
		 SET completed = ?,
		     ended_at = ?
		 WHERE id = ?`,
		session.Completed,
		endedAt,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// List returns the newest sessions first, up to limit.
func (r *SessionRepository) List(ctx context.Context, limit int) ([]model.Session, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, user_id, session_type, duration_minutes, completed,
		        started_at, ended_at, created_at
		 FROM sessions
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.Session, 0, limit)
	for rows.Next() {
		session, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// Stats aggregates session counts and focus time in a single pass.
func (r *SessionRepository) Stats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{
		SessionsByType: map[string]int{
			"pomodoro":    0,
			"short_break": 0,
			"long_break":  0,
		},
	}

	row := r.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(completed), 0),
		        COALESCE(SUM(CASE WHEN session_type = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN session_type = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN session_type = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN session_type = ? AND completed THEN duration_minutes ELSE 0 END), 0)
		 FROM sessions`,
		model.ModeWork,
		model.ModeShortBreak,
		model.ModeLongBreak,
		model.ModeWork,
	)

	var pomodoros, shortBreaks, longBreaks int
	if err := row.Scan(
		&stats.TotalSessions,
		&stats.CompletedSessions,
		&pomodoros,
		&shortBreaks,
		&longBreaks,
		&stats.TotalFocusMinutes,
	); err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}

	stats.SessionsByType["pomodoro"] = pomodoros
	stats.SessionsByType["short_break"] = shortBreaks
	stats.SessionsByType["long_break"] = longBreaks
	return stats, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(s scanner) (*model.Session, error) {
	session := model.Session{}
	var userID sql.NullString
	var startedAt string
	var endedAt sql.NullString
	var createdAt string
	err := s.Scan(
		&session.ID,
		&userID,
		&session.SessionType,
		&session.DurationMinutes,
		&session.Completed,
		&startedAt,
		&endedAt,
		&createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if userID.Valid {
		value := userID.String
		session.UserID = &value
	}

	parsedStartedAt, err := parseTime(startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse session started_at: %w", err)
	}
	session.StartedAt = parsedStartedAt

	if endedAt.Valid {
		parsedEndedAt, parseErr := parseTime(endedAt.String)
		if parseErr != nil {
			return nil, fmt.Errorf("parse session ended_at: %w", parseErr)
		}
		session.EndedAt = &parsedEndedAt
	}

	parsedCreatedAt, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse session created_at: %w", err)
	}
	session.CreatedAt = parsedCreatedAt

	return &session, nil
}
