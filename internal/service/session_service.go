package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/miguel-sanchez/PomodoroPal/internal/errors"
	"github.com/miguel-sanchez/PomodoroPal/internal/model"
	"github.com/miguel-sanchez/PomodoroPal/internal/repository"
)

const maxSessionsPerPage = 100

type SessionService struct {
	repo *repository.SessionRepository
}

func NewSessionService(repo *repository.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

type CreateSessionInput struct {
	SessionType     string
	DurationMinutes int
	Completed       bool
	StartedAt       string
	EndedAt         string
}

type UpdateSessionInput struct {
	Completed *bool
	EndedAt   *string
}

// Create stores one reported session. The timer agent fires these at
// completion and reset; the dashboard may also backfill manually.
func (s *SessionService) Create(ctx context.Context, userID *string, input CreateSessionInput) (*model.Session, *apperrors.APIError) {
	if !model.ValidMode(input.SessionType) {
		return nil, apperrors.BadRequest("invalid_session_type", "session_type must be one of pomodoro, shortBreak, longBreak")
	}
	if input.DurationMinutes <= 0 {
		return nil, apperrors.BadRequest("invalid_duration", "duration_minutes must be a positive integer")
	}

	now := time.Now().UTC()

	startedAt := now
	if input.StartedAt != "" {
		parsed, err := parseTimestamp(input.StartedAt)
		if err != nil {
			return nil, apperrors.BadRequest("invalid_started_at", "started_at must be an ISO-8601 timestamp")
		}
		startedAt = parsed
	}

	var endedAt *time.Time
	if input.EndedAt != "" {
		parsed, err := parseTimestamp(input.EndedAt)
		if err != nil {
			return nil, apperrors.BadRequest("invalid_ended_at", "ended_at must be an ISO-8601 timestamp")
		}
		endedAt = &parsed
	}

	session := model.Session{
		ID:              uuid.NewString(),
		UserID:          userID,
		SessionType:     input.SessionType,
		DurationMinutes: input.DurationMinutes,
		Completed:       input.Completed,
		StartedAt:       startedAt,
		EndedAt:         endedAt,
		CreatedAt:       now,
	}

	if err := s.repo.Insert(ctx, &session); err != nil {
		return nil, apperrors.Internal("failed to store session")
	}
	return &session, nil
}

func (s *SessionService) List(ctx context.Context, limit int) ([]model.Session, *apperrors.APIError) {
	if limit <= 0 || limit > maxSessionsPerPage {
		limit = maxSessionsPerPage
	}
	sessions, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, apperrors.Internal("failed to list sessions")
	}
	return sessions, nil
}

// Update marks a session completed and/or sets its end time. The
// extension uses this to close out a session it created at start.
func (s *SessionService) Update(ctx context.Context, id string, input UpdateSessionInput) (*model.Session, *apperrors.APIError) {
	session, err := s.repo.GetByID(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("session_not_found", "session not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to read session")
	}

	if input.Completed != nil {
		session.Completed = *input.Completed
	}
	if input.EndedAt != nil {
		if *input.EndedAt == "" {
			session.EndedAt = nil
		} else {
			parsed, parseErr := parseTimestamp(*input.EndedAt)
			if parseErr != nil {
				return nil, apperrors.BadRequest("invalid_ended_at", "ended_at must be an ISO-8601 timestamp")
			}
			session.EndedAt = &parsed
		}
	}

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, apperrors.Internal("failed to update session")
	}
	return session, nil
}

// Stats aggregates totals, completion rate, per-type counts and
// focused time (completed work sessions only).
func (s *SessionService) Stats(ctx context.Context) (*model.Stats, *apperrors.APIError) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to compute stats")
	}

	if stats.TotalSessions > 0 {
		rate := float64(stats.CompletedSessions) / float64(stats.TotalSessions) * 100
		stats.CompletionRate = math.Round(rate*10) / 10
	}
	stats.TotalFocusHours = math.Round(float64(stats.TotalFocusMinutes)/60*10) / 10
	return stats, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err == nil {
		return t.UTC(), nil
	}
	t, err = time.Parse(time.RFC3339, raw)
	if err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, err
}
