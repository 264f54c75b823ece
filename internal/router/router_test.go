package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/miguel-sanchez/PomodoroPal/internal/db"
	"github.com/miguel-sanchez/PomodoroPal/internal/handler"
	"github.com/miguel-sanchez/PomodoroPal/internal/model"
	"github.com/miguel-sanchez/PomodoroPal/internal/repository"
	"github.com/miguel-sanchez/PomodoroPal/internal/router"
	"github.com/miguel-sanchez/PomodoroPal/internal/service"
)

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type sessionEnvelope struct {
	Success bool          `json:"success"`
	Session model.Session `json:"session"`
}

type listEnvelope struct {
	Success  bool            `json:"success"`
	Sessions []model.Session `json:"sessions"`
	Count    int             `json:"count"`
}

type statsEnvelope struct {
	Success bool        `json:"success"`
	Stats   model.Stats `json:"stats"`
}

func TestSessionLifecycleAndStats(t *testing.T) {
	engine := setupTestEngine(t)

	// The agent reports anonymously: a completed pomodoro and an
	// abandoned one, plus a completed short break.
	completed := createSession(t, engine, "", map[string]interface{}{
		"session_type":     "pomodoro",
		"duration_minutes": 25,
		"completed":        true,
		"started_at":       "2024-03-01T09:00:00Z",
		"ended_at":         "2024-03-01T09:25:00Z",
	})
	if completed.Session.UserID != nil {
		t.Fatalf("expected anonymous session, got user %v", *completed.Session.UserID)
	}

	abandoned := createSession(t, engine, "", map[string]interface{}{
		"session_type":     "pomodoro",
		"duration_minutes": 25,
		"completed":        false,
		"started_at":       "2024-03-01T10:00:00Z",
	})
	createSession(t, engine, "", map[string]interface{}{
		"session_type":     "shortBreak",
		"duration_minutes": 5,
		"completed":        true,
		"started_at":       "2024-03-01T09:25:00Z",
		"ended_at":         "2024-03-01T09:30:00Z",
	})

	// Close out the abandoned session the way the extension does.
	status, raw := requestJSON(t, engine, http.MethodPut, "/api/sessions/"+abandoned.Session.ID, "", map[string]interface{}{
		"completed": true,
		"ended_at":  "2024-03-01T10:25:00Z",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d: %s", status, raw)
	}
	var updated sessionEnvelope
	if err := json.Unmarshal(raw, &updated); err != nil {
		t.Fatalf("unmarshal update response: %v", err)
	}
	if !updated.Session.Completed || updated.Session.EndedAt == nil {
		t.Fatalf("expected completed session with end time, got %+v", updated.Session)
	}

	status, raw = requestJSON(t, engine, http.MethodGet, "/api/sessions?limit=10", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on list, got %d", status)
	}
	var list listEnvelope
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("unmarshal list response: %v", err)
	}
	if list.Count != 3 || len(list.Sessions) != 3 {
		t.Fatalf("expected 3 sessions, got count=%d len=%d", list.Count, len(list.Sessions))
	}

	status, raw = requestJSON(t, engine, http.MethodGet, "/api/stats", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on stats, got %d", status)
	}
	var stats statsEnvelope
	if err := json.Unmarshal(raw, &stats); err != nil {
		t.Fatalf("unmarshal stats response: %v", err)
	}
	if stats.Stats.TotalSessions != 3 || stats.Stats.CompletedSessions != 3 {
		t.Fatalf("unexpected totals: %+v", stats.Stats)
	}
	if stats.Stats.SessionsByType["pomodoro"] != 2 || stats.Stats.SessionsByType["short_break"] != 1 {
		t.Fatalf("unexpected per-type counts: %+v", stats.Stats.SessionsByType)
	}
	// Both pomodoros are completed now, 50 focused minutes.
	if stats.Stats.TotalFocusMinutes != 50 {
		t.Fatalf("expected 50 focus minutes, got %d", stats.Stats.TotalFocusMinutes)
	}
	if stats.Stats.CompletionRate != 100.0 {
		t.Fatalf("expected 100%% completion rate, got %v", stats.Stats.CompletionRate)
	}
}

func TestAuthScopesSessions(t *testing.T) {
	engine := setupTestEngine(t)

	user := registerUser(t, engine, "miguel@example.com", "123456")

	scoped := createSession(t, engine, user.Token, map[string]interface{}{
		"session_type":     "pomodoro",
		"duration_minutes": 25,
		"completed":        true,
		"started_at":       "2024-03-01T09:00:00Z",
	})
	if scoped.Session.UserID == nil || *scoped.Session.UserID != user.User.ID {
		t.Fatalf("expected session scoped to user %s, got %+v", user.User.ID, scoped.Session.UserID)
	}

	// An invalid token is rejected rather than silently anonymous.
	status, _ := requestJSON(t, engine, http.MethodPost, "/api/sessions", "not-a-token", map[string]interface{}{
		"session_type":     "pomodoro",
		"duration_minutes": 25,
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", status)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	engine := setupTestEngine(t)

	status, _ := requestJSON(t, engine, http.MethodPost, "/api/sessions", "", map[string]interface{}{
		"session_type":     "nap",
		"duration_minutes": 25,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad session_type, got %d", status)
	}

	status, _ = requestJSON(t, engine, http.MethodPost, "/api/sessions", "", map[string]interface{}{
		"session_type": "pomodoro",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing duration, got %d", status)
	}
}

func TestUpdateMissingSession(t *testing.T) {
	engine := setupTestEngine(t)

	status, _ := requestJSON(t, engine, http.MethodPut, "/api/sessions/no-such-id", "", map[string]interface{}{
		"completed": true,
	})
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestCORSPreflight(t *testing.T) {
	engine := setupTestEngine(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
	req.Header.Set("Origin", "chrome-extension://abcdefghijklmnop")
	req.Header.Set("Access-Control-Request-Method", "POST")
	recorder := httptest.NewRecorder()

	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", recorder.Code)
	}
	if recorder.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatal("expected allow-origin header for extension origin")
	}
}

func setupTestEngine(t *testing.T) http.Handler {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	_, currentFile, _, _ := runtime.Caller(0)
	migrationsDir := filepath.Join(filepath.Dir(currentFile), "..", "..", "migrations")
	if err := db.RunMigrations(database, migrationsDir); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	authService := service.NewAuthService(userRepo, "test-secret", 24*time.Hour)
	sessionService := service.NewSessionService(sessionRepo)

	authHandler := handler.NewAuthHandler(authService)
	sessionHandler := handler.NewSessionHandler(sessionService)

	return router.New(authService, authHandler, sessionHandler, []string{"http://localhost:5000", "chrome-extension://*"})
}

func registerUser(t *testing.T, server http.Handler, email, password string) authResponse {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s failed with status %d: %s", email, status, string(body))
	}
	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal register response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("empty token for user %s", email)
	}
	return resp
}

func createSession(t *testing.T, server http.Handler, token string, body map[string]interface{}) sessionEnvelope {
	t.Helper()
	status, raw := requestJSON(t, server, http.MethodPost, "/api/sessions", token, body)
	if status != http.StatusCreated {
		t.Fatalf("create session failed with status %d: %s", status, string(raw))
	}
	var resp sessionEnvelope
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("unmarshal session response: %v", err)
	}
	if resp.Session.ID == "" {
		t.Fatal("expected session id")
	}
	return resp
}

func requestJSON(
	t *testing.T,
	server http.Handler,
	method, path, token string,
	body interface{},
) (int, []byte) {
	t.Helper()

	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		payload = raw
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder.Code, recorder.Body.Bytes()
}
