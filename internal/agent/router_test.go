package agent_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/miguel-sanchez/PomodoroPal/internal/agent"
	"github.com/miguel-sanchez/PomodoroPal/internal/model"
	"github.com/miguel-sanchez/PomodoroPal/internal/settings"
	"github.com/miguel-sanchez/PomodoroPal/internal/store"
	"github.com/miguel-sanchez/PomodoroPal/internal/timer"
)

func setupAgent(t *testing.T) http.Handler {
	t.Helper()

	controller := timer.New(
		timer.Deps{Store: store.NewFileStore(filepath.Join(t.TempDir(), "state.json"))},
		timer.DefaultDurations(),
		settings.Default(),
		timer.Options{},
	)
	t.Cleanup(controller.Shutdown)

	return agent.NewRouter(controller)
}

func sendCommand(t *testing.T, server http.Handler, cmd timer.Command) (int, []byte) {
	t.Helper()

	payload, err := json.Marshal(cmd)
	if err != nil {
		t.Fatalf("marshal command: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/command", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder.Code, recorder.Body.Bytes()
}

func TestCommandRoundTrip(t *testing.T) {
	server := setupAgent(t)

	status, body := sendCommand(t, server, timer.Command{Action: timer.ActionGetState})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	var snapshot model.TimerSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snapshot.Mode != model.ModeWork || snapshot.TimeRemainingSeconds != 1500 {
		t.Fatalf("unexpected initial snapshot: %+v", snapshot)
	}

	status, body = sendCommand(t, server, timer.Command{Action: timer.ActionStartTimer})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on start, got %d", status)
	}
	if err := json.Unmarshal(body, &snapshot); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if !snapshot.IsRunning {
		t.Fatal("expected running snapshot from START_TIMER")
	}

	status, body = sendCommand(t, server, timer.Command{Action: timer.ActionSwitchMode, Mode: model.ModeShortBreak})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on switch, got %d", status)
	}
	if err := json.Unmarshal(body, &snapshot); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	// Switching while running is silently ignored.
	if snapshot.Mode != model.ModeWork {
		t.Fatalf("expected mode unchanged while running, got %s", snapshot.Mode)
	}
}

func TestUnknownAction(t *testing.T) {
	server := setupAgent(t)

	status, body := sendCommand(t, server, timer.Command{Action: "SELF_DESTRUCT"})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if resp.Error != "Unknown action" {
		t.Fatalf("expected %q, got %q", "Unknown action", resp.Error)
	}
}

func TestStatePoll(t *testing.T) {
	server := setupAgent(t)

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var snapshot model.TimerSnapshot
	if err := json.Unmarshal(recorder.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snapshot.TimeRemainingSeconds != 1500 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}
