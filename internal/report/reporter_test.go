package report

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/miguel-sanchez/PomodoroPal/internal/model"
)

func TestSendPostsSessionRecord(t *testing.T) {
	var received model.SessionRecord
	var gotPath, gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("unmarshal record: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	reporter := NewHTTPReporter(server.URL, time.Second)
	reporter.SetToken("test-token")

	record := model.SessionRecord{
		SessionType:     "pomodoro",
		DurationMinutes: 25,
		Completed:       true,
		StartedAt:       "2024-03-01T09:00:00Z",
		EndedAt:         "2024-03-01T09:25:00Z",
	}
	if err := reporter.send(context.Background(), record); err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotPath != "/api/sessions" {
		t.Fatalf("expected POST /api/sessions, got %s", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	if received != record {
		t.Fatalf("record mangled in transit: %+v vs %+v", received, record)
	}
}

func TestSendRejectedByBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	reporter := NewHTTPReporter(server.URL, time.Second)
	if err := reporter.send(context.Background(), model.SessionRecord{SessionType: "pomodoro"}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestReportNeverBlocksCaller(t *testing.T) {
	// Point at a closed port; Report must return immediately and
	// swallow the failure in the background.
	reporter := NewHTTPReporter("http://127.0.0.1:1", 100*time.Millisecond)

	done := make(chan struct{})
	go func() {
		reporter.Report(model.SessionRecord{SessionType: "pomodoro"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Report blocked the caller")
	}
}
