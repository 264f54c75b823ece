package store

import (
	"path/filepath"
	"testing"
)

type payload struct {
	Mode      string `json:"mode"`
	Remaining int    `json:"remaining"`
	Running   bool   `json:"running"`
	StartedMs int64  `json:"startedMs,omitempty"`
}

func TestGetMissingKey(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state.json"))

	var out payload
	found, err := s.Get("timerState", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected missing key")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state.json"))

	in := payload{Mode: "pomodoro", Remaining: 1490, Running: true, StartedMs: 1709280000000}
	if err := s.Set("timerState", in); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	found, err := s.Get("timerState", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected key present")
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestSetOverwritesAndSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := NewFileStore(path)
	if err := s.Set("timerState", payload{Mode: "pomodoro", Remaining: 1500}); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := s.Set("timerState", payload{Mode: "shortBreak", Remaining: 300}); err != nil {
		t.Fatalf("second set: %v", err)
	}

	// A fresh store over the same file sees the last write.
	reopened := NewFileStore(path)
	var out payload
	if _, err := reopened.Get("timerState", &out); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if out.Mode != "shortBreak" || out.Remaining != 300 {
		t.Fatalf("expected last write, got %+v", out)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state.json"))

	if err := s.Set("timerState", payload{Mode: "pomodoro"}); err != nil {
		t.Fatalf("set timerState: %v", err)
	}
	if err := s.Set("other", 42); err != nil {
		t.Fatalf("set other: %v", err)
	}
	if err := s.Delete("other"); err != nil {
		t.Fatalf("delete other: %v", err)
	}

	var out payload
	found, err := s.Get("timerState", &out)
	if err != nil || !found {
		t.Fatalf("timerState lost after deleting other key: found=%t err=%v", found, err)
	}
}
