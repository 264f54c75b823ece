// Package report delivers finished and aborted session records to the
// session backend. Delivery is strictly best-effort: one attempt per
// record, a failure is logged and the record is dropped. The timer
// transition that produced the record has already committed locally,
// so a lost record costs analytics, never timer correctness.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/miguel-sanchez/PomodoroPal/internal/model"
)

// HTTPReporter posts session records to the backend's sessions API.
type HTTPReporter struct {
	baseURL string
	client  *http.Client
	token   string
}

func NewHTTPReporter(baseURL string, timeout time.Duration) *HTTPReporter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPReporter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// SetToken attaches a bearer token to subsequent reports so sessions
// are stored under the signed-in user instead of anonymously.
func (r *HTTPReporter) SetToken(token string) {
	r.token = token
}

// Report hands the record to a detached sender and returns
// immediately. There is deliberately no retry: retrying would risk
// duplicate session rows for a contract that tolerates dropped ones.
func (r *HTTPReporter) Report(record model.SessionRecord) {
	go func() {
		if err := r.send(context.Background(), record); err != nil {
			log.Printf("session report dropped: %v", err)
		}
	}()
}

func (r *HTTPReporter) send(ctx context.Context, record model.SessionRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/sessions", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post session: backend returned %d", resp.StatusCode)
	}
	return nil
}
