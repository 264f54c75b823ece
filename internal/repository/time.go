package repository

import "time"

// parseTime reads the RFC3339 text timestamps SQLite stores. The
// agent sends second-precision timestamps while the backend writes
// nanosecond precision, so both layouts are accepted.
func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
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
