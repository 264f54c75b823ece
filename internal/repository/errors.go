package repository

import "errors"

// ErrNotFound is returned when a row does not exist. Services map it
// to a 404 instead of leaking database details.
var ErrNotFound = errors.New("not found")
