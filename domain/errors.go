package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every storage backend and codec so callers can
// branch with errors.Is regardless of which adapter produced them.
var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("lokali: record not found")

	// ErrDuplicateKey is returned when creating a record whose key is taken.
	ErrDuplicateKey = errors.New("lokali: duplicate key")

	// ErrInvalidKey is returned for an empty key or a key with empty segments.
	ErrInvalidKey = errors.New("lokali: invalid key")

	// ErrKeyConflict is returned when one key is a strict dotted prefix of
	// another, which cannot be represented in the key tree.
	ErrKeyConflict = errors.New("lokali: key conflicts with existing path")

	// ErrStorage wraps failures of the underlying store (unavailable, full,
	// corrupt payload).
	ErrStorage = errors.New("lokali: storage failure")

	// ErrFormat is returned for malformed JSON/CSV input, a wrong CSV header
	// or an unsupported file extension.
	ErrFormat = errors.New("lokali: bad format")
)

// APIError carries the HTTP status of a failed remote call plus the optional
// {message} body the endpoint returned.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("lokali: api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("lokali: api request failed with status %d: %s", e.Status, e.Message)
}
