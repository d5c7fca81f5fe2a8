// Package service provides business logic for the application.
// Every operation is scoped to the acting owner; cross-owner lookups are
// indistinguishable from missing rows.
package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Errors shared across services.
var (
	// ErrInvalidID is returned for malformed identifiers in path parameters.
	// It maps to a validation failure, not an internal error.
	ErrInvalidID = errors.New("invalid id format")
)

// newEntityID mints a new entity identifier. ULIDs sort by creation time,
// which keeps the (created_at, id) orderings stable.
func newEntityID() string {
	return ulid.Make().String()
}

// validateEntityID rejects malformed subject/note/session identifiers
// before they reach the store.
func validateEntityID(id string) error {
	if _, err := ulid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// validateUserID rejects malformed user identifiers.
func validateUserID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}
