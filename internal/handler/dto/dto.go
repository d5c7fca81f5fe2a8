// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"errors"
	"time"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessageResponse wraps endpoints that answer with a message only.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is the body for register and login.
type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ErrInvalidTime is returned when a timestamp field cannot be parsed.
var ErrInvalidTime = errors.New("invalid timestamp format")

// timeLayouts are accepted for timestamp fields, most specific first.
// Clients commonly omit the zone or the seconds in datetime-local inputs.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses a request timestamp in any accepted layout.
func ParseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidTime
}
