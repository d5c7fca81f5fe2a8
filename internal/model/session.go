package model

import "time"

// SessionStatus represents the lifecycle state of a study session.
type SessionStatus string

const (
	SessionPlanned   SessionStatus = "planned"
	SessionCompleted SessionStatus = "completed"
	SessionCanceled  SessionStatus = "canceled"
)

// IsValid checks if the status is one of the known values.
func (s SessionStatus) IsValid() bool {
	return s == SessionPlanned || s == SessionCompleted || s == SessionCanceled
}

// MaxSessionTitleLength bounds the optional session title.
const MaxSessionTitleLength = 120

// StudySession is a planned block of study time for a subject. EndAt must be
// strictly after StartAt, validated at creation and again on every update
// against the merged old/new bounds.
type StudySession struct {
	ID        string        `json:"id"`
	OwnerID   string        `json:"owner_id"`
	SubjectID string        `json:"subject_id"`
	StartAt   time.Time     `json:"start_at"`
	EndAt     time.Time     `json:"end_at"`
	Title     *string       `json:"title,omitempty"`
	Notes     *string       `json:"notes,omitempty"`
	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Overlaps reports whether the session interval shares at least one instant
// with [from, to].
func (s *StudySession) Overlaps(from, to time.Time) bool {
	return !s.StartAt.After(to) && !s.EndAt.Before(from)
}
