package dto

// CreateSessionRequest represents the request body for creating a session.
// Timestamps arrive as strings so lenient layouts can be accepted.
type CreateSessionRequest struct {
	SubjectID string  `json:"subject_id"`
	StartAt   string  `json:"start_at"`
	EndAt     string  `json:"end_at"`
	Title     *string `json:"title,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// UpdateSessionRequest represents a partial session update.
// Absent fields stay unchanged; empty title/notes clear the field.
type UpdateSessionRequest struct {
	SubjectID *string `json:"subject_id,omitempty"`
	StartAt   *string `json:"start_at,omitempty"`
	EndAt     *string `json:"end_at,omitempty"`
	Title     *string `json:"title,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Status    *string `json:"status,omitempty"`
}
