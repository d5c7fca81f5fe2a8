package model

import "time"

// Note is a piece of study material attached to a subject. A note always
// belongs to a subject owned by the same user.
type Note struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	SubjectID string    `json:"subject_id"`
	Title     string    `json:"title"`
	Content   *string   `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
