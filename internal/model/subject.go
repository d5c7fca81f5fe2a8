package model

import "time"

// DefaultSubjectColor is applied when a subject is created without a color.
const DefaultSubjectColor = "#FFD700"

// Subject is a study topic owned by a single user. Notes hang off subjects;
// deleting a subject deletes its notes as well.
type Subject struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SubjectWithNotes is the denormalized dashboard view of a subject together
// with its notes, newest first. It is assembled per read, not stored.
type SubjectWithNotes struct {
	Subject
	Notes []*Note `json:"notes"`
}
