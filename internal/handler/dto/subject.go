package dto

import "github.com/studylog/studylog/internal/model"

// CreateSubjectRequest represents the request body for creating a subject.
type CreateSubjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// UpdateSubjectRequest represents a partial subject update.
// Absent fields stay unchanged; an empty description clears it.
type UpdateSubjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// DeletedSubjectResponse is the body returned after a cascade delete.
type DeletedSubjectResponse struct {
	Message string         `json:"message"`
	Subject *model.Subject `json:"subject"`
}

// CreateNoteRequest represents the request body for creating a note.
type CreateNoteRequest struct {
	Title   string  `json:"title"`
	Content *string `json:"content,omitempty"`
}

// UpdateNoteRequest represents a partial note update.
type UpdateNoteRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}
