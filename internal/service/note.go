package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studylog/studylog/internal/model"
	"github.com/studylog/studylog/internal/repository"
)

// Note service errors.
var (
	ErrNoteTitleRequired  = errors.New("note title is required")
	ErrNoteNotFound       = errors.New("note not found")
	ErrSearchQueryMissing = errors.New("search query is required")
)

// NoteStore is the persistence surface the note service needs.
type NoteStore interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetNote(ctx context.Context, id, ownerID string) (*model.Note, error)
	ListNotesByOwner(ctx context.Context, ownerID string) ([]*model.Note, error)
	ListNotesBySubject(ctx context.Context, subjectID, ownerID string) ([]*model.Note, error)
	UpdateNote(ctx context.Context, note *model.Note) error
	DeleteNote(ctx context.Context, id, ownerID string) error
	GetSubject(ctx context.Context, id, ownerID string) (*model.Subject, error)
}

// NoteService handles note business logic.
type NoteService struct {
	store NoteStore
}

// NewNoteService creates a new NoteService.
func NewNoteService(store NoteStore) *NoteService {
	return &NoteService{store: store}
}

// CreateNoteInput defines input for creating a note.
type CreateNoteInput struct {
	Title   string
	Content *string
}

// Create creates a note under a subject the owner holds.
func (s *NoteService) Create(ctx context.Context, ownerID, subjectID string, input CreateNoteInput) (*model.Note, error) {
	if err := validateEntityID(subjectID); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, ErrNoteTitleRequired
	}

	// The parent subject must exist and belong to the owner before the
	// note is written.
	if _, err := s.store.GetSubject(ctx, subjectID, ownerID); err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}

	now := time.Now().UTC()
	note := &model.Note{
		ID:        newEntityID(),
		OwnerID:   ownerID,
		SubjectID: subjectID,
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	return note, nil
}

// List returns the owner's notes across all subjects, newest first.
func (s *NoteService) List(ctx context.Context, ownerID string) ([]*model.Note, error) {
	notes, err := s.store.ListNotesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if notes == nil {
		notes = []*model.Note{}
	}
	return notes, nil
}

// Search returns the owner's notes whose title contains the query,
// case-insensitively. The match runs in the application so it behaves the
// same against any backing store.
func (s *NoteService) Search(ctx context.Context, ownerID, query string) ([]*model.Note, error) {
	if query == "" {
		return nil, ErrSearchQueryMissing
	}

	notes, err := s.store.ListNotesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	needle := strings.ToLower(query)
	matched := make([]*model.Note, 0, len(notes))
	for _, note := range notes {
		if strings.Contains(strings.ToLower(note.Title), needle) {
			matched = append(matched, note)
		}
	}

	return matched, nil
}

// Get returns one of the owner's notes.
func (s *NoteService) Get(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	if err := validateEntityID(noteID); err != nil {
		return nil, err
	}

	note, err := s.store.GetNote(ctx, noteID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	return note, nil
}

// UpdateNoteInput defines a partial update. Nil fields are left unchanged;
// an explicit empty content clears it.
type UpdateNoteInput struct {
	Title   *string
	Content *string
}

// Update applies a partial update to an owned note. Ownership cannot be
// patched; the write is keyed on (id, owner).
func (s *NoteService) Update(ctx context.Context, ownerID, noteID string, input UpdateNoteInput) (*model.Note, error) {
	return s.update(ctx, ownerID, "", noteID, input)
}

// UpdateInSubject is the nested-route variant: the note must live under the
// given subject and the subject must belong to the owner.
func (s *NoteService) UpdateInSubject(ctx context.Context, ownerID, subjectID, noteID string, input UpdateNoteInput) (*model.Note, error) {
	if err := validateEntityID(subjectID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetSubject(ctx, subjectID, ownerID); err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}
	return s.update(ctx, ownerID, subjectID, noteID, input)
}

func (s *NoteService) update(ctx context.Context, ownerID, subjectID, noteID string, input UpdateNoteInput) (*model.Note, error) {
	if err := validateEntityID(noteID); err != nil {
		return nil, err
	}

	note, err := s.store.GetNote(ctx, noteID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	if subjectID != "" && note.SubjectID != subjectID {
		return nil, ErrNoteNotFound
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrNoteTitleRequired
		}
		note.Title = *input.Title
	}
	if input.Content != nil {
		if *input.Content == "" {
			note.Content = nil
		} else {
			note.Content = input.Content
		}
	}

	note.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateNote(ctx, note); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("update note: %w", err)
	}

	return note, nil
}

// Delete removes one of the owner's notes.
func (s *NoteService) Delete(ctx context.Context, ownerID, noteID string) error {
	return s.delete(ctx, ownerID, "", noteID)
}

// DeleteInSubject is the nested-route variant of Delete.
func (s *NoteService) DeleteInSubject(ctx context.Context, ownerID, subjectID, noteID string) error {
	if err := validateEntityID(subjectID); err != nil {
		return err
	}
	if _, err := s.store.GetSubject(ctx, subjectID, ownerID); err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("get subject: %w", err)
	}
	return s.delete(ctx, ownerID, subjectID, noteID)
}

func (s *NoteService) delete(ctx context.Context, ownerID, subjectID, noteID string) error {
	if err := validateEntityID(noteID); err != nil {
		return err
	}

	if subjectID != "" {
		note, err := s.store.GetNote(ctx, noteID, ownerID)
		if err != nil {
			if errors.Is(err, repository.ErrNoteNotFound) {
				return ErrNoteNotFound
			}
			return fmt.Errorf("get note: %w", err)
		}
		if note.SubjectID != subjectID {
			return ErrNoteNotFound
		}
	}

	if err := s.store.DeleteNote(ctx, noteID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("delete note: %w", err)
	}

	return nil
}
