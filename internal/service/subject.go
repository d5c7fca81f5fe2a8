package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/studylog/studylog/internal/model"
	"github.com/studylog/studylog/internal/repository"
)

// Subject service errors.
var (
	ErrSubjectNameRequired = errors.New("subject name is required")
	// ErrSubjectNotFound is returned for missing subjects and for subjects
	// owned by someone else; the two cases are deliberately the same.
	ErrSubjectNotFound = errors.New("subject not found")
)

// SubjectStore is the persistence surface the subject service needs.
type SubjectStore interface {
	CreateSubject(ctx context.Context, subject *model.Subject) error
	GetSubject(ctx context.Context, id, ownerID string) (*model.Subject, error)
	ListSubjectsByOwner(ctx context.Context, ownerID string) ([]*model.Subject, error)
	UpdateSubject(ctx context.Context, subject *model.Subject) error
	DeleteSubjectCascade(ctx context.Context, id, ownerID string) (*model.Subject, error)
	ListNotesBySubject(ctx context.Context, subjectID, ownerID string) ([]*model.Note, error)
}

// SubjectService handles subject business logic.
type SubjectService struct {
	store SubjectStore
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(store SubjectStore) *SubjectService {
	return &SubjectService{store: store}
}

// CreateSubjectInput defines input for creating a subject.
type CreateSubjectInput struct {
	Name        string
	Description *string
	Color       string
}

// Create creates a subject for the owner.
func (s *SubjectService) Create(ctx context.Context, ownerID string, input CreateSubjectInput) (*model.Subject, error) {
	if input.Name == "" {
		return nil, ErrSubjectNameRequired
	}

	color := input.Color
	if color == "" {
		color = model.DefaultSubjectColor
	}

	now := time.Now().UTC()
	subject := &model.Subject{
		ID:          newEntityID(),
		OwnerID:     ownerID,
		Name:        input.Name,
		Description: input.Description,
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateSubject(ctx, subject); err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}

	return subject, nil
}

// List returns the owner's subjects, newest first, each enriched with its
// notes. The join is assembled per read for the dashboard view.
func (s *SubjectService) List(ctx context.Context, ownerID string) ([]*model.SubjectWithNotes, error) {
	subjects, err := s.store.ListSubjectsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	result := make([]*model.SubjectWithNotes, 0, len(subjects))
	for _, subject := range subjects {
		enriched, err := s.withNotes(ctx, subject)
		if err != nil {
			return nil, err
		}
		result = append(result, enriched)
	}

	return result, nil
}

// Get returns one subject with its notes.
func (s *SubjectService) Get(ctx context.Context, ownerID, subjectID string) (*model.SubjectWithNotes, error) {
	if err := validateEntityID(subjectID); err != nil {
		return nil, err
	}

	subject, err := s.store.GetSubject(ctx, subjectID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}

	return s.withNotes(ctx, subject)
}

// UpdateSubjectInput defines a partial update. Nil fields are left unchanged;
// an explicit empty description clears it.
type UpdateSubjectInput struct {
	Name        *string
	Description *string
	Color       *string
}

// Update applies a partial update to an owned subject. Ownership cannot be
// reassigned: there is no owner field to patch, and the write is keyed on
// (id, owner).
func (s *SubjectService) Update(ctx context.Context, ownerID, subjectID string, input UpdateSubjectInput) (*model.Subject, error) {
	if err := validateEntityID(subjectID); err != nil {
		return nil, err
	}

	subject, err := s.store.GetSubject(ctx, subjectID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrSubjectNameRequired
		}
		subject.Name = *input.Name
	}
	if input.Description != nil {
		if *input.Description == "" {
			subject.Description = nil
		} else {
			subject.Description = input.Description
		}
	}
	if input.Color != nil {
		if *input.Color == "" {
			subject.Color = model.DefaultSubjectColor
		} else {
			subject.Color = *input.Color
		}
	}

	subject.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateSubject(ctx, subject); err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("update subject: %w", err)
	}

	return subject, nil
}

// Delete removes an owned subject and every note under it, and returns the
// deleted subject.
func (s *SubjectService) Delete(ctx context.Context, ownerID, subjectID string) (*model.Subject, error) {
	if err := validateEntityID(subjectID); err != nil {
		return nil, err
	}

	subject, err := s.store.DeleteSubjectCascade(ctx, subjectID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("delete subject: %w", err)
	}

	return subject, nil
}

// withNotes attaches a subject's notes, newest first.
func (s *SubjectService) withNotes(ctx context.Context, subject *model.Subject) (*model.SubjectWithNotes, error) {
	notes, err := s.store.ListNotesBySubject(ctx, subject.ID, subject.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("list subject notes: %w", err)
	}
	if notes == nil {
		notes = []*model.Note{}
	}
	return &model.SubjectWithNotes{Subject: *subject, Notes: notes}, nil
}
