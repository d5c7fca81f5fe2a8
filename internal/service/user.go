package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/studylog/studylog/internal/model"
	"github.com/studylog/studylog/internal/repository"
)

// ErrNotOwnProfile is returned when a user requests another user's record by
// id. Unlike subject/note lookups this is a plain 403: the directory already
// exposes which users exist.
var ErrNotOwnProfile = errors.New("you can only view your own profile")

// DirectoryStore is the persistence surface the user directory needs.
type DirectoryStore interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListSubjectsByOwner(ctx context.Context, ownerID string) ([]*model.Subject, error)
	ListNotesBySubject(ctx context.Context, subjectID, ownerID string) ([]*model.Note, error)
}

// UserService handles the user directory and aggregate views.
type UserService struct {
	store DirectoryStore
}

// NewUserService creates a new UserService.
func NewUserService(store DirectoryStore) *UserService {
	return &UserService{store: store}
}

// UserSubjects is the aggregate view of one user with their subjects and
// notes, as served by the directory endpoint.
type UserSubjects struct {
	ID       string                    `json:"id"`
	Username string                    `json:"username"`
	Subjects []*model.SubjectWithNotes `json:"subjects"`
}

// List returns the user directory: id and username for every user.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

// Get returns a user's own record. Requesting any other id fails with
// ErrNotOwnProfile.
func (s *UserService) Get(ctx context.Context, requesterID, userID string) (*model.User, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if requesterID != userID {
		return nil, ErrNotOwnProfile
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// ListWithSubjects returns every user together with their subjects and
// notes. This powers a shared dashboard; it is read-only and leaks nothing
// that the write paths protect.
func (s *UserService) ListWithSubjects(ctx context.Context) ([]*UserSubjects, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	result := make([]*UserSubjects, 0, len(users))
	for _, user := range users {
		subjects, err := s.store.ListSubjectsByOwner(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("list subjects: %w", err)
		}

		enriched := make([]*model.SubjectWithNotes, 0, len(subjects))
		for _, subject := range subjects {
			notes, err := s.store.ListNotesBySubject(ctx, subject.ID, user.ID)
			if err != nil {
				return nil, fmt.Errorf("list subject notes: %w", err)
			}
			if notes == nil {
				notes = []*model.Note{}
			}
			enriched = append(enriched, &model.SubjectWithNotes{Subject: *subject, Notes: notes})
		}

		result = append(result, &UserSubjects{
			ID:       user.ID,
			Username: user.Username,
			Subjects: enriched,
		})
	}

	return result, nil
}
