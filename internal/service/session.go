package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/studylog/studylog/internal/model"
	"github.com/studylog/studylog/internal/repository"
)

// Session service errors.
var (
	ErrSessionFieldsMissing = errors.New("subject id, start and end are required")
	ErrInvalidInterval      = errors.New("end must be after start")
	ErrInvalidStatus        = errors.New("status must be planned, completed or canceled")
	ErrSessionTitleTooLong  = errors.New("session title too long")
	ErrSessionNotFound      = errors.New("session not found")
	ErrEmptyPatch           = errors.New("no valid fields provided to update")
)

// SessionStore is the persistence surface the session service needs.
type SessionStore interface {
	CreateSession(ctx context.Context, session *model.StudySession) error
	GetSession(ctx context.Context, id, ownerID string) (*model.StudySession, error)
	ListSessionsByOwner(ctx context.Context, ownerID string, filter repository.SessionFilter) ([]*model.StudySession, error)
	UpdateSession(ctx context.Context, session *model.StudySession) error
	DeleteSession(ctx context.Context, id, ownerID string) error
	GetSubject(ctx context.Context, id, ownerID string) (*model.Subject, error)
}

// SessionService handles study session business logic.
type SessionService struct {
	store SessionStore
}

// NewSessionService creates a new SessionService.
func NewSessionService(store SessionStore) *SessionService {
	return &SessionService{store: store}
}

// CreateSessionInput defines input for creating a study session.
type CreateSessionInput struct {
	SubjectID string
	StartAt   time.Time
	EndAt     time.Time
	Title     *string
	Notes     *string
}

// Create schedules a session for a subject the owner holds.
// Status always starts as planned, whatever the caller sent.
func (s *SessionService) Create(ctx context.Context, ownerID string, input CreateSessionInput) (*model.StudySession, error) {
	if input.SubjectID == "" || input.StartAt.IsZero() || input.EndAt.IsZero() {
		return nil, ErrSessionFieldsMissing
	}
	if err := validateEntityID(input.SubjectID); err != nil {
		return nil, err
	}
	if !input.EndAt.After(input.StartAt) {
		return nil, ErrInvalidInterval
	}
	if input.Title != nil && len(*input.Title) > model.MaxSessionTitleLength {
		return nil, ErrSessionTitleTooLong
	}

	if _, err := s.store.GetSubject(ctx, input.SubjectID, ownerID); err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}

	now := time.Now().UTC()
	session := &model.StudySession{
		ID:        newEntityID(),
		OwnerID:   ownerID,
		SubjectID: input.SubjectID,
		StartAt:   input.StartAt,
		EndAt:     input.EndAt,
		Title:     normalizeOptional(input.Title),
		Notes:     normalizeOptional(input.Notes),
		Status:    model.SessionPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return session, nil
}

// ListSessionsInput defines optional filters for listing sessions.
type ListSessionsInput struct {
	From      *time.Time
	To        *time.Time
	SubjectID string
}

// List returns the owner's sessions ordered by start time ascending.
// When both From and To are set, only sessions whose interval overlaps
// [From, To] are returned.
func (s *SessionService) List(ctx context.Context, ownerID string, input ListSessionsInput) ([]*model.StudySession, error) {
	if input.SubjectID != "" {
		if err := validateEntityID(input.SubjectID); err != nil {
			return nil, err
		}
	}

	sessions, err := s.store.ListSessionsByOwner(ctx, ownerID, repository.SessionFilter{
		SubjectID: input.SubjectID,
		From:      input.From,
		To:        input.To,
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*model.StudySession{}
	}
	return sessions, nil
}

// UpdateSessionInput defines a partial update. Nil fields are left
// unchanged; explicit empty strings clear Title and Notes.
type UpdateSessionInput struct {
	SubjectID *string
	StartAt   *time.Time
	EndAt     *time.Time
	Title     *string
	Notes     *string
	Status    *string
}

func (in UpdateSessionInput) empty() bool {
	return in.SubjectID == nil && in.StartAt == nil && in.EndAt == nil &&
		in.Title == nil && in.Notes == nil && in.Status == nil
}

// Update applies a partial update to an owned session. The session is
// resolved with a single (id, owner) lookup. A subject change is validated
// against the owner's subjects, and the merged interval is re-checked
// whenever either bound moves.
func (s *SessionService) Update(ctx context.Context, ownerID, sessionID string, input UpdateSessionInput) (*model.StudySession, error) {
	if err := validateEntityID(sessionID); err != nil {
		return nil, err
	}
	if input.empty() {
		return nil, ErrEmptyPatch
	}

	session, err := s.store.GetSession(ctx, sessionID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if input.SubjectID != nil && *input.SubjectID != session.SubjectID {
		if err := validateEntityID(*input.SubjectID); err != nil {
			return nil, err
		}
		if _, err := s.store.GetSubject(ctx, *input.SubjectID, ownerID); err != nil {
			if errors.Is(err, repository.ErrSubjectNotFound) {
				return nil, ErrSubjectNotFound
			}
			return nil, fmt.Errorf("get subject: %w", err)
		}
		session.SubjectID = *input.SubjectID
	}

	// Merge the interval before validating: the new bound where provided,
	// the stored one where not.
	start, end := session.StartAt, session.EndAt
	if input.StartAt != nil {
		start = *input.StartAt
	}
	if input.EndAt != nil {
		end = *input.EndAt
	}
	if !end.After(start) {
		return nil, ErrInvalidInterval
	}
	session.StartAt, session.EndAt = start, end

	if input.Title != nil {
		if len(*input.Title) > model.MaxSessionTitleLength {
			return nil, ErrSessionTitleTooLong
		}
		session.Title = normalizeOptional(input.Title)
	}
	if input.Notes != nil {
		session.Notes = normalizeOptional(input.Notes)
	}
	if input.Status != nil {
		status := model.SessionStatus(*input.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		session.Status = status
	}

	session.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateSession(ctx, session); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("update session: %w", err)
	}

	return session, nil
}

// Delete removes one of the owner's sessions.
func (s *SessionService) Delete(ctx context.Context, ownerID, sessionID string) error {
	if err := validateEntityID(sessionID); err != nil {
		return err
	}

	if err := s.store.DeleteSession(ctx, sessionID, ownerID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// normalizeOptional maps empty strings to nil so cleared fields are stored
// as NULL, not "".
func normalizeOptional(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}
