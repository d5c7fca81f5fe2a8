package service

import (
	"context"
	"sort"

	"github.com/studylog/studylog/internal/model"
	"github.com/studylog/studylog/internal/repository"
)

// fakeStore is an in-memory store implementing every service store
// interface. Lookups are keyed on (id, owner) exactly like the SQL layer,
// so missing rows and foreign rows are indistinguishable here too.
type fakeStore struct {
	users    map[string]*model.User
	subjects map[string]*model.Subject
	notes    map[string]*model.Note
	sessions map[string]*model.StudySession

	// forcedErr, when set, is returned by every call. Used to exercise
	// the services' wrapped-error paths.
	forcedErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*model.User),
		subjects: make(map[string]*model.Subject),
		notes:    make(map[string]*model.Note),
		sessions: make(map[string]*model.StudySession),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, user *model.User) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeStore) UsernameExists(_ context.Context, username string) (bool, error) {
	if f.forcedErr != nil {
		return false, f.forcedErr
	}
	for _, user := range f.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) EmailExists(_ context.Context, email string) (bool, error) {
	if f.forcedErr != nil {
		return false, f.forcedErr
	}
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListUsers(_ context.Context) ([]*model.User, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	users := make([]*model.User, 0, len(f.users))
	for _, user := range f.users {
		clone := *user
		users = append(users, &clone)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (f *fakeStore) CreateSubject(_ context.Context, subject *model.Subject) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	clone := *subject
	f.subjects[subject.ID] = &clone
	return nil
}

func (f *fakeStore) GetSubject(_ context.Context, id, ownerID string) (*model.Subject, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	subject, ok := f.subjects[id]
	if !ok || subject.OwnerID != ownerID {
		return nil, repository.ErrSubjectNotFound
	}
	clone := *subject
	return &clone, nil
}

func (f *fakeStore) ListSubjectsByOwner(_ context.Context, ownerID string) ([]*model.Subject, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	subjects := make([]*model.Subject, 0)
	for _, subject := range f.subjects {
		if subject.OwnerID == ownerID {
			clone := *subject
			subjects = append(subjects, &clone)
		}
	}
	sort.Slice(subjects, func(i, j int) bool {
		if !subjects[i].CreatedAt.Equal(subjects[j].CreatedAt) {
			return subjects[i].CreatedAt.After(subjects[j].CreatedAt)
		}
		return subjects[i].ID > subjects[j].ID
	})
	return subjects, nil
}

func (f *fakeStore) UpdateSubject(_ context.Context, subject *model.Subject) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	current, ok := f.subjects[subject.ID]
	if !ok || current.OwnerID != subject.OwnerID {
		return repository.ErrSubjectNotFound
	}
	clone := *subject
	f.subjects[subject.ID] = &clone
	return nil
}

func (f *fakeStore) DeleteSubjectCascade(_ context.Context, id, ownerID string) (*model.Subject, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	subject, ok := f.subjects[id]
	if !ok || subject.OwnerID != ownerID {
		return nil, repository.ErrSubjectNotFound
	}
	delete(f.subjects, id)
	for noteID, note := range f.notes {
		if note.SubjectID == id && note.OwnerID == ownerID {
			delete(f.notes, noteID)
		}
	}
	return subject, nil
}

func (f *fakeStore) CreateNote(_ context.Context, note *model.Note) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	clone := *note
	f.notes[note.ID] = &clone
	return nil
}

func (f *fakeStore) GetNote(_ context.Context, id, ownerID string) (*model.Note, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	note, ok := f.notes[id]
	if !ok || note.OwnerID != ownerID {
		return nil, repository.ErrNoteNotFound
	}
	clone := *note
	return &clone, nil
}

func (f *fakeStore) ListNotesByOwner(_ context.Context, ownerID string) ([]*model.Note, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	notes := make([]*model.Note, 0)
	for _, note := range f.notes {
		if note.OwnerID == ownerID {
			clone := *note
			notes = append(notes, &clone)
		}
	}
	sortNotes(notes)
	return notes, nil
}

func (f *fakeStore) ListNotesBySubject(_ context.Context, subjectID, ownerID string) ([]*model.Note, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	notes := make([]*model.Note, 0)
	for _, note := range f.notes {
		if note.SubjectID == subjectID && note.OwnerID == ownerID {
			clone := *note
			notes = append(notes, &clone)
		}
	}
	sortNotes(notes)
	return notes, nil
}

func (f *fakeStore) UpdateNote(_ context.Context, note *model.Note) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	current, ok := f.notes[note.ID]
	if !ok || current.OwnerID != note.OwnerID {
		return repository.ErrNoteNotFound
	}
	clone := *note
	f.notes[note.ID] = &clone
	return nil
}

func (f *fakeStore) DeleteNote(_ context.Context, id, ownerID string) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	note, ok := f.notes[id]
	if !ok || note.OwnerID != ownerID {
		return repository.ErrNoteNotFound
	}
	delete(f.notes, id)
	return nil
}

func (f *fakeStore) CreateSession(_ context.Context, session *model.StudySession) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	clone := *session
	f.sessions[session.ID] = &clone
	return nil
}

func (f *fakeStore) GetSession(_ context.Context, id, ownerID string) (*model.StudySession, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	session, ok := f.sessions[id]
	if !ok || session.OwnerID != ownerID {
		return nil, repository.ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

func (f *fakeStore) ListSessionsByOwner(_ context.Context, ownerID string, filter repository.SessionFilter) ([]*model.StudySession, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	sessions := make([]*model.StudySession, 0)
	for _, session := range f.sessions {
		if session.OwnerID != ownerID {
			continue
		}
		if filter.SubjectID != "" && session.SubjectID != filter.SubjectID {
			continue
		}
		if filter.From != nil && filter.To != nil && !session.Overlaps(*filter.From, *filter.To) {
			continue
		}
		clone := *session
		sessions = append(sessions, &clone)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].StartAt.Equal(sessions[j].StartAt) {
			return sessions[i].StartAt.Before(sessions[j].StartAt)
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions, nil
}

func (f *fakeStore) UpdateSession(_ context.Context, session *model.StudySession) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	current, ok := f.sessions[session.ID]
	if !ok || current.OwnerID != session.OwnerID {
		return repository.ErrSessionNotFound
	}
	clone := *session
	f.sessions[session.ID] = &clone
	return nil
}

func (f *fakeStore) DeleteSession(_ context.Context, id, ownerID string) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	session, ok := f.sessions[id]
	if !ok || session.OwnerID != ownerID {
		return repository.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

func sortNotes(notes []*model.Note) {
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		}
		return notes[i].ID > notes[j].ID
	})
}
