package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/studylog/studylog/internal/model"
	"github.com/studylog/studylog/internal/testutil"
)

func timeptr(t time.Time) *time.Time { return &t }

func TestCreateSession(t *testing.T) {
	store := newFakeStore()
	svc := NewSessionService(store)
	owner := uuid.NewString()

	subject := testutil.NewTestSubject(t, owner, "Math")
	store.subjects[subject.ID] = subject

	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	session, err := svc.Create(context.Background(), owner, CreateSessionInput{
		SubjectID: subject.ID,
		StartAt:   start,
		EndAt:     start.Add(2 * time.Hour),
		Title:     strptr("morning block"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if session.Status != model.SessionPlanned {
		t.Errorf("new sessions must start planned, got %s", session.Status)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	owner := uuid.NewString()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	longTitle := strings.Repeat("a", model.MaxSessionTitleLength+1)

	subject := testutil.NewTestSubject(t, owner, "Math")

	tests := []struct {
		name    string
		input   CreateSessionInput
		wantErr error
	}{
		{
			name:    "missing_subject",
			input:   CreateSessionInput{StartAt: start, EndAt: start.Add(time.Hour)},
			wantErr: ErrSessionFieldsMissing,
		},
		{
			name:    "missing_start",
			input:   CreateSessionInput{SubjectID: subject.ID, EndAt: start.Add(time.Hour)},
			wantErr: ErrSessionFieldsMissing,
		},
		{
			name:    "end_equals_start",
			input:   CreateSessionInput{SubjectID: subject.ID, StartAt: start, EndAt: start},
			wantErr: ErrInvalidInterval,
		},
		{
			name:    "end_before_start",
			input:   CreateSessionInput{SubjectID: subject.ID, StartAt: start, EndAt: start.Add(-time.Hour)},
			wantErr: ErrInvalidInterval,
		},
		{
			name: "title_too_long",
			input: CreateSessionInput{
				SubjectID: subject.ID,
				StartAt:   start,
				EndAt:     start.Add(time.Hour),
				Title:     &longTitle,
			},
			wantErr: ErrSessionTitleTooLong,
		},
		{
			name: "unknown_subject",
			input: CreateSessionInput{
				SubjectID: ulid.Make().String(),
				StartAt:   start,
				EndAt:     start.Add(time.Hour),
			},
			wantErr: ErrSubjectNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := newFakeStore()
			store.subjects[subject.ID] = subject
			svc := NewSessionService(store)

			_, err := svc.Create(context.Background(), owner, test.input)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestListSessionsOverlapFilter(t *testing.T) {
	store := newFakeStore()
	svc := NewSessionService(store)
	owner := uuid.NewString()

	subject := testutil.NewTestSubject(t, owner, "Math")
	store.subjects[subject.ID] = subject

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// before: ends exactly at the window start, so it still overlaps.
	touching := testutil.NewTestSession(t, owner, subject.ID, day.Add(9*time.Hour))
	// inside the window.
	inside := testutil.NewTestSession(t, owner, subject.ID, day.Add(11*time.Hour))
	// spans the whole window.
	spanning := testutil.NewTestSession(t, owner, subject.ID, day.Add(8*time.Hour))
	spanning.EndAt = day.Add(20 * time.Hour)
	// entirely after the window.
	after := testutil.NewTestSession(t, owner, subject.ID, day.Add(18*time.Hour))

	for _, s := range []*model.StudySession{touching, inside, spanning, after} {
		store.sessions[s.ID] = s
	}

	from := day.Add(10 * time.Hour)
	to := day.Add(14 * time.Hour)

	sessions, err := svc.List(context.Background(), owner, ListSessionsInput{
		From: timeptr(from),
		To:   timeptr(to),
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(sessions) != 3 {
		t.Fatalf("expected 3 overlapping sessions, got %d", len(sessions))
	}
	for _, s := range sessions {
		if s.ID == after.ID {
			t.Error("session outside the window should be filtered out")
		}
	}

	// Ascending by start time.
	for i := 1; i < len(sessions); i++ {
		if sessions[i].StartAt.Before(sessions[i-1].StartAt) {
			t.Error("sessions should be ordered by start time ascending")
		}
	}
}

func TestListSessionsSubjectFilter(t *testing.T) {
	store := newFakeStore()
	svc := NewSessionService(store)
	owner := uuid.NewString()

	math := testutil.NewTestSubject(t, owner, "Math")
	art := testutil.NewTestSubject(t, owner, "Art")
	store.subjects[math.ID] = math
	store.subjects[art.ID] = art

	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s1 := testutil.NewTestSession(t, owner, math.ID, start)
	s2 := testutil.NewTestSession(t, owner, art.ID, start.Add(time.Hour))
	store.sessions[s1.ID] = s1
	store.sessions[s2.ID] = s2

	sessions, err := svc.List(context.Background(), owner, ListSessionsInput{SubjectID: math.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].SubjectID != math.ID {
		t.Fatalf("expected only the math session, got %d", len(sessions))
	}
}

func TestUpdateSession(t *testing.T) {
	store := newFakeStore()
	svc := NewSessionService(store)
	owner := uuid.NewString()

	subject := testutil.NewTestSubject(t, owner, "Math")
	store.subjects[subject.ID] = subject
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	session := testutil.NewTestSession(t, owner, subject.ID, start)
	store.sessions[session.ID] = session

	status := string(model.SessionCompleted)
	updated, err := svc.Update(context.Background(), owner, session.ID, UpdateSessionInput{
		Status: &status,
		Notes:  strptr("finished the chapter"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != model.SessionCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}
	if updated.Notes == nil || *updated.Notes != "finished the chapter" {
		t.Error("expected notes set")
	}
}

func TestUpdateSessionMergedInterval(t *testing.T) {
	owner := uuid.NewString()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   UpdateSessionInput
		wantErr error
	}{
		{
			// Only the start moves, past the stored end.
			name:    "start_after_stored_end",
			input:   UpdateSessionInput{StartAt: timeptr(start.Add(2 * time.Hour))},
			wantErr: ErrInvalidInterval,
		},
		{
			// Only the end moves, before the stored start.
			name:    "end_before_stored_start",
			input:   UpdateSessionInput{EndAt: timeptr(start.Add(-time.Hour))},
			wantErr: ErrInvalidInterval,
		},
		{
			// Both move together into a valid interval.
			name: "both_bounds_move",
			input: UpdateSessionInput{
				StartAt: timeptr(start.Add(5 * time.Hour)),
				EndAt:   timeptr(start.Add(6 * time.Hour)),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := newFakeStore()
			svc := NewSessionService(store)
			subject := testutil.NewTestSubject(t, owner, "Math")
			store.subjects[subject.ID] = subject
			session := testutil.NewTestSession(t, owner, subject.ID, start)
			store.sessions[session.ID] = session

			_, err := svc.Update(context.Background(), owner, session.ID, test.input)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestUpdateSessionEmptyPatch(t *testing.T) {
	store := newFakeStore()
	svc := NewSessionService(store)
	owner := uuid.NewString()

	subject := testutil.NewTestSubject(t, owner, "Math")
	store.subjects[subject.ID] = subject
	session := testutil.NewTestSession(t, owner, subject.ID, time.Now().UTC())
	store.sessions[session.ID] = session

	_, err := svc.Update(context.Background(), owner, session.ID, UpdateSessionInput{})
	if !errors.Is(err, ErrEmptyPatch) {
		t.Fatalf("expected ErrEmptyPatch, got %v", err)
	}
}

func TestUpdateSessionClearsOptionalFields(t *testing.T) {
	store := newFakeStore()
	svc := NewSessionService(store)
	owner := uuid.NewString()

	subject := testutil.NewTestSubject(t, owner, "Math")
	store.subjects[subject.ID] = subject
	session := testutil.NewTestSession(t, owner, subject.ID, time.Now().UTC())
	session.Title = strptr("evening")
	session.Notes = strptr("bring textbook")
	store.sessions[session.ID] = session

	updated, err := svc.Update(context.Background(), owner, session.ID, UpdateSessionInput{
		Title: strptr(""),
		Notes: strptr(""),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != nil || updated.Notes != nil {
		t.Error("empty strings should clear title and notes")
	}
}

func TestUpdateSessionInvalidStatus(t *testing.T) {
	store := newFakeStore()
	svc := NewSessionService(store)
	owner := uuid.NewString()

	subject := testutil.NewTestSubject(t, owner, "Math")
	store.subjects[subject.ID] = subject
	session := testutil.NewTestSession(t, owner, subject.ID, time.Now().UTC())
	store.sessions[session.ID] = session

	bad := "paused"
	_, err := svc.Update(context.Background(), owner, session.ID, UpdateSessionInput{Status: &bad})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateSessionSubjectChange(t *testing.T) {
	store := newFakeStore()
	svc := NewSessionService(store)
	owner := uuid.NewString()

	math := testutil.NewTestSubject(t, owner, "Math")
	art := testutil.NewTestSubject(t, owner, "Art")
	foreign := testutil.NewTestSubject(t, uuid.NewString(), "Foreign")
	store.subjects[math.ID] = math
	store.subjects[art.ID] = art
	store.subjects[foreign.ID] = foreign

	session := testutil.NewTestSession(t, owner, math.ID, time.Now().UTC())
	store.sessions[session.ID] = session

	updated, err := svc.Update(context.Background(), owner, session.ID, UpdateSessionInput{SubjectID: &art.ID})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.SubjectID != art.ID {
		t.Errorf("expected subject moved to %s, got %s", art.ID, updated.SubjectID)
	}

	// Moving to a subject owned by someone else fails like a missing one.
	_, err = svc.Update(context.Background(), owner, session.ID, UpdateSessionInput{SubjectID: &foreign.ID})
	if !errors.Is(err, ErrSubjectNotFound) {
		t.Fatalf("expected ErrSubjectNotFound, got %v", err)
	}
}

func TestDeleteSessionCrossOwner(t *testing.T) {
	store := newFakeStore()
	svc := NewSessionService(store)
	owner := uuid.NewString()

	subject := testutil.NewTestSubject(t, owner, "Math")
	store.subjects[subject.ID] = subject
	session := testutil.NewTestSession(t, owner, subject.ID, time.Now().UTC())
	store.sessions[session.ID] = session

	err := svc.Delete(context.Background(), uuid.NewString(), session.ID)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	if err := svc.Delete(context.Background(), owner, session.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, ok := store.sessions[session.ID]; ok {
		t.Error("session should be deleted")
	}
}
