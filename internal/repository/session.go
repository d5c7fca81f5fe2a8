package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/studylog/studylog/internal/model"
)

// ErrSessionNotFound is returned when a study session does not exist for the
// given (id, owner) pair.
var ErrSessionNotFound = errors.New("session not found")

// SessionFilter defines filters for listing study sessions.
// From/To select sessions whose interval overlaps [From, To]; both must be
// set for the range filter to apply.
type SessionFilter struct {
	SubjectID string
	From      *time.Time
	To        *time.Time
}

const sessionColumns = "id, owner_id, subject_id, start_at, end_at, title, notes, status, created_at, updated_at"

// CreateSession inserts a new study session into the database.
func (r *Repository) CreateSession(ctx context.Context, session *model.StudySession) error {
	query := `
		INSERT INTO study_sessions (id, owner_id, subject_id, start_at, end_at, title, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.OwnerID,
		session.SubjectID,
		session.StartAt,
		session.EndAt,
		session.Title,
		session.Notes,
		session.Status,
		session.CreatedAt,
		session.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetSession retrieves a study session by the combined (id, owner) key.
func (r *Repository) GetSession(ctx context.Context, id, ownerID string) (*model.StudySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM study_sessions WHERE id = $1 AND owner_id = $2`

	session, err := scanSession(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// ListSessionsByOwner retrieves an owner's sessions ordered by start time
// ascending, optionally narrowed by subject and by interval overlap with
// the filter range.
func (r *Repository) ListSessionsByOwner(ctx context.Context, ownerID string, filter SessionFilter) ([]*model.StudySession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM study_sessions
		WHERE owner_id = $1
	`
	args := []any{ownerID}
	argIndex := 2

	if filter.From != nil && filter.To != nil {
		// Interval overlap, not containment:
		// the session touches [from, to] when start_at <= to and end_at >= from.
		query += fmt.Sprintf(" AND start_at <= $%d AND end_at >= $%d", argIndex, argIndex+1)
		args = append(args, *filter.To, *filter.From)
		argIndex += 2
	}

	if filter.SubjectID != "" {
		query += fmt.Sprintf(" AND subject_id = $%d", argIndex)
		args = append(args, filter.SubjectID)
		argIndex++
	}

	query += " ORDER BY start_at ASC, id ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.StudySession
	for rows.Next() {
		session, err := scanSessionFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// UpdateSession updates a study session's mutable fields.
func (r *Repository) UpdateSession(ctx context.Context, session *model.StudySession) error {
	query := `
		UPDATE study_sessions
		SET subject_id = $3, start_at = $4, end_at = $5, title = $6, notes = $7, status = $8, updated_at = $9
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		session.ID,
		session.OwnerID,
		session.SubjectID,
		session.StartAt,
		session.EndAt,
		session.Title,
		session.Notes,
		session.Status,
		session.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// DeleteSession deletes a study session by the combined (id, owner) key.
func (r *Repository) DeleteSession(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM study_sessions WHERE id = $1 AND owner_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// scanSession scans a single row into a StudySession model.
func scanSession(row pgx.Row) (*model.StudySession, error) {
	var session model.StudySession
	err := row.Scan(
		&session.ID,
		&session.OwnerID,
		&session.SubjectID,
		&session.StartAt,
		&session.EndAt,
		&session.Title,
		&session.Notes,
		&session.Status,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	return &session, err
}

// scanSessionFromRows scans a row from pgx.Rows into a StudySession model.
func scanSessionFromRows(rows pgx.Rows) (*model.StudySession, error) {
	var session model.StudySession
	err := rows.Scan(
		&session.ID,
		&session.OwnerID,
		&session.SubjectID,
		&session.StartAt,
		&session.EndAt,
		&session.Title,
		&session.Notes,
		&session.Status,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	return &session, err
}
