package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/studylog/studylog/internal/model"
)

// ErrSubjectNotFound is returned when a subject does not exist for the given
// (id, owner) pair. Cross-owner lookups produce the same error as missing
// rows so existence never leaks across owners.
var ErrSubjectNotFound = errors.New("subject not found")

// CreateSubject inserts a new subject into the database.
func (r *Repository) CreateSubject(ctx context.Context, subject *model.Subject) error {
	query := `
		INSERT INTO subjects (id, owner_id, name, description, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		subject.ID,
		subject.OwnerID,
		subject.Name,
		subject.Description,
		subject.Color,
		subject.CreatedAt,
		subject.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}

	return nil
}

// GetSubject retrieves a subject by the combined (id, owner) key.
func (r *Repository) GetSubject(ctx context.Context, id, ownerID string) (*model.Subject, error) {
	query := `
		SELECT id, owner_id, name, description, color, created_at, updated_at
		FROM subjects
		WHERE id = $1 AND owner_id = $2
	`

	subject, err := scanSubject(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	return subject, nil
}

// ListSubjectsByOwner retrieves all subjects for an owner, newest first.
func (r *Repository) ListSubjectsByOwner(ctx context.Context, ownerID string) ([]*model.Subject, error) {
	query := `
		SELECT id, owner_id, name, description, color, created_at, updated_at
		FROM subjects
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*model.Subject
	for rows.Next() {
		subject, err := scanSubjectFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subjects: %w", err)
	}

	return subjects, nil
}

// UpdateSubject updates a subject's mutable fields.
func (r *Repository) UpdateSubject(ctx context.Context, subject *model.Subject) error {
	query := `
		UPDATE subjects
		SET name = $3, description = $4, color = $5, updated_at = $6
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		subject.ID,
		subject.OwnerID,
		subject.Name,
		subject.Description,
		subject.Color,
		subject.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update subject: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSubjectNotFound
	}

	return nil
}

// DeleteSubjectCascade deletes a subject and all notes under it in a single
// transaction, so a crash cannot strand orphaned notes. Returns the deleted
// subject.
func (r *Repository) DeleteSubjectCascade(ctx context.Context, id, ownerID string) (*model.Subject, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		DELETE FROM subjects
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, name, description, color, created_at, updated_at
	`

	subject, err := scanSubject(tx.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to delete subject: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM notes WHERE subject_id = $1 AND owner_id = $2`,
		id, ownerID,
	); err != nil {
		return nil, fmt.Errorf("failed to delete subject notes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit subject delete: %w", err)
	}

	return subject, nil
}

// scanSubject scans a single row into a Subject model.
func scanSubject(row pgx.Row) (*model.Subject, error) {
	var subject model.Subject
	err := row.Scan(
		&subject.ID,
		&subject.OwnerID,
		&subject.Name,
		&subject.Description,
		&subject.Color,
		&subject.CreatedAt,
		&subject.UpdatedAt,
	)
	return &subject, err
}

// scanSubjectFromRows scans a row from pgx.Rows into a Subject model.
func scanSubjectFromRows(rows pgx.Rows) (*model.Subject, error) {
	var subject model.Subject
	err := rows.Scan(
		&subject.ID,
		&subject.OwnerID,
		&subject.Name,
		&subject.Description,
		&subject.Color,
		&subject.CreatedAt,
		&subject.UpdatedAt,
	)
	return &subject, err
}
