package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/studylog/studylog/internal/model"
)

// ErrNoteNotFound is returned when a note does not exist for the given
// (id, owner) pair.
var ErrNoteNotFound = errors.New("note not found")

const noteColumns = "id, owner_id, subject_id, title, content, created_at, updated_at"

// CreateNote inserts a new note into the database.
func (r *Repository) CreateNote(ctx context.Context, note *model.Note) error {
	query := `
		INSERT INTO notes (id, owner_id, subject_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		note.ID,
		note.OwnerID,
		note.SubjectID,
		note.Title,
		note.Content,
		note.CreatedAt,
		note.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// GetNote retrieves a note by the combined (id, owner) key.
func (r *Repository) GetNote(ctx context.Context, id, ownerID string) (*model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND owner_id = $2`

	note, err := scanNote(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// ListNotesByOwner retrieves all notes for an owner, newest first.
func (r *Repository) ListNotesByOwner(ctx context.Context, ownerID string) ([]*model.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.queryNotes(ctx, query, ownerID)
}

// ListNotesBySubject retrieves an owner's notes under one subject, newest first.
func (r *Repository) ListNotesBySubject(ctx context.Context, subjectID, ownerID string) ([]*model.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE subject_id = $1 AND owner_id = $2
		ORDER BY created_at DESC, id DESC
	`
	return r.queryNotes(ctx, query, subjectID, ownerID)
}

// UpdateNote updates a note's mutable fields.
func (r *Repository) UpdateNote(ctx context.Context, note *model.Note) error {
	query := `
		UPDATE notes
		SET subject_id = $3, title = $4, content = $5, updated_at = $6
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		note.ID,
		note.OwnerID,
		note.SubjectID,
		note.Title,
		note.Content,
		note.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoteNotFound
	}

	return nil
}

// DeleteNote deletes a note by the combined (id, owner) key.
func (r *Repository) DeleteNote(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM notes WHERE id = $1 AND owner_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoteNotFound
	}

	return nil
}

// queryNotes runs a note query and scans the result set.
func (r *Repository) queryNotes(ctx context.Context, query string, args ...any) ([]*model.Note, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*model.Note
	for rows.Next() {
		var note model.Note
		err := rows.Scan(
			&note.ID,
			&note.OwnerID,
			&note.SubjectID,
			&note.Title,
			&note.Content,
			&note.CreatedAt,
			&note.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, nil
}

// scanNote scans a single row into a Note model.
func scanNote(row pgx.Row) (*model.Note, error) {
	var note model.Note
	err := row.Scan(
		&note.ID,
		&note.OwnerID,
		&note.SubjectID,
		&note.Title,
		&note.Content,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	return &note, err
}
