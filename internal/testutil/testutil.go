package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/studylog/studylog/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 730731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// migrationPairs lists the schema migrations in apply order.
var migrationPairs = []string{
	"000001_users",
	"000002_subjects_notes",
	"000003_study_sessions",
}

// ResetSchema drops and recreates the full schema for tests.
// Down migrations run in reverse order, then ups in forward order.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	dir := filepath.Join(root, "internal", "repository", "migrations")

	for i := len(migrationPairs) - 1; i >= 0; i-- {
		downPath := filepath.Join(dir, migrationPairs[i]+".down.sql")
		downSQL, err := os.ReadFile(downPath)
		if err != nil {
			return fmt.Errorf("read down migration: %w", err)
		}
		if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
			return fmt.Errorf("apply down migration %s: %w", migrationPairs[i], err)
		}
	}

	for _, name := range migrationPairs {
		upPath := filepath.Join(dir, name+".up.sql")
		upSQL, err := os.ReadFile(upPath)
		if err != nil {
			return fmt.Errorf("read up migration: %w", err)
		}
		if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
			return fmt.Errorf("apply up migration %s: %w", name, err)
		}
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, username string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: fmt.Sprintf("hash-%d", now.UnixNano()),
		CreatedAt:    now,
	}
}

// NewTestSubject creates a test subject owned by the given user.
func NewTestSubject(t testing.TB, ownerID, name string) *model.Subject {
	t.Helper()
	now := time.Now().UTC()
	return &model.Subject{
		ID:        ulid.Make().String(),
		OwnerID:   ownerID,
		Name:      name,
		Color:     model.DefaultSubjectColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestNote creates a test note attached to a subject.
func NewTestNote(t testing.TB, ownerID, subjectID, title string) *model.Note {
	t.Helper()
	now := time.Now().UTC()
	content := "notes about " + title
	return &model.Note{
		ID:        ulid.Make().String(),
		OwnerID:   ownerID,
		SubjectID: subjectID,
		Title:     title,
		Content:   &content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestSession creates a planned one-hour session starting at start.
func NewTestSession(t testing.TB, ownerID, subjectID string, start time.Time) *model.StudySession {
	t.Helper()
	now := time.Now().UTC()
	return &model.StudySession{
		ID:        ulid.Make().String(),
		OwnerID:   ownerID,
		SubjectID: subjectID,
		StartAt:   start,
		EndAt:     start.Add(time.Hour),
		Status:    model.SessionPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UniqueName generates a unique name for tests.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
