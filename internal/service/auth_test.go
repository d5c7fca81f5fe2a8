package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studylog/studylog/internal/auth"
)

func newAuthService(store *fakeStore) *AuthService {
	return NewAuthService(store, auth.NewTokenService("test-secret", 0))
}

func TestRegister(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse battery staple",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.ID == "" {
		t.Error("expected a generated user id")
	}
	if _, err := uuid.Parse(user.ID); err != nil {
		t.Errorf("user id should be a uuid, got %q", user.ID)
	}
	if token == "" {
		t.Error("expected a signed token")
	}
	if user.PasswordHash == "correct horse battery staple" {
		t.Error("password must not be stored in clear")
	}

	// The stored hash must verify against the original password.
	stored := store.users[user.ID]
	match, err := auth.VerifyPassword("correct horse battery staple", stored.PasswordHash)
	if err != nil || !match {
		t.Errorf("stored hash should verify: match=%v err=%v", match, err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc := newAuthService(newFakeStore())

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"no_username", RegisterInput{Email: "a@example.com", Password: "pw"}},
		{"no_email", RegisterInput{Username: "a", Password: "pw"}},
		{"no_password", RegisterInput{Username: "a", Email: "a@example.com"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), test.input)
			if !errors.Is(err, ErrMissingCredentials) {
				t.Fatalf("expected ErrMissingCredentials, got %v", err)
			}
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)

	if _, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "pw-one",
	}); err != nil {
		t.Fatalf("seed register failed: %v", err)
	}

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{
			name:    "duplicate_username",
			input:   RegisterInput{Username: "alice", Email: "other@example.com", Password: "pw"},
			wantErr: ErrUsernameTaken,
		},
		{
			name:    "duplicate_email",
			input:   RegisterInput{Username: "bob", Email: "alice@example.com", Password: "pw"},
			wantErr: ErrEmailTaken,
		},
		{
			// Both collide: username wins because it is checked first.
			name:    "duplicate_both",
			input:   RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw"},
			wantErr: ErrUsernameTaken,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), test.input)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)

	registered, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "pw-secret",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, err := svc.Login(context.Background(), "alice", "pw-secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("expected user %s, got %s", registered.ID, user.ID)
	}
	if token == "" {
		t.Error("expected a signed token")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)

	if _, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "pw-secret",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Unknown username and wrong password must be indistinguishable.
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown_username", "nosuchuser", "pw-secret"},
		{"wrong_password", "alice", "pw-wrong"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), test.username, test.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLoginStoreErrorIsNotInvalidCredentials(t *testing.T) {
	store := newFakeStore()
	store.forcedErr = errors.New("connection refused")
	svc := newAuthService(store)

	_, _, err := svc.Login(context.Background(), "alice", "pw")
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("store failures must not masquerade as bad credentials: %v", err)
	}
}

func TestCurrentUser(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)

	registered, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "pw-secret",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.CurrentUser(context.Background(), registered.ID)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected alice, got %s", user.Username)
	}
	if user.CreatedAt.After(time.Now().UTC()) {
		t.Error("created_at should not be in the future")
	}

	if _, err := svc.CurrentUser(context.Background(), uuid.NewString()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
