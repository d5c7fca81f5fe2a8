// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account. Users are created at registration
// and immutable afterwards; every other entity is owned by exactly one user.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    *string   `json:"first_name,omitempty"`
	LastName     *string   `json:"last_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the resolved authentication context attached to a request
// after the bearer token has been verified.
type Identity struct {
	UserID   string
	Username string
	// TokenID is the jti claim of the presented token, used for revocation.
	TokenID string
}
