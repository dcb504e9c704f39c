package models

import (
	"strings"
	"time"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique, stored lower-case).
	// Used for login and for adding the user to groups.
	Email string

	// DisplayName is shown to other group members.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// NewUser builds a user with timestamps set. The ID is assigned by the store.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Email:        NormalizeEmail(email),
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
