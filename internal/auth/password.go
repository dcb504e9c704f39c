package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/shreyanshchaubey/ExpenseX/internal/models"
	"github.com/shreyanshchaubey/ExpenseX/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrMissingName        = errors.New("display name required")
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage storage.UserStore
	cost    int
}

var _ Authenticator = (*PasswordAuthenticator)(nil)

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(users storage.UserStore) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: users,
		cost:    bcrypt.DefaultCost,
	}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (a *PasswordAuthenticator) WithCost(cost int) *PasswordAuthenticator {
	a.cost = cost
	return a
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new user account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, displayName, credential string) (*models.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, ErrMissingName
	}
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, displayName, string(hashedPassword))

	// The unique index on email is the real guard against races.
	if err := a.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
