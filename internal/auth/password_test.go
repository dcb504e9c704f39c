package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/shreyanshchaubey/ExpenseX/internal/models"
	"github.com/shreyanshchaubey/ExpenseX/internal/storage"
)

// memoryUsers is a minimal storage.UserStore for tests.
type memoryUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: make(map[string]*models.User)}
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[user.Email]; ok {
		return storage.ErrConflict
	}
	user.ID = "id-" + user.Email
	m.byEmail[user.Email] = user
	return nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

func (m *memoryUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memoryUsers) GetUsersByEmails(ctx context.Context, emails []string) ([]*models.User, error) {
	var users []*models.User
	for _, e := range emails {
		if u, err := m.GetUserByEmail(ctx, e); err == nil {
			users = append(users, u)
		}
	}
	return users, nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemoryUsers()).WithCost(bcrypt.MinCost)

	user, err := a.Register(ctx, "Alice@Example.com", "Alice", "correct horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.PasswordHash == "correct horse" {
		t.Error("password stored in plain text")
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "alice@example.com", "correct horse", nil},
		{"email case ignored", "ALICE@example.com", "correct horse", nil},
		{"wrong password", "alice@example.com", "wrong horse", ErrInvalidCredentials},
		{"unknown email", "bob@example.com", "correct horse", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Authenticate(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Authenticate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.ID != user.ID {
				t.Errorf("Authenticate() user = %s, want %s", got.ID, user.ID)
			}
		})
	}
}

func TestPasswordAuthenticatorRegisterErrors(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemoryUsers()).WithCost(bcrypt.MinCost)
	if _, err := a.Register(ctx, "alice@example.com", "Alice", "password1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		display  string
		password string
		wantErr  error
	}{
		{"weak password", "bob@example.com", "Bob", "short", ErrWeakPassword},
		{"duplicate email", "alice@example.com", "Alice 2", "password1", ErrEmailExists},
		{"bad email", "not-an-email", "Bob", "password1", ErrInvalidEmail},
		{"missing name", "bob@example.com", "  ", "password1", ErrMissingName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, tt.email, tt.display, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
