// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shreyanshchaubey/ExpenseX/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint would be violated.
var ErrConflict = errors.New("already exists")

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser persists a new user. The user.ID field is populated by the store.
	// Returns ErrConflict if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no account uses the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByEmails returns the users matching any of the emails.
	// Unknown emails are simply absent from the result.
	GetUsersByEmails(ctx context.Context, emails []string) ([]*models.User, error)
}

// Store defines the interface for all storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	UserStore

	// GetUsersByIDs returns the users with the given IDs, keyed by ID.
	// Unknown IDs are simply absent from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateGroup persists a new group together with its members.
	// The group.ID and group.CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group and its member IDs in joining order.
	// Returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns every group the user belongs to with member
	// count and total spend, newest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.GroupSummary, error)

	// AddGroupMembers adds users to a group. Existing members are ignored.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// CreateExpense persists an expense and its shares.
	// The expense.ID and expense.CreatedAt fields are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpensesByGroup returns a group's expenses, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// Close releases any resources held by the store.
	Close() error
}
