package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shreyanshchaubey/ExpenseX/internal/models"
	"github.com/shreyanshchaubey/ExpenseX/internal/storage"
)

const userColumns = "id, email, display_name, password_hash, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = models.NormalizeEmail(user.Email)

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: email %s", storage.ErrConflict, user.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?",
		models.NormalizeEmail(email),
	)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", storage.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?",
		id,
	)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetUsersByEmails retrieves every user whose email is in emails.
func (s *SQLiteStore) GetUsersByEmails(ctx context.Context, emails []string) ([]*models.User, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	normalized := make([]string, len(emails))
	for i, e := range emails {
		normalized[i] = models.NormalizeEmail(e)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email IN ("+placeholders(len(normalized))+")",
		toArgs(normalized)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by email: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// GetUsersByIDs retrieves the users with the given IDs, keyed by ID.
func (s *SQLiteStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id IN ("+placeholders(len(ids))+")",
		toArgs(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by id: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
