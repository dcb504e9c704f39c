package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shreyanshchaubey/ExpenseX/internal/models"
	"github.com/shreyanshchaubey/ExpenseX/internal/storage"
)

// CreateGroup persists a new group and its members in one transaction.
// The creator is added as the first member if not already listed.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if group.CreatorID != "" && !group.HasMember(group.CreatorID) {
		group.Members = append([]string{group.CreatorID}, group.Members...)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, creator_id, created_at) VALUES (?, ?, ?, ?)",
		group.ID, group.Name, group.CreatorID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := insertMembers(ctx, tx, group.ID, group.Members, group.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertMembers(ctx context.Context, tx *sql.Tx, groupID string, userIDs []string, joinedAt int64) error {
	for _, userID := range userIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
			groupID, userID, joinedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}
	return nil
}

// GetGroup retrieves a group by ID, including its member IDs.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, creator_id, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatorID, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY joined_at, rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		group.Members = append(group.Members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return group, nil
}

// ListGroupsForUser returns the user's groups with member counts and total spend.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.GroupSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.creator_id, g.created_at,
			(SELECT COUNT(*) FROM group_members WHERE group_id = g.id) AS member_count,
			(SELECT COALESCE(SUM(amount_cents), 0) FROM expenses WHERE group_id = g.id) AS total_expenses
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = ?
		ORDER BY g.created_at DESC, g.rowid DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.GroupSummary
	for rows.Next() {
		summary := &models.GroupSummary{}
		if err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.CreatorID,
			&summary.CreatedAt,
			&summary.MemberCount,
			&summary.TotalExpenses,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// AddGroupMembers adds users to an existing group.
func (s *SQLiteStore) AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertMembers(ctx, tx, groupID, userIDs, time.Now().Unix()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
