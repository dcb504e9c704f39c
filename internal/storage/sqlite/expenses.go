package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shreyanshchaubey/ExpenseX/internal/models"
)

// CreateExpense persists an expense and its shares.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, paid_by, amount_cents, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PaidBy, expense.Amount, expense.Description, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, share := range expense.Shares {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, position, user_id, amount_cents) VALUES (?, ?, ?, ?)",
			expense.ID, i, share.UserID, share.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListExpensesByGroup retrieves all expenses for a group, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, paid_by, amount_cents, description, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at DESC, rowid DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.PaidBy,
			&expense.Amount, &expense.Description, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	if len(expenses) == 0 {
		return expenses, nil
	}

	// Load every share in the group at once rather than one query per expense.
	shareRows, err := s.db.QueryContext(ctx,
		`SELECT es.expense_id, es.user_id, es.amount_cents
		 FROM expense_shares es
		 JOIN expenses e ON e.id = es.expense_id
		 WHERE e.group_id = ?
		 ORDER BY es.expense_id, es.position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var expenseID string
		var share models.Share
		if err := shareRows.Scan(&expenseID, &share.UserID, &share.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}
		if expense, ok := byID[expenseID]; ok {
			expense.Shares = append(expense.Shares, share)
		}
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense shares: %w", err)
	}

	return expenses, nil
}
