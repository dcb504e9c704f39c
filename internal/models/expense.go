package models

import "github.com/shreyanshchaubey/ExpenseX/internal/money"

// Expense is a payment made by one group member on behalf of several.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PaidBy is the user ID of the member who paid.
	PaidBy string

	// Amount is the total paid.
	Amount money.Cents

	// Description is free text (e.g., "Groceries").
	Description string

	// Shares is how the amount is divided, one entry per participant in the
	// order they were given. Shares sum to Amount.
	Shares []Share

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Share is one participant's portion of an expense.
type Share struct {
	UserID string
	Amount money.Cents
}

// Participants returns the user IDs that share the expense, in order.
func (e *Expense) Participants() []string {
	ids := make([]string, len(e.Shares))
	for i, s := range e.Shares {
		ids[i] = s.UserID
	}
	return ids
}
