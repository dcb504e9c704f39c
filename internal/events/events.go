// Package events publishes domain events about group activity.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shreyanshchaubey/ExpenseX/internal/models"
)

// TypeExpenseAdded is the event type emitted after an expense is stored.
const TypeExpenseAdded = "expense.added"

// Publisher delivers events to downstream consumers.
type Publisher interface {
	PublishExpenseAdded(ctx context.Context, msg *ExpenseAddedMessage) error
	Close() error
}

// ExpenseAddedMessage announces a new expense. Amounts are decimal strings.
type ExpenseAddedMessage struct {
	Type         string    `json:"type"`
	ExpenseID    string    `json:"expense_id"`
	GroupID      string    `json:"group_id"`
	PaidBy       string    `json:"paid_by"`
	Amount       string    `json:"amount"`
	Description  string    `json:"description"`
	Participants []string  `json:"participants"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewExpenseAddedMessage builds the event for a stored expense.
func NewExpenseAddedMessage(expense *models.Expense) *ExpenseAddedMessage {
	return &ExpenseAddedMessage{
		Type:         TypeExpenseAdded,
		ExpenseID:    expense.ID,
		GroupID:      expense.GroupID,
		PaidBy:       expense.PaidBy,
		Amount:       expense.Amount.String(),
		Description:  expense.Description,
		Participants: expense.Participants(),
		Timestamp:    time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseAddedMessageFromJSON decodes a message produced by ToJSON.
func ExpenseAddedMessageFromJSON(data []byte) (*ExpenseAddedMessage, error) {
	var msg ExpenseAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

func (NopPublisher) PublishExpenseAdded(context.Context, *ExpenseAddedMessage) error { return nil }

func (NopPublisher) Close() error { return nil }
