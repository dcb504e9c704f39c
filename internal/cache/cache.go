// Package cache stores computed group settlements between expense writes.
package cache

import (
	"context"

	"github.com/shreyanshchaubey/ExpenseX/internal/calculator"
)

// Entry is the cached outcome of settling one group.
type Entry struct {
	Balances    calculator.Balances     `json:"balances"`
	Settlements []calculator.Settlement `json:"settlements"`
}

// Cache is implemented by every settlement cache backend.
// A miss is reported as (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, groupID string) (*Entry, bool, error)
	Set(ctx context.Context, groupID string, entry *Entry) error
	Invalidate(ctx context.Context, groupID string) error
	Close() error
}
