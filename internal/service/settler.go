package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/shreyanshchaubey/ExpenseX/internal/cache"
	"github.com/shreyanshchaubey/ExpenseX/internal/calculator"
	"github.com/shreyanshchaubey/ExpenseX/internal/metrics"
	"github.com/shreyanshchaubey/ExpenseX/internal/models"
	"github.com/shreyanshchaubey/ExpenseX/internal/storage"
)

// Settler computes group settlements through the cache.
// Concurrent computations for the same group share one result.
//
// Each group has a generation that Invalidate bumps. A computation that
// started under an older generation never leaves its result in the cache,
// so a write followed by Invalidate is always visible to the next Settle.
type Settler struct {
	store   storage.Store
	cache   cache.Cache
	metrics *metrics.Metrics
	flight  singleflight.Group

	mu          sync.Mutex
	generations map[string]uint64
}

// NewSettler creates a Settler.
func NewSettler(store storage.Store, c cache.Cache, m *metrics.Metrics) *Settler {
	return &Settler{
		store:       store,
		cache:       c,
		metrics:     m,
		generations: make(map[string]uint64),
	}
}

// Settle returns the balances and suggested transfers for a group.
// Returned entries are shared and must not be modified.
func (s *Settler) Settle(ctx context.Context, group *models.Group) (*cache.Entry, error) {
	if entry, ok := s.lookup(ctx, group.ID); ok {
		return entry, nil
	}

	gen := s.generation(group.ID)
	key := fmt.Sprintf("%s#%d", group.ID, gen)
	v, err, shared := s.flight.Do(key, func() (any, error) {
		// Callers sharing this computation must not be failed by the
		// first caller going away.
		return s.compute(context.WithoutCancel(ctx), group, gen)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("Settlement computation shared", "group_id", group.ID)
	}
	return v.(*cache.Entry), nil
}

func (s *Settler) generation(groupID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[groupID]
}

func (s *Settler) lookup(ctx context.Context, groupID string) (*cache.Entry, bool) {
	entry, ok, err := s.cache.Get(ctx, groupID)
	switch {
	case err != nil:
		slog.Warn("Settlement cache lookup failed", "group_id", groupID, "error", err)
		s.metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, false
	case ok:
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return entry, true
	default:
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
}

func (s *Settler) compute(ctx context.Context, group *models.Group, gen uint64) (*cache.Entry, error) {
	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	balances, err := calculator.CalculateBalances(calculatorExpenses(expenses), group.Members)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate balances for group %s: %w", group.ID, err)
	}
	settlements := calculator.Solve(balances)
	s.metrics.Settlements.Observe(float64(len(settlements)))

	entry := &cache.Entry{Balances: balances, Settlements: settlements}
	s.cacheEntry(ctx, group.ID, gen, entry)

	slog.Debug("Settlements computed",
		"group_id", group.ID,
		"expenses", len(expenses),
		"transfers", len(settlements),
	)
	return entry, nil
}

// cacheEntry writes entry unless the group was invalidated after gen was
// read. The generation is checked again after the write: if Invalidate ran
// in between, its delete may have landed before our Set, so the entry is
// removed here instead.
func (s *Settler) cacheEntry(ctx context.Context, groupID string, gen uint64, entry *cache.Entry) {
	if s.generation(groupID) != gen {
		slog.Debug("Skipping stale settlement cache write", "group_id", groupID)
		return
	}
	if err := s.cache.Set(ctx, groupID, entry); err != nil {
		slog.Warn("Settlement cache write failed", "group_id", groupID, "error", err)
		return
	}
	if s.generation(groupID) != gen {
		if err := s.cache.Invalidate(ctx, groupID); err != nil {
			slog.Warn("Settlement cache invalidation failed", "group_id", groupID, "error", err)
		}
	}
}

// Invalidate drops any cached result for the group and fences off
// computations that are still reading the old state.
func (s *Settler) Invalidate(ctx context.Context, groupID string) {
	s.mu.Lock()
	s.generations[groupID]++
	s.mu.Unlock()

	if err := s.cache.Invalidate(ctx, groupID); err != nil {
		slog.Warn("Settlement cache invalidation failed", "group_id", groupID, "error", err)
	}
}
