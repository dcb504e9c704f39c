package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shreyanshchaubey/ExpenseX/internal/cache"
	"github.com/shreyanshchaubey/ExpenseX/internal/config"
	"github.com/shreyanshchaubey/ExpenseX/internal/events"
)

func TestRunReturnsStartupError(t *testing.T) {
	// A regular file where the database directory should be.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg := &config.Config{
		DBPath:          filepath.Join(blocker, "expensex.db"),
		JWTSecret:       "test-secret",
		TokenDuration:   time.Hour,
		ShutdownTimeout: time.Second,
	}
	if err := run(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatal("expected run to fail when storage cannot be opened")
	}
}

func TestNewCacheDefaultsToMemory(t *testing.T) {
	c, err := newCache(context.Background(), &config.Config{CacheTTL: time.Minute})
	if err != nil {
		t.Fatalf("newCache failed: %v", err)
	}
	defer c.Close()
	if _, ok := c.(*cache.MemoryCache); !ok {
		t.Errorf("newCache = %T, want *cache.MemoryCache", c)
	}
}

func TestNewPublisherWithoutBroker(t *testing.T) {
	p, err := newPublisher(&config.Config{})
	if err != nil {
		t.Fatalf("newPublisher failed: %v", err)
	}
	if _, ok := p.(events.NopPublisher); !ok {
		t.Errorf("newPublisher = %T, want events.NopPublisher", p)
	}
}
