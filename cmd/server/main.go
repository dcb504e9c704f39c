package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/shreyanshchaubey/ExpenseX/internal/auth"
	"github.com/shreyanshchaubey/ExpenseX/internal/cache"
	"github.com/shreyanshchaubey/ExpenseX/internal/config"
	"github.com/shreyanshchaubey/ExpenseX/internal/events"
	"github.com/shreyanshchaubey/ExpenseX/internal/metrics"
	"github.com/shreyanshchaubey/ExpenseX/internal/service"
	"github.com/shreyanshchaubey/ExpenseX/internal/storage/sqlite"
	"github.com/shreyanshchaubey/ExpenseX/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet.
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

// run starts the server and blocks until it is interrupted or fails.
// Everything it opens is closed before it returns.
func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	settlementCache, err := newCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer settlementCache.Close()

	publisher, err := newPublisher(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	defer publisher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	settler := service.NewSettler(store, settlementCache, m)
	services := &service.Services{
		Auth:        service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger),
		Groups:      service.NewGroupService(store, settler),
		Expenses:    service.NewExpenseService(store, settler, publisher, m),
		Settlements: service.NewSettlementService(store, settler),
	}

	mux := http.NewServeMux()
	services.Mount(mux, jwtManager, m, logger)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			slog.Warn("Health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
	}).Handler(mux)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	slog.Info("Shutting down", "timeout", cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newCache uses redis when configured and process memory otherwise.
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if cfg.RedisAddr == "" {
		slog.Info("Using in-memory settlement cache", "ttl", cfg.CacheTTL)
		return cache.NewMemoryCache(cfg.CacheTTL), nil
	}
	c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Using redis settlement cache", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	return c, nil
}

// newPublisher uses AMQP when configured and drops events otherwise.
func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		slog.Info("No AMQP_URL set, expense events are not published")
		return events.NopPublisher{}, nil
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, err
	}
	slog.Info("Publishing expense events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return p, nil
}
