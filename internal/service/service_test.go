package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/shreyanshchaubey/ExpenseX/internal/auth"
	"github.com/shreyanshchaubey/ExpenseX/internal/cache"
	"github.com/shreyanshchaubey/ExpenseX/internal/events"
	"github.com/shreyanshchaubey/ExpenseX/internal/metrics"
	"github.com/shreyanshchaubey/ExpenseX/internal/storage/sqlite"
	"github.com/shreyanshchaubey/ExpenseX/pkg/api"
)

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu       sync.Mutex
	messages []*events.ExpenseAddedMessage
	err      error
}

func (p *recordingPublisher) PublishExpenseAdded(_ context.Context, msg *events.ExpenseAddedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []*events.ExpenseAddedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*events.ExpenseAddedMessage(nil), p.messages...)
}

type testEnv struct {
	auth        *api.AuthServiceClient
	groups      *api.GroupServiceClient
	expenses    *api.ExpenseServiceClient
	settlements *api.SettlementServiceClient

	publisher *recordingPublisher
	metrics   *metrics.Metrics
}

type testUser struct {
	ID    string
	Email string
	Token string
}

// setupTestServer serves every service over httptest backed by a temp SQLite file.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "expensex-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := metrics.New(prometheus.NewRegistry())
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	publisher := &recordingPublisher{}
	settler := NewSettler(store, cache.NewMemoryCache(time.Minute), m)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	services := &Services{
		Auth:        NewAuthService(auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost), jwtManager, store, logger),
		Groups:      NewGroupService(store, settler),
		Expenses:    NewExpenseService(store, settler, publisher, m),
		Settlements: NewSettlementService(store, settler),
	}

	mux := http.NewServeMux()
	services.Mount(mux, jwtManager, m, logger)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		auth:        api.NewAuthServiceClient(server.Client(), server.URL),
		groups:      api.NewGroupServiceClient(server.Client(), server.URL),
		expenses:    api.NewExpenseServiceClient(server.Client(), server.URL),
		settlements: api.NewSettlementServiceClient(server.Client(), server.URL),
		publisher:   publisher,
		metrics:     m,
	}
}

// authed wraps msg in a request carrying the bearer token.
func authed[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func (e *testEnv) register(t *testing.T, email, name string) testUser {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return testUser{ID: resp.Msg.User.ID, Email: resp.Msg.User.Email, Token: resp.Msg.Token}
}

func (e *testEnv) createGroup(t *testing.T, owner testUser, name string, members ...testUser) *api.Group {
	t.Helper()
	emails := make([]string, len(members))
	for i, m := range members {
		emails[i] = m.Email
	}
	resp, err := e.groups.CreateGroup(context.Background(), authed(&api.CreateGroupRequest{
		Name:         name,
		MemberEmails: emails,
	}, owner.Token))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func (e *testEnv) addExpense(t *testing.T, payer testUser, groupID, amount string, participants ...testUser) *api.Expense {
	t.Helper()
	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	resp, err := e.expenses.AddExpense(context.Background(), authed(&api.AddExpenseRequest{
		GroupID:        groupID,
		Amount:         amount,
		Description:    "test expense",
		ParticipantIDs: ids,
	}, payer.Token))
	if err != nil {
		t.Fatalf("AddExpense(%s) failed: %v", amount, err)
	}
	return resp.Msg.Expense
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil error", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T", err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected %v, got %v (%v)", want, connectErr.Code(), connectErr.Message())
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
