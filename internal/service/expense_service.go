package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/shreyanshchaubey/ExpenseX/internal/calculator"
	"github.com/shreyanshchaubey/ExpenseX/internal/events"
	"github.com/shreyanshchaubey/ExpenseX/internal/metrics"
	"github.com/shreyanshchaubey/ExpenseX/internal/models"
	"github.com/shreyanshchaubey/ExpenseX/internal/money"
	"github.com/shreyanshchaubey/ExpenseX/internal/storage"
	"github.com/shreyanshchaubey/ExpenseX/pkg/api"
)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store     storage.Store
	settler   *Settler
	publisher events.Publisher
	metrics   *metrics.Metrics
}

var _ api.ExpenseServiceHandler = (*ExpenseService)(nil)

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, settler *Settler, publisher events.Publisher, m *metrics.Metrics) *ExpenseService {
	return &ExpenseService{
		store:     store,
		settler:   settler,
		publisher: publisher,
		metrics:   m,
	}
}

// AddExpense records a payment by the caller, split equally among the
// participants (every member when none are given).
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
		"participants_count", len(req.Msg.ParticipantIDs),
	)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}

	amount, err := money.Parse(req.Msg.Amount)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	participants := uniqueIDs(req.Msg.ParticipantIDs)
	if len(participants) == 0 {
		participants = group.Members
	}

	roster, err := calculator.Roster(group.Members)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	shares, err := calculator.ValidateExpense(calculator.Expense{
		Amount:       amount.Decimal(),
		PaidBy:       userID,
		Participants: participants,
	}, roster)
	if err != nil {
		slog.Warn("AddExpense rejected", "group_id", group.ID, "error", err)
		return nil, connectError(err)
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		PaidBy:      userID,
		Amount:      amount,
		Description: strings.TrimSpace(req.Msg.Description),
		Shares:      make([]models.Share, len(participants)),
	}
	for i, p := range participants {
		expense.Shares[i] = models.Share{UserID: p, Amount: shares[i]}
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.settler.Invalidate(ctx, group.ID)
	s.publish(ctx, expense)

	users, err := loadDirectory(ctx, s.store, group.Members)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Expense added", "expense_id", expense.ID, "group_id", group.ID, "amount", expense.Amount)
	return connect.NewResponse(&api.AddExpenseResponse{
		Expense: toAPIExpense(expense, users),
	}), nil
}

// publish emits the expense.added event. The expense is already stored, so
// a broker failure is logged and counted rather than returned.
func (s *ExpenseService) publish(ctx context.Context, expense *models.Expense) {
	msg := events.NewExpenseAddedMessage(expense)
	if err := s.publisher.PublishExpenseAdded(ctx, msg); err != nil {
		slog.Warn("Failed to publish expense event", "expense_id", expense.ID, "error", err)
		s.metrics.Events.WithLabelValues(msg.Type, "error").Inc()
		return
	}
	s.metrics.Events.WithLabelValues(msg.Type, "ok").Inc()
}

// ListExpenses returns a group's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	users, err := loadDirectory(ctx, s.store, group.Members)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("ListExpenses successful", "group_id", group.ID, "count", len(expenses))
	return connect.NewResponse(&api.ListExpensesResponse{
		Expenses: toAPIExpenses(expenses, users),
	}), nil
}
