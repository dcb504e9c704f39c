package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/shreyanshchaubey/ExpenseX/internal/storage"
	"github.com/shreyanshchaubey/ExpenseX/pkg/api"
)

// SettlementService implements the Connect SettlementService.
type SettlementService struct {
	store   storage.Store
	settler *Settler
}

var _ api.SettlementServiceHandler = (*SettlementService)(nil)

// NewSettlementService creates a new SettlementService.
func NewSettlementService(store storage.Store, settler *Settler) *SettlementService {
	return &SettlementService{store: store, settler: settler}
}

// GetSettlements returns every member's balance and the transfers that
// would settle the group.
func (s *SettlementService) GetSettlements(ctx context.Context, req *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetSettlements request received", "group_id", req.Msg.GroupID)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}

	entry, err := s.settler.Settle(ctx, group)
	if err != nil {
		slog.Error("GetSettlements failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	users, err := loadDirectory(ctx, s.store, group.Members)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("GetSettlements successful", "group_id", group.ID, "transfers", len(entry.Settlements))
	return connect.NewResponse(&api.GetSettlementsResponse{
		Balances:    toAPIBalances(group.Members, entry.Balances, users),
		Settlements: toAPISettlements(entry.Settlements, users),
	}), nil
}
