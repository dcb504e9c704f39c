package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/shreyanshchaubey/ExpenseX/internal/models"
	"github.com/shreyanshchaubey/ExpenseX/internal/storage"
	"github.com/shreyanshchaubey/ExpenseX/pkg/api"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	store   storage.Store
	settler *Settler
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, settler *Settler) *GroupService {
	return &GroupService{store: store, settler: settler}
}

// CreateGroup creates a group owned by the caller. Member emails without an
// account are skipped and reported back.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberEmails),
		"user_id", userID,
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingName)
	}

	memberIDs, unknown, err := resolveEmails(ctx, s.store, req.Msg.MemberEmails)
	if err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	group := &models.Group{
		Name:      name,
		CreatorID: userID,
		Members:   memberIDs,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	users, err := loadDirectory(ctx, s.store, group.Members)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Group created", "group_id", group.ID, "members", len(group.Members), "unknown_emails", len(unknown))
	return connect.NewResponse(&api.CreateGroupResponse{
		Group:         toAPIGroup(group, users),
		UnknownEmails: unknown,
	}), nil
}

// ListGroups returns the caller's groups, newest first.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	summaries, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	groups := make([]*api.GroupSummary, len(summaries))
	for i, summary := range summaries {
		groups[i] = toAPIGroupSummary(summary)
	}

	slog.Info("ListGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: groups}), nil
}

// GetGroup returns a group with its expenses and current settlements.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	entry, err := s.settler.Settle(ctx, group)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	users, err := loadDirectory(ctx, s.store, group.Members)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)
	return connect.NewResponse(&api.GetGroupResponse{
		Group:       toAPIGroup(group, users),
		Expenses:    toAPIExpenses(expenses, users),
		Settlements: toAPISettlements(entry.Settlements, users),
	}), nil
}

// AddMembers adds registered users to a group the caller belongs to.
func (s *GroupService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddMembers request received",
		"group_id", req.Msg.GroupID,
		"members_count", len(req.Msg.MemberEmails),
	)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if len(req.Msg.MemberEmails) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingEmails)
	}

	memberIDs, unknown, err := resolveEmails(ctx, s.store, req.Msg.MemberEmails)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	if len(memberIDs) > 0 {
		if err := s.store.AddGroupMembers(ctx, group.ID, memberIDs); err != nil {
			slog.Error("AddMembers failed", "group_id", group.ID, "error", err)
			return nil, connectError(err)
		}
		// New members start at zero but must appear in the balances.
		s.settler.Invalidate(ctx, group.ID)

		if group, err = s.store.GetGroup(ctx, group.ID); err != nil {
			return nil, connectError(err)
		}
	}

	users, err := loadDirectory(ctx, s.store, group.Members)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Members added", "group_id", group.ID, "members", len(group.Members), "unknown_emails", len(unknown))
	return connect.NewResponse(&api.AddMembersResponse{
		Group:         toAPIGroup(group, users),
		UnknownEmails: unknown,
	}), nil
}
