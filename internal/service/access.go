package service

import (
	"context"
	"fmt"
	"strings"

	"connectrpc.com/connect"

	"github.com/shreyanshchaubey/ExpenseX/internal/auth"
	"github.com/shreyanshchaubey/ExpenseX/internal/middleware"
	"github.com/shreyanshchaubey/ExpenseX/internal/models"
	"github.com/shreyanshchaubey/ExpenseX/internal/storage"
)

// callerID returns the authenticated user, or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// memberGroup loads a group the caller belongs to.
func memberGroup(ctx context.Context, store storage.Store, groupID, userID string) (*models.Group, error) {
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingGroupID)
	}
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, connectError(err)
	}
	if !group.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return group, nil
}

// resolveEmails maps emails to user IDs in request order. Emails with no
// account are returned separately; duplicates and blanks are dropped.
func resolveEmails(ctx context.Context, store storage.Store, emails []string) ([]string, []string, error) {
	var wanted []string
	seen := make(map[string]bool)
	for _, e := range emails {
		e = models.NormalizeEmail(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		wanted = append(wanted, e)
	}
	if len(wanted) == 0 {
		return nil, nil, nil
	}

	users, err := store.GetUsersByEmails(ctx, wanted)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve member emails: %w", err)
	}
	byEmail := make(map[string]string, len(users))
	for _, u := range users {
		byEmail[u.Email] = u.ID
	}

	var ids, unknown []string
	for _, e := range wanted {
		if id, ok := byEmail[e]; ok {
			ids = append(ids, id)
		} else {
			unknown = append(unknown, e)
		}
	}
	return ids, unknown, nil
}

// loadDirectory fetches the accounts of every listed user.
func loadDirectory(ctx context.Context, store storage.Store, userIDs []string) (directory, error) {
	users, err := store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	return directory(users), nil
}

// uniqueIDs drops blanks and repeats, keeping first occurrences in order.
func uniqueIDs(ids []string) []string {
	var out []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
