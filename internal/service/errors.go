package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/shreyanshchaubey/ExpenseX/internal/auth"
	"github.com/shreyanshchaubey/ExpenseX/internal/calculator"
	"github.com/shreyanshchaubey/ExpenseX/internal/money"
	"github.com/shreyanshchaubey/ExpenseX/internal/storage"
)

var (
	errNotMember      = errors.New("not a member of this group")
	errMissingGroupID = errors.New("group_id is required")
	errMissingName    = errors.New("group name is required")
	errMissingEmails  = errors.New("at least one member email is required")
)

// connectError maps domain and storage errors to Connect error codes.
func connectError(err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, calculator.ErrInvalidExpense),
		errors.Is(err, calculator.ErrUnknownMember),
		errors.Is(err, calculator.ErrDuplicateMember),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrMissingName):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
