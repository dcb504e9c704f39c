package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// Fully-qualified service names.
const (
	AuthServiceName       = "expensex.v1.AuthService"
	GroupServiceName      = "expensex.v1.GroupService"
	ExpenseServiceName    = "expensex.v1.ExpenseService"
	SettlementServiceName = "expensex.v1.SettlementService"
)

// Procedure paths, as routed by the HTTP mux.
const (
	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceLogoutProcedure         = "/" + AuthServiceName + "/Logout"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"

	GroupServiceCreateGroupProcedure = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceListGroupsProcedure  = "/" + GroupServiceName + "/ListGroups"
	GroupServiceGetGroupProcedure    = "/" + GroupServiceName + "/GetGroup"
	GroupServiceAddMembersProcedure  = "/" + GroupServiceName + "/AddMembers"

	ExpenseServiceAddExpenseProcedure   = "/" + ExpenseServiceName + "/AddExpense"
	ExpenseServiceListExpensesProcedure = "/" + ExpenseServiceName + "/ListExpenses"

	SettlementServiceGetSettlementsProcedure = "/" + SettlementServiceName + "/GetSettlements"
)

type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	Logout(context.Context, *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
}

type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	AddMembers(context.Context, *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error)
}

type ExpenseServiceHandler interface {
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
}

type SettlementServiceHandler interface {
	GetSettlements(context.Context, *connect.Request[GetSettlementsRequest]) (*connect.Response[GetSettlementsResponse], error)
}

func unary[Req, Res any](
	mux *http.ServeMux,
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{WithJSON()}, opts...)
}

// NewAuthServiceHandler returns the mount path and handler for an AuthService implementation.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	unary(mux, AuthServiceRegisterProcedure, svc.Register, opts)
	unary(mux, AuthServiceLoginProcedure, svc.Login, opts)
	unary(mux, AuthServiceLogoutProcedure, svc.Logout, opts)
	unary(mux, AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts)
	return "/" + AuthServiceName + "/", mux
}

// NewGroupServiceHandler returns the mount path and handler for a GroupService implementation.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	unary(mux, GroupServiceCreateGroupProcedure, svc.CreateGroup, opts)
	unary(mux, GroupServiceListGroupsProcedure, svc.ListGroups, opts)
	unary(mux, GroupServiceGetGroupProcedure, svc.GetGroup, opts)
	unary(mux, GroupServiceAddMembersProcedure, svc.AddMembers, opts)
	return "/" + GroupServiceName + "/", mux
}

// NewExpenseServiceHandler returns the mount path and handler for an ExpenseService implementation.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	unary(mux, ExpenseServiceAddExpenseProcedure, svc.AddExpense, opts)
	unary(mux, ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts)
	return "/" + ExpenseServiceName + "/", mux
}

// NewSettlementServiceHandler returns the mount path and handler for a SettlementService implementation.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	unary(mux, SettlementServiceGetSettlementsProcedure, svc.GetSettlements, opts)
	return "/" + SettlementServiceName + "/", mux
}
