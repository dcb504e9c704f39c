package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

func newClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return connect.NewClient[Req, Res](httpClient, strings.TrimRight(baseURL, "/")+procedure, opts...)
}

// AuthServiceClient calls AuthService.
type AuthServiceClient struct {
	register       *connect.Client[RegisterRequest, RegisterResponse]
	login          *connect.Client[LoginRequest, LoginResponse]
	logout         *connect.Client[LogoutRequest, LogoutResponse]
	getCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
}

func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	return &AuthServiceClient{
		register:       newClient[RegisterRequest, RegisterResponse](httpClient, baseURL, AuthServiceRegisterProcedure, opts),
		login:          newClient[LoginRequest, LoginResponse](httpClient, baseURL, AuthServiceLoginProcedure, opts),
		logout:         newClient[LogoutRequest, LogoutResponse](httpClient, baseURL, AuthServiceLogoutProcedure, opts),
		getCurrentUser: newClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL, AuthServiceGetCurrentUserProcedure, opts),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Logout(ctx context.Context, req *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// GroupServiceClient calls GroupService.
type GroupServiceClient struct {
	createGroup *connect.Client[CreateGroupRequest, CreateGroupResponse]
	listGroups  *connect.Client[ListGroupsRequest, ListGroupsResponse]
	getGroup    *connect.Client[GetGroupRequest, GetGroupResponse]
	addMembers  *connect.Client[AddMembersRequest, AddMembersResponse]
}

func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	return &GroupServiceClient{
		createGroup: newClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL, GroupServiceCreateGroupProcedure, opts),
		listGroups:  newClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL, GroupServiceListGroupsProcedure, opts),
		getGroup:    newClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL, GroupServiceGetGroupProcedure, opts),
		addMembers:  newClient[AddMembersRequest, AddMembersResponse](httpClient, baseURL, GroupServiceAddMembersProcedure, opts),
	}
}

func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddMembers(ctx context.Context, req *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error) {
	return c.addMembers.CallUnary(ctx, req)
}

// ExpenseServiceClient calls ExpenseService.
type ExpenseServiceClient struct {
	addExpense   *connect.Client[AddExpenseRequest, AddExpenseResponse]
	listExpenses *connect.Client[ListExpensesRequest, ListExpensesResponse]
}

func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ExpenseServiceClient {
	return &ExpenseServiceClient{
		addExpense:   newClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL, ExpenseServiceAddExpenseProcedure, opts),
		listExpenses: newClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL, ExpenseServiceListExpensesProcedure, opts),
	}
}

func (c *ExpenseServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

// SettlementServiceClient calls SettlementService.
type SettlementServiceClient struct {
	getSettlements *connect.Client[GetSettlementsRequest, GetSettlementsResponse]
}

func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SettlementServiceClient {
	return &SettlementServiceClient{
		getSettlements: newClient[GetSettlementsRequest, GetSettlementsResponse](httpClient, baseURL, SettlementServiceGetSettlementsProcedure, opts),
	}
}

func (c *SettlementServiceClient) GetSettlements(ctx context.Context, req *connect.Request[GetSettlementsRequest]) (*connect.Response[GetSettlementsResponse], error) {
	return c.getSettlements.CallUnary(ctx, req)
}
