package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the public view of an account.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// Member is a user as seen from inside a group.
type Member struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Group is the full view of a group.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatorID string    `json:"creator_id"`
	Members   []*Member `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupSummary is a dashboard row.
type GroupSummary struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	MemberCount   int             `json:"member_count"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CreateGroupRequest struct {
	Name         string   `json:"name"`
	MemberEmails []string `json:"member_emails"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
	// UnknownEmails lists requested members with no account; they were skipped.
	UnknownEmails []string `json:"unknown_emails,omitempty"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*GroupSummary `json:"groups"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group       *Group        `json:"group"`
	Expenses    []*Expense    `json:"expenses"`
	Settlements []*Settlement `json:"settlements"`
}

type AddMembersRequest struct {
	GroupID      string   `json:"group_id"`
	MemberEmails []string `json:"member_emails"`
}

type AddMembersResponse struct {
	Group         *Group   `json:"group"`
	UnknownEmails []string `json:"unknown_emails,omitempty"`
}

// Share is one participant's portion of an expense.
type Share struct {
	UserID      string          `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Amount      decimal.Decimal `json:"amount"`
}

type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	PaidByID    string          `json:"paid_by_id"`
	PaidByName  string          `json:"paid_by_name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Shares      []*Share        `json:"shares"`
	CreatedAt   time.Time       `json:"created_at"`
}

type AddExpenseRequest struct {
	GroupID string `json:"group_id"`
	// Amount is a decimal string; "12.34" and "12,34" are both accepted.
	Amount      string `json:"amount"`
	Description string `json:"description"`
	// ParticipantIDs defaults to every group member when empty.
	ParticipantIDs []string `json:"participant_ids"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// Balance is a member's net position: positive is owed, negative owes.
type Balance struct {
	UserID      string          `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// Settlement is a suggested payment from one member to another.
type Settlement struct {
	FromID   string          `json:"from_id"`
	FromName string          `json:"from_name"`
	ToID     string          `json:"to_id"`
	ToName   string          `json:"to_name"`
	Amount   decimal.Decimal `json:"amount"`
}

type GetSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type GetSettlementsResponse struct {
	Balances    []*Balance    `json:"balances"`
	Settlements []*Settlement `json:"settlements"`
}
