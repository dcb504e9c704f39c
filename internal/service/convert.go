package service

import (
	"time"

	"github.com/shreyanshchaubey/ExpenseX/internal/calculator"
	"github.com/shreyanshchaubey/ExpenseX/internal/models"
	"github.com/shreyanshchaubey/ExpenseX/pkg/api"
)

// directory resolves user IDs to accounts for display.
type directory map[string]*models.User

// name falls back to the ID for users that could not be loaded.
func (d directory) name(userID string) string {
	if u, ok := d[userID]; ok {
		return u.DisplayName
	}
	return userID
}

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func toAPIUser(user *models.User) *api.User {
	return &api.User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   unixTime(user.CreatedAt),
	}
}

func toAPIGroup(group *models.Group, users directory) *api.Group {
	members := make([]*api.Member, len(group.Members))
	for i, id := range group.Members {
		member := &api.Member{UserID: id, DisplayName: users.name(id)}
		if u, ok := users[id]; ok {
			member.Email = u.Email
		}
		members[i] = member
	}
	return &api.Group{
		ID:        group.ID,
		Name:      group.Name,
		CreatorID: group.CreatorID,
		Members:   members,
		CreatedAt: unixTime(group.CreatedAt),
	}
}

func toAPIGroupSummary(summary *models.GroupSummary) *api.GroupSummary {
	return &api.GroupSummary{
		ID:            summary.ID,
		Name:          summary.Name,
		MemberCount:   summary.MemberCount,
		TotalExpenses: summary.TotalExpenses.Decimal(),
		CreatedAt:     unixTime(summary.CreatedAt),
	}
}

func toAPIExpense(expense *models.Expense, users directory) *api.Expense {
	shares := make([]*api.Share, len(expense.Shares))
	for i, s := range expense.Shares {
		shares[i] = &api.Share{
			UserID:      s.UserID,
			DisplayName: users.name(s.UserID),
			Amount:      s.Amount.Decimal(),
		}
	}
	return &api.Expense{
		ID:          expense.ID,
		GroupID:     expense.GroupID,
		PaidByID:    expense.PaidBy,
		PaidByName:  users.name(expense.PaidBy),
		Amount:      expense.Amount.Decimal(),
		Description: expense.Description,
		Shares:      shares,
		CreatedAt:   unixTime(expense.CreatedAt),
	}
}

func toAPIExpenses(expenses []*models.Expense, users directory) []*api.Expense {
	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e, users)
	}
	return out
}

func toAPISettlements(settlements []calculator.Settlement, users directory) []*api.Settlement {
	out := make([]*api.Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = &api.Settlement{
			FromID:   s.From,
			FromName: users.name(s.From),
			ToID:     s.To,
			ToName:   users.name(s.To),
			Amount:   s.Amount.Decimal(),
		}
	}
	return out
}

// toAPIBalances lists balances in roster order.
func toAPIBalances(members []string, balances calculator.Balances, users directory) []*api.Balance {
	out := make([]*api.Balance, len(members))
	for i, id := range members {
		out[i] = &api.Balance{
			UserID:      id,
			DisplayName: users.name(id),
			Amount:      balances[id].Decimal(),
		}
	}
	return out
}

// calculatorExpenses converts stored expenses into calculator input.
// Participants come from the stored shares, in their original order.
func calculatorExpenses(expenses []*models.Expense) []calculator.Expense {
	out := make([]calculator.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = calculator.Expense{
			Amount:       e.Amount.Decimal(),
			PaidBy:       e.PaidBy,
			Participants: e.Participants(),
		}
	}
	return out
}
