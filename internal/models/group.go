package models

import "github.com/shreyanshchaubey/ExpenseX/internal/money"

// Group is a set of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Trip").
	Name string

	// CreatorID is the user who created the group. Always a member.
	CreatorID string

	// Members holds the user IDs of everyone in the group.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// GroupSummary is a group as listed on a user's dashboard.
type GroupSummary struct {
	Group

	// MemberCount is the number of members.
	MemberCount int

	// TotalExpenses is the sum of every expense recorded in the group.
	TotalExpenses money.Cents
}
