package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shreyanshchaubey/ExpenseX/internal/models"
	"github.com/shreyanshchaubey/ExpenseX/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "expensex-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, email, name string) *models.User {
	t.Helper()
	user := models.NewUser(email, name, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID", func(t *testing.T) {
		user := createUser(t, store, "Alice@Example.com ", "Alice")
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("Email not normalized: %q", user.Email)
		}
	})

	t.Run("CreateUser rejects duplicate email", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "hash"))
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("GetUserByEmail is case insensitive", func(t *testing.T) {
		user, err := store.GetUserByEmail(ctx, "ALICE@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if user.DisplayName != "Alice" {
			t.Errorf("DisplayName mismatch: got %s", user.DisplayName)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Email != user.Email {
			t.Errorf("Email mismatch: got %s, want %s", byID.Email, user.Email)
		}
	})

	t.Run("missing user returns ErrNotFound", func(t *testing.T) {
		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUserByEmail: expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetUserByID(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUserByID: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetUsersByEmails skips unknown", func(t *testing.T) {
		createUser(t, store, "bob@example.com", "Bob")
		users, err := store.GetUsersByEmails(ctx, []string{"alice@example.com", "BOB@example.com", "ghost@example.com"})
		if err != nil {
			t.Fatalf("GetUsersByEmails failed: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("Expected 2 users, got %d", len(users))
		}
	})

	t.Run("GetUsersByIDs keys by ID", func(t *testing.T) {
		alice, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		users, err := store.GetUsersByIDs(ctx, []string{alice.ID, "nonexistent-id"})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 1 || users[alice.ID].DisplayName != "Alice" {
			t.Errorf("GetUsersByIDs = %v", users)
		}

		empty, err := store.GetUsersByIDs(ctx, nil)
		if err != nil || len(empty) != 0 {
			t.Errorf("GetUsersByIDs(nil) = %v, %v", empty, err)
		}
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")
	bob := createUser(t, store, "bob@example.com", "Bob")
	carol := createUser(t, store, "carol@example.com", "Carol")

	group := &models.Group{Name: "Roommates", CreatorID: alice.ID, Members: []string{bob.ID}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("CreateGroup adds creator first", func(t *testing.T) {
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Roommates" {
			t.Errorf("Name mismatch: got %s", got.Name)
		}
		if len(got.Members) != 2 || got.Members[0] != alice.ID || got.Members[1] != bob.ID {
			t.Errorf("Members = %v, want [%s %s]", got.Members, alice.ID, bob.ID)
		}
	})

	t.Run("AddGroupMembers ignores existing members", func(t *testing.T) {
		if err := store.AddGroupMembers(ctx, group.ID, []string{bob.ID, carol.ID}); err != nil {
			t.Fatalf("AddGroupMembers failed: %v", err)
		}
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Members) != 3 {
			t.Errorf("Expected 3 members, got %v", got.Members)
		}
	})

	t.Run("AddGroupMembers on missing group", func(t *testing.T) {
		err := store.AddGroupMembers(ctx, "nonexistent-id", []string{bob.ID})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetGroup returns ErrNotFound", func(t *testing.T) {
		if _, err := store.GetGroup(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListGroupsForUser includes totals", func(t *testing.T) {
		expense := &models.Expense{
			GroupID: group.ID,
			PaidBy:  alice.ID,
			Amount:  3000,
			Shares: []models.Share{
				{UserID: alice.ID, Amount: 1000},
				{UserID: bob.ID, Amount: 1000},
				{UserID: carol.ID, Amount: 1000},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		groups, err := store.ListGroupsForUser(ctx, carol.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("Expected 1 group, got %d", len(groups))
		}
		if groups[0].MemberCount != 3 {
			t.Errorf("MemberCount = %d, want 3", groups[0].MemberCount)
		}
		if groups[0].TotalExpenses != 3000 {
			t.Errorf("TotalExpenses = %d, want 3000", groups[0].TotalExpenses)
		}

		other := createUser(t, store, "dave@example.com", "Dave")
		groups, err = store.ListGroupsForUser(ctx, other.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(groups) != 0 {
			t.Errorf("Expected no groups for non-member, got %d", len(groups))
		}
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")
	bob := createUser(t, store, "bob@example.com", "Bob")
	group := &models.Group{Name: "Trip", CreatorID: alice.ID, Members: []string{bob.ID}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	first := &models.Expense{
		GroupID:     group.ID,
		PaidBy:      alice.ID,
		Amount:      1001,
		Description: "Taxi",
		Shares: []models.Share{
			{UserID: bob.ID, Amount: 501},
			{UserID: alice.ID, Amount: 500},
		},
	}
	second := &models.Expense{
		GroupID:     group.ID,
		PaidBy:      bob.ID,
		Amount:      4000,
		Description: "Dinner",
		Shares:      []models.Share{{UserID: alice.ID, Amount: 4000}},
	}
	for _, e := range []*models.Expense{first, second} {
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if e.ID == "" || e.CreatedAt == 0 {
			t.Errorf("Expected ID and CreatedAt to be set: %+v", e)
		}
	}

	expenses, err := store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListExpensesByGroup failed: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("Expected 2 expenses, got %d", len(expenses))
	}
	if expenses[0].ID != second.ID {
		t.Errorf("Expected newest first, got %s", expenses[0].Description)
	}

	taxi := expenses[1]
	if taxi.Amount != 1001 || taxi.Description != "Taxi" {
		t.Errorf("Expense mismatch: %+v", taxi)
	}
	participants := taxi.Participants()
	if len(participants) != 2 || participants[0] != bob.ID || participants[1] != alice.ID {
		t.Errorf("Share order not preserved: %v", participants)
	}

	t.Run("empty group has no expenses", func(t *testing.T) {
		other := &models.Group{Name: "Empty", CreatorID: alice.ID}
		if err := store.CreateGroup(ctx, other); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		got, err := store.ListExpensesByGroup(ctx, other.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected no expenses, got %d", len(got))
		}
	})
}
