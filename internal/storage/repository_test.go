package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreateUser(t *testing.T, repo *SQLiteRepository, email string) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), "Test User", email, "hash")
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

func mustCreateExpense(t *testing.T, repo *SQLiteRepository, userID int64, title string, cents int64, categoryID *int64, date core.Date) core.Expense {
	t.Helper()
	e, err := repo.CreateExpense(context.Background(), core.Expense{
		Title:      title,
		Amount:     core.Money{Cents: cents},
		CategoryID: categoryID,
		CreatedBy:  userID,
		Date:       date,
	})
	if err != nil {
		t.Fatalf("CreateExpense(%s): %v", title, err)
	}
	return e
}

func TestUserRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := mustCreateUser(t, repo, "alice@example.com")
	if created.ID == 0 {
		t.Fatal("expected non-zero user id")
	}

	got, err := repo.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != created.ID || got.Name != "Test User" || got.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := repo.GetUserByEmail(ctx, "missing@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	mustCreateUser(t, repo, "dup@example.com")
	_, err := repo.CreateUser(context.Background(), "Other", "dup@example.com", "hash2")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for duplicate email, got %v", err)
	}
}

func TestListCategoriesScoping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := mustCreateUser(t, repo, "alice@example.com")
	bob := mustCreateUser(t, repo, "bob@example.com")

	global, err := repo.ListCategories(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(global) == 0 {
		t.Fatal("expected seeded global categories")
	}
	for _, c := range global {
		if c.CreatedBy != nil {
			t.Fatalf("seeded category %q should have no owner", c.Name)
		}
	}

	if _, err := repo.CreateCategory(ctx, alice.ID, "Books"); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	aliceCats, err := repo.ListCategories(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListCategories(alice): %v", err)
	}
	if len(aliceCats) != len(global)+1 {
		t.Fatalf("alice should see %d categories, got %d", len(global)+1, len(aliceCats))
	}

	bobCats, err := repo.ListCategories(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListCategories(bob): %v", err)
	}
	if len(bobCats) != len(global) {
		t.Fatalf("bob should not see alice's category, got %d categories", len(bobCats))
	}
}

func TestExpenseOwnershipAndOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := mustCreateUser(t, repo, "alice@example.com")
	bob := mustCreateUser(t, repo, "bob@example.com")

	mustCreateExpense(t, repo, alice.ID, "older", 500, nil, core.NewDate(2026, 1, 10))
	newer := mustCreateExpense(t, repo, alice.ID, "newer", 1000, nil, core.NewDate(2026, 2, 5))
	mustCreateExpense(t, repo, bob.ID, "bobs", 300, nil, core.NewDate(2026, 2, 5))

	got, err := repo.ListExpenses(ctx, alice.ID, nil)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("alice should see 2 expenses, got %d", len(got))
	}
	if got[0].ID != newer.ID {
		t.Fatalf("expected newest expense first, got %q", got[0].Title)
	}
	for _, e := range got {
		if e.CreatedBy != alice.ID {
			t.Fatalf("leaked expense %q owned by %d", e.Title, e.CreatedBy)
		}
	}
}

func TestListExpensesDateRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := mustCreateUser(t, repo, "alice@example.com")

	mustCreateExpense(t, repo, alice.ID, "jan 31", 100, nil, core.NewDate(2026, 1, 31))
	mustCreateExpense(t, repo, alice.ID, "feb 1", 200, nil, core.NewDate(2026, 2, 1))
	mustCreateExpense(t, repo, alice.ID, "feb 28", 300, nil, core.NewDate(2026, 2, 28))
	mustCreateExpense(t, repo, alice.ID, "mar 1", 400, nil, core.NewDate(2026, 3, 1))

	rng := MonthRange(2026, 2)
	got, err := repo.ListExpenses(ctx, alice.ID, &rng)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("february range should match 2 expenses, got %d", len(got))
	}
	for _, e := range got {
		if e.Date.Month() != 2 {
			t.Fatalf("expense %q outside february", e.Title)
		}
	}
}

func TestCreateExpenseJoinsCategoryName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := mustCreateUser(t, repo, "alice@example.com")

	cat, err := repo.CreateCategory(ctx, alice.ID, "Groceries")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	e := mustCreateExpense(t, repo, alice.ID, "market", 1250, &cat.ID, core.NewDate(2026, 8, 15))
	if e.CategoryName != "Groceries" {
		t.Fatalf("expected joined category name, got %q", e.CategoryName)
	}

	plain := mustCreateExpense(t, repo, alice.ID, "cash", 500, nil, core.NewDate(2026, 8, 16))
	if plain.CategoryID != nil || plain.CategoryName != "" {
		t.Fatalf("uncategorized expense should have no category, got %+v", plain)
	}
}

func TestUpdateExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := mustCreateUser(t, repo, "alice@example.com")
	bob := mustCreateUser(t, repo, "bob@example.com")

	cat, err := repo.CreateCategory(ctx, alice.ID, "Travel")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	e := mustCreateExpense(t, repo, alice.ID, "taxi", 900, &cat.ID, core.NewDate(2026, 8, 1))

	newTitle := "train"
	newAmount := core.Money{Cents: 1500}
	updated, err := repo.UpdateExpense(ctx, e.ID, alice.ID, ExpenseUpdate{
		Title:  &newTitle,
		Amount: &newAmount,
	})
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if updated.Title != "train" || updated.Amount.Cents != 1500 {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.CategoryID == nil || *updated.CategoryID != cat.ID {
		t.Fatal("untouched category should be preserved")
	}
	if !updated.Date.Equal(e.Date.Time) {
		t.Fatal("untouched date should be preserved")
	}

	cleared, err := repo.UpdateExpense(ctx, e.ID, alice.ID, ExpenseUpdate{ClearCategory: true})
	if err != nil {
		t.Fatalf("UpdateExpense(clear category): %v", err)
	}
	if cleared.CategoryID != nil || cleared.CategoryName != "" {
		t.Fatalf("category should be cleared, got %+v", cleared)
	}

	if _, err := repo.UpdateExpense(ctx, e.ID, alice.ID, ExpenseUpdate{}); !errors.Is(err, ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}

	if _, err := repo.UpdateExpense(ctx, e.ID, bob.ID, ExpenseUpdate{Title: &newTitle}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user update should return ErrNotFound, got %v", err)
	}
	if _, err := repo.UpdateExpense(ctx, 9999, alice.ID, ExpenseUpdate{Title: &newTitle}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing expense should return ErrNotFound, got %v", err)
	}
}

func TestDeleteExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := mustCreateUser(t, repo, "alice@example.com")
	bob := mustCreateUser(t, repo, "bob@example.com")

	e := mustCreateExpense(t, repo, alice.ID, "lunch", 700, nil, core.NewDate(2026, 8, 20))

	if err := repo.DeleteExpense(ctx, e.ID, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user delete should return ErrNotFound, got %v", err)
	}
	if err := repo.DeleteExpense(ctx, e.ID, alice.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if err := repo.DeleteExpense(ctx, e.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should return ErrNotFound, got %v", err)
	}

	left, err := repo.ListExpenses(ctx, alice.ID, nil)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected no expenses after delete, got %d", len(left))
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		year, month int
		start, end  string
	}{
		{2026, 2, "2026-02-01", "2026-02-28"},
		{2024, 2, "2024-02-01", "2024-02-29"},
		{2026, 12, "2026-12-01", "2026-12-31"},
		{2026, 4, "2026-04-01", "2026-04-30"},
	}
	for _, tt := range tests {
		rng := MonthRange(tt.year, tt.month)
		if rng.Start.String() != tt.start || rng.End.String() != tt.end {
			t.Errorf("MonthRange(%d, %d) = [%s, %s], want [%s, %s]",
				tt.year, tt.month, rng.Start.String(), rng.End.String(), tt.start, tt.end)
		}
	}
}
