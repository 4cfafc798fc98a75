// Package storage persists users, categories and expenses in SQLite behind
// parameterized queries. Every expense query is scoped to its owning user.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/core"
)

var (
	// ErrNotFound is returned when a row does not exist or is not owned by
	// the requesting user; callers map it to 404.
	ErrNotFound = errors.New("record not found")
	// ErrNoFields is returned by UpdateExpense when the update names no
	// updatable fields.
	ErrNoFields = errors.New("no updatable fields")
	// ErrDuplicate is returned when an insert violates a unique constraint,
	// e.g. two signups racing on the same email.
	ErrDuplicate = errors.New("record already exists")
)

// ExpenseUpdate describes a partial expense update. Nil pointers leave the
// field untouched. ClearCategory reflects an explicit null categoryId and
// wins over CategoryID.
type ExpenseUpdate struct {
	Title         *string
	Amount        *core.Money
	CategoryID    *int64
	ClearCategory bool
	Date          *core.Date
}

// Empty reports whether the update would touch nothing.
func (u ExpenseUpdate) Empty() bool {
	return u.Title == nil && u.Amount == nil && u.CategoryID == nil && !u.ClearCategory && u.Date == nil
}

// DateRange is an inclusive [Start, End] filter on expense dates.
type DateRange struct {
	Start core.Date
	End   core.Date
}

// MonthRange returns the inclusive first-to-last-day range of a calendar
// month. Day zero of the following month normalizes to the last day, so
// month lengths and the December rollover come out right.
func MonthRange(year, month int) DateRange {
	start := core.NewDate(year, month, 1)
	end := core.Date{Time: time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)}
	return DateRange{Start: start, End: end}
}

// Store is the persistence boundary used by the HTTP handlers.
type Store interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)

	ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
	CreateCategory(ctx context.Context, userID int64, name string) (core.Category, error)

	ListExpenses(ctx context.Context, userID int64, rng *DateRange) ([]core.Expense, error)
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	UpdateExpense(ctx context.Context, id, userID int64, upd ExpenseUpdate) (core.Expense, error)
	DeleteExpense(ctx context.Context, id, userID int64) error
}
