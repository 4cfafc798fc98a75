package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// User is an account identity. The password hash never leaves the server.
	User struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		Email        string `json:"email"`
		PasswordHash string `json:"-"`
	}

	// Category groups expenses. A nil CreatedBy marks a global category
	// visible to every user; otherwise it is private to its creator.
	Category struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		CreatedBy *int64 `json:"created_by"`
	}

	// Expense is a single spending record owned by exactly one user.
	// CategoryName is populated by list queries that join categories;
	// it is empty for uncategorized expenses.
	Expense struct {
		ID           int64  `json:"id"`
		Title        string `json:"title"`
		Amount       Money  `json:"amount"`
		CategoryID   *int64 `json:"category_id"`
		CreatedBy    int64  `json:"created_by"`
		Date         Date   `json:"date"`
		CategoryName string `json:"category_name,omitempty"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyTitle    = errors.New("empty title")
	ErrInvalidDate   = errors.New("invalid date")
)

// Date is a calendar day without a time component, serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return ErrInvalidDate
	}
	// Accept full timestamps too; only the day part is kept.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate checks the fields the client must fill before submission.
// The API itself inserts what it is given; this is the client-side guard.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
