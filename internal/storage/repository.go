package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Store over a modernc.org/sqlite database.
type SQLiteRepository struct {
	db *sql.DB
}

var _ Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a user. The caller is responsible for lowercasing the
// email and hashing the password.
func (r *SQLiteRepository) CreateUser(ctx context.Context, name, email, passwordHash string) (core.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)`,
		name, email, passwordHash)
	if isUniqueViolation(err) {
		return core.User{}, ErrDuplicate
	}
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("create user id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", id, "email", email)
	return core.User{ID: id, Name: name, Email: email, PasswordHash: passwordHash}, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash FROM users WHERE email = ?`,
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ListCategories returns the global categories unioned with the user's own.
func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_by FROM categories
		 WHERE created_by IS NULL OR created_by = ?
		 ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		var c core.Category
		var createdBy sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &createdBy); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if createdBy.Valid {
			c.CreatedBy = &createdBy.Int64
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, userID int64, name string) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, created_by) VALUES (?, ?)`,
		name, userID)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("create category id: %w", err)
	}
	return core.Category{ID: id, Name: name, CreatedBy: &userID}, nil
}

const expenseColumns = `e.id, e.title, e.amount_cents, e.category_id, e.created_by, e.date, c.name`

// ListExpenses returns the user's expenses newest first, left-joined with
// their category so uncategorized expenses still appear. A non-nil range
// restricts dates inclusively.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID int64, rng *DateRange) ([]core.Expense, error) {
	query := `SELECT ` + expenseColumns + `
		FROM expenses e
		LEFT JOIN categories c ON e.category_id = c.id
		WHERE e.created_by = ?`
	args := []any{userID}
	if rng != nil {
		query += ` AND e.date BETWEEN ? AND ?`
		args = append(args, rng.Start.String(), rng.End.String())
	}
	query += ` ORDER BY e.date DESC, e.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	var categoryID sql.NullInt64
	if e.CategoryID != nil {
		categoryID = sql.NullInt64{Int64: *e.CategoryID, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (title, amount_cents, category_id, created_by, date)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Title, e.Amount.Cents, categoryID, e.CreatedBy, e.Date.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"expense_id", id,
		"user_id", e.CreatedBy,
		"amount_cents", e.Amount.Cents)

	return r.getExpense(ctx, id, e.CreatedBy)
}

// UpdateExpense applies a partial update scoped to the owning user. The SET
// clause is built only from the fields present, so untouched fields keep
// their values. Zero matched rows mean the expense does not exist or
// belongs to someone else.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, id, userID int64, upd ExpenseUpdate) (core.Expense, error) {
	if upd.Empty() {
		return core.Expense{}, ErrNoFields
	}

	sets := []string{}
	args := []any{}
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Amount != nil {
		sets = append(sets, "amount_cents = ?")
		args = append(args, upd.Amount.Cents)
	}
	if upd.ClearCategory {
		sets = append(sets, "category_id = NULL")
	} else if upd.CategoryID != nil {
		sets = append(sets, "category_id = ?")
		args = append(args, *upd.CategoryID)
	}
	if upd.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, upd.Date.String())
	}
	args = append(args, id, userID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET `+strings.Join(sets, ", ")+` WHERE id = ? AND created_by = ?`,
		args...)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense rows: %w", err)
	}
	if affected == 0 {
		return core.Expense{}, ErrNotFound
	}

	return r.getExpense(ctx, id, userID)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND created_by = ?`,
		id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "expense_id", id, "user_id", userID)
	return nil
}

func (r *SQLiteRepository) getExpense(ctx context.Context, id, userID int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+`
		 FROM expenses e
		 LEFT JOIN categories c ON e.category_id = c.id
		 WHERE e.id = ? AND e.created_by = ?`,
		id, userID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (core.Expense, error) {
	var e core.Expense
	var categoryID sql.NullInt64
	var categoryName sql.NullString
	var date string
	if err := s.Scan(&e.ID, &e.Title, &e.Amount.Cents, &categoryID, &e.CreatedBy, &date, &categoryName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	if categoryID.Valid {
		e.CategoryID = &categoryID.Int64
	}
	if categoryName.Valid {
		e.CategoryName = categoryName.String
	}
	parsed, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	e.Date = parsed
	return e, nil
}
