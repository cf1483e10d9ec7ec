package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expensetracker/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

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

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const expenseColumns = `id, id_numeric, title, amount_cents, category, date`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e       core.Expense
		id      string
		numeric bool
		date    string
	)
	if err := row.Scan(&id, &numeric, &e.Title, &e.Amount.Cents, &e.Category, &date); err != nil {
		return core.Expense{}, err
	}
	d, err := scanDate(date)
	if err != nil {
		return core.Expense{}, err
	}
	e.ID, e.Date = scanID(id, numeric), d
	return e, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id core.ID) (core.Expense, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, notFound("get", id)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	return e, nil
}

// CreateExpense stores e. A zero id is replaced by the next numeric one.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, fmt.Errorf("begin create expense: %w", err)
	}
	defer tx.Rollback()

	if e.ID.IsZero() {
		var next int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(CAST(id AS INTEGER)), 0) + 1 FROM expenses WHERE id_numeric = 1`).Scan(&next); err != nil {
			return core.Expense{}, fmt.Errorf("next expense id: %w", err)
		}
		e.ID = core.NumericID(next)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.ID.IsNumeric(), e.Title, e.Amount.Cents, e.Category.String(), e.Date.String()); err != nil {
		return core.Expense{}, fmt.Errorf("insert expense %s: %w", e.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return core.Expense{}, fmt.Errorf("commit create expense: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		"id", e.ID.String(),
		"title", e.Title,
		"amount_cents", e.Amount.Cents,
		"category", e.Category.String())
	return e, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET title = ?, amount_cents = ?, category = ?, date = ? WHERE id = ?`,
		e.Title, e.Amount.Cents, e.Category.String(), e.Date.String(), e.ID.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense %s: %w", e.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Expense{}, notFound("update", e.ID)
	}
	return r.GetExpense(ctx, e.ID)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("delete", id)
	}
	return nil
}

func (r *SQLiteRepository) GetBudgets(ctx context.Context) (core.Budgets, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, limit_cents FROM budgets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := core.Budgets{}
	for rows.Next() {
		var b core.BudgetEntry
		if err := rows.Scan(&b.Category, &b.Limit.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ReplaceBudgets overwrites every ceiling, keeping the given order.
func (r *SQLiteRepository) ReplaceBudgets(ctx context.Context, b core.Budgets) (core.Budgets, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace budgets: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM budgets`); err != nil {
		return nil, fmt.Errorf("clear budgets: %w", err)
	}
	for i, entry := range b {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO budgets (position, category, limit_cents) VALUES (?, ?, ?)`,
			i, entry.Category.String(), entry.Limit.Cents); err != nil {
			return nil, fmt.Errorf("insert budget %s: %w", entry.Category, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace budgets: %w", err)
	}
	return r.GetBudgets(ctx)
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, id_numeric, username, password FROM users ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []core.User{}
	for rows.Next() {
		var (
			u       core.User
			id      string
			numeric bool
		)
		if err := rows.Scan(&id, &numeric, &u.Username, &u.Password); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.ID = scanID(id, numeric)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	if u.ID.IsZero() {
		var next int64
		if err := r.db.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(CAST(id AS INTEGER)), 0) + 1 FROM users WHERE id_numeric = 1`).Scan(&next); err != nil {
			return core.User{}, fmt.Errorf("next user id: %w", err)
		}
		u.ID = core.NumericID(next)
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, id_numeric, username, password) VALUES (?, ?, ?, ?)`,
		u.ID.String(), u.ID.IsNumeric(), u.Username, u.Password); err != nil {
		return core.User{}, fmt.Errorf("insert user %s: %w", u.Username, err)
	}
	return u, nil
}
