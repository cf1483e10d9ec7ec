package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"expensetracker/internal/core"
)

// PostgresRepository serves the data endpoint from a pgx connection pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresRepository)(nil)

// NewPostgresRepository migrates the schema and opens the pool.
func NewPostgresRepository(ctx context.Context, url string) (*PostgresRepository, error) {
	if err := RunPostgresMigrations(url); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanPgExpense(row pgx.Row) (core.Expense, error) {
	var (
		e       core.Expense
		id      string
		numeric bool
		date    time.Time
		cat     string
	)
	if err := row.Scan(&id, &numeric, &e.Title, &e.Amount.Cents, &cat, &date); err != nil {
		return core.Expense{}, err
	}
	e.ID = scanID(id, numeric)
	e.Category = core.Category(cat)
	e.Date = core.NewDate(date.Year(), int(date.Month()), date.Day())
	return e, nil
}

func (r *PostgresRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		e, err := scanPgExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetExpense(ctx context.Context, id core.ID) (core.Expense, error) {
	e, err := scanPgExpense(r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Expense{}, notFound("get", id)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	return e, nil
}

func (r *PostgresRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return core.Expense{}, fmt.Errorf("begin create expense: %w", err)
	}
	defer tx.Rollback(ctx)

	if e.ID.IsZero() {
		// Serialize id assignment between concurrent creates.
		if _, err := tx.Exec(ctx, `LOCK TABLE expenses IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return core.Expense{}, fmt.Errorf("lock expenses: %w", err)
		}
		var next int64
		if err := tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(id::bigint), 0) + 1 FROM expenses WHERE id_numeric`).Scan(&next); err != nil {
			return core.Expense{}, fmt.Errorf("next expense id: %w", err)
		}
		e.ID = core.NumericID(next)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID.String(), e.ID.IsNumeric(), e.Title, e.Amount.Cents, e.Category.String(), e.Date.Time); err != nil {
		return core.Expense{}, fmt.Errorf("insert expense %s: %w", e.ID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return core.Expense{}, fmt.Errorf("commit create expense: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE expenses SET title = $1, amount_cents = $2, category = $3, date = $4 WHERE id = $5`,
		e.Title, e.Amount.Cents, e.Category.String(), e.Date.Time, e.ID.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense %s: %w", e.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return core.Expense{}, notFound("update", e.ID)
	}
	return r.GetExpense(ctx, e.ID)
}

func (r *PostgresRepository) DeleteExpense(ctx context.Context, id core.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("delete", id)
	}
	return nil
}

func (r *PostgresRepository) GetBudgets(ctx context.Context) (core.Budgets, error) {
	rows, err := r.pool.Query(ctx, `SELECT category, limit_cents FROM budgets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := core.Budgets{}
	for rows.Next() {
		var (
			cat   string
			cents int64
		)
		if err := rows.Scan(&cat, &cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, core.BudgetEntry{Category: core.Category(cat), Limit: core.Money{Cents: cents}})
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ReplaceBudgets(ctx context.Context, b core.Budgets) (core.Budgets, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin replace budgets: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM budgets`); err != nil {
		return nil, fmt.Errorf("clear budgets: %w", err)
	}
	batch := &pgx.Batch{}
	for i, entry := range b {
		batch.Queue(`INSERT INTO budgets (position, category, limit_cents) VALUES ($1, $2, $3)`,
			i, entry.Category.String(), entry.Limit.Cents)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("insert budgets: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit replace budgets: %w", err)
	}
	return r.GetBudgets(ctx)
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, id_numeric, username, password FROM users ORDER BY seq`)
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

func (r *PostgresRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	if u.ID.IsZero() {
		var next int64
		if err := r.pool.QueryRow(ctx,
			`SELECT COALESCE(MAX(id::bigint), 0) + 1 FROM users WHERE id_numeric`).Scan(&next); err != nil {
			return core.User{}, fmt.Errorf("next user id: %w", err)
		}
		u.ID = core.NumericID(next)
	}
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, id_numeric, username, password) VALUES ($1, $2, $3, $4)`,
		u.ID.String(), u.ID.IsNumeric(), u.Username, u.Password); err != nil {
		return core.User{}, fmt.Errorf("insert user %s: %w", u.Username, err)
	}
	return u, nil
}
