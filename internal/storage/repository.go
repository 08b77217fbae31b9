// Package storage persists the ledger, goals, notifications and settings in
// SQLite. All reads and writes are scoped to a user id.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/log"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
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

	return &SQLiteRepository{
		db:     db,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction appends a ledger entry and returns it with the assigned
// id. Entries are never updated afterwards.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, type, amount_cents, description, date, currency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, string(tx.Type), tx.Amount.Cents, tx.Description,
		tx.Date.Format(dateLayout), tx.Currency, now.Format(time.RFC3339))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}

	tx.ID = id
	tx.CreatedAt = now
	r.logger.InfoContext(ctx, "transaction saved",
		log.FieldID, id,
		log.FieldTxType, tx.Type,
		log.FieldAmountCents, tx.Amount.Cents,
		log.FieldDescription, tx.Description)
	return tx, nil
}

// ListTransactions returns the full ledger for the user, oldest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, amount_cents, description, date, currency, created_at
		 FROM transactions WHERE user_id = ? ORDER BY date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// GetTransaction loads a single entry regardless of user, used by the export
// worker when resolving change feed messages.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, type, amount_cents, description, date, currency, created_at
		 FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx                 core.Transaction
		typ, date, created string
	)
	if err := row.Scan(&tx.ID, &typ, &tx.Amount.Cents, &tx.Description, &date, &tx.Currency, &created); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.Type = core.TransactionType(typ)
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	tx.Date = core.Date{Time: d}
	if ts, err := time.Parse(time.RFC3339, created); err == nil {
		tx.CreatedAt = ts
	}
	return tx, nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, userID string, g core.SavingsGoal) (core.SavingsGoal, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO savings_goals (user_id, name, target_amount_cents, deadline, currency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, g.Name, g.TargetAmount.Cents, g.Deadline.Format(dateLayout),
		g.Currency, now.Format(time.RFC3339))
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("goal id: %w", err)
	}

	g.ID = id
	g.CreatedAt = now
	r.logger.InfoContext(ctx, "savings goal saved",
		log.FieldID, id, log.FieldGoalName, g.Name, log.FieldAmountCents, g.TargetAmount.Cents)
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_amount_cents, deadline, currency, created_at
		 FROM savings_goals WHERE user_id = ? ORDER BY deadline, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var gs []core.SavingsGoal
	for rows.Next() {
		var (
			g                 core.SavingsGoal
			deadline, created string
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount.Cents, &deadline, &g.Currency, &created); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		d, err := time.Parse(dateLayout, deadline)
		if err != nil {
			return nil, fmt.Errorf("parse goal deadline %q: %w", deadline, err)
		}
		g.Deadline = core.Date{Time: d}
		if ts, err := time.Parse(time.RFC3339, created); err == nil {
			g.CreatedAt = ts
		}
		gs = append(gs, g)
	}
	return gs, rows.Err()
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM savings_goals WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete goal %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (r *SQLiteRepository) CreateNotification(ctx context.Context, userID, title, body string, ts time.Time) (core.NotificationEvent, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, title, body, timestamp) VALUES (?, ?, ?, ?)`,
		userID, title, body, ts.UTC().Format(time.RFC3339))
	if err != nil {
		return core.NotificationEvent{}, fmt.Errorf("insert notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.NotificationEvent{}, fmt.Errorf("notification id: %w", err)
	}
	return core.NotificationEvent{ID: id, Title: title, Body: body, Timestamp: ts}, nil
}

// ListNotifications returns the user's notification history, newest first.
func (r *SQLiteRepository) ListNotifications(ctx context.Context, userID string) ([]core.NotificationEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, body, timestamp
		 FROM notifications WHERE user_id = ? ORDER BY timestamp DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var evs []core.NotificationEvent
	for rows.Next() {
		var (
			ev core.NotificationEvent
			ts string
		)
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Body, &ts); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parse notification timestamp %q: %w", ts, err)
		}
		ev.Timestamp = parsed
		evs = append(evs, ev)
	}
	return evs, rows.Err()
}

func (r *SQLiteRepository) DeleteNotification(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete notification %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

// GetSettings loads the user's settings, falling back to DefaultSettings when
// no row exists yet.
func (r *SQLiteRepository) GetSettings(ctx context.Context, userID string) (core.Settings, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT currency, budget_amount_cents, budget_period_start, budget_period_end,
		        leftover_savings_enabled, leftover_savings_amount_cents, notifications_enabled
		 FROM settings WHERE user_id = ?`, userID)

	var (
		s          core.Settings
		start, end string
	)
	err := row.Scan(&s.Currency, &s.BudgetAmount.Cents, &start, &end,
		&s.LeftoverSavingsEnabled, &s.LeftoverSavingsAmount.Cents, &s.NotificationsEnabled)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultSettings(time.Now()), nil
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	if s.BudgetPeriodStart, err = parseDate(start); err != nil {
		return core.Settings{}, fmt.Errorf("parse period start: %w", err)
	}
	if s.BudgetPeriodEnd, err = parseDate(end); err != nil {
		return core.Settings{}, fmt.Errorf("parse period end: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, userID string, s core.Settings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (user_id, currency, budget_amount_cents, budget_period_start,
		                       budget_period_end, leftover_savings_enabled,
		                       leftover_savings_amount_cents, notifications_enabled)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   currency = excluded.currency,
		   budget_amount_cents = excluded.budget_amount_cents,
		   budget_period_start = excluded.budget_period_start,
		   budget_period_end = excluded.budget_period_end,
		   leftover_savings_enabled = excluded.leftover_savings_enabled,
		   leftover_savings_amount_cents = excluded.leftover_savings_amount_cents,
		   notifications_enabled = excluded.notifications_enabled`,
		userID, s.Currency, s.BudgetAmount.Cents,
		s.BudgetPeriodStart.Format(dateLayout), s.BudgetPeriodEnd.Format(dateLayout),
		s.LeftoverSavingsEnabled, s.LeftoverSavingsAmount.Cents, s.NotificationsEnabled)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	r.logger.InfoContext(ctx, "settings saved", log.FieldUserID, userID)
	return nil
}

// PendingExportTransaction carries the minimum the export queue needs.
type PendingExportTransaction struct {
	ID        int64
	CreatedAt time.Time
}

// ListPendingExportTransactions returns entries not yet exported to the
// external ledger sheet, oldest first.
func (r *SQLiteRepository) ListPendingExportTransactions(ctx context.Context, limit int) ([]PendingExportTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM transactions
		 WHERE export_status = 'pending' ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending export transactions: %w", err)
	}
	defer rows.Close()

	var pending []PendingExportTransaction
	for rows.Next() {
		var (
			p       PendingExportTransaction
			created string
		)
		if err := rows.Scan(&p.ID, &created); err != nil {
			return nil, fmt.Errorf("scan pending export transaction: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, created); err == nil {
			p.CreatedAt = ts
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET export_status = 'exported' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction exported: %w", err)
	}
	r.logger.InfoContext(ctx, "transaction marked exported", log.FieldID, id)
	return nil
}

func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET export_status = 'error' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction export error: %w", err)
	}
	r.logger.WarnContext(ctx, "transaction marked with export error", log.FieldID, id)
	return nil
}

func parseDate(s string) (core.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: t}, nil
}
