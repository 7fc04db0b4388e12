package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"outlay/internal/core"
	"outlay/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists store snapshots to a SQLite database. Each
// Save replaces the expense rows, vocabulary rows and settings row in a
// single transaction, so a snapshot is always durable in full or not at
// all.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath
// and applies pending migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
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

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load rehydrates the snapshot, expenses in their original append order.
func (r *SQLiteRepository) Load(ctx context.Context) (store.Snapshot, error) {
	var snap store.Snapshot

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount_cents, category, spent_at FROM expenses ORDER BY position`)
	if err != nil {
		return snap, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e       core.Expense
			spentAt string
		)
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount.Cents, &e.Category, &spentAt); err != nil {
			return snap, fmt.Errorf("scan expense: %w", err)
		}
		e.Date, err = time.Parse(time.RFC3339Nano, spentAt)
		if err != nil {
			return snap, fmt.Errorf("parse expense date %q: %w", spentAt, err)
		}
		snap.Expenses = append(snap.Expenses, e)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("iterate expenses: %w", err)
	}

	catRows, err := r.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY position`)
	if err != nil {
		return snap, fmt.Errorf("query categories: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var name string
		if err := catRows.Scan(&name); err != nil {
			return snap, fmt.Errorf("scan category: %w", err)
		}
		snap.Categories = append(snap.Categories, name)
	}
	if err := catRows.Err(); err != nil {
		return snap, fmt.Errorf("iterate categories: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `SELECT limit_cents FROM settings WHERE id = 1`).
		Scan(&snap.LimitCents)
	if err != nil && err != sql.ErrNoRows {
		return snap, fmt.Errorf("query settings: %w", err)
	}

	return snap, nil
}

// Save writes the snapshot transactionally, replacing all previous rows.
func (r *SQLiteRepository) Save(ctx context.Context, snap store.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	for _, e := range snap.Expenses {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (id, description, amount_cents, category, spent_at) VALUES (?, ?, ?, ?, ?)`,
			e.ID, e.Description, e.Amount.Cents, e.Category, e.Date.Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	for _, name := range snap.Categories {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("insert category %s: %w", name, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE settings SET limit_cents = ? WHERE id = 1`, snap.LimitCents); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}
