// Package sqlite is the database-backed implementation of the registry
// store, used when the operator configures a database path. The in-memory
// store remains the default.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pricedrop/notifier/internal/registry"
)

// Store persists subscription records in SQLite. The UNIQUE constraint on
// email makes the duplicate check and the insert a single atomic unit.
type Store struct {
	db *sql.DB
}

// NewStore constructs a sqlite adapter around an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ registry.Store = (*Store)(nil)

// Add inserts the record, or returns ErrAlreadySubscribed when a record with
// the same normalized email exists.
func (s *Store) Add(ctx context.Context, record registry.Record) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, email, product_name, product_price, product_url, subscribed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (email) DO NOTHING`,
		record.ID,
		record.Email,
		record.Product.Name,
		record.Product.Price,
		record.Product.URL,
		record.SubscribedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	if affected == 0 {
		return registry.ErrAlreadySubscribed
	}
	return nil
}

// Exists reports whether a record with the normalized email is present.
func (s *Store) Exists(ctx context.Context, normalizedEmail string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM subscriptions WHERE email = ?`, normalizedEmail).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query subscription: %w", err)
	}
	return true, nil
}

// List returns all records in insertion order.
func (s *Store) List(ctx context.Context) ([]registry.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, product_name, product_price, product_url, subscribed_at
		 FROM subscriptions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var out []registry.Record
	for rows.Next() {
		var record registry.Record
		var subscribedAt string
		if err := rows.Scan(
			&record.ID,
			&record.Email,
			&record.Product.Name,
			&record.Product.Price,
			&record.Product.URL,
			&subscribedAt,
		); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		record.SubscribedAt, err = time.Parse(time.RFC3339Nano, subscribedAt)
		if err != nil {
			return nil, fmt.Errorf("parse subscription timestamp: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscriptions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}
	return count, nil
}
