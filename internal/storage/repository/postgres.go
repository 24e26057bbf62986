// Package repository implements the PostgreSQL storage for users,
// categories, articles, subscription plans and user subscriptions.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// pgx driver registration for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Storage wraps the PostgreSQL connection.
type Storage struct {
	DB *sql.DB
}

// New opens a connection to PostgreSQL and verifies it.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady verifies the schema has been migrated.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'articles'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table articles missing or query error: %w", err)
	}
	return nil
}
