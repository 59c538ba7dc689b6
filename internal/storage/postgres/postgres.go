// Package postgres is the PostgreSQL storage backend, for deployments where
// the POS outgrows the embedded store.
package postgres

import (
	"context"

	"github.com/go-faster/errors"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arunika/kasir-pos/db"
	"github.com/arunika/kasir-pos/internal/domain/product"
	"github.com/arunika/kasir-pos/internal/domain/transaction"
)

// Store is a pgxpool-backed storage backend.
type Store struct {
	pool *pgxpool.Pool
}

// Open creates a connection pool with shopspring/decimal support for
// NUMERIC columns and applies the embedded schema.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database config")
	}
	cfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create connection pool")
	}

	if _, err := pool.Exec(ctx, db.Schema); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "run migrations")
	}
	return &Store{pool: pool}, nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Products exposes the catalog as a product.Repository.
func (s *Store) Products() product.Repository { return &ProductRepository{pool: s.pool} }

// Transactions exposes the log as a transaction.Repository.
func (s *Store) Transactions() transaction.Repository { return &TransactionRepository{pool: s.pool} }
