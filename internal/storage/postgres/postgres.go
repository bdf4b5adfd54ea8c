// Package postgres keeps saved games in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/textreality/internal/config"
)

// ErrSchemaMissing is returned by Ready when the saved_games table does not exist.
var ErrSchemaMissing = errors.New("saved_games table missing; run cmd/migrate")

// Pool is the connection pool behind a save database.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the save database described by cfg.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a pinged Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing save database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating save database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging save database %s/%s: %w", cfg.Host, cfg.Name, err)
	}
	return &Pool{pool: pool}, nil
}

// Ready reports whether the database answers within timeout and has the
// saved_games schema applied.
//
// Postcondition: Returns an error wrapping ErrSchemaMissing when migrations
// have not been run.
func (p *Pool) Ready(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	var exists bool
	if err := p.pool.QueryRow(ctx, `SELECT to_regclass('saved_games') IS NOT NULL`).Scan(&exists); err != nil {
		return fmt.Errorf("checking save schema: %w", err)
	}
	if !exists {
		return ErrSchemaMissing
	}
	return nil
}

// Saves returns a SaveRepository sharing this pool.
func (p *Pool) Saves() *SaveRepository {
	return NewSaveRepository(p.pool)
}

// Close releases the pool. It always returns nil so it can be used as a closer.
func (p *Pool) Close() error {
	p.pool.Close()
	return nil
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
