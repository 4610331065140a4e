package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

type Options struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// NewPostgresConnection opens a pgx pool and exposes it as *sql.DB for the repositories.
// The pool is returned so callers can close it after the *sql.DB.
func NewPostgresConnection(ctx context.Context, opts Options) (*sql.DB, *pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	if opts.MaxConns > 0 {
		pc.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		pc.MinConns = opts.MinConns
	}
	if opts.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = opts.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "vantahire"

	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Int32("max_conns", pc.MaxConns).Msg("connected to postgres")
	return stdlib.OpenDBFromPool(pool), pool, nil
}
