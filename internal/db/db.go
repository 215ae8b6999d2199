package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// connectTimeout acota conexión y ping inicial.
const connectTimeout = 5 * time.Second

type poolPinger interface {
	Ping(ctx context.Context) error
	Close()
}

var (
	newPool  = pgxpool.NewWithConfig
	pingPool = func(ctx context.Context, pool poolPinger) error {
		return pool.Ping(ctx)
	}
	closePool = func(pool poolPinger) {
		pool.Close()
	}
)

// Options ajusta el pool; los valores cero dejan el default de pgx.
type Options struct {
	MaxConns int32
}

// NewPool crea un pool de conexiones a PostgreSQL y verifica que responda.
func NewPool(ctx context.Context, databaseURL string, options Options) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if options.MaxConns > 0 {
		poolConfig.MaxConns = options.MaxConns
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := newPool(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	// La app no arranca con una base que no responde.
	if err := pingPool(ctx, pool); err != nil {
		closePool(pool)
		return nil, err
	}

	return pool, nil
}
