package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// PoolConfig sizes the store's connection pool. Zero values take the
// package defaults.
type PoolConfig struct {
	ConnString      string
	MaxConns        int
	MaxConnIdleTime time.Duration
	MaxConnLifetime time.Duration
	ConnectAttempts int
	ConnectBackoff  time.Duration
}

// NewPool opens a pgx pool and waits until the server answers a ping,
// retrying with doubling backoff. ctx bounds the whole wait.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseConnString, err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(min(cfg.MaxConns, math.MaxInt32))
	}
	pc.MinConns = min(DefaultMinConns, pc.MaxConns)
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreatePool, err)
	}
	if err := waitForPing(ctx, pool, cfg); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgPingDatabase, err)
	}

	logger.FromContext(ctx).Info(LogMsgConnected,
		"host", pc.ConnConfig.Host,
		"database", pc.ConnConfig.Database,
		"max_conns", pc.MaxConns)
	return pool, nil
}

func waitForPing(ctx context.Context, pool *pgxpool.Pool, cfg PoolConfig) error {
	attempts := cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = DefaultConnectAttempts
	}
	backoff := cfg.ConnectBackoff
	if backoff <= 0 {
		backoff = DefaultConnectBackoff
	}

	var err error
	for i := 1; ; i++ {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		if i == attempts {
			return err
		}
		logger.FromContext(ctx).Warn(LogMsgPingRetrying, "attempt", i, "wait", backoff, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
