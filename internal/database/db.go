package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// PoolConfig はコネクションプールの設定。ゼロ値の項目はdatabase/sqlの既定値のままにする。
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RetryConfig は起動時の接続確認のリトライ設定。
type RetryConfig struct {
	Attempts int
	Interval time.Duration
}

// DefaultRetry はcompose起動時にPostgreSQLの準備を待つための既定値。
var DefaultRetry = RetryConfig{Attempts: 10, Interval: time.Second}

// Open はPostgreSQLのコネクションプールを作る。sql.Openは接続しないので到達確認はConnectで行う。
func Open(databaseURL string, pool PoolConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	return db, nil
}

// Connect はプールを作り、Pingが通るまでretryに従って待つ。
// 最後まで失敗した場合はプールを閉じて最後のエラーを返す。
func Connect(ctx context.Context, databaseURL string, pool PoolConfig, retry RetryConfig) (*sql.DB, error) {
	db, err := Open(databaseURL, pool)
	if err != nil {
		return nil, err
	}

	attempts := retry.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 1; ; i++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if i >= attempts {
			break
		}
		slog.Warn("database not ready, retrying",
			slog.Int("attempt", i),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", ctx.Err())
		case <-time.After(retry.Interval):
		}
	}

	db.Close()
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
}
