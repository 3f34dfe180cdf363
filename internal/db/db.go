package db

import (
	"context"
	"fmt"
	"time"

	"github.com/senyabanana/tender-board/internal/router/config"

	"github.com/cenkalti/backoff"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InitDb инициализирует подключение к базе данных и возвращает пул соединений.
// Подключение повторяется с экспоненциальной задержкой, пока база поднимается.
func InitDb(cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.PostgresConn == "" {
		return nil, fmt.Errorf("POSTGRES_CONN is not set")
	}

	var dbPool *pgxpool.Pool

	connect := func() error {
		pool, err := pgxpool.New(context.Background(), cfg.PostgresConn)
		if err != nil {
			return fmt.Errorf("unable to connect to database: %w", err)
		}
		if err = pool.Ping(context.Background()); err != nil {
			pool.Close()
			return fmt.Errorf("database not ready: %w", err)
		}
		dbPool = pool
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(connect, policy); err != nil {
		return nil, err
	}

	return dbPool, nil
}
