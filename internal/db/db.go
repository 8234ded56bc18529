package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/huslr-app/huslr-api/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the shared database connection pool.
var Pool *pgxpool.Pool

// InitDB opens the connection pool and verifies connectivity.
func InitDB(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("parsing database URL: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	Pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("creating connection pool: %w", err)
	}

	if err = Pool.Ping(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	log.Println("✅ connected to database")
	return nil
}

// CloseDB closes the connection pool.
func CloseDB() {
	if Pool != nil {
		Pool.Close()
	}
}

// GetContext returns a context with the standard query timeout.
func GetContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
