/**
 * @description
 * Opens the GORM handle behind the postgres record store driver.
 * Prediction rows are small and every write comes from the one admin dashboard,
 * so the pool is kept well below what a shared managed database allows.
 *
 * @dependencies
 * - gorm.io/gorm, gorm.io/driver/postgres (pgx underneath)
 */

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/dhrone-predicts/backend/internal/config"
	"github.com/dhrone-predicts/backend/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	// concurrent readers are public list requests; writes are serialised by the store
	pgMaxOpen     = 5
	pgMaxIdle     = 2
	pgMaxLifetime = 30 * time.Minute
	pgPingTimeout = 10 * time.Second
)

// sqlLogLevel echoes every statement in development and only failures elsewhere
func sqlLogLevel(env string) gormLogger.LogLevel {
	if env == "development" {
		return gormLogger.Info
	}
	return gormLogger.Error
}

// ConnectPostgres opens cfg.DB.URL and checks the server answers before returning
func ConnectPostgres(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	dialect := postgres.New(postgres.Config{
		DSN: cfg.DB.URL,
		// pgbouncer in transaction mode cannot hold prepared statements
		PreferSimpleProtocol: true,
	})
	gdb, err := gorm.Open(dialect, &gorm.Config{
		Logger: gormLogger.Default.LogMode(sqlLogLevel(cfg.Server.Env)),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pool, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	pool.SetMaxOpenConns(pgMaxOpen)
	pool.SetMaxIdleConns(pgMaxIdle)
	pool.SetConnMaxLifetime(pgMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pgPingTimeout)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("✅ Connected to PostgreSQL (pool %d/%d)", pgMaxIdle, pgMaxOpen)
	return gdb, nil
}
