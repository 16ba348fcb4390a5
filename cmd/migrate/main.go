/**
 * @description
 * Copies every category from one record store backend to another,
 * e.g. an existing data/ directory into PostgreSQL.
 *
 * Usage:
 *   go run ./cmd/migrate -from file -to postgres
 *
 * Connection settings for both sides come from the usual environment (DATA_DIR,
 * REDIS_URL, DATABASE_URL, SQLITE_PATH).
 *
 * @notes
 * - Records keep their ids, timestamps and order.
 * - Refuses to write into a category that already has records unless -force is set.
 */

package main

import (
	"context"
	"flag"
	"os"

	"github.com/dhrone-predicts/backend/internal/config"
	"github.com/dhrone-predicts/backend/internal/logger"
	"github.com/dhrone-predicts/backend/internal/migrate"
	"github.com/dhrone-predicts/backend/internal/store"
)

func main() {
	from := flag.String("from", config.DriverFile, "source storage driver")
	to := flag.String("to", config.DriverPostgres, "target storage driver")
	force := flag.Bool("force", false, "append into categories that already hold records")
	flag.Parse()

	logger.Info("🚀 Starting store migration %s -> %s", *from, *to)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config: %v", err)
	}
	if *from == *to {
		logger.Fatal("source and target drivers are both %q", *from)
	}

	ctx := context.Background()

	src, err := openDriver(ctx, cfg, *from)
	if err != nil {
		logger.Fatal("failed to open source %s: %v", *from, err)
	}
	defer src.Close()

	dst, err := openDriver(ctx, cfg, *to)
	if err != nil {
		logger.Fatal("failed to open target %s: %v", *to, err)
	}
	defer dst.Close()

	report, err := migrate.Copy(ctx, src, dst, migrate.Options{Force: *force, Log: os.Stdout})
	if err != nil {
		logger.Error("migration failed: %v", err)
		os.Exit(1)
	}

	for _, c := range report.Categories {
		logger.Info("  %-18s %d copied", c.Category, c.Copied)
	}
	logger.Info("✅ Migration completed: %d predictions copied", report.Total())
}

func openDriver(ctx context.Context, base *config.Config, driver string) (store.Store, error) {
	cfg := *base
	cfg.Storage.Driver = driver
	return store.Open(ctx, &cfg)
}
