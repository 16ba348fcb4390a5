package store

import (
	"context"
	"fmt"

	"github.com/dhrone-predicts/backend/internal/config"
	"github.com/dhrone-predicts/backend/internal/db"
)

// Open connects the backend selected by cfg.Storage.Driver and runs Init on it
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (Store, error) {
	var s Store

	switch cfg.Storage.Driver {
	case config.DriverFile:
		s = NewFileStore(cfg.Storage.DataDir, opts...)
	case config.DriverRedis:
		client, err := db.ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s = NewRedisStore(client, opts...)
	case config.DriverPostgres:
		pgDB, err := db.ConnectPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s = NewPostgresStore(pgDB, opts...)
	case config.DriverSQLite:
		sqlDB, err := db.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		s = NewSQLiteStore(sqlDB, opts...)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if err := s.Init(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
