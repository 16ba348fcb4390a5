/**
 * @description
 * PostgreSQL record store built on GORM.
 * One table partitioned by category; each mutation runs in its own transaction.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/jackc/pgconn, github.com/jackc/pgx/v5/pgconn: SQLSTATE inspection
 *
 * @notes
 * - Serialization failures (40001) and deadlocks (40P01) are retried with jittered backoff.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/dhrone-predicts/backend/internal/logger"
	"github.com/dhrone-predicts/backend/internal/models"
	"github.com/jackc/pgconn"
	pgxconn "github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const postgresMaxRetries = 5

// NewPostgresStore returns a Store backed by the prediction_rows table
func NewPostgresStore(db *gorm.DB, opts ...Option) Store {
	return &postgresStore{db: db, opts: buildOptions(opts)}
}

type postgresStore struct {
	db    *gorm.DB
	opts  options
	locks partitionLocks
}

func (s *postgresStore) Init(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&predictionRow{}); err != nil {
		return fmt.Errorf("postgres: migrate prediction_rows: %w", err)
	}
	return nil
}

func (s *postgresStore) ListCategory(ctx context.Context, category string) ([]models.Prediction, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	var rows []predictionRow
	if err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("postgres: list %s: %w", category, err)
	}
	preds, err := rowsToModels(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: list %s: %w", category, err)
	}
	return preds, nil
}

func (s *postgresStore) ListAll(ctx context.Context) (map[string][]models.Prediction, error) {
	var rows []predictionRow
	if err := s.db.WithContext(ctx).
		Where("category IN ?", models.CategoryIDs()).
		Order("category ASC, position ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("postgres: list all: %w", err)
	}

	all := emptyCollection()
	for _, r := range rows {
		p, err := r.toModel()
		if err != nil {
			return nil, fmt.Errorf("postgres: list all: %w", err)
		}
		all[r.Category] = append(all[r.Category], p)
	}
	return all, nil
}

func (s *postgresStore) Append(ctx context.Context, category string, in models.PredictionInput) (*models.Prediction, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(category)
	defer unlock()

	rec := in.NewPrediction(s.opts.newID(), category, s.opts.now())
	err := s.transact(ctx, func(tx *gorm.DB) error {
		maxPos, err := lastPosition(tx, category)
		if err != nil {
			return err
		}
		row, err := rowFromModel(rec, category, maxPos+1)
		if err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: append %s: %w", category, err)
	}
	return &rec, nil
}

func (s *postgresStore) Update(ctx context.Context, category, id string, patch models.PredictionPatch) (*models.Prediction, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(category)
	defer unlock()

	var updated models.Prediction
	err := s.transact(ctx, func(tx *gorm.DB) error {
		var row predictionRow
		if err := tx.Where("category = ? AND id = ?", category, id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		current, err := row.toModel()
		if err != nil {
			return err
		}
		patch.Apply(&current, s.opts.now())
		next, err := rowFromModel(current, category, row.Position)
		if err != nil {
			return err
		}
		updated = current
		return tx.Save(&next).Error
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: update %s/%s: %w", category, id, err)
	}
	return &updated, nil
}

func (s *postgresStore) Remove(ctx context.Context, category, id string) (*models.Prediction, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(category)
	defer unlock()

	var removed models.Prediction
	err := s.transact(ctx, func(tx *gorm.DB) error {
		var row predictionRow
		if err := tx.Where("category = ? AND id = ?", category, id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var err error
		if removed, err = row.toModel(); err != nil {
			return err
		}
		return tx.Where("category = ? AND id = ?", category, id).Delete(&predictionRow{}).Error
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: remove %s/%s: %w", category, id, err)
	}
	return &removed, nil
}

func (s *postgresStore) Import(ctx context.Context, category string, preds []models.Prediction) error {
	if err := checkCategory(category); err != nil {
		return err
	}
	if len(preds) == 0 {
		return nil
	}
	unlock := s.locks.lock(category)
	defer unlock()

	err := s.transact(ctx, func(tx *gorm.DB) error {
		maxPos, err := lastPosition(tx, category)
		if err != nil {
			return err
		}
		rows := make([]predictionRow, len(preds))
		for i, p := range preds {
			if rows[i], err = rowFromModel(p, category, maxPos+int64(i)+1); err != nil {
				return err
			}
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return fmt.Errorf("postgres: import %s: %w", category, err)
	}
	return nil
}

func (s *postgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// transact runs fn in a transaction, retrying on serialization failures and deadlocks
func (s *postgresStore) transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= postgresMaxRetries; attempt++ {
		err = s.db.WithContext(ctx).Transaction(fn)
		if err == nil || !isRetryablePgError(err) {
			return err
		}

		backoff := time.Duration(attempt*100+rand.Intn(100)) * time.Millisecond
		logger.Warn("postgres: retrying transaction (attempt %d/%d) after %v: %v", attempt, postgresMaxRetries, backoff, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}

func lastPosition(tx *gorm.DB, category string) (int64, error) {
	var maxPos int64
	err := tx.Model(&predictionRow{}).
		Where("category = ?", category).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPos).Error
	return maxPos, err
}

func isRetryablePgError(err error) bool {
	var code string
	var pgErr *pgconn.PgError
	var pgxErr *pgxconn.PgError
	switch {
	case errors.As(err, &pgxErr):
		code = pgxErr.Code
	case errors.As(err, &pgErr):
		code = pgErr.Code
	default:
		return false
	}
	return code == "40001" || code == "40P01"
}
