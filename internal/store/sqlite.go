/**
 * @description
 * SQLite record store using database/sql.
 * Same row layout as the postgres backend; handy for a single-file deployment.
 *
 * @dependencies
 * - database/sql with a registered "sqlite" driver (see internal/db)
 */

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dhrone-predicts/backend/internal/models"
)

const createPredictionRowsSQL = `
CREATE TABLE IF NOT EXISTS prediction_rows (
    category        TEXT    NOT NULL,
    id              TEXT    NOT NULL,
    position        INTEGER NOT NULL,
    match_name      TEXT    NOT NULL,
    prediction_text TEXT    NOT NULL,
    odds            TEXT    NOT NULL,
    probability     TEXT    NOT NULL DEFAULT '',
    match_date      TEXT    NOT NULL,
    status          TEXT    NOT NULL,
    featured        BOOLEAN NOT NULL DEFAULT FALSE,
    note            TEXT    NOT NULL DEFAULT '',
    created_at      TEXT    NOT NULL,
    updated_at      TEXT    NOT NULL,
    extra           TEXT    NOT NULL DEFAULT '',
    PRIMARY KEY (category, id)
);

CREATE INDEX IF NOT EXISTS idx_prediction_rows_position ON prediction_rows(category, position);
`

const selectPredictionColumns = `
SELECT category, id, position, match_name, prediction_text, odds, probability,
       match_date, status, featured, note, created_at, updated_at, extra
FROM prediction_rows`

// databases created before the extra column existed get it added in place
const addExtraColumnSQL = `ALTER TABLE prediction_rows ADD COLUMN extra TEXT NOT NULL DEFAULT ''`

// NewSQLiteStore returns a Store backed by db. Close closes db.
func NewSQLiteStore(db *sql.DB, opts ...Option) Store {
	return &sqliteStore{db: db, opts: buildOptions(opts)}
}

type sqliteStore struct {
	db    *sql.DB
	opts  options
	locks partitionLocks
}

func (s *sqliteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createPredictionRowsSQL); err != nil {
		return fmt.Errorf("sqlite: migrate prediction_rows: %w", err)
	}

	var hasExtra int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pragma_table_info('prediction_rows') WHERE name = 'extra'",
	).Scan(&hasExtra); err != nil {
		return fmt.Errorf("sqlite: inspect prediction_rows: %w", err)
	}
	if hasExtra == 0 {
		if _, err := s.db.ExecContext(ctx, addExtraColumnSQL); err != nil {
			return fmt.Errorf("sqlite: add extra column: %w", err)
		}
	}
	return nil
}

func (s *sqliteStore) ListCategory(ctx context.Context, category string) ([]models.Prediction, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	rows, err := s.query(ctx, s.db, selectPredictionColumns+" WHERE category = ? ORDER BY position ASC", category)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list %s: %w", category, err)
	}
	preds, err := rowsToModels(rows)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list %s: %w", category, err)
	}
	return preds, nil
}

func (s *sqliteStore) ListAll(ctx context.Context) (map[string][]models.Prediction, error) {
	rows, err := s.query(ctx, s.db, selectPredictionColumns+" ORDER BY category ASC, position ASC")
	if err != nil {
		return nil, fmt.Errorf("sqlite: list all: %w", err)
	}

	all := emptyCollection()
	for _, r := range rows {
		if _, ok := all[r.Category]; !ok {
			continue
		}
		p, err := r.toModel()
		if err != nil {
			return nil, fmt.Errorf("sqlite: list all: %w", err)
		}
		all[r.Category] = append(all[r.Category], p)
	}
	return all, nil
}

func (s *sqliteStore) Append(ctx context.Context, category string, in models.PredictionInput) (*models.Prediction, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(category)
	defer unlock()

	rec := in.NewPrediction(s.opts.newID(), category, s.opts.now())
	err := s.transact(ctx, func(tx *sql.Tx) error {
		maxPos, err := s.lastPosition(ctx, tx, category)
		if err != nil {
			return err
		}
		row, err := rowFromModel(rec, category, maxPos+1)
		if err != nil {
			return err
		}
		return s.insert(ctx, tx, row)
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: append %s: %w", category, err)
	}
	return &rec, nil
}

func (s *sqliteStore) Update(ctx context.Context, category, id string, patch models.PredictionPatch) (*models.Prediction, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(category)
	defer unlock()

	var updated models.Prediction
	err := s.transact(ctx, func(tx *sql.Tx) error {
		row, err := s.find(ctx, tx, category, id)
		if err != nil {
			return err
		}
		if updated, err = row.toModel(); err != nil {
			return err
		}
		patch.Apply(&updated, s.opts.now())
		next, err := rowFromModel(updated, category, row.Position)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE prediction_rows
			SET match_name = ?, prediction_text = ?, odds = ?, probability = ?, match_date = ?,
			    status = ?, featured = ?, note = ?, updated_at = ?, extra = ?
			WHERE category = ? AND id = ?`,
			next.Match, next.Prediction, next.Odds, next.Probability, next.Date,
			next.Status, next.Featured, next.Note, formatTime(next.UpdatedAt), next.Extra,
			category, id)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: update %s/%s: %w", category, id, err)
	}
	return &updated, nil
}

func (s *sqliteStore) Remove(ctx context.Context, category, id string) (*models.Prediction, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(category)
	defer unlock()

	var removed models.Prediction
	err := s.transact(ctx, func(tx *sql.Tx) error {
		row, err := s.find(ctx, tx, category, id)
		if err != nil {
			return err
		}
		if removed, err = row.toModel(); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM prediction_rows WHERE category = ? AND id = ?", category, id)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: remove %s/%s: %w", category, id, err)
	}
	return &removed, nil
}

func (s *sqliteStore) Import(ctx context.Context, category string, preds []models.Prediction) error {
	if err := checkCategory(category); err != nil {
		return err
	}
	unlock := s.locks.lock(category)
	defer unlock()

	err := s.transact(ctx, func(tx *sql.Tx) error {
		maxPos, err := s.lastPosition(ctx, tx, category)
		if err != nil {
			return err
		}
		for i, p := range preds {
			row, err := rowFromModel(p, category, maxPos+int64(i)+1)
			if err != nil {
				return err
			}
			if err := s.insert(ctx, tx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sqlite: import %s: %w", category, err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) lastPosition(ctx context.Context, tx *sql.Tx, category string) (int64, error) {
	var maxPos int64
	err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), 0) FROM prediction_rows WHERE category = ?", category,
	).Scan(&maxPos)
	return maxPos, err
}

func (s *sqliteStore) insert(ctx context.Context, tx *sql.Tx, row predictionRow) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO prediction_rows (category, id, position, match_name, prediction_text, odds,
			probability, match_date, status, featured, note, created_at, updated_at, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.Category, row.ID, row.Position, row.Match, row.Prediction, row.Odds,
		row.Probability, row.Date, row.Status, row.Featured, row.Note,
		formatTime(row.CreatedAt), formatTime(row.UpdatedAt), row.Extra)
	return err
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (s *sqliteStore) find(ctx context.Context, q queryer, category, id string) (*predictionRow, error) {
	rows, err := s.query(ctx, q, selectPredictionColumns+" WHERE category = ? AND id = ?", category, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (s *sqliteStore) query(ctx context.Context, q queryer, query string, args ...interface{}) ([]predictionRow, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []predictionRow
	for rows.Next() {
		var r predictionRow
		var createdAt, updatedAt string
		if err := rows.Scan(&r.Category, &r.ID, &r.Position, &r.Match, &r.Prediction, &r.Odds,
			&r.Probability, &r.Date, &r.Status, &r.Featured, &r.Note, &createdAt, &updatedAt, &r.Extra); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) transact(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
