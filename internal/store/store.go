/**
 * @description
 * Record Store: one ordered, durable sequence of predictions per category.
 * Backends: flat JSON files (default), Redis, PostgreSQL (gorm) and SQLite.
 *
 * @dependencies
 * - github.com/google/uuid: record ids
 * - backend/internal/models
 *
 * @notes
 * - Mutations are read-modify-write per category. Within one process they are serialised
 *   by a per-category mutex; writers in separate processes can still lose updates.
 */

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dhrone-predicts/backend/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrUnknownCategory is returned for any category outside models.Categories
	ErrUnknownCategory = errors.New("unknown category")
	// ErrNotFound is returned when no record has the id within the given category
	ErrNotFound = errors.New("prediction not found")
)

// Store is the per-category prediction collection
type Store interface {
	// Init creates every category as an empty sequence if it does not exist yet
	Init(ctx context.Context) error
	ListCategory(ctx context.Context, category string) ([]models.Prediction, error)
	ListAll(ctx context.Context) (map[string][]models.Prediction, error)
	Append(ctx context.Context, category string, in models.PredictionInput) (*models.Prediction, error)
	Update(ctx context.Context, category, id string, patch models.PredictionPatch) (*models.Prediction, error)
	Remove(ctx context.Context, category, id string) (*models.Prediction, error)
	Close() error
}

// Importer is implemented by every backend. Import appends records as they are,
// keeping their ids and timestamps; it is used to move data between backends.
type Importer interface {
	Import(ctx context.Context, category string, preds []models.Prediction) error
}

// Option configures a store backend
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides record id generation
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func buildOptions(opts []Option) options {
	o := options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func checkCategory(category string) error {
	if !models.IsValidCategory(category) {
		return ErrUnknownCategory
	}
	return nil
}

// emptyCollection returns every category mapped to an empty, non-nil sequence
func emptyCollection() map[string][]models.Prediction {
	all := make(map[string][]models.Prediction, len(models.Categories))
	for _, id := range models.CategoryIDs() {
		all[id] = []models.Prediction{}
	}
	return all
}

func indexOf(preds []models.Prediction, id string) int {
	for i := range preds {
		if preds[i].ID == id {
			return i
		}
	}
	return -1
}

// partitionLocks hands out one mutex per category
type partitionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (p *partitionLocks) lock(category string) func() {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[string]*sync.Mutex)
	}
	l, ok := p.locks[category]
	if !ok {
		l = &sync.Mutex{}
		p.locks[category] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}

var (
	_ Importer = (*sequenceStore)(nil)
	_ Importer = (*postgresStore)(nil)
	_ Importer = (*sqliteStore)(nil)
)
