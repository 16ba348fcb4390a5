package store

import (
	"context"
	"fmt"

	"github.com/dhrone-predicts/backend/internal/models"
)

// sequenceBackend persists each category as one whole array.
// load must return an empty, non-nil slice for a category that was never written.
type sequenceBackend interface {
	name() string
	init(ctx context.Context, categories []string) error
	load(ctx context.Context, category string) ([]models.Prediction, error)
	loadAll(ctx context.Context, categories []string) (map[string][]models.Prediction, error)
	save(ctx context.Context, category string, preds []models.Prediction) error
	close() error
}

// sequenceStore implements Store on top of a whole-array backend.
// Every mutation loads the category, edits it in memory and writes it back in full.
type sequenceStore struct {
	backend sequenceBackend
	opts    options
	locks   partitionLocks
}

func newSequenceStore(backend sequenceBackend, opts []Option) *sequenceStore {
	return &sequenceStore{backend: backend, opts: buildOptions(opts)}
}

func (s *sequenceStore) Init(ctx context.Context) error {
	if err := s.backend.init(ctx, models.CategoryIDs()); err != nil {
		return fmt.Errorf("%s: init categories: %w", s.backend.name(), err)
	}
	return nil
}

func (s *sequenceStore) ListCategory(ctx context.Context, category string) ([]models.Prediction, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	preds, err := s.backend.load(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%s: load %s: %w", s.backend.name(), category, err)
	}
	return preds, nil
}

func (s *sequenceStore) ListAll(ctx context.Context) (map[string][]models.Prediction, error) {
	all, err := s.backend.loadAll(ctx, models.CategoryIDs())
	if err != nil {
		return nil, fmt.Errorf("%s: load all: %w", s.backend.name(), err)
	}
	for _, id := range models.CategoryIDs() {
		if all[id] == nil {
			all[id] = []models.Prediction{}
		}
	}
	return all, nil
}

func (s *sequenceStore) Append(ctx context.Context, category string, in models.PredictionInput) (*models.Prediction, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(category)
	defer unlock()

	preds, err := s.backend.load(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%s: load %s: %w", s.backend.name(), category, err)
	}

	rec := in.NewPrediction(s.opts.newID(), category, s.opts.now())
	preds = append(preds, rec)

	if err := s.backend.save(ctx, category, preds); err != nil {
		return nil, fmt.Errorf("%s: save %s: %w", s.backend.name(), category, err)
	}
	return &rec, nil
}

func (s *sequenceStore) Update(ctx context.Context, category, id string, patch models.PredictionPatch) (*models.Prediction, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(category)
	defer unlock()

	preds, err := s.backend.load(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%s: load %s: %w", s.backend.name(), category, err)
	}

	idx := indexOf(preds, id)
	if idx == -1 {
		return nil, ErrNotFound
	}
	patch.Apply(&preds[idx], s.opts.now())

	if err := s.backend.save(ctx, category, preds); err != nil {
		return nil, fmt.Errorf("%s: save %s: %w", s.backend.name(), category, err)
	}
	rec := preds[idx]
	return &rec, nil
}

func (s *sequenceStore) Remove(ctx context.Context, category, id string) (*models.Prediction, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(category)
	defer unlock()

	preds, err := s.backend.load(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%s: load %s: %w", s.backend.name(), category, err)
	}

	idx := indexOf(preds, id)
	if idx == -1 {
		return nil, ErrNotFound
	}
	removed := preds[idx]
	remaining := append(preds[:idx:idx], preds[idx+1:]...)

	if err := s.backend.save(ctx, category, remaining); err != nil {
		return nil, fmt.Errorf("%s: save %s: %w", s.backend.name(), category, err)
	}
	return &removed, nil
}

func (s *sequenceStore) Import(ctx context.Context, category string, imported []models.Prediction) error {
	if err := checkCategory(category); err != nil {
		return err
	}
	unlock := s.locks.lock(category)
	defer unlock()

	preds, err := s.backend.load(ctx, category)
	if err != nil {
		return fmt.Errorf("%s: load %s: %w", s.backend.name(), category, err)
	}
	for _, p := range imported {
		p.Category = category
		preds = append(preds, p)
	}
	if err := s.backend.save(ctx, category, preds); err != nil {
		return fmt.Errorf("%s: save %s: %w", s.backend.name(), category, err)
	}
	return nil
}

func (s *sequenceStore) Close() error {
	return s.backend.close()
}
