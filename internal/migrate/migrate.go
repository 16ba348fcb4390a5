/**
 * @description
 * Copies predictions between record store backends, category by category.
 *
 * @dependencies
 * - backend/internal/store
 * - backend/internal/logger: per-run component logger (zerolog)
 */

package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dhrone-predicts/backend/internal/logger"
	"github.com/dhrone-predicts/backend/internal/models"
	"github.com/dhrone-predicts/backend/internal/store"
)

// ErrTargetNotEmpty is returned when a target category already has records and Force is off
var ErrTargetNotEmpty = errors.New("target category is not empty")

// Options controls a copy
type Options struct {
	// Force appends into categories that already hold records
	Force bool
	// Log receives one JSON line per imported category; nil discards them
	Log io.Writer
}

// CategoryResult is the outcome for one category
type CategoryResult struct {
	Category string
	Copied   int
}

// Report summarises a copy
type Report struct {
	Categories []CategoryResult
}

// Total returns the number of predictions copied
func (r Report) Total() int {
	n := 0
	for _, c := range r.Categories {
		n += c.Copied
	}
	return n
}

// Copy moves every category of src into dst, preserving ids, timestamps and order.
// dst must implement store.Importer.
func Copy(ctx context.Context, src, dst store.Store, opts Options) (Report, error) {
	var report Report

	out := opts.Log
	if out == nil {
		out = io.Discard
	}
	log := logger.New(out, "migrate")

	importer, ok := dst.(store.Importer)
	if !ok {
		return report, fmt.Errorf("target store does not support import")
	}

	all, err := src.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("read source: %w", err)
	}

	if !opts.Force {
		for _, category := range models.CategoryIDs() {
			if len(all[category]) == 0 {
				continue
			}
			existing, err := dst.ListCategory(ctx, category)
			if err != nil {
				return report, fmt.Errorf("read target %s: %w", category, err)
			}
			if len(existing) > 0 {
				return report, fmt.Errorf("%s: %w (%d records)", category, ErrTargetNotEmpty, len(existing))
			}
		}
	}

	for _, category := range models.CategoryIDs() {
		preds := all[category]
		if len(preds) > 0 {
			if err := importer.Import(ctx, category, preds); err != nil {
				return report, fmt.Errorf("import %s: %w", category, err)
			}
			log.Info().Str("category", category).Int("copied", len(preds)).Msg("imported")
		}
		report.Categories = append(report.Categories, CategoryResult{Category: category, Copied: len(preds)})
	}

	return report, nil
}
