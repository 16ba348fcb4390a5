/**
 * @description
 * Flat-file record store: <dir>/<category>.json holds the category's records as a
 * pretty-printed JSON array. This is the layout the admin dashboard has always used,
 * so existing data directories load unchanged; members the record type does not know
 * (e.g. "leagueType") are carried through every rewrite via models.Extra.
 *
 * @dependencies
 * - standard "encoding/json", "os"
 */

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhrone-predicts/backend/internal/models"
)

// NewFileStore returns a Store persisting each category under dir
func NewFileStore(dir string, opts ...Option) Store {
	return newSequenceStore(&fileBackend{dir: dir}, opts)
}

type fileBackend struct {
	dir string
}

func (b *fileBackend) name() string { return "file" }

func (b *fileBackend) path(category string) string {
	return filepath.Join(b.dir, category+".json")
}

func (b *fileBackend) init(_ context.Context, categories []string) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return err
	}
	for _, c := range categories {
		_, err := os.Stat(b.path(c))
		if err == nil {
			continue
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := b.save(context.Background(), c, []models.Prediction{}); err != nil {
			return err
		}
	}
	return nil
}

func (b *fileBackend) load(_ context.Context, category string) ([]models.Prediction, error) {
	data, err := os.ReadFile(b.path(category))
	if errors.Is(err, os.ErrNotExist) {
		return []models.Prediction{}, nil
	}
	if err != nil {
		return nil, err
	}

	preds := []models.Prediction{}
	if len(bytes.TrimSpace(data)) == 0 {
		return preds, nil
	}
	if err := json.Unmarshal(data, &preds); err != nil {
		return nil, fmt.Errorf("decode %s: %w", b.path(category), err)
	}
	if preds == nil {
		preds = []models.Prediction{}
	}
	return preds, nil
}

func (b *fileBackend) loadAll(ctx context.Context, categories []string) (map[string][]models.Prediction, error) {
	all := make(map[string][]models.Prediction, len(categories))
	for _, c := range categories {
		preds, err := b.load(ctx, c)
		if err != nil {
			return nil, err
		}
		all[c] = preds
	}
	return all, nil
}

// save writes the whole array to a temp file and renames it over the old one,
// so readers only ever see a complete file.
func (b *fileBackend) save(_ context.Context, category string, preds []models.Prediction) error {
	if preds == nil {
		preds = []models.Prediction{}
	}
	data, err := json.MarshalIndent(preds, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(b.dir, "."+category+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, b.path(category))
}

func (b *fileBackend) close() error { return nil }
