/**
 * @description
 * Redis record store: key "predictions:<category>" holds the category's JSON array.
 *
 * @dependencies
 * - github.com/redis/go-redis/v9
 */

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dhrone-predicts/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix namespaces category keys
const RedisKeyPrefix = "predictions:"

// NewRedisStore returns a Store keeping one JSON array per category in Redis.
// Close releases the client.
func NewRedisStore(client *redis.Client, opts ...Option) Store {
	return newSequenceStore(&redisBackend{client: client}, opts)
}

type redisBackend struct {
	client *redis.Client
}

func (b *redisBackend) name() string { return "redis" }

func redisKey(category string) string {
	return RedisKeyPrefix + category
}

func (b *redisBackend) init(ctx context.Context, categories []string) error {
	pipe := b.client.Pipeline()
	for _, c := range categories {
		pipe.SetNX(ctx, redisKey(c), "[]", 0)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (b *redisBackend) load(ctx context.Context, category string) ([]models.Prediction, error) {
	val, err := b.client.Get(ctx, redisKey(category)).Result()
	if errors.Is(err, redis.Nil) {
		return []models.Prediction{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeSequence(val)
}

func (b *redisBackend) loadAll(ctx context.Context, categories []string) (map[string][]models.Prediction, error) {
	keys := make([]string, len(categories))
	for i, c := range categories {
		keys[i] = redisKey(c)
	}

	vals, err := b.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	all := make(map[string][]models.Prediction, len(categories))
	for i, c := range categories {
		raw, ok := vals[i].(string)
		if !ok {
			all[c] = []models.Prediction{}
			continue
		}
		preds, err := decodeSequence(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", c, err)
		}
		all[c] = preds
	}
	return all, nil
}

func (b *redisBackend) save(ctx context.Context, category string, preds []models.Prediction) error {
	if preds == nil {
		preds = []models.Prediction{}
	}
	data, err := json.Marshal(preds)
	if err != nil {
		return err
	}
	return b.client.Set(ctx, redisKey(category), data, 0).Err()
}

func (b *redisBackend) close() error {
	return b.client.Close()
}

func decodeSequence(raw string) ([]models.Prediction, error) {
	preds := []models.Prediction{}
	if raw == "" {
		return preds, nil
	}
	if err := json.Unmarshal([]byte(raw), &preds); err != nil {
		return nil, err
	}
	if preds == nil {
		preds = []models.Prediction{}
	}
	return preds, nil
}
