/**
 * @description
 * Builds the go-redis client behind the redis record store driver.
 * Each category lives under one JSON array key, read with GET/MGET and replaced
 * with a single SET while the store holds its write lock. A small pool with a
 * couple of retries is enough for that.
 *
 * @dependencies
 * - github.com/redis/go-redis/v9
 */

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/dhrone-predicts/backend/internal/config"
	"github.com/dhrone-predicts/backend/internal/logger"
	"github.com/redis/go-redis/v9"
)

const (
	redisTimeout    = 5 * time.Second
	redisRetries    = 2
	redisPoolSize   = 5
	redisPingBudget = 10 * time.Second
)

// redisOptions parses rawURL and fills whatever the URL left unset.
// Query parameters such as ?pool_size= or ?dial_timeout= take precedence.
func redisOptions(rawURL string) (*redis.Options, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	for _, d := range []*time.Duration{&opt.DialTimeout, &opt.ReadTimeout, &opt.WriteTimeout} {
		if *d == 0 {
			*d = redisTimeout
		}
	}
	if opt.MaxRetries == 0 {
		opt.MaxRetries = redisRetries
	}
	if opt.PoolSize == 0 {
		opt.PoolSize = redisPoolSize
	}
	return opt, nil
}

// ConnectRedis returns a client for cfg.Redis.URL once it answers PING
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opt, err := redisOptions(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingBudget)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opt.Addr, err)
	}

	logger.Info("✅ Connected to Redis at %s (db %d)", opt.Addr, opt.DB)
	return client, nil
}
