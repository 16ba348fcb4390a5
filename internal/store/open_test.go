package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhrone-predicts/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFileDriverInitialises(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverFile, DataDir: dir}}

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, "freeTips.json"))
	assert.NoError(t, err)
}

func TestOpenRedisDriver(t *testing.T) {
	mr, _ := newMiniredis(t)
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverRedis},
		Redis:   config.RedisConfig{URL: "redis://" + mr.Addr()},
	}

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, mr.Exists(RedisKeyPrefix+"vvip"))
}

func TestOpenSQLiteDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "nested", "predictions.db"),
	}}

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	all, err := s.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 13)
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "mongo"}}
	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}
