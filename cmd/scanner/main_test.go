package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alejandrodnm/storearb/config"
	"github.com/alejandrodnm/storearb/internal/adapters/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSnapshotStore_File(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "opps.json")

	store, err := openSnapshotStore(context.Background(), &cfg)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &storage.FileStorage{}, store)
}

func TestOpenSnapshotStore_SQLite(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.DSN = ":memory:"

	store, err := openSnapshotStore(context.Background(), &cfg)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &storage.SQLiteStorage{}, store)
}

func TestRunHistory_RequiresSQLite(t *testing.T) {
	cfg := config.Defaults()
	assert.Equal(t, exitConfig, runHistory(context.Background(), &cfg))
}

func TestRunHistory_SQLite(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.DSN = filepath.Join(t.TempDir(), "storearb.db")

	assert.Equal(t, 0, runHistory(context.Background(), &cfg))
}
