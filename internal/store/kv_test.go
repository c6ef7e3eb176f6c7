package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, found, err := kv.Get(ctx, KeyBooks)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, KeyBooks, "[]"))
	v, found, err := kv.Get(ctx, KeyBooks)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", v)

	require.NoError(t, kv.Set(ctx, KeyBooks, `[{"title":"x"}]`))
	v, _, err = kv.Get(ctx, KeyBooks)
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"x"}]`, v, "last writer wins")

	require.NoError(t, kv.Delete(ctx, KeyBooks))
	_, found, err = kv.Get(ctx, KeyBooks)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Delete(ctx, "missing"))
	require.NoError(t, kv.Ping(ctx))
}

func TestMemory(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bookshelf.db")
	kv, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	exerciseKV(t, kv)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bookshelf.db")

	kv, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, KeyLoggedIn, "true"))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	v, found, err := kv.Get(ctx, KeyLoggedIn)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "true", v)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("Skipping test: TEST_DB_DSN not set")
	}
	kv, err := OpenPostgres(context.Background(), dsn)
	if err != nil {
		t.Skipf("Skipping test: cannot connect to test database: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	exerciseKV(t, kv)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, DriverMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	kv, err = Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, kv)
	_ = kv.Close()

	_, err = Open(ctx, "redis", "")
	assert.ErrorContains(t, err, "unknown store driver")
}
