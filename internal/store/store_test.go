package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingFileIsEmpty(t *testing.T) {
	s, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "sent_jobs.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains("https://example.com/1"))
}

func TestRecordIsIdempotent(t *testing.T) {
	s, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "sent_jobs.json"))
	require.NoError(t, err)

	assert.True(t, s.Record("u1"))
	assert.False(t, s.Record("u1"))
	assert.True(t, s.Contains("u1"))
	assert.Equal(t, 1, s.Len())
}

func TestPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "sent_jobs.json")

	s, err := LoadFile(ctx, path)
	require.NoError(t, err)
	s.Record("https://b.example/2")
	s.Record("https://a.example/1")
	s.Record("https://ü.example/3")
	require.NoError(t, s.Persist(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `["https://a.example/1","https://b.example/2","https://ü.example/3"]`, string(data))

	reloaded, err := LoadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, s.IDs(), reloaded.IDs())
}

func TestPersistEmptyStoreWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sent_jobs.json")

	s, err := LoadFile(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Persist(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestLoad_CorruptContentIsFatal(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "truncated array", content: `["https://a.example/1",`},
		{name: "empty file", content: ``},
		{name: "object instead of array", content: `{"seen": []}`},
		{name: "null", content: `null`},
		{name: "non-string element", content: `["ok", 42]`},
		{name: "empty identifier", content: `["ok", ""]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sent_jobs.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadFile(context.Background(), path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorrupt), "expected ErrCorrupt, got %v", err)
		})
	}
}

func TestPersistFailureKeepsPreviousContent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "sent_jobs.json")
	require.NoError(t, os.WriteFile(path, []byte(`["u1"]`), 0o644))

	backend := NewFileBackend(path)
	s, err := Load(ctx, backend)
	require.NoError(t, err)
	s.Record("u2")

	backend.beforeRename = func(string) error { return errors.New("simulated crash") }
	require.Error(t, s.Persist(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `["u1"]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be cleaned up")

	reloaded, err := LoadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, reloaded.IDs())
}

func TestNopBackend(t *testing.T) {
	ctx := context.Background()
	s, err := Load(ctx, NewNopBackend())
	require.NoError(t, err)
	s.Record("u1")
	require.NoError(t, s.Persist(ctx))

	again, err := Load(ctx, NewNopBackend())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Len())
}
