package recentfiles

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T, limit int) *Store {
	t.Helper()
	s, err := Open(t.Context(), ":memory:", limit)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func paths(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}

func TestStore_PushOrdersMostRecentFirst(t *testing.T) {
	// Arrange
	s := openMemory(t, 10)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	ctx := t.Context()

	// Act
	require.NoError(t, s.Push(ctx, "/data/a.tif", "TIFFSeriesReader"))
	require.NoError(t, s.Push(ctx, "/data/b.png", "PNGSeriesReader"))
	clock = clock.Add(time.Minute)
	require.NoError(t, s.Push(ctx, "/data/a.tif", "TIFFSeriesReader"))

	// Assert
	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/a.tif", "/data/b.png"}, paths(entries))
	assert.Equal(t, clock, entries[0].OpenedAt)
	assert.Equal(t, "PNGSeriesReader", entries[1].Reader)
}

func TestStore_PushTrimsToLimit(t *testing.T) {
	s := openMemory(t, 3)
	ctx := t.Context()

	for _, p := range []string{"1.tif", "2.tif", "3.tif", "4.tif", "5.tif"} {
		require.NoError(t, s.Push(ctx, p, "TIFFSeriesReader"))
	}

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"5.tif", "4.tif", "3.tif"}, paths(entries))
}

func TestStore_RemoveAndClear(t *testing.T) {
	s := openMemory(t, 5)
	ctx := t.Context()
	require.NoError(t, s.Push(ctx, "a.tif", "TIFFSeriesReader"))
	require.NoError(t, s.Push(ctx, "b.tif", "TIFFSeriesReader"))

	require.NoError(t, s.Remove(ctx, "a.tif"))
	require.NoError(t, s.Remove(ctx, "missing.tif"))
	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.tif"}, paths(entries))

	require.NoError(t, s.Clear(ctx))
	entries, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "recent.db")
	s, err := Open(ctx, path, 5)
	require.NoError(t, err)
	require.NoError(t, s.Push(ctx, "a.tif", "TIFFSeriesReader"))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path, 5)
	require.NoError(t, err)
	defer reopened.Close()
	entries, err := reopened.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"a.tif"}, paths(entries))
}

func TestOpen_Validation(t *testing.T) {
	_, err := Open(t.Context(), "", 5)
	assert.Error(t, err)
	_, err = Open(t.Context(), ":memory:", 0)
	assert.Error(t, err)
	assert.NoError(t, openMemory(t, 1).Close())
	assert.NoError(t, (*Store)(nil).Close())
	assert.Error(t, openMemory(t, 1).Push(t.Context(), " ", "x"))
}
