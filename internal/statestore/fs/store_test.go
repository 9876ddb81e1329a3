package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/voxview/internal/statestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	// Arrange
	ctx := t.Context()
	root := filepath.Join(t.TempDir(), "states")
	s, err := New(root)
	require.NoError(t, err)

	// Act
	require.NoError(t, s.Put(ctx, "sessions/tomo.vxs", []byte("first")))
	require.NoError(t, s.Put(ctx, "sessions/tomo.vxs", []byte("second")))
	require.NoError(t, s.Put(ctx, "other.xml", []byte("<tomviz/>")))

	// Assert
	got, err := s.Get(ctx, "sessions/tomo.vxs")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
	onDisk, err := os.ReadFile(filepath.Join(root, "sessions", "tomo.vxs"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(onDisk))

	keys, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"other.xml", "sessions/tomo.vxs"}, keys)
	keys, err = s.List(ctx, "sessions/")
	require.NoError(t, err)
	assert.Equal(t, []string{"sessions/tomo.vxs"}, keys)
}

func TestStore_MissingAndInvalidKeys(t *testing.T) {
	ctx := t.Context()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(ctx, "nope.vxs")
	assert.ErrorIs(t, err, statestore.ErrNotFound)
	assert.NoError(t, s.Delete(ctx, "nope.vxs"))
	assert.ErrorIs(t, s.Put(ctx, "../escape.vxs", nil), statestore.ErrInvalidKey)
	assert.Equal(t, statestore.DriverFilesystem, s.Driver())
}

func TestStore_Delete(t *testing.T) {
	ctx := t.Context()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "a.vxs", []byte("x")))

	require.NoError(t, s.Delete(ctx, "a.vxs"))

	keys, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestNew_RequiresRoot(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}
