package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	// --- Arrange ---
	// A config file with a syntax error makes app.NewApp panic while loading.
	invalidHCL := `
		session {
			default_modules = ["Outline"
	`
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "voxview.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte(invalidHCL), 0o600))
	dataPath := filepath.Join(tempDir, "a.tif")
	require.NoError(t, os.WriteFile(dataPath, nil, 0o600))

	args := []string{"-config", configPath, dataPath}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, args)

	// --- Assert ---
	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "application startup panicked")
	require.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	args := []string{"-h"}
	out := &bytes.Buffer{}

	err := run(context.Background(), out, args)

	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	err := run(context.Background(), out, args)

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_SavesState(t *testing.T) {
	// --- Arrange ---
	tempDir := t.TempDir()
	statesDir := filepath.Join(tempDir, "states")
	configPath := filepath.Join(tempDir, "voxview.hcl")
	config := `
state_store {
  driver = "fs"
  path   = "` + filepath.ToSlash(statesDir) + `"
}
`
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o600))
	dataPath := filepath.Join(tempDir, "a.tif")
	require.NoError(t, os.WriteFile(dataPath, nil, 0o600))
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, []string{"-config", configPath, "-save", "session.vxs", dataPath})

	// --- Assert ---
	require.NoError(t, err)
	saved, err := os.ReadFile(filepath.Join(statesDir, "session.vxs"))
	require.NoError(t, err)
	require.Contains(t, string(saved), "TIFFSeriesReader")
	require.Contains(t, string(saved), "Orthogonal Slice")
}
