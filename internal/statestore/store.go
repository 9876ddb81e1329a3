// Package statestore defines where saved session states live. A state is an
// opaque encoded document addressed by a slash separated key such as
// "sessions/tomo.vxs".
package statestore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Driver identifies a concrete backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverMemory     Driver = "memory"
	DriverS3         Driver = "s3"
)

var (
	// ErrNotFound is returned by Get when no state is stored under a key.
	ErrNotFound = errors.New("state not found")
	// ErrInvalidKey is returned for keys that are empty, absolute or escape
	// the store root.
	ErrInvalidKey = errors.New("invalid state key")
)

// Store persists encoded state documents.
type Store interface {
	// Put writes data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error
	// Get returns the data stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// List returns the keys starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Driver() Driver
}

// ValidateKey rejects keys that cannot be stored identically by every
// backend.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	case strings.HasPrefix(key, "/"):
		return fmt.Errorf("%w %q: must be relative", ErrInvalidKey, key)
	case strings.HasSuffix(key, "/"):
		return fmt.Errorf("%w %q: must not end with a slash", ErrInvalidKey, key)
	case strings.ContainsRune(key, '\\'):
		return fmt.Errorf("%w %q: backslash", ErrInvalidKey, key)
	}
	if path.Clean(key) != key {
		return fmt.Errorf("%w %q: not in canonical form", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return fmt.Errorf("%w %q: escapes the store", ErrInvalidKey, key)
		}
	}
	return nil
}
