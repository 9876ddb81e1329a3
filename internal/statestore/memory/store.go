// Package memory provides an ephemeral, thread-safe, in-memory
// implementation of statestore.Store. States live as long as the process.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/specialistvlad/voxview/internal/statestore"
)

// Store keeps states in a sync.Map keyed by state key. Values are copied on
// the way in and out so callers cannot mutate stored documents.
type Store struct {
	states sync.Map // Key: state key, Value: []byte
}

var _ statestore.Store = (*Store)(nil)

// New creates a new, empty in-memory state store.
func New() *Store {
	return &Store{}
}

func (s *Store) Driver() statestore.Driver { return statestore.DriverMemory }

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := statestore.ValidateKey(key); err != nil {
		return err
	}
	s.states.Store(key, slices.Clone(data))
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := statestore.ValidateKey(key); err != nil {
		return nil, err
	}
	v, ok := s.states.Load(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", statestore.ErrNotFound, key)
	}
	return slices.Clone(v.([]byte)), nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	s.states.Range(func(k, _ any) bool {
		if key := k.(string); strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return true
	})
	slices.Sort(keys)
	return keys, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := statestore.ValidateKey(key); err != nil {
		return err
	}
	s.states.Delete(key)
	return nil
}
