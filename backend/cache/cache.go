// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cache

import (
	"bytes"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/soros1321/polkadot/common"
	"github.com/soros1321/polkadot/statemachine"
)

// store is the subset of the backend.Store interface required by the cache.
type store interface {
	Storage(key []byte) ([]byte, error)
	Apply(updates []common.Update) error
	ForEach(visit func(key, value []byte) error) error
	Close() error
}

// Store is a read-through LRU cache in front of another store. All writes
// are forwarded to the underlying store and the cached entries are updated
// accordingly.
type Store struct {
	store store
	cache *lru.Cache
}

func New(store store, size int) (*Store, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &Store{store: store, cache: cache}, nil
}

func (s *Store) Storage(key []byte) ([]byte, error) {
	if value, found := s.cache.Get(string(key)); found {
		return bytes.Clone(value.([]byte)), nil
	}
	value, err := s.store.Storage(key)
	if err != nil {
		return nil, err
	}
	s.cache.Add(string(key), bytes.Clone(value))
	return value, nil
}

func (s *Store) Code() ([]byte, error) {
	return s.Storage([]byte(statemachine.CodeKey))
}

func (s *Store) Apply(updates []common.Update) error {
	if err := s.store.Apply(updates); err != nil {
		// Parts of the updates may have been applied.
		s.cache.Purge()
		return err
	}
	for _, update := range updates {
		if update.IsDeletion() {
			s.cache.Add(string(update.Key), []byte(nil))
		} else {
			s.cache.Add(string(update.Key), bytes.Clone(update.Value))
		}
	}
	return nil
}

func (s *Store) ForEach(visit func(key, value []byte) error) error {
	return s.store.ForEach(visit)
}

func (s *Store) Close() error {
	s.cache.Purge()
	return s.store.Close()
}
