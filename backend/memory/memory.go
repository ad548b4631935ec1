// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package memory

import (
	"sync"

	"github.com/soros1321/polkadot/common"
	"github.com/soros1321/polkadot/statemachine"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Store is a simple in-memory key-value store, mainly intended for tests
// and short-lived sessions. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func New() *Store {
	return &Store{store: make(map[string][]byte)}
}

func (s *Store) Storage(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.store[string(key)]), nil
}

func (s *Store) Code() ([]byte, error) {
	return s.Storage([]byte(statemachine.CodeKey))
}

func (s *Store) Apply(updates []common.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, update := range updates {
		if update.IsDeletion() {
			delete(s.store, string(update.Key))
		} else {
			s.store[string(update.Key)] = slices.Clone(update.Value)
		}
	}
	return nil
}

// ForEach visits all entries in key order.
func (s *Store) ForEach(visit func(key, value []byte) error) error {
	s.mu.RLock()
	keys := maps.Keys(s.store)
	s.mu.RUnlock()
	slices.Sort(keys)
	for _, key := range keys {
		value, _ := s.Storage([]byte(key))
		if len(value) == 0 {
			continue // deleted in the meantime
		}
		if err := visit([]byte(key), value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	// No resources to clean up for in-memory store.
	return nil
}
