// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/soros1321/polkadot/backend"
	"github.com/soros1321/polkadot/common"
	"github.com/soros1321/polkadot/statemachine"
)

const ErrClosed = common.ConstError("session is closed")

// Session executes calls against a store. Changes of successful calls are
// kept in an overlay until they are flushed into the store. A Session is
// safe for concurrent use; calls are executed one at a time.
type Session struct {
	mu       sync.Mutex
	store    backend.Store
	overlay  *statemachine.OverlayedChanges
	executor statemachine.CodeExecutor
	closed   bool
}

// New creates a session on the given store. The session takes ownership of
// the store and closes it when being closed.
func New(store backend.Store, executor statemachine.CodeExecutor) *Session {
	return &Session{
		store:    store,
		overlay:  statemachine.NewOverlayedChanges(),
		executor: executor,
	}
}

// Call executes the given method of the current code.
func (s *Session) Call(method string, data statemachine.CallData) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return statemachine.Execute(s.store, s.overlay, s.executor, method, data)
}

// Storage returns the current value of the given key, including unflushed
// changes.
func (s *Session) Storage(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return statemachine.NewExt(s.store, s.overlay).Storage(key)
}

// Code returns the current code blob, including unflushed changes.
func (s *Session) Code() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return statemachine.NewExt(s.store, s.overlay).Code()
}

// Validators returns the current validator list, including unflushed
// changes.
func (s *Session) Validators() ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return statemachine.Validators(statemachine.NewExt(s.store, s.overlay))
}

// Pending returns whether there are unflushed changes.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.overlay.IsEmpty()
}

// Flush writes all changes of successful calls into the store and returns
// the number of written entries.
func (s *Session) Flush() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.flush()
}

func (s *Session) flush() (int, error) {
	updates, err := s.overlay.DrainCommitted()
	if err != nil {
		return 0, err
	}
	if len(updates) == 0 {
		return 0, nil
	}
	if err := s.store.Apply(updates); err != nil {
		// Keep the changes for another attempt.
		s.overlay.RestoreCommitted(updates)
		return 0, fmt.Errorf("failed to flush %d updates: %w", len(updates), err)
	}
	log.Info("Flushed state changes", "updates", len(updates))
	return len(updates), nil
}

// Close flushes pending changes and closes the underlying store.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	_, err := s.flush()
	return errors.Join(err, s.store.Close())
}
