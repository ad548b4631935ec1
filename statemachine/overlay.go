// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package statemachine

import (
	"bytes"

	"github.com/soros1321/polkadot/common"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// MemoryState is an in-memory section of the state. The zero value is an
// empty state ready to use.
type MemoryState struct {
	storage map[string][]byte
}

// Lookup returns the value recorded for the given key, if any. The result
// must not be modified by the caller.
func (s *MemoryState) Lookup(key []byte) ([]byte, bool) {
	value, found := s.storage[string(key)]
	return value, found
}

// Set records the given value for the key, replacing any previous value.
func (s *MemoryState) Set(key []byte, value []byte) {
	if s.storage == nil {
		s.storage = map[string][]byte{}
	}
	s.storage[string(key)] = value
}

// Apply applies the given updates in order. Updates with an empty value
// remove their key.
func (s *MemoryState) Apply(updates []common.Update) {
	for _, update := range updates {
		if update.IsDeletion() {
			delete(s.storage, string(update.Key))
		} else {
			s.Set(update.Key, update.Value)
		}
	}
}

// Len returns the number of recorded keys.
func (s *MemoryState) Len() int {
	return len(s.storage)
}

// drain removes all entries and returns them as updates in key order.
func (s *MemoryState) drain() []common.Update {
	keys := maps.Keys(s.storage)
	slices.Sort(keys)
	res := make([]common.Update, 0, len(keys))
	for _, key := range keys {
		res = append(res, common.Update{Key: []byte(key), Value: s.storage[key]})
	}
	clear(s.storage)
	return res
}

// OverlayedChanges are the changes to the state queried on top of a
// backend. Writes are staged in a prospective layer which is either merged
// into the committed layer or dropped as a whole.
//
// OverlayedChanges are not safe for concurrent use.
type OverlayedChanges struct {
	prospective MemoryState
	committed   MemoryState
}

// NewOverlayedChanges creates an empty overlay.
func NewOverlayedChanges() *OverlayedChanges {
	return &OverlayedChanges{}
}

// Storage resolves the given key in the prospective layer, then in the
// committed layer. Empty values are reported as not found.
func (o *OverlayedChanges) Storage(key []byte) ([]byte, bool) {
	value, found := o.prospective.Lookup(key)
	if !found {
		value, found = o.committed.Lookup(key)
	}
	if !found || len(value) == 0 {
		return nil, false
	}
	return value, true
}

// SetStorage records a prospective write. An empty value deletes the key
// once committed.
func (o *OverlayedChanges) SetStorage(key []byte, value []byte) {
	o.prospective.Set(key, bytes.Clone(value))
}

// Code returns the code recorded in the overlay, if any.
func (o *OverlayedChanges) Code() ([]byte, bool) {
	return o.Storage([]byte(CodeKey))
}

// SetCode records a prospective replacement of the code.
func (o *OverlayedChanges) SetCode(code []byte) {
	o.SetStorage([]byte(CodeKey), code)
}

// DiscardProspective drops all prospective changes.
func (o *OverlayedChanges) DiscardProspective() {
	clear(o.prospective.storage)
}

// CommitProspective merges all prospective changes into the committed
// layer, leaving the prospective layer empty.
func (o *OverlayedChanges) CommitProspective() {
	o.committed.Apply(o.prospective.drain())
}

// DrainCommitted removes all committed changes from the overlay and returns
// them ordered by key, e.g. for persisting them in a backend. It fails if
// there are prospective changes pending.
func (o *OverlayedChanges) DrainCommitted() ([]common.Update, error) {
	if o.prospective.Len() > 0 {
		return nil, ErrPendingProspective
	}
	return o.committed.drain(), nil
}

// RestoreCommitted puts changes obtained from DrainCommitted back into the
// committed layer. Entries committed in the meantime take precedence.
func (o *OverlayedChanges) RestoreCommitted(updates []common.Update) {
	for _, update := range updates {
		if _, found := o.committed.Lookup(update.Key); !found {
			o.committed.Set(update.Key, update.Value)
		}
	}
}

// IsEmpty reports whether neither layer holds any entry.
func (o *OverlayedChanges) IsEmpty() bool {
	return o.prospective.Len() == 0 && o.committed.Len() == 0
}
