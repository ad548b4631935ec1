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
	"errors"
	"testing"

	"github.com/soros1321/polkadot/backend/memory"
	"github.com/soros1321/polkadot/common"
	"github.com/soros1321/polkadot/statemachine"
	"github.com/stretchr/testify/require"
)

var _ statemachine.Backend = (*Store)(nil)

type countingStore struct {
	*memory.Store
	reads    int
	applyErr error
}

func (s *countingStore) Storage(key []byte) ([]byte, error) {
	s.reads++
	return s.Store.Storage(key)
}

func (s *countingStore) Apply(updates []common.Update) error {
	if s.applyErr != nil {
		return s.applyErr
	}
	return s.Store.Apply(updates)
}

func newCountingStore() *countingStore {
	return &countingStore{Store: memory.New()}
}

func TestStore_InvalidSizeIsRejected(t *testing.T) {
	_, err := New(newCountingStore(), 0)
	require.Error(t, err)
}

func TestStore_RepeatedReadsAreServedFromCache(t *testing.T) {
	require := require.New(t)
	inner := newCountingStore()
	require.NoError(inner.Store.Apply([]common.Update{{Key: []byte("k"), Value: []byte("v")}}))
	store, err := New(inner, 16)
	require.NoError(err)

	for i := 0; i < 3; i++ {
		val, err := store.Storage([]byte("k"))
		require.NoError(err)
		require.Equal([]byte("v"), val)
	}
	require.Equal(1, inner.reads)

	// Missing keys are cached as well.
	for i := 0; i < 3; i++ {
		val, err := store.Storage([]byte("missing"))
		require.NoError(err)
		require.Empty(val)
	}
	require.Equal(2, inner.reads)
}

func TestStore_WritesUpdateCachedEntries(t *testing.T) {
	require := require.New(t)
	inner := newCountingStore()
	store, err := New(inner, 16)
	require.NoError(err)

	_, err = store.Storage([]byte("k"))
	require.NoError(err)
	require.NoError(store.Apply([]common.Update{{Key: []byte("k"), Value: []byte("v")}}))

	val, err := store.Storage([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), val)

	require.NoError(store.Apply([]common.Update{{Key: []byte("k")}}))
	val, err = store.Storage([]byte("k"))
	require.NoError(err)
	require.Empty(val)
	require.Equal(1, inner.reads)

	val, err = inner.Store.Storage([]byte("k"))
	require.NoError(err)
	require.Empty(val)
}

func TestStore_FailedWritesInvalidateCache(t *testing.T) {
	require := require.New(t)
	inner := newCountingStore()
	store, err := New(inner, 16)
	require.NoError(err)

	_, err = store.Storage([]byte("k"))
	require.NoError(err)

	injected := errors.New("injected")
	inner.applyErr = injected
	err = store.Apply([]common.Update{{Key: []byte("k"), Value: []byte("v")}})
	require.ErrorIs(err, injected)
	require.Equal(0, store.cache.Len())

	_, err = store.Storage([]byte("k"))
	require.NoError(err)
	require.Equal(2, inner.reads)
}

func TestStore_CodeIsReadThroughCache(t *testing.T) {
	require := require.New(t)
	inner := newCountingStore()
	store, err := New(inner, 16)
	require.NoError(err)
	require.NoError(store.Apply([]common.Update{{Key: []byte(statemachine.CodeKey), Value: []byte("code")}}))

	code, err := store.Code()
	require.NoError(err)
	require.Equal([]byte("code"), code)
	require.Equal(0, inner.reads)
	require.NoError(store.Close())
}

func TestStore_ReturnedValuesCanBeModifiedByCaller(t *testing.T) {
	require := require.New(t)
	inner := newCountingStore()
	require.NoError(inner.Store.Apply([]common.Update{{Key: []byte("k"), Value: []byte{1, 2}}}))
	store, err := New(inner, 16)
	require.NoError(err)

	// first read fills the cache, second read is served from it
	for i := 0; i < 2; i++ {
		val, err := store.Storage([]byte("k"))
		require.NoError(err)
		require.Equal([]byte{1, 2}, val)
		val[0] = 9
	}

	val, err := store.Storage([]byte("k"))
	require.NoError(err)
	require.Equal([]byte{1, 2}, val)
	require.Equal(1, inner.reads)
}
