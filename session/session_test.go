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
	"testing"

	"github.com/soros1321/polkadot/backend/memory"
	"github.com/soros1321/polkadot/common"
	"github.com/soros1321/polkadot/executor/native"
	"github.com/soros1321/polkadot/statemachine"
	"github.com/stretchr/testify/require"
)

func newKvSession(t *testing.T) (*Session, *memory.Store) {
	store := memory.New()
	require.NoError(t, store.Apply([]common.Update{
		{Key: []byte(statemachine.CodeKey), Value: native.KvModuleCode},
	}))
	return New(store, native.NewExecutor()), store
}

func TestSession_ChangesAreVisibleBeforeFlush(t *testing.T) {
	require := require.New(t)
	session, store := newKvSession(t)

	_, err := session.Call("set", native.EncodeEntry([]byte("k"), []byte("v")))
	require.NoError(err)
	require.True(session.Pending())

	value, err := session.Storage([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), value)

	value, err = store.Storage([]byte("k"))
	require.NoError(err)
	require.Empty(value)
}

func TestSession_FlushWritesChangesToStore(t *testing.T) {
	require := require.New(t)
	session, store := newKvSession(t)

	_, err := session.Call("set", native.EncodeEntry([]byte("k"), []byte("v")))
	require.NoError(err)
	_, err = session.Call("set_validators", native.EncodeList([][]byte{[]byte("a"), []byte("b")}))
	require.NoError(err)

	count, err := session.Flush()
	require.NoError(err)
	require.Equal(4, count) // k, the validator count and two entries
	require.False(session.Pending())

	value, err := store.Storage([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), value)

	validators, err := statemachine.Validators(statemachine.NewExt(store, statemachine.NewOverlayedChanges()))
	require.NoError(err)
	require.Equal([][]byte{[]byte("a"), []byte("b")}, validators)

	count, err = session.Flush()
	require.NoError(err)
	require.Equal(0, count)
}

func TestSession_FailedCallsLeaveNoTrace(t *testing.T) {
	require := require.New(t)
	session, _ := newKvSession(t)

	_, err := session.Call("fail", native.EncodeEntry([]byte("k"), []byte("v")))
	require.ErrorIs(err, native.ErrCallFailed)
	require.False(session.Pending())
}

func TestSession_CodeAndValidatorsIncludeUnflushedChanges(t *testing.T) {
	require := require.New(t)
	session, _ := newKvSession(t)

	code, err := session.Code()
	require.NoError(err)
	require.Equal(native.KvModuleCode, code)

	_, err = session.Call("set_validators", native.EncodeList([][]byte{[]byte("x")}))
	require.NoError(err)
	validators, err := session.Validators()
	require.NoError(err)
	require.Equal([][]byte{[]byte("x")}, validators)
}

type failingStore struct {
	*memory.Store
	err error
}

func (s *failingStore) Apply(updates []common.Update) error {
	if s.err != nil {
		return s.err
	}
	return s.Store.Apply(updates)
}

func TestSession_FailedFlushKeepsChanges(t *testing.T) {
	require := require.New(t)
	inner, _ := newKvSession(t)
	store := &failingStore{Store: inner.store.(*memory.Store), err: errors.New("injected")}
	session := New(store, native.NewExecutor())

	_, err := session.Call("set", native.EncodeEntry([]byte("k"), []byte("v")))
	require.NoError(err)
	_, err = session.Flush()
	require.ErrorIs(err, store.err)
	require.True(session.Pending())

	store.err = nil
	count, err := session.Flush()
	require.NoError(err)
	require.Equal(1, count)

	value, err := store.Storage([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), value)
}

func TestSession_CloseFlushesAndRejectsFurtherUse(t *testing.T) {
	require := require.New(t)
	session, store := newKvSession(t)

	_, err := session.Call("set", native.EncodeEntry([]byte("k"), []byte("v")))
	require.NoError(err)
	require.NoError(session.Close())
	require.NoError(session.Close())

	value, err := store.Storage([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), value)

	_, err = session.Call("get", native.EncodeBytes([]byte("k")))
	require.ErrorIs(err, ErrClosed)
	_, err = session.Storage([]byte("k"))
	require.ErrorIs(err, ErrClosed)
	_, err = session.Flush()
	require.ErrorIs(err, ErrClosed)
}

func TestSession_ValidatorsCanBeClearedAfterFlush(t *testing.T) {
	require := require.New(t)
	session, store := newKvSession(t)

	_, err := session.Call("set_validators", native.EncodeList([][]byte{[]byte("a"), []byte("b")}))
	require.NoError(err)
	_, err = session.Flush()
	require.NoError(err)

	_, err = session.Call("set_validators", native.EncodeList(nil))
	require.NoError(err)
	validators, err := session.Validators()
	require.NoError(err)
	require.Empty(validators)

	_, err = session.Flush()
	require.NoError(err)
	validators, err = session.Validators()
	require.NoError(err)
	require.Empty(validators)

	validators, err = statemachine.Validators(statemachine.NewExt(store, statemachine.NewOverlayedChanges()))
	require.NoError(err)
	require.Empty(validators)
}
