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
	"testing"

	"github.com/soros1321/polkadot/common"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestExecute_FailingCallLeavesOverlayUnchanged(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	exec := NewMockCodeExecutor(ctrl)
	injected := common.ConstError("trap")

	backend.EXPECT().Storage([]byte(CodeKey)).Return([]byte("code"), nil)
	exec.EXPECT().Call(gomock.Any(), []byte("code"), "transfer", CallData{1}).DoAndReturn(
		func(ext Externalities, _ []byte, _ string, _ CallData) ([]byte, error) {
			ext.SetStorage([]byte("a"), []byte("changed"))
			ext.SetStorage([]byte("b"), []byte("new"))
			ext.SetCode([]byte("other code"))
			return nil, injected
		})

	overlay := NewOverlayedChanges()
	overlay.SetStorage([]byte("a"), []byte("original"))
	overlay.CommitProspective()
	keys := [][]byte{[]byte("a"), []byte("b"), []byte(CodeKey)}
	before := snapshot(overlay, keys)

	out, err := Execute(backend, overlay, exec, "transfer", CallData{1})
	require.ErrorIs(err, ErrExecutor)
	require.ErrorIs(err, injected)
	require.Nil(out)

	require.Equal(before, snapshot(overlay, keys))
	require.Equal(0, overlay.prospective.Len())
}

func TestExecute_SuccessfulCallCommitsWrites(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	exec := NewMockCodeExecutor(ctrl)

	backend.EXPECT().Storage([]byte(CodeKey)).Return(nil, nil)
	exec.EXPECT().Call(gomock.Any(), gomock.Any(), "set", gomock.Any()).DoAndReturn(
		func(ext Externalities, code []byte, _ string, _ CallData) ([]byte, error) {
			require.Empty(code)
			ext.SetStorage([]byte("k"), []byte("v"))
			return []byte("done"), nil
		})

	overlay := NewOverlayedChanges()
	out, err := Execute(backend, overlay, exec, "set", nil)
	require.NoError(err)
	require.Equal([]byte("done"), out)

	value, found := overlay.Storage([]byte("k"))
	require.True(found)
	require.Equal([]byte("v"), value)

	overlay.DiscardProspective()
	value, found = overlay.Storage([]byte("k"))
	require.True(found)
	require.Equal([]byte("v"), value)
}

func TestExecute_ReplacedCodeIsUsedByLaterCalls(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	exec := NewMockCodeExecutor(ctrl)

	backend.EXPECT().Storage([]byte(CodeKey)).Return([]byte("v1"), nil)
	gomock.InOrder(
		exec.EXPECT().Call(gomock.Any(), []byte("v1"), "upgrade", gomock.Any()).DoAndReturn(
			func(ext Externalities, _ []byte, _ string, _ CallData) ([]byte, error) {
				ext.SetCode([]byte("v2"))
				return nil, nil
			}),
		exec.EXPECT().Call(gomock.Any(), []byte("v2"), "run", gomock.Any()).Return(nil, nil),
	)

	overlay := NewOverlayedChanges()
	_, err := Execute(backend, overlay, exec, "upgrade", nil)
	require.NoError(err)
	_, err = Execute(backend, overlay, exec, "run", nil)
	require.NoError(err)
}

func TestExecute_CodeReplacementOfFailedCallIsRolledBack(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	exec := NewMockCodeExecutor(ctrl)

	backend.EXPECT().Storage([]byte(CodeKey)).Return([]byte("v1"), nil).Times(2)
	gomock.InOrder(
		exec.EXPECT().Call(gomock.Any(), []byte("v1"), "upgrade", gomock.Any()).DoAndReturn(
			func(ext Externalities, _ []byte, _ string, _ CallData) ([]byte, error) {
				ext.SetCode([]byte("v2"))
				return nil, common.ConstError("out of gas")
			}),
		exec.EXPECT().Call(gomock.Any(), []byte("v1"), "run", gomock.Any()).Return(nil, nil),
	)

	overlay := NewOverlayedChanges()
	_, err := Execute(backend, overlay, exec, "upgrade", nil)
	require.Error(err)
	_, err = Execute(backend, overlay, exec, "run", nil)
	require.NoError(err)
}

func TestExecute_BackendFailureLoadingCodeIsReported(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	exec := NewMockCodeExecutor(ctrl) // not called
	injected := common.ConstError("corrupted node")

	backend.EXPECT().Storage([]byte(CodeKey)).Return(nil, injected)

	overlay := NewOverlayedChanges()
	_, err := Execute(backend, overlay, exec, "run", nil)
	require.ErrorIs(err, ErrBackend)
	require.ErrorIs(err, injected)
	require.True(overlay.IsEmpty())
}

func TestExecute_BackendFailureDuringCallIsReportedAsBackendError(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	exec := NewMockCodeExecutor(ctrl)
	injected := common.ConstError("io failure")

	backend.EXPECT().Storage([]byte(CodeKey)).Return([]byte("code"), nil)
	backend.EXPECT().Storage([]byte("missing")).Return(nil, injected)
	exec.EXPECT().Call(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ext Externalities, _ []byte, _ string, _ CallData) ([]byte, error) {
			ext.SetStorage([]byte("written"), []byte{1})
			_, err := ext.Storage([]byte("missing"))
			return nil, err
		})

	overlay := NewOverlayedChanges()
	_, err := Execute(backend, overlay, exec, "run", nil)
	require.ErrorIs(err, ErrBackend)
	require.NotErrorIs(err, ErrExecutor)
	require.ErrorIs(err, injected)
	require.True(overlay.IsEmpty())
}

func TestExecute_OverlayCodeTakesPrecedenceOverBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl) // not consulted
	exec := NewMockCodeExecutor(ctrl)

	exec.EXPECT().Call(gomock.Any(), []byte("overlay code"), "run", gomock.Any()).Return([]byte{1}, nil)

	overlay := NewOverlayedChanges()
	overlay.SetCode([]byte("overlay code"))
	overlay.CommitProspective()

	out, err := Execute(backend, overlay, exec, "run", nil)
	require.NoError(t, err)
	require.Equal(t, []byte{1}, out)
}
