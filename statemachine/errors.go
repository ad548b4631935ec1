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
	"errors"
	"fmt"

	"github.com/soros1321/polkadot/common"
)

const (
	// ErrBackend classifies failures to load state data from the backend.
	ErrBackend = common.ConstError("storage backend error")
	// ErrExecutor classifies failures of the code executor.
	ErrExecutor = common.ConstError("sub-call execution error")

	ErrPendingProspective = common.ConstError("prospective changes pending")
	ErrCountOverflow      = common.ConstError("validator count overflow")
)

// Error is the failure of a call, either caused by the backend or by the
// executor. The Kind is one of ErrBackend or ErrExecutor, the Cause is the
// error reported by the respective capability.
type Error struct {
	Kind  common.ConstError
	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrBackend:
		return fmt.Sprintf("Storage backend error: %v", e.Cause)
	case ErrExecutor:
		return fmt.Sprintf("Sub-call execution error: %v", e.Cause)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Cause)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Cause}
}

func newBackendError(cause error) *Error {
	return &Error{Kind: ErrBackend, Cause: cause}
}

// asExecutorError classifies the given error as an executor failure unless
// it already carries a classification, e.g. a backend error forwarded by the
// executor.
func asExecutorError(err error) error {
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}
	return &Error{Kind: ErrExecutor, Cause: err}
}
