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

//go:generate mockgen -source executor.go -destination executor_mocks.go -package statemachine

// CallData is the opaque input of a call.
type CallData []byte

// CodeExecutor is a code execution engine running calls against a code blob.
type CodeExecutor interface {
	// Call runs the given method of the code. All state access has to be
	// performed through the provided externalities.
	Call(ext Externalities, code []byte, method string, data CallData) ([]byte, error)
}
