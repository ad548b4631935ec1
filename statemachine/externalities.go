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

//go:generate mockgen -source externalities.go -destination externalities_mocks.go -package statemachine

// Reserved storage keys. User keys are not expected to start with a zero byte.
const (
	CodeKey            = "\x00code"
	ValidatorCountKey  = "\x00validator_count"
	ValidatorKeyPrefix = "\x00validator"
)

// Externalities is the storage surface offered to a code executor during a
// call. Derived operations, like Validators, are provided as functions on
// top of this interface.
type Externalities interface {
	// Code returns the current code blob.
	Code() ([]byte, error)

	// Storage returns the current value of the given key. Missing keys
	// produce an empty value.
	Storage(key []byte) ([]byte, error)

	// SetStorage records a write, effective immediately for later reads
	// through the same externalities.
	SetStorage(key []byte, value []byte)

	// SetCode records a replacement of the code blob.
	SetCode(code []byte)
}
