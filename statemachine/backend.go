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

//go:generate mockgen -source backend.go -destination backend_mocks.go -package statemachine

// Backend is the persisted state consulted for all keys not covered by an
// overlay. It is never modified by this package.
type Backend interface {
	// Storage returns the value stored for the given key. Missing keys
	// produce an empty value and no error.
	Storage(key []byte) ([]byte, error)

	// Code returns the code blob stored under CodeKey.
	Code() ([]byte, error)
}
