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
	"fmt"

	"github.com/holiman/uint256"
)

// The validator list is embedded in the flat key space as a counter stored
// under ValidatorCountKey and one entry per index stored under
// ValidatorKeyPrefix followed by the index suffix. Counters and suffixes use
// a variable-length little-endian encoding without length prefix; zero is
// encoded as an empty byte string.

// maxPreallocatedValidators bounds the capacity reserved up front for a
// validator list, since the count is read from untrusted state.
const maxPreallocatedValidators = 1024

// AppendIndex appends the variable-length little-endian encoding of the
// given value to dst.
func AppendIndex(dst []byte, value uint64) []byte {
	for value > 0 {
		dst = append(dst, byte(value))
		value >>= 8
	}
	return dst
}

// EncodeIndex returns the variable-length little-endian encoding of value.
func EncodeIndex(value uint64) []byte {
	return AppendIndex(nil, value)
}

// DecodeCount decodes a variable-length little-endian counter. Counters
// exceeding 64 bits are rejected with ErrCountOverflow.
func DecodeCount(data []byte) (uint64, error) {
	if len(data) > 32 {
		return 0, fmt.Errorf("%w: %d bytes", ErrCountOverflow, len(data))
	}
	// most significant byte first, i.e. in reverse storage order
	reversed := make([]byte, len(data))
	for i, b := range data {
		reversed[len(data)-1-i] = b
	}
	var count uint256.Int
	count.SetBytes(reversed)
	if !count.IsUint64() {
		return 0, fmt.Errorf("%w: %s", ErrCountOverflow, count.Dec())
	}
	return count.Uint64(), nil
}

// ValidatorKey returns the storage key of the validator at the given index.
// The key of index 0 is the bare prefix.
func ValidatorKey(index uint64) []byte {
	return AppendIndex([]byte(ValidatorKeyPrefix), index)
}

// Validators reads the current validator list through the given
// externalities. Any failed read aborts the operation.
func Validators(ext Externalities) ([][]byte, error) {
	raw, err := ext.Storage([]byte(ValidatorCountKey))
	if err != nil {
		return nil, err
	}
	count, err := DecodeCount(raw)
	if err != nil {
		return nil, err
	}
	res := make([][]byte, 0, min(count, maxPreallocatedValidators))
	for i := uint64(0); i < count; i++ {
		validator, err := ext.Storage(ValidatorKey(i))
		if err != nil {
			return nil, err
		}
		res = append(res, validator)
	}
	return res, nil
}

// SetValidators replaces the validator list. Entries beyond the new length
// are deleted. The count is always written as a non-empty value, so a
// cleared list hides any count held by the backend.
func SetValidators(ext Externalities, validators [][]byte) error {
	raw, err := ext.Storage([]byte(ValidatorCountKey))
	if err != nil {
		return err
	}
	previous, err := DecodeCount(raw)
	if err != nil {
		return err
	}
	for i, validator := range validators {
		ext.SetStorage(ValidatorKey(uint64(i)), validator)
	}
	for i := uint64(len(validators)); i < previous; i++ {
		ext.SetStorage(ValidatorKey(i), nil)
	}
	count := EncodeIndex(uint64(len(validators)))
	if len(count) == 0 {
		count = []byte{0}
	}
	ext.SetStorage([]byte(ValidatorCountKey), count)
	return nil
}
