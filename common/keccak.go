// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/sha3"
)

// Hash is a 32-byte Keccak256 digest.
type Hash [32]byte

func (h Hash) String() string {
	return hexutil.Encode(h[:])
}

// Keccak256 computes the Keccak256 hash of the given data.
func Keccak256(data []byte) Hash {
	var res Hash
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	hasher.Sum(res[:0])
	return res
}

// Keccak256Of hashes the concatenation of the given byte slices.
func Keccak256Of(parts ...[]byte) Hash {
	var res Hash
	hasher := sha3.NewLegacyKeccak256()
	for _, part := range parts {
		hasher.Write(part)
	}
	hasher.Sum(res[:0])
	return res
}
