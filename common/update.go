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

import "bytes"

// Update is a single storage mutation. An empty Value is a deletion
// tombstone; no store ever holds an empty value.
type Update struct {
	Key   []byte
	Value []byte
}

// IsDeletion reports whether the update removes its key.
func (u Update) IsDeletion() bool {
	return len(u.Value) == 0
}

// Equal compares two updates by content. Nil and empty values are
// considered equal since both denote a deletion.
func (u Update) Equal(other Update) bool {
	return bytes.Equal(u.Key, other.Key) && bytes.Equal(u.Value, other.Value)
}
