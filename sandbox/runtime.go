// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package sandbox

import (
	"encoding/binary"
	"fmt"
)

// Runtime is a minimal guest exercising the interface between a runtime
// and its host: calls of host functions and passing ownership of data.
type Runtime struct {
	host *Host
}

func NewRuntime(host *Host) *Runtime {
	return &Runtime{host: host}
}

// Test calls the imported function with the given value and returns its
// result doubled. The intermediate result is kept on the heap.
func (r *Runtime) Test(value uint64) (uint64, error) {
	var buffer [8]byte
	binary.LittleEndian.PutUint64(buffer[:], r.host.Imported(value))
	ptr := r.host.Allocate(buffer[:])
	boxed, err := r.host.Read(ptr)
	if err != nil {
		return 0, err
	}
	result := binary.LittleEndian.Uint64(boxed)
	if err := r.host.Free(ptr); err != nil {
		return 0, err
	}
	return result * 2, nil
}

// TestDataIn takes ownership of the buffer at the given pointer. The buffer
// is copied and freed, then the imported function is called for each byte.
func (r *Runtime) TestDataIn(ptr Pointer) error {
	data, err := r.host.Read(ptr)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	input := make([]byte, len(data))
	copy(input, data)
	if err := r.host.Free(ptr); err != nil {
		return fmt.Errorf("failed to free input: %w", err)
	}
	for _, b := range input {
		r.host.Imported(uint64(b))
	}
	return nil
}
