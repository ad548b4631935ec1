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
	"sync"

	"github.com/soros1321/polkadot/common"
)

const (
	ErrInvalidPointer = common.ConstError("invalid pointer")
	ErrDoubleFree     = common.ConstError("double free")
)

// Pointer addresses a buffer on the heap of a host.
type Pointer uint32

// Host is the environment a runtime is executed in. It provides a heap of
// buffers shared with the host and the imported host function.
type Host struct {
	mu       sync.Mutex
	heap     map[Pointer][]byte
	freed    map[Pointer]struct{}
	next     Pointer
	imported func(uint64) uint64
}

// NewHost creates a host with an empty heap providing the given function to
// runtimes.
func NewHost(imported func(uint64) uint64) *Host {
	return &Host{
		heap:     map[Pointer][]byte{},
		freed:    map[Pointer]struct{}{},
		next:     1, // < 0 is the null pointer
		imported: imported,
	}
}

// Allocate places a copy of the given data on the heap.
func (h *Host) Allocate(data []byte) Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	ptr := h.next
	h.next++
	buffer := make([]byte, len(data))
	copy(buffer, data)
	h.heap[ptr] = buffer
	return ptr
}

// Read returns the buffer at the given pointer.
func (h *Host) Read(ptr Pointer) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	buffer, found := h.heap[ptr]
	if !found {
		return nil, ErrInvalidPointer
	}
	return buffer, nil
}

// Free releases the buffer at the given pointer.
func (h *Host) Free(ptr Pointer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, found := h.heap[ptr]; !found {
		if _, freed := h.freed[ptr]; freed {
			return ErrDoubleFree
		}
		return ErrInvalidPointer
	}
	delete(h.heap, ptr)
	h.freed[ptr] = struct{}{}
	return nil
}

// Allocated returns the number of live buffers on the heap.
func (h *Host) Allocated() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.heap)
}

// Imported calls the host function.
func (h *Host) Imported(n uint64) uint64 {
	if h.imported == nil {
		return n
	}
	return h.imported(n)
}
