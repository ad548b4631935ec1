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

import "fmt"

// Ext is the Externalities implementation used by Execute. It reads through
// an overlay into a backend and records all writes in the overlay. An Ext is
// only valid for the duration of a single call.
type Ext struct {
	overlay *OverlayedChanges
	backend Backend
}

// NewExt creates externalities writing to the given overlay and reading
// from the overlay and the backend.
func NewExt(backend Backend, overlay *OverlayedChanges) *Ext {
	return &Ext{
		overlay: overlay,
		backend: backend,
	}
}

func (e *Ext) Code() ([]byte, error) {
	if code, found := e.overlay.Code(); found {
		return code, nil
	}
	code, err := e.backend.Code()
	if err != nil {
		return nil, newBackendError(fmt.Errorf("failed to load code: %w", err))
	}
	return code, nil
}

func (e *Ext) Storage(key []byte) ([]byte, error) {
	if value, found := e.overlay.Storage(key); found {
		return value, nil
	}
	value, err := e.backend.Storage(key)
	if err != nil {
		return nil, newBackendError(err)
	}
	return value, nil
}

func (e *Ext) SetStorage(key []byte, value []byte) {
	e.overlay.SetStorage(key, value)
}

func (e *Ext) SetCode(code []byte) {
	e.overlay.SetCode(code)
}
