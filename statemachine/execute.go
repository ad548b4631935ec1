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
	"bytes"

	"github.com/ethereum/go-ethereum/log"
)

// Execute runs a call of the given method using the state in the backend
// and the overlay. If the call succeeds, all of its writes are committed in
// the overlay and the output of the executor is returned. If it fails, no
// write of the call remains in the overlay and the error is returned.
//
// Changes to the code follow the same rules as any other write: code
// replaced by a successful call is used by subsequent calls using the same
// overlay.
func Execute(
	backend Backend,
	overlay *OverlayedChanges,
	exec CodeExecutor,
	method string,
	data CallData,
) ([]byte, error) {
	log.Trace("Executing call", "method", method, "data", len(data))
	out, err := call(backend, overlay, exec, method, data)
	if err != nil {
		overlay.DiscardProspective()
		log.Debug("Call failed, discarding changes", "method", method, "err", err)
		return nil, err
	}
	overlay.CommitProspective()
	log.Debug("Call succeeded, committing changes", "method", method, "output", len(out))
	return out, nil
}

func call(
	backend Backend,
	overlay *OverlayedChanges,
	exec CodeExecutor,
	method string,
	data CallData,
) ([]byte, error) {
	ext := NewExt(backend, overlay)
	code, err := ext.Storage([]byte(CodeKey))
	if err != nil {
		return nil, err
	}
	out, err := exec.Call(ext, bytes.Clone(code), method, data)
	if err != nil {
		return nil, asExecutorError(err)
	}
	return out, nil
}
