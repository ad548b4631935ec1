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
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/soros1321/polkadot/executor/native"
	"github.com/soros1321/polkadot/statemachine"
)

// ModuleCode is the code blob selecting the sandbox module.
var ModuleCode = []byte("native:sandbox:1")

// ImportedSumKey holds the rlp encoded sum of all values passed to the
// imported host function by the sandbox module.
const ImportedSumKey = "\x00sandbox_imported_sum"

// Module runs the sandbox runtime as a native module. Each call uses a
// fresh host whose imported function returns its argument and accumulates
// it in the state:
//
//	test         rlp(uint64) returns rlp(uint64), twice the input
//	test_data_in raw bytes   passes the bytes to the runtime
func Module() *native.Module {
	return &native.Module{
		Name: "sandbox",
		Code: ModuleCode,
		Methods: map[string]native.Method{
			"test":         runTest,
			"test_data_in": runTestDataIn,
		},
	}
}

func runTest(ext statemachine.Externalities, data statemachine.CallData) ([]byte, error) {
	var value uint64
	if err := rlp.DecodeBytes(data, &value); err != nil {
		return nil, fmt.Errorf("invalid test input: %w", err)
	}
	var result uint64
	err := withRuntime(ext, func(runtime *Runtime, _ *Host) (err error) {
		result, err = runtime.Test(value)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rlp.EncodeToBytes(result)
}

func runTestDataIn(ext statemachine.Externalities, data statemachine.CallData) ([]byte, error) {
	return nil, withRuntime(ext, func(runtime *Runtime, host *Host) error {
		return runtime.TestDataIn(host.Allocate(data))
	})
}

func withRuntime(ext statemachine.Externalities, run func(*Runtime, *Host) error) error {
	var sum uint64
	host := NewHost(func(n uint64) uint64 {
		sum += n
		return n
	})
	if err := run(NewRuntime(host), host); err != nil {
		return err
	}
	if leaked := host.Allocated(); leaked != 0 {
		return fmt.Errorf("runtime leaked %d buffers", leaked)
	}
	previous, err := ImportedSum(ext)
	if err != nil {
		return err
	}
	encoded, err := rlp.EncodeToBytes(previous + sum)
	if err != nil {
		return err
	}
	ext.SetStorage([]byte(ImportedSumKey), encoded)
	return nil
}

// ImportedSum reads the accumulated sum of imported function arguments.
func ImportedSum(ext statemachine.Externalities) (uint64, error) {
	raw, err := ext.Storage([]byte(ImportedSumKey))
	if err != nil || len(raw) == 0 {
		return 0, err
	}
	var res uint64
	if err := rlp.DecodeBytes(raw, &res); err != nil {
		return 0, fmt.Errorf("invalid imported sum: %w", err)
	}
	return res, nil
}
