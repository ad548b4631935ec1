// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package native

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/soros1321/polkadot/common"
	"github.com/soros1321/polkadot/statemachine"
)

// KvModuleCode is the code blob selecting the kv module.
var KvModuleCode = []byte("native:kv:1")

// ErrCallFailed is produced by the kv module's fail method.
const ErrCallFailed = common.ConstError("call failed on request")

// Entry is the rlp encoded input of the set and fail methods.
type Entry struct {
	Key   []byte
	Value []byte
}

// KvModule provides direct access to the storage of the state:
//
//	set            rlp(Entry)    writes a value, an empty value deletes it
//	                             from the unflushed changes only
//	get            rlp(key)      returns the value of a key
//	set_code       rlp(code)     replaces the code blob
//	set_validators rlp([][]byte) replaces the validator list
//	validators     -             returns rlp([][]byte) of the validator list
//	fail           rlp(Entry)    writes a value and fails afterwards
//
// Committed deletions are dropped from the overlay instead of being
// recorded, so reads of a deleted key fall back to the store again.
func KvModule() *Module {
	return &Module{
		Name: "kv",
		Code: KvModuleCode,
		Methods: map[string]Method{
			"set":            kvSet,
			"get":            kvGet,
			"set_code":       kvSetCode,
			"set_validators": kvSetValidators,
			"validators":     kvValidators,
			"fail":           kvFail,
		},
	}
}

func kvSet(ext statemachine.Externalities, data statemachine.CallData) ([]byte, error) {
	var entry Entry
	if err := rlp.DecodeBytes(data, &entry); err != nil {
		return nil, fmt.Errorf("invalid set input: %w", err)
	}
	ext.SetStorage(entry.Key, entry.Value)
	return nil, nil
}

func kvGet(ext statemachine.Externalities, data statemachine.CallData) ([]byte, error) {
	var key []byte
	if err := rlp.DecodeBytes(data, &key); err != nil {
		return nil, fmt.Errorf("invalid get input: %w", err)
	}
	return ext.Storage(key)
}

func kvSetCode(ext statemachine.Externalities, data statemachine.CallData) ([]byte, error) {
	var code []byte
	if err := rlp.DecodeBytes(data, &code); err != nil {
		return nil, fmt.Errorf("invalid set_code input: %w", err)
	}
	ext.SetCode(code)
	return nil, nil
}

func kvSetValidators(ext statemachine.Externalities, data statemachine.CallData) ([]byte, error) {
	var validators [][]byte
	if err := rlp.DecodeBytes(data, &validators); err != nil {
		return nil, fmt.Errorf("invalid set_validators input: %w", err)
	}
	return nil, statemachine.SetValidators(ext, validators)
}

func kvValidators(ext statemachine.Externalities, _ statemachine.CallData) ([]byte, error) {
	validators, err := statemachine.Validators(ext)
	if err != nil {
		return nil, err
	}
	return rlp.EncodeToBytes(validators)
}

func kvFail(ext statemachine.Externalities, data statemachine.CallData) ([]byte, error) {
	if _, err := kvSet(ext, data); err != nil {
		return nil, err
	}
	return nil, ErrCallFailed
}

// EncodeEntry produces the input of the set and fail methods.
func EncodeEntry(key, value []byte) statemachine.CallData {
	data, _ := rlp.EncodeToBytes(Entry{Key: key, Value: value})
	return data
}

// EncodeBytes produces the input of the get and set_code methods.
func EncodeBytes(data []byte) statemachine.CallData {
	res, _ := rlp.EncodeToBytes(data)
	return res
}

// EncodeList produces the input of the set_validators method.
func EncodeList(list [][]byte) statemachine.CallData {
	res, _ := rlp.EncodeToBytes(list)
	return res
}

// DecodeList decodes the output of the validators method.
func DecodeList(data []byte) ([][]byte, error) {
	var res [][]byte
	if err := rlp.DecodeBytes(data, &res); err != nil {
		return nil, err
	}
	return res, nil
}
