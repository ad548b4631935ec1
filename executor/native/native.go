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
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/soros1321/polkadot/common"
	"github.com/soros1321/polkadot/statemachine"
	"golang.org/x/exp/maps"
)

const (
	ErrUnknownCode   = common.ConstError("unknown code")
	ErrUnknownMethod = common.ConstError("unknown method")
)

// Method is a natively implemented entry point of a module. All state
// access has to go through the given externalities.
type Method func(ext statemachine.Externalities, data statemachine.CallData) ([]byte, error)

// Module is a named set of methods. The code blob identifying a module is
// only used for dispatching, it is never interpreted.
type Module struct {
	Name    string
	Code    []byte
	Methods map[string]Method
}

// Executor is a statemachine.CodeExecutor dispatching calls to natively
// implemented modules, selected by the Keccak256 hash of the code.
type Executor struct {
	mu      sync.RWMutex
	modules map[common.Hash]*Module
}

// NewExecutor creates an executor with the kv module registered.
func NewExecutor() *Executor {
	res := &Executor{modules: map[common.Hash]*Module{}}
	res.Register(KvModule())
	return res
}

// Register adds the given module to the executor, replacing any module
// registered for the same code.
func (e *Executor) Register(module *Module) {
	hash := common.Keccak256(module.Code)
	e.mu.Lock()
	defer e.mu.Unlock()
	if previous, found := e.modules[hash]; found {
		log.Warn("Replacing native module", "old", previous.Name, "new", module.Name, "code", hash)
	}
	e.modules[hash] = module
}

// Modules returns all registered modules ordered by name.
func (e *Executor) Modules() []*Module {
	e.mu.RLock()
	defer e.mu.RUnlock()
	res := maps.Values(e.modules)
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name < res[j].Name
	})
	return res
}

func (e *Executor) Call(
	ext statemachine.Externalities,
	code []byte,
	method string,
	data statemachine.CallData,
) ([]byte, error) {
	hash := common.Keccak256(code)
	e.mu.RLock()
	module, found := e.modules[hash]
	e.mu.RUnlock()
	if !found {
		return nil, fmt.Errorf("%w: %v", ErrUnknownCode, hash)
	}
	run, found := module.Methods[method]
	if !found {
		return nil, fmt.Errorf("%w: %s in module %s", ErrUnknownMethod, method, module.Name)
	}
	log.Trace("Running native method", "module", module.Name, "method", method)
	return run(ext, data)
}
