// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/soros1321/polkadot/backend"
	"github.com/soros1321/polkadot/common"
	"github.com/soros1321/polkadot/statemachine"
	"github.com/urfave/cli/v2"
)

var initCommand = cli.Command{
	Action:    initCode,
	Name:      "init",
	Usage:     "installs the code of a native module",
	ArgsUsage: "<kv|sandbox>",
}

var infoCommand = cli.Command{
	Action: getInfo,
	Name:   "info",
	Usage:  "prints summary information about a state",
}

func initCode(ctx *cli.Context) (err error) {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("missing module name")
	}
	name := ctx.Args().Get(0)
	var code []byte
	for _, module := range newExecutor().Modules() {
		if module.Name == name {
			code = module.Code
		}
	}
	if code == nil {
		return fmt.Errorf("unknown module %q", name)
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()
	log.Info("Installing module", "module", name)
	return store.Apply([]common.Update{{Key: []byte(statemachine.CodeKey), Value: code}})
}

func getInfo(ctx *cli.Context) (err error) {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	entries, size := 0, 0
	err = store.ForEach(func(key, value []byte) error {
		entries++
		size += len(key) + len(value)
		return nil
	})
	if err != nil {
		return err
	}
	code, err := store.Code()
	if err != nil {
		return err
	}
	validators, err := statemachine.Validators(statemachine.NewExt(store, statemachine.NewOverlayedChanges()))
	if err != nil {
		return err
	}

	out := ctx.App.Writer
	fmt.Fprintf(out, "Variant:    %s\n", ctx.String(variantFlag.Name))
	fmt.Fprintf(out, "Entries:    %d (%d bytes)\n", entries, size)
	fmt.Fprintf(out, "Code:       %v (%d bytes)\n", common.Keccak256(code), len(code))
	fmt.Fprintf(out, "Validators: %d\n", len(validators))
	if hasher, ok := store.(backend.Hasher); ok {
		fmt.Fprintf(out, "State hash: %v\n", hasher.Hash())
	}
	return nil
}
