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
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/soros1321/polkadot/backend"
	"github.com/urfave/cli/v2"
)

var exportCommand = cli.Command{
	Action:    exportState,
	Name:      "export",
	Usage:     "writes the content of a state into a snapshot file",
	ArgsUsage: "<file>",
}

var importCommand = cli.Command{
	Action:    importState,
	Name:      "import",
	Usage:     "adds the content of a snapshot file to a state",
	ArgsUsage: "<file>",
}

func exportState(ctx *cli.Context) (err error) {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("missing target file")
	}
	path := ctx.Args().Get(0)
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	log.Info("Exporting state", "file", path)
	count, err := backend.Export(store, file)
	if err = errors.Join(err, file.Close()); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Exported %d entries to %s\n", count, path)
	return nil
}

func importState(ctx *cli.Context) (err error) {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("missing source file")
	}
	path := ctx.Args().Get(0)
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	log.Info("Importing state", "file", path)
	count, err := backend.Import(store, file)
	if err != nil {
		return fmt.Errorf("import failed after %d entries: %w", count, err)
	}
	fmt.Fprintf(ctx.App.Writer, "Imported %d entries from %s\n", count, path)
	return nil
}
