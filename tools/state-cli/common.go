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
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/soros1321/polkadot/backend"
	"github.com/soros1321/polkadot/executor/native"
	"github.com/soros1321/polkadot/sandbox"
	"github.com/soros1321/polkadot/session"
	"github.com/urfave/cli/v2"
)

var (
	dirFlag = cli.StringFlag{
		Name:  "dir",
		Usage: "the directory of the state, required by persisted variants",
	}
	variantFlag = cli.StringFlag{
		Name:  "variant",
		Usage: fmt.Sprintf("the backend variant, one of %v", backend.Variants()),
		Value: string(backend.VariantLevelDb),
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "number of entries of the read cache, 0 to disable",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "log level, 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 2,
	}
)

func setupLogging(ctx *cli.Context) error {
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, false)))
	return nil
}

func openStore(ctx *cli.Context) (backend.Store, error) {
	return backend.Open(backend.Parameters{
		Variant:   backend.Variant(ctx.String(variantFlag.Name)),
		Directory: ctx.String(dirFlag.Name),
		CacheSize: ctx.Int(cacheFlag.Name),
	})
}

func newExecutor() *native.Executor {
	executor := native.NewExecutor()
	executor.Register(sandbox.Module())
	return executor
}

// withSession runs the given action on a session of the selected state. The
// session is closed afterwards, flushing all changes.
func withSession(ctx *cli.Context, action func(*session.Session) error) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	s := session.New(store, newExecutor())
	return errors.Join(action(s), s.Close())
}

func parseHex(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if !strings.HasPrefix(text, "0x") && !strings.HasPrefix(text, "0X") {
		text = "0x" + text
	}
	return hexutil.Decode(text)
}
