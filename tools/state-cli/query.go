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
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/soros1321/polkadot/session"
	"github.com/urfave/cli/v2"
)

var getCommand = cli.Command{
	Action:    getValue,
	Name:      "get",
	Usage:     "prints the value of a key",
	ArgsUsage: "<hex-key>",
}

var validatorsCommand = cli.Command{
	Action: listValidators,
	Name:   "validators",
	Usage:  "prints the validator list",
}

var callCommand = cli.Command{
	Action:    callMethod,
	Name:      "call",
	Usage:     "executes a call and persists its changes",
	ArgsUsage: "<method> [hex-data]",
}

func getValue(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("missing key")
	}
	key, err := parseHex(ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	return withSession(ctx, func(s *session.Session) error {
		value, err := s.Storage(key)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, hexutil.Encode(value))
		return nil
	})
}

func listValidators(ctx *cli.Context) error {
	return withSession(ctx, func(s *session.Session) error {
		validators, err := s.Validators()
		if err != nil {
			return err
		}
		for i, validator := range validators {
			fmt.Fprintf(ctx.App.Writer, "%d: %s\n", i, hexutil.Encode(validator))
		}
		return nil
	})
}

func callMethod(ctx *cli.Context) error {
	if ctx.Args().Len() < 1 || ctx.Args().Len() > 2 {
		return fmt.Errorf("expected method and optional call data")
	}
	method := ctx.Args().Get(0)
	data, err := parseHex(ctx.Args().Get(1))
	if err != nil {
		return fmt.Errorf("invalid call data: %w", err)
	}
	return withSession(ctx, func(s *session.Session) error {
		out, err := s.Call(method, data)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, hexutil.Encode(out))
		return nil
	})
}
