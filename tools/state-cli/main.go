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
	"os"

	"github.com/urfave/cli/v2"
)

// Run using
//  go run ./tools/state-cli <command> <flags>

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "State Toolbox",
		HelpName:  "state-cli",
		Usage:     "A set of utilities to inspect and modify state directories",
		Copyright: "(c) 2025 Sonic Operations Ltd",
		Flags: []cli.Flag{
			&dirFlag,
			&variantFlag,
			&cacheFlag,
			&verbosityFlag,
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			&initCommand,
			&infoCommand,
			&getCommand,
			&validatorsCommand,
			&callCommand,
			&exportCommand,
			&importCommand,
			&serveCommand,
		},
	}
}
