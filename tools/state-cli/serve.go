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
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/soros1321/polkadot/api"
	"github.com/soros1321/polkadot/session"
	"github.com/urfave/cli/v2"
)

var addrFlag = cli.StringFlag{
	Name:  "addr",
	Usage: "the address to listen on",
	Value: "127.0.0.1:8080",
}

var serveCommand = cli.Command{
	Action: serve,
	Name:   "serve",
	Usage:  "serves queries and calls on a state over HTTP until interrupted",
	Flags: []cli.Flag{
		&addrFlag,
	},
}

func serve(ctx *cli.Context) error {
	return withSession(ctx, func(s *session.Session) error {
		srv := &http.Server{
			Addr:              ctx.String(addrFlag.Name),
			Handler:           api.NewServer(s),
			ReadHeaderTimeout: 5 * time.Second,
		}

		stop, cancel := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		go func() {
			<-stop.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdown); err != nil {
				log.Warn("Server shutdown failed", "err", err)
			}
		}()

		log.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Info("Server stopped")
		return nil
	})
}
