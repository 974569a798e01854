// seehuhn.de/go/fieldview - robot field visualisation
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package cmd

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"seehuhn.de/go/fieldview/internal/frame"
	"seehuhn.de/go/fieldview/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll the backend and serve rendered frames",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		c, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			c.Server.Addr = serveAddr
		}

		store := &frame.Store{}
		poller := &frame.Poller{
			URL:      c.Source.URL,
			Interval: c.Source.Interval,
			Unit:     c.AngleUnit(),
			Client:   &http.Client{Timeout: c.Source.Timeout},
			Store:    store,
			Logger:   log.Named("poller"),
		}
		loop, err := newLoop(c, store, log.Named("loop"))
		if err != nil {
			return err
		}
		srv := server.New(loop, store, log.Named("server"), c.Server.AllowedOrigins...)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("starting",
			zap.String("source", c.Source.URL),
			zap.Duration("interval", c.Source.Interval),
			zap.Stringer("angles", c.AngleUnit()))

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return poller.Run(ctx) })
		g.Go(func() error { return loop.Run(ctx) })
		g.Go(func() error { return srv.ListenAndServe(ctx, c.Server.Addr) })
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides the config file)")
	rootCmd.AddCommand(serveCmd)
}
