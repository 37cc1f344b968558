package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docforge/internal/console"
	"github.com/goliatone/go-docforge/pkg/renderers/html"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve template forms over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.ConsoleAddr
			}
			renderer, err := html.New(html.WithLogger(a.log))
			if err != nil {
				return err
			}
			srv, err := console.New(a.api, renderer, console.WithLogger(a.log))
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides DOCFORGE_CONSOLE_ADDR)")
	return cmd
}
