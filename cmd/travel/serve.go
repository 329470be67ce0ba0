package main

import (
	"github.com/spf13/cobra"

	"github.com/ersonp/travel-tracker/internal/infrastructure/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long:  "Serves the map page, the visited-countries API and the add/remove forms until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides config and PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, port int) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		serverCfg := d.Config.Server
		if port > 0 {
			serverCfg.Port = port
		}

		srv, err := web.NewServer(serverCfg, d.VisitedHandler, d.CountryHandler, d.DB, d.Logger)
		if err != nil {
			return err
		}

		d.Logger.Info("database connected",
			"driver", d.Config.Database.Driver,
			"database", d.Config.Database.Redacted())

		count, err := d.CountryHandler.HandleCount(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			d.Logger.Warn("no reference countries loaded, every add will fail; run 'travel migrate' first")
		} else {
			d.Logger.Info("reference countries loaded", "count", count)
		}
		return srv.Run(ctx)
	})
}
