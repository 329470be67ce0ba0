package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/travel-tracker/internal/application/handlers"
	"github.com/ersonp/travel-tracker/internal/domain/ports"
	"github.com/ersonp/travel-tracker/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	var (
		seedFile string
		driver   string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new travel project",
		Long:  "Creates a .travel directory with default configuration and creates the database tables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, seedFile, driver)
		},
	}

	cmd.Flags().StringVar(&seedFile, "seed", "", "JSON or CSV file of reference countries to load after init")
	cmd.Flags().StringVar(&driver, "driver", "", "Database driver to write into the config (postgres, sqlite)")

	return cmd
}

func runInit(cmd *cobra.Command, seedFile, driver string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	dir, err := baseDir()
	if err != nil {
		return err
	}

	open := func(cfg *config.Config) (ports.RelationalDB, error) {
		resolveSQLitePath(dir, cfg)
		return openDatabase(cfg)
	}

	result, err := handlers.NewInitHandler(open).Handle(ctx, dir, driver)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created %s\n", result.ConfigPath)
	fmt.Fprintf(out, "Created %s schema\n", result.Driver)

	if seedFile != "" {
		if err := seedCountries(cmd, seedFile, "auto"); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Travel tracker initialized successfully!")
	return nil
}
