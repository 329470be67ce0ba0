package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var withSchema bool

	cmd := &cobra.Command{
		Use:   "migrate [file]",
		Short: "Load a SQL script into the database",
		Long: `Runs every statement of a SQL script in order (default: world.sql).
A failing statement is reported and the rest of the script still runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := DefaultScriptFile
			if len(args) == 1 {
				file = args[0]
			}
			return runMigrate(cmd, file, withSchema)
		},
	}

	cmd.Flags().BoolVar(&withSchema, "with-schema", false, "Create the tables before running the script")

	return cmd
}

func runMigrate(cmd *cobra.Command, file string, withSchema bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if !filepath.IsAbs(file) {
		dir, err := baseDir()
		if err != nil {
			return err
		}
		file = filepath.Join(dir, file)
	}

	var opts []depsOption
	if !withSchema {
		opts = append(opts, skipSchema())
	}

	return withDeps(ctx, func(d *Deps) error {
		result, err := d.MigrateHandler.Handle(ctx, file)
		if err != nil {
			return fmt.Errorf("migrating %s: %w", file, err)
		}

		for _, e := range result.Errors {
			fmt.Fprintf(out, "  failed: %s\n", e.Error())
		}
		fmt.Fprintf(out, "Executed %d statements", result.Executed)
		if result.Failed > 0 {
			fmt.Fprintf(out, ", %d failed", result.Failed)
		}
		fmt.Fprintln(out)
		return nil
	}, opts...)
}
