package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCountriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List reference countries",
		Args:  cobra.NoArgs,
		RunE:  runCountriesList,
	}

	cmd.AddCommand(newCountriesImportCmd())
	return cmd
}

func newCountriesImportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import reference countries from JSON or CSV",
		Long:  "Adds countries from a file. Codes or names already present are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, format) {
				return fmt.Errorf("invalid format %q, valid formats: %v", format, validFormats)
			}
			return seedCountries(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", "File format (json, csv, auto)")
	return cmd
}

func runCountriesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		countries, err := d.CountryHandler.HandleList(ctx)
		if err != nil {
			return err
		}

		if len(countries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No countries found. Run 'travel migrate' or 'travel countries import'.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME")
		for _, c := range countries {
			fmt.Fprintf(w, "%s\t%s\n", c.Code, c.Name)
		}
		return w.Flush()
	})
}

// seedCountries imports countries from file and prints a summary.
func seedCountries(cmd *cobra.Command, file, format string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(d *Deps) error {
		fmt.Fprintf(out, "Importing %s...\n", file)

		result, err := d.ImportHandler.Handle(ctx, file, format)
		if err != nil {
			return fmt.Errorf("importing countries: %w", err)
		}

		fmt.Fprintf(out, "Imported: %d countries", result.Imported)
		if result.Skipped > 0 {
			fmt.Fprintf(out, ", %d skipped (already exist)", result.Skipped)
		}
		if result.Invalid > 0 {
			fmt.Fprintf(out, ", %d invalid (blank code or name)", result.Invalid)
		}
		fmt.Fprintln(out)
		return nil
	})
}
