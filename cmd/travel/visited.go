package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/travel-tracker/internal/application/handlers"
	"github.com/ersonp/travel-tracker/internal/domain/entities"
)

func newVisitedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visited",
		Short: "Manage the visited countries list",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List visited country codes",
			Args:  cobra.NoArgs,
			RunE:  runVisitedList,
		},
		&cobra.Command{
			Use:   "add <country name>",
			Short: "Mark a country as visited",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runVisitedMutation(cmd, strings.Join(args, " "), (*handlers.VisitedHandler).HandleAdd)
			},
		},
		&cobra.Command{
			Use:   "remove <country name>",
			Short: "Remove a country from the visited list",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runVisitedMutation(cmd, strings.Join(args, " "), (*handlers.VisitedHandler).HandleRemove)
			},
		},
	)

	return cmd
}

func runVisitedList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		codes, err := d.VisitedHandler.HandleList(ctx)
		if err != nil {
			return err
		}

		codes = entities.UniqueCodes(codes)
		out := cmd.OutOrStdout()
		for _, code := range codes {
			fmt.Fprintln(out, code)
		}
		fmt.Fprintf(out, "Total countries: %d\n", len(codes))
		return nil
	})
}

// mutation is a VisitedHandler method such as HandleAdd.
type mutation func(h *handlers.VisitedHandler, ctx context.Context, name string) handlers.MutationResult

func runVisitedMutation(cmd *cobra.Command, name string, mutate mutation) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		result := mutate(d.VisitedHandler, ctx, name)
		if !result.OK() {
			return errors.New(result.Message)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", strings.TrimSpace(name), result.Outcome)
		return nil
	})
}
