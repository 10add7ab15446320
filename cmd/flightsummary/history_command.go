package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"flightsummary/internal/catalog"
)

// withCatalog opens the configured catalog for the duration of fn.
func (c *commandContext) withCatalog(ctx context.Context, fn func(*catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Catalog.Enabled {
		return errors.New("summary history is disabled (set [catalog] enabled = true)")
	}
	store, err := catalog.Open(ctx, cfg.Catalog.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "List recorded summaries, or the batch rows of one summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd.Context(), func(store *catalog.Store) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					entries, err := store.List(cmd.Context(), limit)
					if err != nil {
						return err
					}
					if len(entries) == 0 {
						fmt.Fprintln(out, "No summaries recorded")
						return nil
					}
					fmt.Fprintln(out, renderHistory(entries))
					return nil
				}

				entry, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if entry == nil {
					return fmt.Errorf("summary %s not found", args[0])
				}
				rows, err := store.Batches(cmd.Context(), entry.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s_%s -> %s\n", entry.Site, entry.Date, entry.OutputDir)
				fmt.Fprintln(out, renderTable(batchHeaders, batchTableRows(rows), batchAligns))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to list (0 for all)")
	cmd.AddCommand(newHistoryRemoveCommand(ctx))
	return cmd
}

func newHistoryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove recorded summaries (files on disk are kept)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd.Context(), func(store *catalog.Store) error {
				out := cmd.OutOrStdout()
				var missing []string
				for _, id := range args {
					removed, err := store.Remove(cmd.Context(), id)
					if err != nil {
						return err
					}
					if !removed {
						missing = append(missing, id)
						continue
					}
					fmt.Fprintf(out, "Removed summary %s\n", id)
				}
				if len(missing) > 0 {
					return fmt.Errorf("summaries not found: %v", missing)
				}
				return nil
			})
		},
	}
}
