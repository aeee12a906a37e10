package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gazette/internal/config"
	"gazette/internal/ledger"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the dedup ledger",
	}

	ledgerCmd.AddCommand(newLedgerListCommand(ctx))
	ledgerCmd.AddCommand(newLedgerStatsCommand(ctx))
	ledgerCmd.AddCommand(newLedgerHealthCommand(ctx))

	return ledgerCmd
}

func newLedgerListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List delivered article identifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(cfg *config.Config, store *ledger.Store) error {
				entries, err := store.Entries(cmd.Context())
				if err != nil {
					return err
				}
				if limit > 0 && len(entries) > limit {
					entries = entries[len(entries)-limit:]
				}

				if jsonOutput {
					type entryView struct {
						Identifier   string `json:"identifier"`
						DiscoveredAt string `json:"discovered_at"`
					}
					views := make([]entryView, 0, len(entries))
					for _, entry := range entries {
						views = append(views, entryView{
							Identifier:   entry.Identifier,
							DiscoveredAt: entry.DiscoveredAt.Format(time.RFC3339),
						})
					}
					return writeJSON(cmd, views)
				}

				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Ledger is empty")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.Identifier,
						entry.DiscoveredAt.Format("2006-01-02 15:04:05"),
					})
				}
				renderRows(cmd.OutOrStdout(),
					[]string{"Identifier", "Discovered"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit entries as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the most recent N entries")
	return cmd
}

func newLedgerStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show ledger totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(cfg *config.Config, store *ledger.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, map[string]any{
						"total":  stats.Total,
						"oldest": formatOptionalTime(stats.Oldest),
						"newest": formatOptionalTime(stats.Newest),
						"path":   store.Path(),
					})
				}

				rows := [][]string{
					{"Entries", fmt.Sprintf("%d", stats.Total)},
					{"Oldest", formatOptionalTime(stats.Oldest)},
					{"Newest", formatOptionalTime(stats.Newest)},
					{"Database", store.Path()},
				}
				renderRows(cmd.OutOrStdout(),
					[]string{"Metric", "Value"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit stats as JSON")
	return cmd
}

func newLedgerHealthCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check ledger database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(cfg *config.Config, store *ledger.Store) error {
				health, err := store.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}

				rows := [][]string{
					{"Database", health.DBPath},
					{"Exists", yesNo(health.DatabaseExists)},
					{"Readable", yesNo(health.DatabaseReadable)},
					{"Table present", yesNo(health.TableExists)},
					{"Entries", fmt.Sprintf("%d", health.TotalEntries)},
					{"Integrity", yesNo(health.IntegrityCheck)},
				}
				if health.Error != "" {
					rows = append(rows, []string{"Error", health.Error})
				}
				renderRows(cmd.OutOrStdout(),
					[]string{"Check", "Result"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				)
				if health.Error != "" {
					return fmt.Errorf("ledger unhealthy: %s", health.Error)
				}
				return nil
			})
		},
	}
	return cmd
}

func formatOptionalTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}
