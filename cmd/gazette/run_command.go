package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gazette/internal/config"
	"gazette/internal/ledger"
	"gazette/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one pipeline run",
		Long: "Fetch newly published articles, claim them in the ledger, build the\n" +
			"bilingual document, render it to PDF, and deliver it to the channel.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(cfg *config.Config, store *ledger.Store) error {
				logger, err := ctx.buildLogger(cfg)
				if err != nil {
					return fmt.Errorf("build logger: %w", err)
				}

				orch, err := pipeline.New(cfg, store, logger)
				if err != nil {
					return fmt.Errorf("build pipeline: %w", err)
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				run, runErr := orch.Run(runCtx)
				if run != nil {
					if jsonOutput {
						if err := writeJSON(cmd, runSummary(run)); err != nil {
							return err
						}
					} else {
						printRunSummary(cmd, run)
					}
				}
				return runErr
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run summary as JSON")
	return cmd
}

type runSummaryView struct {
	ID               string `json:"id"`
	State            string `json:"state"`
	ItemsConsidered  int    `json:"items_considered"`
	ItemsAccepted    int    `json:"items_accepted"`
	ItemsProcessed   int    `json:"items_processed"`
	BlocksProduced   int    `json:"blocks_produced"`
	DeliveryAttempts int    `json:"delivery_attempts"`
	Delivered        bool   `json:"delivered"`
	DurationSeconds  int64  `json:"duration_seconds"`
}

func runSummary(run *pipeline.Run) runSummaryView {
	return runSummaryView{
		ID:               run.ID,
		State:            string(run.State),
		ItemsConsidered:  run.ItemsConsidered,
		ItemsAccepted:    run.ItemsAccepted,
		ItemsProcessed:   run.ItemsProcessed,
		BlocksProduced:   run.BlocksProduced,
		DeliveryAttempts: run.DeliveryAttempts,
		Delivered:        run.Delivered(),
		DurationSeconds:  int64(run.Duration().Seconds()),
	}
}

func printRunSummary(cmd *cobra.Command, run *pipeline.Run) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s finished in state %s\n", run.ID, run.State)
	rows := [][]string{
		{"Considered", fmt.Sprintf("%d", run.ItemsConsidered)},
		{"Accepted", fmt.Sprintf("%d", run.ItemsAccepted)},
		{"Processed", fmt.Sprintf("%d", run.ItemsProcessed)},
		{"Blocks", fmt.Sprintf("%d", run.BlocksProduced)},
		{"Delivery attempts", fmt.Sprintf("%d", run.DeliveryAttempts)},
		{"Delivered", yesNo(run.Delivered())},
	}
	renderRows(out, []string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
