package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mediasort/internal/history"
)

type historyRow struct {
	ID         string `json:"id"`
	Command    string `json:"command"`
	StartedAt  string `json:"started_at"`
	Duration   string `json:"duration"`
	Resolved   int    `json:"resolved"`
	Entities   int    `json:"entities"`
	Organized  int    `json:"organized"`
	Unchanged  int    `json:"unchanged"`
	Failed     int    `json:"failed"`
	Flagged    int    `json:"flagged"`
	Deduped    int    `json:"deduped"`
	DedupeDry  bool   `json:"dedupe_dry_run"`
	TargetRoot string `json:"target_root"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs from the run ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled ([history] enabled = false)")
				return nil
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			store, err := history.Open(cmd.Context(), cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			rows := make([]historyRow, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, historyRow{
					ID:         run.ID,
					Command:    run.Command,
					StartedAt:  run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					Duration:   run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String(),
					Resolved:   run.Resolved,
					Entities:   run.Entities,
					Organized:  run.Organized,
					Unchanged:  run.Unchanged,
					Failed:     run.Failed,
					Flagged:    run.Flagged,
					Deduped:    run.DedupeRemoved,
					DedupeDry:  run.DedupeDryRun,
					TargetRoot: run.TargetRoot,
				})
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				deduped := strconv.Itoa(r.Deduped)
				if r.DedupeDry {
					deduped += " (dry)"
				}
				table = append(table, []string{
					r.ID[:min(8, len(r.ID))],
					r.Command,
					r.StartedAt,
					r.Duration,
					fmt.Sprintf("%d/%d", r.Resolved, r.Entities),
					strconv.Itoa(r.Organized),
					strconv.Itoa(r.Failed),
					strconv.Itoa(r.Flagged),
					deduped,
				})
			}
			headers := []string{"Run", "Command", "Started", "Duration", "Entities", "Organized", "Failed", "Flagged", "Deduped"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, table, countAligns(4, len(headers))))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
