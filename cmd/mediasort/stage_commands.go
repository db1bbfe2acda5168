package main

import (
	"context"

	"github.com/spf13/cobra"

	"mediasort/internal/pipeline"
	"mediasort/internal/report"
)

type stageFunc func(context.Context, *pipeline.Runner) (*report.RunReport, error)

// runStage executes a pipeline stage and prints its summary. The summary is
// printed even when the stage returns an error alongside a report.
func runStage(cmd *cobra.Command, ctx *commandContext, stage stageFunc) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	return ctx.withRunner(cmd.Context(), func(runner *pipeline.Runner) error {
		rep, err := stage(cmd.Context(), runner)
		printRunReport(cmd.OutOrStdout(), rep, cfg.ReportDir())
		return err
	})
}

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "organize",
		Short: "Classify every entity's files into the target tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd, ctx, (*pipeline.Runner).Organize)
		},
	}
}

func newReviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Flag suspicious files in the target tree and write the review checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd, ctx, (*pipeline.Runner).Review)
		},
	}
}

func newDedupeCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Remove duplicate-suffixed copies (name_1.ext) from the target tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd, ctx, func(c context.Context, r *pipeline.Runner) (*report.RunReport, error) {
				return r.Dedupe(c, dryRun)
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List what would be removed without deleting anything")
	return cmd
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Organize, dedupe, and review in one pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd, ctx, (*pipeline.Runner).Run)
		},
	}
}
