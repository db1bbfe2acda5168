package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var flags rootFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "mediasort",
		Short:         "Classify and reorganize extracted product media",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.source, "source", "", "Source root override")
	rootCmd.PersistentFlags().StringVar(&flags.target, "target", "", "Target root override")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(newOrganizeCommand(ctx))
	rootCmd.AddCommand(newReviewCommand(ctx))
	rootCmd.AddCommand(newDedupeCommand(ctx))
	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newRulesCommand(ctx))
	rootCmd.AddCommand(newClassifyCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
