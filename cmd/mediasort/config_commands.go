package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediasort/internal/config"
	"mediasort/internal/preflight"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := config.WriteSample(targetPath, overwrite)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit [paths] and the [[entities]] alias table before running mediasort.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and check directory access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if ctx.configPath != "" {
				fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			}
			if !ctx.configSeen {
				fmt.Fprintln(out, "Config file not found; defaults were used")
			}

			p := newStatusPrinter(out)
			p.header("Preflight")
			for _, r := range preflight.RunAll(cmd.Context(), cfg, preflight.ScopeOrganize) {
				kind := statusOK
				if !r.Passed {
					kind = statusWarn
				}
				p.line(r.Name, kind, "%s", r.Detail)
			}
			if cfg.DiscoverEntities {
				p.line("Entities", statusInfo, "discovered from source root")
			} else {
				p.line("Entities", statusInfo, "%d configured", len(cfg.Entities))
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
