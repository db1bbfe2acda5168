package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mediasort/internal/classify"
	"mediasort/internal/pipeline"
)

func newRulesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the classification rule table in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			table := pipeline.NewClassifier(cfg).Table()
			rows := make([][]string, 0, len(table)+1)
			for i, rule := range table {
				match := strings.Join(rule.Keywords, ", ")
				if len(rule.Extensions) > 0 {
					match = "extension: " + strings.Join(rule.Extensions, ", ")
				}
				unless := strings.Join(rule.Unless, ", ")
				rows = append(rows, []string{strconv.Itoa(i + 1), rule.Name, string(rule.Label), match, unless})
			}
			rows = append(rows, []string{"-", "default", string(classify.Clean), "(no match)", ""})
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Rule", "Category", "Matches", "Unless"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}
}

type classifyResult struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Subdir   string `json:"subdir"`
	Rule     string `json:"rule"`
	Keyword  string `json:"keyword,omitempty"`
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify <filename>...",
		Short: "Show which category each filename would be sorted into",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			classifier := pipeline.NewClassifier(cfg)
			results := make([]classifyResult, 0, len(args))
			for _, name := range args {
				d := classifier.Explain(name)
				rule := d.Rule
				if d.Default() {
					rule = "default"
				}
				results = append(results, classifyResult{
					Name:     name,
					Category: string(d.Category),
					Subdir:   d.Category.Subdir(),
					Rule:     rule,
					Keyword:  d.Keyword,
				})
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, r.Category, r.Subdir + "/", r.Rule, r.Keyword})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"File", "Category", "Directory", "Rule", "Keyword"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
