package cmd

import (
	"context"
	"fmt"
	"time"

	"rednote-trends/internal/artifact"
	"rednote-trends/internal/generator"
	"rednote-trends/internal/prompt"

	"github.com/spf13/cobra"
)

var genCount int

// generateCmd drafts notes from the latest trend report.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate notes from the latest trend report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		store := artifact.NewStore(cfg.Output.Dir)

		report, err := store.ReadLatestReport()
		if err != nil {
			return fmt.Errorf("no trend report available (run analyze first): %w", err)
		}
		gen, err := buildGenerator(cfg)
		if err != nil {
			return err
		}
		if gen == nil {
			return fmt.Errorf("openai config missing: set openai.api_key and openai.model in config.yaml")
		}

		count := genCount
		if count <= 0 {
			count = cfg.Generation.Requests
		}
		reqs := prompt.BuildRequests(report, count, buildPromptConfig(cfg))
		if len(reqs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Report has no topics or keywords; nothing to generate.")
			return nil
		}

		deadline, err := time.ParseDuration(cfg.Generation.RunDeadline)
		if err != nil {
			return fmt.Errorf("invalid generation.run_deadline: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), deadline)
		defer cancel()

		set := generator.Collect(gen.GenerateAll(ctx, reqs))
		path, err := store.WriteNotes(set)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated %d/%d notes (%d failed): %s\n",
			set.Succeeded, set.Requested, set.Failed, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntVarP(&genCount, "count", "n", 0, "override number of generation requests")
}
