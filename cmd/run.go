package cmd

import (
	"context"
	"fmt"
	"time"

	"rednote-trends/internal/artifact"
	"rednote-trends/internal/pipeline"
	"rednote-trends/internal/rednote"

	"github.com/spf13/cobra"
)

// runCmd executes the whole pipeline once: fetch, analyze, generate, with
// each artifact persisted as its stage completes.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full fetch-analyze-generate pipeline once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.Source.BaseURL == "" {
			return fmt.Errorf("source config missing: set source.base_url in config.yaml")
		}
		analyzer, err := buildAnalyzer(cfg)
		if err != nil {
			return err
		}
		gen, err := buildGenerator(cfg)
		if err != nil {
			return err
		}

		runner := &pipeline.Runner{
			Fetcher:   rednote.NewClient(cfg.Source.BaseURL, cfg.Source.Token),
			Keyword:   cfg.Source.Keyword,
			BatchSize: cfg.Source.BatchSize,
			Analyzer:  analyzer,
			PromptCfg: buildPromptConfig(cfg),
			Requests:  cfg.Generation.Requests,
			Generator: gen,
			Artifacts: artifact.NewStore(cfg.Output.Dir),
		}

		deadline, err := time.ParseDuration(cfg.Generation.RunDeadline)
		if err != nil {
			return fmt.Errorf("invalid generation.run_deadline: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), deadline)
		defer cancel()

		res, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Run complete: batch=%d topics=%d generated=%d/%d (%d failed)\n",
			res.BatchSize, res.Topics, res.Succeeded, res.Requested, res.Failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
