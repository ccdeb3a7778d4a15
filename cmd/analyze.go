package cmd

import (
	"fmt"

	"rednote-trends/internal/artifact"

	"github.com/spf13/cobra"
)

// analyzeCmd recomputes the trend report from the latest raw-posts
// artifact, without touching the source or the generator.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the latest fetched batch into a trend report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		store := artifact.NewStore(cfg.Output.Dir)

		batch, err := store.ReadLatestPosts()
		if err != nil {
			return fmt.Errorf("no fetched batch available (run fetch first): %w", err)
		}
		analyzer, err := buildAnalyzer(cfg)
		if err != nil {
			return err
		}
		report := analyzer.Analyze(batch.Posts)
		path, err := store.WriteReport(report)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Analyzed %d posts: %d keywords, %d topics -> %s\n",
			report.BatchSize, len(report.TopKeywords), len(report.Topics), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
