package cmd

import (
	"context"
	"fmt"
	"time"

	"rednote-trends/internal/artifact"
	"rednote-trends/internal/model"
	"rednote-trends/internal/rednote"
	"rednote-trends/internal/redisclient"
	"rednote-trends/internal/storage"

	"github.com/spf13/cobra"
)

// fetchCmd pulls a fresh batch from the source and persists it (redis
// batch store + raw-posts artifact).
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a batch of posts and persist the raw-posts artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.Source.BaseURL == "" {
			return fmt.Errorf("source config missing: set source.base_url in config.yaml")
		}

		client := rednote.NewClient(cfg.Source.BaseURL, cfg.Source.Token)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		posts, err := client.Search(ctx, cfg.Source.Keyword, cfg.Source.BatchSize)
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		store := storage.NewRedisStore(rdb)
		period := storage.PeriodKey(time.Now())
		for _, p := range posts {
			if err := store.AddPost(ctx, period, p); err != nil {
				return fmt.Errorf("store post %s: %w", p.ID, err)
			}
		}

		batch := model.Batch{
			FetchedAt: time.Now().UTC(),
			Keyword:   cfg.Source.Keyword,
			Count:     len(posts),
			Posts:     posts,
		}
		path, err := artifact.NewStore(cfg.Output.Dir).WritePosts(batch)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d posts: %s\n", len(posts), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
