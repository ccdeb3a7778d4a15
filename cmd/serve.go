package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rednote-trends/internal/artifact"
	"rednote-trends/internal/pipeline"
	"rednote-trends/internal/rednote"
	"rednote-trends/internal/redisclient"
	"rednote-trends/internal/storage"
	"rednote-trends/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the collector and pipeline workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.Source.BaseURL == "" {
			return fmt.Errorf("source config missing: set source.base_url in config.yaml")
		}

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		store := storage.NewRedisStore(rdb)

		fetchInterval, err := time.ParseDuration(cfg.Source.FetchInterval)
		if err != nil {
			return fmt.Errorf("invalid source.fetch_interval: %w", err)
		}
		pipeInterval, err := time.ParseDuration(cfg.Generation.Interval)
		if err != nil {
			return fmt.Errorf("invalid generation.interval: %w", err)
		}
		runDeadline, err := time.ParseDuration(cfg.Generation.RunDeadline)
		if err != nil {
			return fmt.Errorf("invalid generation.run_deadline: %w", err)
		}

		analyzer, err := buildAnalyzer(cfg)
		if err != nil {
			return err
		}
		gen, err := buildGenerator(cfg)
		if err != nil {
			return err
		}

		client := rednote.NewClient(cfg.Source.BaseURL, cfg.Source.Token)
		collector := &worker.Collector{
			Client:    client,
			Store:     store,
			Keyword:   cfg.Source.Keyword,
			BatchSize: cfg.Source.BatchSize,
			Interval:  fetchInterval,
		}
		pipeWorker := &worker.PipelineWorker{
			Store: store,
			Runner: &pipeline.Runner{
				Fetcher:   client,
				Keyword:   cfg.Source.Keyword,
				BatchSize: cfg.Source.BatchSize,
				Analyzer:  analyzer,
				PromptCfg: buildPromptConfig(cfg),
				Requests:  cfg.Generation.Requests,
				Generator: gen,
				Artifacts: artifact.NewStore(cfg.Output.Dir),
			},
			Keyword:     cfg.Source.Keyword,
			BatchSize:   cfg.Source.BatchSize,
			Interval:    pipeInterval,
			RunDeadline: runDeadline,
			MinPosts:    cfg.Analysis.MinClusterSize,
		}

		slog.Info("starting workers", "keyword", cfg.Source.Keyword,
			"fetch_interval", fetchInterval, "pipeline_interval", pipeInterval)
		mgr := worker.NewManager(collector, pipeWorker)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			log.Printf("received signal: %s, shutting down", s)
			cancel()
		}()

		return mgr.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
