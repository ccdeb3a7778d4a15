package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rednote-trends/internal/artifact"
	"rednote-trends/internal/generator"
	"rednote-trends/internal/model"
	"rednote-trends/internal/prompt"
	"rednote-trends/internal/trend"
)

// Fetcher supplies a freshly collected batch of posts. It is an external
// collaborator; a fetch failure aborts the run since there is nothing to
// analyze.
type Fetcher interface {
	Search(ctx context.Context, keyword string, limit int) ([]model.Post, error)
}

// Runner sequences normalize → analyze → build → generate over one batch
// and persists an artifact as soon as its stage completes, so partial
// progress survives a failure in a later stage.
type Runner struct {
	Fetcher   Fetcher
	Keyword   string
	BatchSize int

	Analyzer  *trend.Analyzer
	PromptCfg prompt.Config
	Requests  int
	Generator *generator.Generator // nil skips the generation stage

	Artifacts *artifact.Store
}

// Result reports one run. Generation failures are per-request and never
// abort the run; a run with zero successful generations is still a
// successful run when the trend report was produced.
type Result struct {
	BatchSize int
	Topics    int
	Requested int
	Succeeded int
	Failed    int
}

// Run fetches a fresh batch and processes it.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	posts, err := r.Fetcher.Search(ctx, r.Keyword, r.BatchSize)
	if err != nil {
		return Result{}, fmt.Errorf("fetch: %w", err)
	}
	batch := model.Batch{
		FetchedAt: time.Now().UTC(),
		Keyword:   r.Keyword,
		Count:     len(posts),
		Posts:     posts,
	}
	return r.RunBatch(ctx, batch)
}

// RunBatch processes an already-fetched batch (serve mode reads it back
// from the store instead of hitting the source again).
func (r *Runner) RunBatch(ctx context.Context, batch model.Batch) (Result, error) {
	if path, err := r.Artifacts.WritePosts(batch); err != nil {
		return Result{}, fmt.Errorf("persist posts: %w", err)
	} else {
		slog.Info("pipeline: posts persisted", "path", path, "count", batch.Count)
	}

	report := r.Analyzer.Analyze(batch.Posts)
	if path, err := r.Artifacts.WriteReport(report); err != nil {
		return Result{}, fmt.Errorf("persist report: %w", err)
	} else {
		slog.Info("pipeline: trend report persisted", "path", path,
			"keywords", len(report.TopKeywords), "topics", len(report.Topics))
	}

	res := Result{BatchSize: report.BatchSize, Topics: len(report.Topics)}
	if r.Generator == nil {
		slog.Info("pipeline: generation skipped (no completion backend configured)")
		return res, nil
	}

	reqs := prompt.BuildRequests(report, r.Requests, r.PromptCfg)
	results := r.Generator.GenerateAll(ctx, reqs)
	set := generator.Collect(results)
	if path, err := r.Artifacts.WriteNotes(set); err != nil {
		return res, fmt.Errorf("persist notes: %w", err)
	} else {
		slog.Info("pipeline: notes persisted", "path", path,
			"requested", set.Requested, "succeeded", set.Succeeded, "failed", set.Failed)
	}
	res.Requested = set.Requested
	res.Succeeded = set.Succeeded
	res.Failed = set.Failed
	return res, nil
}
