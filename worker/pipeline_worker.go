package worker

import (
	"context"
	"log"
	"time"

	"rednote-trends/internal/model"
	"rednote-trends/internal/pipeline"
	"rednote-trends/internal/storage"
)

// PipelineWorker evaluates on an interval and runs the analysis/generation
// pipeline once per daily period, reading the collected batch back from
// the store. A processed marker prevents duplicate runs within a period.
type PipelineWorker struct {
	Store       *storage.RedisStore
	Runner      *pipeline.Runner
	Keyword     string
	BatchSize   int
	Interval    time.Duration // how often to evaluate
	RunDeadline time.Duration // per-run budget; in-flight generations are cut off
	MinPosts    int           // skip the period until this many posts collected
}

func (w *PipelineWorker) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 30 * time.Minute
	}
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *PipelineWorker) runOnce(ctx context.Context) {
	period := storage.PeriodKey(time.Now())
	processed, err := w.Store.IsProcessed(ctx, period)
	if err != nil {
		log.Printf("pipeline worker: processed-check err=%v", err)
		return
	}
	if processed {
		return
	}
	posts, err := w.Store.TopPosts(ctx, period, w.BatchSize)
	if err != nil {
		log.Printf("pipeline worker: read batch err=%v", err)
		return
	}
	if len(posts) < w.MinPosts {
		return
	}

	runCtx := ctx
	if w.RunDeadline > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, w.RunDeadline)
		defer cancel()
	}
	batch := model.Batch{
		FetchedAt: time.Now().UTC(),
		Keyword:   w.Keyword,
		Count:     len(posts),
		Posts:     posts,
	}
	res, err := w.Runner.RunBatch(runCtx, batch)
	if err != nil {
		log.Printf("pipeline worker: run err=%v", err)
		return
	}
	if err := w.Store.MarkProcessed(ctx, period); err != nil {
		log.Printf("pipeline worker: mark processed err=%v", err)
		return
	}
	log.Printf("pipeline worker: period %s done batch=%d topics=%d generated=%d/%d",
		period, res.BatchSize, res.Topics, res.Succeeded, res.Requested)
}
