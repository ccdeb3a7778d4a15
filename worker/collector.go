package worker

import (
	"context"
	"log/slog"
	"time"

	"rednote-trends/internal/rednote"
	"rednote-trends/internal/storage"
)

// Collector periodically pulls the configured keyword feed into the store,
// where posts accumulate under the current daily period scored by
// engagement.
type Collector struct {
	Client    *rednote.Client
	Store     *storage.RedisStore
	Keyword   string
	BatchSize int
	Interval  time.Duration
}

func (w *Collector) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 60 * time.Minute
	}
	t := time.NewTicker(w.Interval)
	defer t.Stop()

	// initial run
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Collector) runOnce(ctx context.Context) {
	period := storage.PeriodKey(time.Now())
	posts, err := w.Client.Search(ctx, w.Keyword, w.BatchSize)
	if err != nil {
		slog.Error("collector: fetch failed", "keyword", w.Keyword, "err", err)
		return
	}
	stored := 0
	for _, p := range posts {
		if err := w.Store.AddPost(ctx, period, p); err != nil {
			slog.Error("collector: store error", "id", p.ID, "err", err)
			continue
		}
		stored++
	}
	slog.Info("collector: completed", "keyword", w.Keyword, "stored", stored, "period", period)
}
