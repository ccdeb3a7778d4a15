package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rednote-trends/internal/ai"
	"rednote-trends/internal/artifact"
	"rednote-trends/internal/generator"
	"rednote-trends/internal/model"
	"rednote-trends/internal/normalize"
	"rednote-trends/internal/prompt"
	"rednote-trends/internal/trend"
)

type fakeFetcher struct {
	posts []model.Post
	err   error
}

func (f *fakeFetcher) Search(ctx context.Context, keyword string, limit int) ([]model.Post, error) {
	return f.posts, f.err
}

type fakeCompleter struct {
	fn func(prompt string) (string, error)
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, _ ai.Params) (string, error) {
	return f.fn(prompt)
}

func testPosts() []model.Post {
	return []model.Post{
		{ID: "a", Text: "阿凡达重映了", Likes: 10, PublishedAt: time.Now()},
		{ID: "b", Text: "阿凡达画面震撼", Likes: 5, PublishedAt: time.Now()},
		{ID: "c", Text: "盗梦空间烧脑", Likes: 8, PublishedAt: time.Now()},
		{ID: "d", Text: "盗梦空间结局讨论", Likes: 2, PublishedAt: time.Now()},
	}
}

func newRunner(t *testing.T, fetcher Fetcher, gen *generator.Generator) *Runner {
	t.Helper()
	return &Runner{
		Fetcher:   fetcher,
		Keyword:   "电影",
		BatchSize: 20,
		Analyzer:  trend.NewAnalyzer(normalize.New(normalize.DefaultLexicon()), trend.Config{MinClusterSize: 2}),
		PromptCfg: prompt.Config{TargetLength: model.LengthRange{Min: 10, Max: 300}},
		Requests:  2,
		Generator: gen,
		Artifacts: artifact.NewStore(t.TempDir()),
	}
}

func TestRunFetchErrorAborts(t *testing.T) {
	r := newRunner(t, &fakeFetcher{err: errors.New("upstream down")}, nil)
	_, err := r.Run(context.Background())
	if err == nil {
		t.Fatalf("expected fetch error to abort the run")
	}
	if _, statErr := os.Stat(filepath.Join(r.Artifacts.Dir, artifact.PostsName+"-latest.json")); !os.IsNotExist(statErr) {
		t.Errorf("no artifact should exist after fetch failure")
	}
}

func TestRunWithoutGeneratorStopsAfterReport(t *testing.T) {
	r := newRunner(t, &fakeFetcher{posts: testPosts()}, nil)
	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.BatchSize != 4 || res.Topics != 2 {
		t.Errorf("result: %+v", res)
	}
	if res.Requested != 0 {
		t.Errorf("generation should be skipped, got %+v", res)
	}

	batch, err := r.Artifacts.ReadLatestPosts()
	if err != nil {
		t.Fatalf("posts artifact missing: %v", err)
	}
	if batch.Count != 4 {
		t.Errorf("batch count: got %d want 4", batch.Count)
	}
	report, err := r.Artifacts.ReadLatestReport()
	if err != nil {
		t.Fatalf("report artifact missing: %v", err)
	}
	if report.BatchSize != 4 {
		t.Errorf("report batch size: got %d want 4", report.BatchSize)
	}
	if _, statErr := os.Stat(filepath.Join(r.Artifacts.Dir, artifact.NotesName+"-latest.json")); !os.IsNotExist(statErr) {
		t.Errorf("notes artifact should not exist without a generator")
	}
}

func TestRunIsolatesGenerationFailures(t *testing.T) {
	// 盗梦空间 times out on every attempt; 阿凡达 succeeds. The run must
	// persist the surviving note and report the failure count.
	fc := &fakeCompleter{fn: func(p string) (string, error) {
		if strings.Contains(p, "盗梦空间") {
			return "", &ai.Error{Kind: ai.KindTimeout, Err: context.DeadlineExceeded}
		}
		return "重映必看\n\n阿凡达的画面还是震撼，建议选最大的厅。", nil
	}}
	gen := generator.New(fc, ai.Params{}, generator.Config{Timeout: time.Second, Retries: 1, Concurrency: 2})

	r := newRunner(t, &fakeFetcher{posts: testPosts()}, gen)
	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Requested != 2 || res.Succeeded != 1 || res.Failed != 1 {
		t.Errorf("counts: %+v", res)
	}

	var set model.NoteSet
	b, readErr := os.ReadFile(filepath.Join(r.Artifacts.Dir, artifact.NotesName+"-latest.json"))
	if readErr != nil {
		t.Fatalf("notes artifact missing: %v", readErr)
	}
	if err := json.Unmarshal(b, &set); err != nil {
		t.Fatalf("notes artifact unreadable: %v", err)
	}
	if len(set.Notes) != 1 || set.Notes[0].SourceTopicLabel != "阿凡达" {
		t.Errorf("persisted notes wrong: %+v", set.Notes)
	}
	if set.Failed != 1 {
		t.Errorf("failed count: got %d want 1", set.Failed)
	}
}
