package generator

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"rednote-trends/internal/ai"
	"rednote-trends/internal/model"
)

// fakeCompleter scripts the completion collaborator.
type fakeCompleter struct {
	calls int32
	fn    func(call int, prompt string) (string, error)
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, _ ai.Params) (string, error) {
	n := int(atomic.AddInt32(&f.calls, 1))
	return f.fn(n, prompt)
}

func testRequest() model.GenerationRequest {
	return model.GenerationRequest{
		TopicLabel:   "阿凡达",
		SeedKeywords: []string{"阿凡达", "画面"},
		ToneHint:     model.ToneUpbeat,
		TargetLength: model.LengthRange{Min: 10, Max: 200},
	}
}

func goodBody() string {
	return "必看的阿凡达\n\n重映版阿凡达的画面依旧震撼，潘多拉星球值得再进一次影院。\n\n你们会去二刷吗？"
}

func newTestGenerator(c ai.Completer, cfg Config) *Generator {
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 2
	}
	return New(c, ai.Params{MaxTokens: 400}, cfg)
}

func TestGenerateSuccess(t *testing.T) {
	fc := &fakeCompleter{fn: func(_ int, _ string) (string, error) { return goodBody(), nil }}
	g := newTestGenerator(fc, Config{})

	note, err := g.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if note.Title != "必看的阿凡达" {
		t.Errorf("title: got %q", note.Title)
	}
	if !strings.Contains(note.Body, "阿凡达") {
		t.Errorf("body lost seed keyword: %q", note.Body)
	}
	if note.ID == "" || note.SourceTopicLabel != "阿凡达" {
		t.Errorf("note identity wrong: %+v", note)
	}
	if len(note.Tags) == 0 || len(note.Tags) > 8 {
		t.Errorf("tags out of range: %v", note.Tags)
	}
}

func TestGenerateRejectsOffTopicBody(t *testing.T) {
	fc := &fakeCompleter{fn: func(_ int, _ string) (string, error) {
		return "某个标题\n\n完全无关的内容，没有提到任何关键词，但是长度是足够的。", nil
	}}
	g := newTestGenerator(fc, Config{})

	_, err := g.Generate(context.Background(), testRequest())
	if err == nil {
		t.Fatalf("expected validation failure for off-topic body")
	}
	if ai.KindOf(err) != ai.KindMalformedResponse {
		t.Errorf("kind: got %s want %s", ai.KindOf(err), ai.KindMalformedResponse)
	}
}

func TestGenerateRejectsEmptyAndOversized(t *testing.T) {
	cases := []string{
		"",
		"标题\n\n" + strings.Repeat("阿凡达好看。", 200), // far over 2x max
	}
	for _, body := range cases {
		fc := &fakeCompleter{fn: func(_ int, _ string) (string, error) { return body, nil }}
		g := newTestGenerator(fc, Config{})
		if _, err := g.Generate(context.Background(), testRequest()); err == nil {
			t.Errorf("expected rejection for body %q...", body[:min(20, len(body))])
		}
	}
}

func TestGenerateRetriesOnceOnTimeout(t *testing.T) {
	fc := &fakeCompleter{fn: func(call int, _ string) (string, error) {
		if call == 1 {
			return "", &ai.Error{Kind: ai.KindTimeout, Err: context.DeadlineExceeded}
		}
		return goodBody(), nil
	}}
	g := newTestGenerator(fc, Config{Retries: 1})

	if _, err := g.Generate(context.Background(), testRequest()); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if fc.calls != 2 {
		t.Errorf("calls: got %d want 2", fc.calls)
	}
}

func TestGenerateTimeoutTwiceFails(t *testing.T) {
	fc := &fakeCompleter{fn: func(_ int, _ string) (string, error) {
		return "", &ai.Error{Kind: ai.KindTimeout, Err: context.DeadlineExceeded}
	}}
	g := newTestGenerator(fc, Config{Retries: 1})

	_, err := g.Generate(context.Background(), testRequest())
	if err == nil {
		t.Fatalf("expected timeout failure")
	}
	if ai.KindOf(err) != ai.KindTimeout {
		t.Errorf("kind: got %s want %s", ai.KindOf(err), ai.KindTimeout)
	}
	if fc.calls != 2 {
		t.Errorf("calls: got %d want 2 (one retry)", fc.calls)
	}
}

func TestGenerateNoRetryOnRateLimit(t *testing.T) {
	fc := &fakeCompleter{fn: func(_ int, _ string) (string, error) {
		return "", &ai.Error{Kind: ai.KindRateLimited, Err: errors.New("429")}
	}}
	g := newTestGenerator(fc, Config{Retries: 1})

	_, err := g.Generate(context.Background(), testRequest())
	if ai.KindOf(err) != ai.KindRateLimited {
		t.Fatalf("kind: got %v", err)
	}
	if fc.calls != 1 {
		t.Errorf("calls: got %d want 1 (no retry)", fc.calls)
	}
}

func TestGenerateAllIsolatesFailures(t *testing.T) {
	reqs := []model.GenerationRequest{
		testRequest(),
		{
			TopicLabel:   "盗梦空间",
			SeedKeywords: []string{"盗梦空间"},
			TargetLength: model.LengthRange{Min: 10, Max: 200},
		},
		{
			TopicLabel:   "影院",
			SeedKeywords: []string{"影院"},
			TargetLength: model.LengthRange{Min: 10, Max: 200},
		},
	}
	fc := &fakeCompleter{fn: func(_ int, prompt string) (string, error) {
		if strings.Contains(prompt, "盗梦空间") {
			return "", &ai.Error{Kind: ai.KindTimeout, Err: context.DeadlineExceeded}
		}
		if strings.Contains(prompt, "影院") {
			return "标题\n\n周末的影院总是热闹，纪录片场次也排起了队，值得一去。", nil
		}
		return goodBody(), nil
	}}
	g := newTestGenerator(fc, Config{Concurrency: 3})

	results := g.GenerateAll(context.Background(), reqs)
	if len(results) != 3 {
		t.Fatalf("results: got %d want 3", len(results))
	}
	// output follows request order, not completion order
	for i, r := range results {
		if r.Request.TopicLabel != reqs[i].TopicLabel {
			t.Errorf("result %d out of order: %q", i, r.Request.TopicLabel)
		}
	}
	if results[1].Err == nil {
		t.Errorf("expected failure for 盗梦空间")
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("unrelated requests affected: %v %v", results[0].Err, results[2].Err)
	}

	set := Collect(results)
	if set.Requested != 3 || set.Succeeded != 2 || set.Failed != 1 {
		t.Errorf("counts: %d/%d/%d want 3/2/1", set.Requested, set.Succeeded, set.Failed)
	}
	if len(set.Notes) != 2 {
		t.Errorf("notes: got %d want 2", len(set.Notes))
	}
}

func TestGenerateAllHonorsRunDeadline(t *testing.T) {
	fc := &fakeCompleter{fn: func(_ int, _ string) (string, error) { return goodBody(), nil }}
	g := newTestGenerator(fc, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := g.GenerateAll(ctx, []model.GenerationRequest{testRequest()})
	if results[0].Err == nil {
		t.Fatalf("expected deadline failure")
	}
	if ai.KindOf(results[0].Err) != ai.KindTimeout {
		t.Errorf("kind: got %s want %s", ai.KindOf(results[0].Err), ai.KindTimeout)
	}
}

func TestSplitTitleSynthesizesForSingleLine(t *testing.T) {
	title, body := splitTitle("只有一行的内容提到了阿凡达", "阿凡达")
	if title != "阿凡达｜观影笔记" {
		t.Errorf("title: got %q", title)
	}
	if body != "只有一行的内容提到了阿凡达" {
		t.Errorf("body: got %q", body)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
