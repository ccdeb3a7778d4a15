package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"rednote-trends/internal/ai"
	"rednote-trends/internal/model"
	"rednote-trends/internal/prompt"
)

// baseTags are attached to every generated note alongside its seed keywords.
var baseTags = []string{"电影推荐", "影评", "观影笔记"}

const maxTags = 8

// Config holds the generator knobs.
type Config struct {
	Timeout     time.Duration // per completion call
	Retries     int           // extra attempts on transient failure
	Concurrency int           // worker count for batch generation
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 3
	}
	return c
}

// Generator turns generation requests into notes via the completion
// collaborator, rejecting output that fails validation rather than
// persisting off-topic or degenerate text.
type Generator struct {
	completer ai.Completer
	params    ai.Params
	cfg       Config
}

func New(completer ai.Completer, params ai.Params, cfg Config) *Generator {
	return &Generator{completer: completer, params: params, cfg: cfg.withDefaults()}
}

// Generate drafts one note. The completion call runs under a bounded
// timeout with a single retry on transient failure; rate-limit and
// content-policy rejections are final.
func (g *Generator) Generate(ctx context.Context, req model.GenerationRequest) (model.GeneratedNote, error) {
	p, err := prompt.Render(req)
	if err != nil {
		return model.GeneratedNote{}, &ai.Error{Kind: ai.KindMalformedResponse, Err: err}
	}

	var text string
	attempts := 1 + g.cfg.Retries
	for attempt := 1; ; attempt++ {
		cctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		text, err = g.completer.Complete(cctx, p, g.params)
		cancel()
		if err == nil {
			break
		}
		if attempt >= attempts || !ai.Transient(err) || ctx.Err() != nil {
			return model.GeneratedNote{}, err
		}
		slog.Warn("generator: retrying after transient failure", "topic", req.TopicLabel, "attempt", attempt, "err", err)
	}

	title, body := splitTitle(text, req.TopicLabel)
	if err := validate(req, body); err != nil {
		return model.GeneratedNote{}, err
	}
	return model.GeneratedNote{
		ID:               uuid.NewString(),
		SourceTopicLabel: req.TopicLabel,
		Title:            title,
		Body:             body,
		Tags:             deriveTags(req),
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// Result pairs one request with its outcome, in request order.
type Result struct {
	Request model.GenerationRequest
	Note    model.GeneratedNote
	Err     error
}

// GenerateAll drafts notes for every request on a small fixed worker pool.
// Requests are independent network round-trips; failures stay isolated to
// their request and the output order follows the request order, not
// completion order, so runs are deterministic regardless of timing.
func (g *Generator) GenerateAll(ctx context.Context, reqs []model.GenerationRequest) []Result {
	results := make([]Result, len(reqs))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := g.cfg.Concurrency
	if workers > len(reqs) {
		workers = len(reqs)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				req := reqs[i]
				if err := ctx.Err(); err != nil {
					// run deadline hit; do not start the call
					results[i] = Result{Request: req, Err: &ai.Error{Kind: ai.KindTimeout, Err: err}}
					continue
				}
				note, err := g.Generate(ctx, req)
				results[i] = Result{Request: req, Note: note, Err: err}
				if err != nil {
					slog.Warn("generator: request failed", "topic", req.TopicLabel, "kind", ai.KindOf(err), "err", err)
				}
			}
		}()
	}
	for i := range reqs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// Collect assembles the generated-notes artifact from batch results.
func Collect(results []Result) model.NoteSet {
	set := model.NoteSet{
		GeneratedAt: time.Now().UTC(),
		Requested:   len(results),
		Notes:       []model.GeneratedNote{},
	}
	for _, r := range results {
		if r.Err != nil {
			set.Failed++
			continue
		}
		set.Succeeded++
		set.Notes = append(set.Notes, r.Note)
	}
	return set
}

// validate rejects output the pipeline must not persist: empty bodies,
// bodies far outside the target length band, and text containing none of
// the seed keywords (off-topic output).
func validate(req model.GenerationRequest, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return &ai.Error{Kind: ai.KindMalformedResponse, Err: errors.New("empty body")}
	}
	n := len([]rune(body))
	lo := req.TargetLength.Min / 2
	hi := req.TargetLength.Max * 2
	if hi > 0 && (n < lo || n > hi) {
		return &ai.Error{
			Kind: ai.KindMalformedResponse,
			Err:  fmt.Errorf("body length %d outside tolerance [%d,%d]", n, lo, hi),
		}
	}
	lower := strings.ToLower(body)
	for _, kw := range req.SeedKeywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return nil
		}
	}
	return &ai.Error{Kind: ai.KindMalformedResponse, Err: errors.New("no seed keyword present in body")}
}

// splitTitle takes the first non-empty line as the title and the remainder
// as the body. When the completion is a single block, the whole text stays
// as body and a title is synthesized from the topic label.
func splitTitle(text, topicLabel string) (title, body string) {
	text = strings.TrimSpace(text)
	head, rest, found := strings.Cut(text, "\n")
	head = strings.Trim(strings.TrimSpace(head), "#*「」【】\"“”")
	rest = strings.TrimSpace(rest)
	if !found || rest == "" {
		return topicLabel + "｜观影笔记", text
	}
	if r := []rune(head); len(r) > 40 {
		head = string(r[:40])
	}
	return head, rest
}

// deriveTags combines the base tags with the request's seed keywords,
// capped and de-duplicated.
func deriveTags(req model.GenerationRequest) []string {
	tags := make([]string, 0, maxTags)
	seen := make(map[string]struct{})
	for _, t := range append(append([]string{}, baseTags...), req.SeedKeywords...) {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
		if len(tags) >= maxTags {
			break
		}
	}
	return tags
}
