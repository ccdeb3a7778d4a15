package prompt

import (
	"rednote-trends/internal/model"
)

// Config holds the builder knobs.
type Config struct {
	MaxSeedKeywords int // seed keywords per request (default 5)
	TargetLength    model.LengthRange
}

func (c Config) withDefaults() Config {
	if c.MaxSeedKeywords <= 0 {
		c.MaxSeedKeywords = 5
	}
	if c.TargetLength.Min <= 0 {
		c.TargetLength.Min = 150
	}
	if c.TargetLength.Max <= c.TargetLength.Min {
		c.TargetLength.Max = c.TargetLength.Min * 2
	}
	return c
}

// BuildRequests derives up to count generation requests from a trend
// report. Pure data transform: topics are taken in report order (already
// sorted by member count); when topics run out, top global keywords fill
// the remainder without repeating any label. If the report cannot supply
// count distinct subjects, fewer requests come back — nothing is invented.
func BuildRequests(report model.TrendReport, count int, cfg Config) []model.GenerationRequest {
	cfg = cfg.withDefaults()
	if count <= 0 {
		return nil
	}

	var reqs []model.GenerationRequest
	used := make(map[string]struct{})

	for _, topic := range report.Topics {
		if len(reqs) >= count {
			break
		}
		if _, dup := used[topic.Label]; dup {
			continue
		}
		used[topic.Label] = struct{}{}
		reqs = append(reqs, model.GenerationRequest{
			TopicLabel:   topic.Label,
			SeedKeywords: seedsFromTopic(topic, cfg.MaxSeedKeywords),
			ToneHint:     model.ToneForSentiment(model.DominantSentiment(topic.SentimentDistribution)),
			TargetLength: cfg.TargetLength,
		})
	}

	// Fallback: promote global keywords when topics are scarce. A bare
	// keyword has no cluster of its own, so tone follows the batch mood.
	overallTone := model.ToneForSentiment(model.DominantSentiment(report.OverallSentiment))
	for _, kw := range report.TopKeywords {
		if len(reqs) >= count {
			break
		}
		if _, dup := used[kw.Term]; dup {
			continue
		}
		used[kw.Term] = struct{}{}
		reqs = append(reqs, model.GenerationRequest{
			TopicLabel:   kw.Term,
			SeedKeywords: []string{kw.Term},
			ToneHint:     overallTone,
			TargetLength: cfg.TargetLength,
		})
	}
	return reqs
}

// seedsFromTopic takes the topic's own ranked keywords, making sure the
// label itself is present so generated text can be validated against it.
func seedsFromTopic(topic model.TopicCluster, max int) []string {
	seeds := make([]string, 0, max)
	if topic.Label != "" {
		seeds = append(seeds, topic.Label)
	}
	for _, kw := range topic.Keywords {
		if len(seeds) >= max {
			break
		}
		if kw.Term == topic.Label {
			continue
		}
		seeds = append(seeds, kw.Term)
	}
	return seeds
}
