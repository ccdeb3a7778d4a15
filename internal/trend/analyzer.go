package trend

import (
	"math"
	"sort"
	"strings"
	"time"

	"rednote-trends/internal/model"
	"rednote-trends/internal/normalize"
)

// OtherLabel names the implicit cluster of posts matching no retained keyword.
const OtherLabel = "其他"

// Config holds the analyzer knobs. Zero values fall back to defaults.
type Config struct {
	TopKeywords      int // retained global keywords (default 20)
	MinClusterSize   int // clusters below this are dropped (default 2)
	KeywordsPerTopic int // per-topic ranking depth (default 5)
}

func (c Config) withDefaults() Config {
	if c.TopKeywords <= 0 {
		c.TopKeywords = 20
	}
	if c.MinClusterSize <= 0 {
		c.MinClusterSize = 2
	}
	if c.KeywordsPerTopic <= 0 {
		c.KeywordsPerTopic = 5
	}
	return c
}

// Analyzer computes a TrendReport over a batch of posts. Analyze never
// fails; sparse input degrades to a smaller (possibly empty) report, and
// identical input yields identical output apart from GeneratedAt.
type Analyzer struct {
	norm *normalize.Normalizer
	cfg  Config
}

func NewAnalyzer(norm *normalize.Normalizer, cfg Config) *Analyzer {
	return &Analyzer{norm: norm, cfg: cfg.withDefaults()}
}

// post pairs a raw post with its normalized token set.
type post struct {
	raw    model.Post
	hint   model.Sentiment
	tokens map[string]struct{}
}

// Analyze runs the full trend computation.
func (a *Analyzer) Analyze(posts []model.Post) model.TrendReport {
	report := model.TrendReport{
		GeneratedAt:      time.Now().UTC(),
		BatchSize:        len(posts),
		TopKeywords:      []model.KeywordStat{},
		Topics:           []model.TopicCluster{},
		OverallSentiment: zeroDistribution(),
	}
	if len(posts) == 0 {
		return report
	}

	normed := make([]post, 0, len(posts))
	for _, p := range posts {
		np := a.norm.Normalize(p)
		set := make(map[string]struct{}, len(np.Tokens)+len(p.Tags))
		for _, t := range np.Tokens {
			set[t] = struct{}{}
		}
		// Tags are curated metadata; they join the token set directly.
		for _, tag := range p.Tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag != "" {
				set[tag] = struct{}{}
			}
		}
		normed = append(normed, post{raw: p, hint: np.SentimentHint, tokens: set})
	}

	report.TopKeywords = rankKeywords(normed, a.cfg.TopKeywords)
	report.Topics = a.cluster(normed, report.TopKeywords)
	report.OverallSentiment = distribution(normed)
	return report
}

// rankKeywords scores every distinct term across the batch and keeps the
// top n. frequency counts posts containing the term; the weighted score
// folds in engagement so high-likes terms surface at moderate frequency.
func rankKeywords(posts []post, n int) []model.KeywordStat {
	freq := map[string]int{}
	likes := map[string]int{}
	for _, p := range posts {
		for t := range p.tokens {
			freq[t]++
			likes[t] += p.raw.Likes
		}
	}
	stats := make([]model.KeywordStat, 0, len(freq))
	for term, f := range freq {
		stats = append(stats, model.KeywordStat{
			Term:          term,
			Frequency:     f,
			WeightedScore: float64(f) * (1 + math.Log(1+float64(likes[term]))),
		})
	}
	sortKeywords(stats)
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// sortKeywords orders by score descending, breaking ties by lexical term
// order so re-runs are byte-identical.
func sortKeywords(stats []model.KeywordStat) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].WeightedScore != stats[j].WeightedScore {
			return stats[i].WeightedScore > stats[j].WeightedScore
		}
		return stats[i].Term < stats[j].Term
	})
}

// cluster assigns each post to the highest-ranked retained keyword present
// in its token set: a single greedy pass over the keyword ranking, claiming
// still-unassigned posts. Posts matching nothing fall into the implicit
// "other" cluster. Clusters below the minimum size are dropped.
func (a *Analyzer) cluster(posts []post, keywords []model.KeywordStat) []model.TopicCluster {
	assigned := make([]bool, len(posts))
	var clusters []model.TopicCluster

	for _, kw := range keywords {
		var members []post
		var memberIdx []int
		for i, p := range posts {
			if assigned[i] {
				continue
			}
			if _, ok := p.tokens[kw.Term]; ok {
				members = append(members, p)
				memberIdx = append(memberIdx, i)
			}
		}
		if len(members) == 0 {
			continue
		}
		for _, i := range memberIdx {
			assigned[i] = true
		}
		if len(members) < a.cfg.MinClusterSize {
			continue
		}
		clusters = append(clusters, a.buildCluster(kw.Term, members))
	}

	var rest []post
	for i, p := range posts {
		if !assigned[i] {
			rest = append(rest, p)
		}
	}
	if len(rest) >= a.cfg.MinClusterSize {
		clusters = append(clusters, a.buildCluster(OtherLabel, rest))
	}

	sort.Slice(clusters, func(i, j int) bool {
		if len(clusters[i].MemberPostIDs) != len(clusters[j].MemberPostIDs) {
			return len(clusters[i].MemberPostIDs) > len(clusters[j].MemberPostIDs)
		}
		return clusters[i].Label < clusters[j].Label
	})
	if clusters == nil {
		clusters = []model.TopicCluster{}
	}
	return clusters
}

// buildCluster computes a cluster's own keyword ranking and sentiment mix,
// restricted to its members.
func (a *Analyzer) buildCluster(label string, members []post) model.TopicCluster {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.raw.ID)
	}
	sort.Strings(ids)
	return model.TopicCluster{
		Label:                 label,
		MemberPostIDs:         ids,
		Keywords:              rankKeywords(members, a.cfg.KeywordsPerTopic),
		SentimentDistribution: distribution(members),
	}
}

func zeroDistribution() map[model.Sentiment]float64 {
	d := make(map[model.Sentiment]float64, len(model.Sentiments))
	for _, s := range model.Sentiments {
		d[s] = 0
	}
	return d
}

// distribution counts sentiment hints and returns fractions summing to
// 1.0 (within rounding) for a non-empty member list.
func distribution(posts []post) map[model.Sentiment]float64 {
	d := zeroDistribution()
	if len(posts) == 0 {
		return d
	}
	for _, p := range posts {
		d[p.hint]++
	}
	total := float64(len(posts))
	for s, c := range d {
		d[s] = c / total
	}
	return d
}
