package model

import "time"

// KeywordStat ranks one distinct term across a batch.
type KeywordStat struct {
	Term          string  `json:"term"`
	Frequency     int     `json:"frequency"`
	WeightedScore float64 `json:"weighted_score"`
}

// TopicCluster groups the posts claimed by one dominant keyword.
type TopicCluster struct {
	Label                 string                `json:"label"`
	MemberPostIDs         []string              `json:"member_post_ids"`
	Keywords              []KeywordStat         `json:"keywords"`
	SentimentDistribution map[Sentiment]float64 `json:"sentiment_distribution"`
}

// TrendReport is the aggregate artifact of one analyzer run.
// Re-running on identical input yields identical content apart from GeneratedAt.
type TrendReport struct {
	GeneratedAt      time.Time             `json:"generated_at"`
	BatchSize        int                   `json:"batch_size"`
	TopKeywords      []KeywordStat         `json:"top_keywords"`
	Topics           []TopicCluster        `json:"topics"`
	OverallSentiment map[Sentiment]float64 `json:"overall_sentiment"`
}

// DominantSentiment returns the category with the largest fraction in a
// distribution; ties resolve in Sentiments order.
func DominantSentiment(dist map[Sentiment]float64) Sentiment {
	best := SentimentNeutral
	bestV := -1.0
	for _, s := range Sentiments {
		if v := dist[s]; v > bestV {
			best = s
			bestV = v
		}
	}
	return best
}
