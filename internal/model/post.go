package model

import "time"

// Sentiment is a coarse polarity label derived from a lexicon lookup.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Sentiments lists all categories in report order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

// Post is one collected note from the source platform. IDs and timestamps
// are owned by the fetcher and never fabricated or mutated here.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	Tags        []string  `json:"tags,omitempty"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	Collects    int       `json:"collects"`
	Shares      int       `json:"shares"`
	PublishedAt time.Time `json:"published_at"`
}

// Engagement returns the weighted interaction total for a post.
// Weights: likes 1.0, comments 2.0, collects 1.5, shares 3.0.
func (p Post) Engagement() float64 {
	return float64(p.Likes) + 2.0*float64(p.Comments) + 1.5*float64(p.Collects) + 3.0*float64(p.Shares)
}

// NormalizedPost is the per-post view the analyzer works on. It lives only
// for the duration of one analyzer run.
type NormalizedPost struct {
	PostID        string
	Tokens        []string
	SentimentHint Sentiment
}

// Batch is the raw-posts artifact written after a fetch.
type Batch struct {
	FetchedAt time.Time `json:"fetched_at"`
	Keyword   string    `json:"keyword"`
	Count     int       `json:"count"`
	Posts     []Post    `json:"posts"`
}
