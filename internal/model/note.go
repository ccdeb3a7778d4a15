package model

import "time"

// Tone is a writing-voice hint for the generation backend.
type Tone string

const (
	ToneUpbeat     Tone = "upbeat"
	ToneBalanced   Tone = "balanced"
	ToneEmpathetic Tone = "empathetic"
)

// ToneForSentiment maps a dominant sentiment category to a tone hint.
func ToneForSentiment(s Sentiment) Tone {
	switch s {
	case SentimentPositive:
		return ToneUpbeat
	case SentimentNegative:
		return ToneEmpathetic
	default:
		return ToneBalanced
	}
}

// LengthRange is a target body length in runes.
type LengthRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// GenerationRequest instructs the generator to draft one note for a topic.
// Produced and consumed within a single pipeline run.
type GenerationRequest struct {
	TopicLabel   string      `json:"topic_label"`
	SeedKeywords []string    `json:"seed_keywords"`
	ToneHint     Tone        `json:"tone_hint"`
	TargetLength LengthRange `json:"target_length"`
}

// GeneratedNote is a newly authored post. Persisted once, never mutated;
// a failed generation produces no note at all.
type GeneratedNote struct {
	ID               string    `json:"id"`
	SourceTopicLabel string    `json:"source_topic_label"`
	Title            string    `json:"title"`
	Body             string    `json:"body"`
	Tags             []string  `json:"tags"`
	CreatedAt        time.Time `json:"created_at"`
}

// NoteSet is the generated-notes artifact of one pipeline run.
type NoteSet struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Requested   int             `json:"requested"`
	Succeeded   int             `json:"succeeded"`
	Failed      int             `json:"failed"`
	Notes       []GeneratedNote `json:"notes"`
}
