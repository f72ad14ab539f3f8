// Package capabilities defines the optional heavy-model dependencies of the
// analysis pipeline. Every provider is injected and queried behind an
// availability check; an absent or failing provider triggers the documented
// fallback instead of blocking the batch.
package capabilities

import "context"

// Classification is one label with its confidence.
type Classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentClassifier scores a text as positive or negative with confidence.
type SentimentClassifier interface {
	Available() bool
	ClassifySentiment(ctx context.Context, text string) (Classification, error)
}

// EmotionClassifier returns ranked fine-grained emotion labels for a text.
type EmotionClassifier interface {
	Available() bool
	ClassifyEmotions(ctx context.Context, text string) ([]Classification, error)
}

// ZeroShotClassifier classifies a text against an arbitrary caller-supplied
// label set.
type ZeroShotClassifier interface {
	Available() bool
	ClassifyZeroShot(ctx context.Context, text string, candidates []string) ([]Classification, error)
}

// Summarizer produces a short abstractive summary of a text.
type Summarizer interface {
	Available() bool
	Summarize(ctx context.Context, text string) (string, error)
}

// Providers bundles the optional capabilities handed to the pipeline. Any
// field may be nil.
type Providers struct {
	Sentiment  SentimentClassifier
	Emotions   EmotionClassifier
	ZeroShot   ZeroShotClassifier
	Summarizer Summarizer
}

func (p Providers) HasSentiment() bool {
	return p.Sentiment != nil && p.Sentiment.Available()
}

func (p Providers) HasEmotions() bool {
	return p.Emotions != nil && p.Emotions.Available()
}

func (p Providers) HasZeroShot() bool {
	return p.ZeroShot != nil && p.ZeroShot.Available()
}

func (p Providers) HasSummarizer() bool {
	return p.Summarizer != nil && p.Summarizer.Available()
}
