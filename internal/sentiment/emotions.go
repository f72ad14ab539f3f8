package sentiment

import (
	"context"
	"log/slog"
	"strings"
)

// Coarse emotion buckets. Fine-grained classifier labels collapse into one
// of these three before they appear in a result.
var emotionCategories = map[string][]string{
	"positive": {
		"joy", "amusement", "approval", "excitement", "gratitude",
		"love", "optimism", "relief", "pride", "admiration",
		"desire", "caring",
	},
	"negative": {
		"anger", "annoyance", "disapproval", "disgust", "sadness",
		"disappointment", "embarrassment", "grief", "remorse",
		"fear", "nervousness",
	},
	"neutral": {
		"surprise", "realization", "curiosity", "confusion", "neutral",
	},
}

var emotionCategoryOrder = []string{"positive", "negative", "neutral"}

// fineToCoarse is derived from emotionCategories at init time.
var fineToCoarse = func() map[string]string {
	m := make(map[string]string)
	for _, cat := range emotionCategoryOrder {
		for _, label := range emotionCategories[cat] {
			m[label] = cat
		}
	}
	return m
}()

// Keyword fallback used when no emotion classifier is wired. Each hit adds a
// fixed increment to its bucket.
var emotionKeywords = map[string][]string{
	"positive": {"amazing", "awesome", "excellent", "love", "great", "nice", "happy", "pleased"},
	"negative": {"terrible", "awful", "horrible", "hate", "bad", "angry", "upset", "disappointed"},
	"neutral":  {"okay", "fine", "alright", "neutral", "standard"},
}

const emotionKeywordWeight = 0.1

// ClassifyEmotions buckets the comment's emotional signal into coarse
// categories. With a classifier wired, each fine label folds into its bucket
// keeping the highest confidence seen. Without one, a keyword scan runs, and
// if that also comes up empty the fused score decides the bucket outright.
func (s *Scorer) ClassifyEmotions(ctx context.Context, text string, rawTokens []string, fused float64) (map[string]float64, string) {
	order, weights := s.classifierEmotions(ctx, text)

	if len(order) == 0 {
		order, weights = keywordEmotions(rawTokens)
	}

	if len(order) == 0 {
		cat := "neutral"
		if fused > 0.3 {
			cat = "positive"
		} else if fused < -0.3 {
			cat = "negative"
		}
		order = []string{cat}
		weights = map[string]float64{cat: 0.7}
	}

	dominant := order[0]
	for _, cat := range order[1:] {
		if weights[cat] > weights[dominant] {
			dominant = cat
		}
	}
	return weights, dominant
}

func (s *Scorer) classifierEmotions(ctx context.Context, text string) ([]string, map[string]float64) {
	if !s.caps.HasEmotions() {
		return nil, nil
	}

	results, err := s.caps.Emotions.ClassifyEmotions(ctx, text)
	if err != nil {
		slog.Warn("[EmotionClassifier] Classification failed, falling back to keywords",
			slog.String("error", err.Error()))
		return nil, nil
	}

	var order []string
	weights := make(map[string]float64)
	for _, r := range results {
		cat, ok := fineToCoarse[strings.ToLower(r.Label)]
		if !ok {
			// Fine labels outside the mapping land in the neutral bucket.
			cat = "neutral"
		}
		if _, seen := weights[cat]; !seen {
			order = append(order, cat)
			weights[cat] = r.Score
		} else if r.Score > weights[cat] {
			weights[cat] = r.Score
		}
	}
	return order, weights
}

// keywordEmotions matches whole tokens only, so a keyword inside a longer
// word does not count.
func keywordEmotions(rawTokens []string) ([]string, map[string]float64) {
	keywordToCategory := make(map[string]string)
	for _, cat := range emotionCategoryOrder {
		for _, kw := range emotionKeywords[cat] {
			keywordToCategory[kw] = cat
		}
	}

	var order []string
	weights := make(map[string]float64)
	for _, tok := range rawTokens {
		cat, ok := keywordToCategory[strings.ToLower(tok)]
		if !ok {
			continue
		}
		if _, seen := weights[cat]; !seen {
			order = append(order, cat)
		}
		weights[cat] += emotionKeywordWeight
	}
	return order, weights
}
