package sentiment

import (
	"context"
	"testing"

	"github.com/spacesedan/insightflow/config"
	"github.com/spacesedan/insightflow/internal/capabilities"
)

type stubEmotions struct {
	results []capabilities.Classification
}

func (s stubEmotions) ClassifyEmotions(context.Context, string) ([]capabilities.Classification, error) {
	return s.results, nil
}

func (stubEmotions) Available() bool { return true }

func TestClassifyEmotionsFoldsFineLabels(t *testing.T) {
	s := NewScorer(config.DefaultAnalyzer(), capabilities.Providers{
		Emotions: stubEmotions{results: []capabilities.Classification{
			{Label: "joy", Score: 0.8},
			{Label: "gratitude", Score: 0.5},
			{Label: "annoyance", Score: 0.3},
			{Label: "curiosity", Score: 0.2},
		}},
	})

	weights, dominant := s.ClassifyEmotions(context.Background(), "whatever", nil, 0)

	if dominant != "positive" {
		t.Errorf("dominant = %q, want positive", dominant)
	}
	// Per category the maximum confidence is kept, not the sum.
	if weights["positive"] != 0.8 {
		t.Errorf("positive weight = %v, want 0.8", weights["positive"])
	}
	if weights["negative"] != 0.3 {
		t.Errorf("negative weight = %v, want 0.3", weights["negative"])
	}
	if weights["neutral"] != 0.2 {
		t.Errorf("neutral weight = %v, want 0.2", weights["neutral"])
	}
}

func TestClassifyEmotionsUnmappedLabelIsNeutral(t *testing.T) {
	s := NewScorer(config.DefaultAnalyzer(), capabilities.Providers{
		Emotions: stubEmotions{results: []capabilities.Classification{
			{Label: "bewilderment", Score: 0.9},
		}},
	})

	weights, dominant := s.ClassifyEmotions(context.Background(), "whatever", nil, 0)

	if dominant != "neutral" {
		t.Errorf("dominant = %q, want neutral", dominant)
	}
	if weights["neutral"] != 0.9 {
		t.Errorf("neutral weight = %v, want 0.9", weights["neutral"])
	}
}

func TestClassifyEmotionsKeywordFallback(t *testing.T) {
	s := newTestScorer()

	text := "This is awful and terrible, I hate it, though the box was nice."
	tokens := []string{"This", "is", "awful", "and", "terrible", ",", "I", "hate", "it", ",", "though", "the", "box", "was", "nice", "."}

	weights, dominant := s.ClassifyEmotions(context.Background(), text, tokens, 0)

	if dominant != "negative" {
		t.Errorf("dominant = %q, want negative", dominant)
	}
	// Three negative hits accumulate, one positive hit.
	if weights["negative"] < 0.29 || weights["negative"] > 0.31 {
		t.Errorf("negative weight = %v, want 0.3", weights["negative"])
	}
	if weights["positive"] < 0.09 || weights["positive"] > 0.11 {
		t.Errorf("positive weight = %v, want 0.1", weights["positive"])
	}
}

func TestClassifyEmotionsKeywordNeedsWholeToken(t *testing.T) {
	s := newTestScorer()

	// "badge" contains "bad" and "finery" contains "fine"; neither is a
	// keyword hit, so the score default applies.
	weights, dominant := s.ClassifyEmotions(context.Background(),
		"my badge shows finery", []string{"my", "badge", "shows", "finery"}, 0)

	if dominant != "neutral" {
		t.Errorf("dominant = %q, want neutral", dominant)
	}
	if weights["neutral"] != 0.7 || len(weights) != 1 {
		t.Errorf("weights = %v, want only neutral 0.7", weights)
	}
}

func TestClassifyEmotionsScoreDefault(t *testing.T) {
	s := newTestScorer()

	tests := []struct {
		fused float64
		want  string
	}{
		{0.5, "positive"},
		{-0.5, "negative"},
		{0.0, "neutral"},
	}

	for _, tt := range tests {
		weights, dominant := s.ClassifyEmotions(context.Background(), "zzz qqq", []string{"zzz", "qqq"}, tt.fused)
		if dominant != tt.want {
			t.Errorf("fused %v: dominant = %q, want %q", tt.fused, dominant, tt.want)
		}
		if weights[tt.want] != 0.7 {
			t.Errorf("fused %v: weight = %v, want 0.7", tt.fused, weights[tt.want])
		}
		if len(weights) != 1 {
			t.Errorf("fused %v: got %d categories, want 1", tt.fused, len(weights))
		}
	}
}
