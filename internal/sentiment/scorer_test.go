package sentiment

import (
	"context"
	"testing"

	prose "github.com/tsawler/prose/v3"

	"github.com/spacesedan/insightflow/config"
	"github.com/spacesedan/insightflow/internal/capabilities"
	"github.com/spacesedan/insightflow/internal/models"
)

func newTestScorer() *Scorer {
	return NewScorer(config.DefaultAnalyzer(), capabilities.Providers{})
}

func TestLabelThresholds(t *testing.T) {
	s := newTestScorer()

	tests := []struct {
		score float64
		want  string
	}{
		{0.9, models.LabelVeryPositive},
		{0.61, models.LabelVeryPositive},
		{0.6, models.LabelPositive},
		{0.21, models.LabelPositive},
		{0.2, models.LabelNeutral},
		{0.0, models.LabelNeutral},
		{-0.2, models.LabelNegative},
		{-0.59, models.LabelNegative},
		{-0.6, models.LabelVeryNegative},
		{-1.0, models.LabelVeryNegative},
	}

	for _, tt := range tests {
		if got := s.Label(tt.score); got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestAdjustBlendsRating(t *testing.T) {
	s := newTestScorer()

	// A mildly positive text with a one-star rating should flip negative.
	adjusted, label := s.Adjust(0.3, 1)
	want := 0.3*0.3 + (-1.0)*0.7
	if diff := adjusted - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Adjust(0.3, 1) = %v, want %v", adjusted, want)
	}
	if label != models.LabelVeryNegative {
		t.Errorf("adjusted label = %q, want %q", label, models.LabelVeryNegative)
	}

	// A five-star rating pulls a neutral text strongly positive.
	adjusted, label = s.Adjust(0.0, 5)
	if adjusted <= 0.6 {
		t.Errorf("Adjust(0, 5) = %v, want > 0.6", adjusted)
	}
	if label != models.LabelVeryPositive {
		t.Errorf("adjusted label = %q, want %q", label, models.LabelVeryPositive)
	}

	// A three-star rating is the neutral midpoint.
	adjusted, _ = s.Adjust(0.5, 3)
	want = 0.5 * 0.3
	if diff := adjusted - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Adjust(0.5, 3) = %v, want %v", adjusted, want)
	}
}

func TestFuseWithoutNeuralSignal(t *testing.T) {
	s := newTestScorer()

	tests := []struct {
		text string
		sign int
	}{
		{"I absolutely love this product, it works great and makes me happy!", 1},
		{"This is terrible. It is broken, awful and a complete waste of money.", -1},
	}

	for _, tt := range tests {
		doc, err := prose.NewDocument(tt.text)
		if err != nil {
			t.Fatalf("NewDocument(%q): %v", tt.text, err)
		}

		score, subjectivity := s.Fuse(context.Background(), tt.text, doc)
		if score < -1 || score > 1 {
			t.Errorf("Fuse(%q) score %v out of [-1,1]", tt.text, score)
		}
		if subjectivity < 0 || subjectivity > 1 {
			t.Errorf("Fuse(%q) subjectivity %v out of [0,1]", tt.text, subjectivity)
		}
		if tt.sign > 0 && score <= 0.2 {
			t.Errorf("Fuse(%q) = %v, want positive", tt.text, score)
		}
		if tt.sign < 0 && score >= -0.2 {
			t.Errorf("Fuse(%q) = %v, want negative", tt.text, score)
		}
	}
}

type stubSentiment struct {
	label string
	score float64
}

func (s stubSentiment) ClassifySentiment(context.Context, string) (capabilities.Classification, error) {
	return capabilities.Classification{Label: s.label, Score: s.score}, nil
}

func (stubSentiment) Available() bool { return true }

func TestFuseWithNeuralSignal(t *testing.T) {
	cfg := config.DefaultAnalyzer()
	text := "The screen is fine."
	doc, err := prose.NewDocument(text)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	base := NewScorer(cfg, capabilities.Providers{})
	baseScore, _ := base.Fuse(context.Background(), text, doc)

	neural := NewScorer(cfg, capabilities.Providers{
		Sentiment: stubSentiment{label: "NEGATIVE", score: 1.0},
	})
	neuralScore, _ := neural.Fuse(context.Background(), text, doc)

	// A confident negative neural vote carries weight 0.6, so the fused
	// score must drop well below the lexicon-only blend.
	if neuralScore >= baseScore-0.3 {
		t.Errorf("neural blend = %v, lexicon-only = %v, want a clear drop", neuralScore, baseScore)
	}
}
