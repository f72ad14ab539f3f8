// Package sentiment implements the per-comment scoring stages: fused
// sentiment, emotions, aspects, intent and criticality.
package sentiment

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
	prose "github.com/tsawler/prose/v3"

	"github.com/spacesedan/insightflow/config"
	"github.com/spacesedan/insightflow/internal/capabilities"
	"github.com/spacesedan/insightflow/internal/models"
)

// Fusion weights. The neural signal dominates when present; without it the
// lexicon and polarity signals split the blend.
const (
	lexiconWeightFull  = 0.25
	polarityWeightFull = 0.15
	neuralWeight       = 0.6

	lexiconWeightLite  = 0.6
	polarityWeightLite = 0.4
)

var (
	vaderAnalyzer *govader.SentimentIntensityAnalyzer
	vaderOnce     sync.Once

	polarityAnalyzer *prose.SentimentAnalyzer
	polarityOnce     sync.Once
)

func getVaderAnalyzer() *govader.SentimentIntensityAnalyzer {
	vaderOnce.Do(func() {
		vaderAnalyzer = govader.NewSentimentIntensityAnalyzer()
	})
	return vaderAnalyzer
}

func getPolarityAnalyzer() *prose.SentimentAnalyzer {
	polarityOnce.Do(func() {
		polarityAnalyzer = prose.NewSentimentAnalyzer(prose.English, prose.DefaultSentimentConfig())
	})
	return polarityAnalyzer
}

// Scorer fuses the available sentiment signals into one calibrated score.
type Scorer struct {
	cfg  config.Analyzer
	caps capabilities.Providers
}

func NewScorer(cfg config.Analyzer, caps capabilities.Providers) *Scorer {
	return &Scorer{cfg: cfg, caps: caps}
}

// Fuse combines the lexicon compound score, the polarity/subjectivity pair
// and, when available, the neural classification into one score in [-1,1].
// An unavailable or failing neural signal is omitted from the blend.
func (s *Scorer) Fuse(ctx context.Context, text string, doc *prose.Document) (score, subjectivity float64) {
	compound := getVaderAnalyzer().PolarityScores(doc.Text).Compound

	docScore := getPolarityAnalyzer().AnalyzeDocument(doc)
	polarity := docScore.Polarity
	subjectivity = docScore.Subjectivity

	neural, hasNeural := s.neuralScore(ctx, text)

	if hasNeural {
		score = compound*lexiconWeightFull + polarity*polarityWeightFull + neural*neuralWeight
	} else {
		score = compound*lexiconWeightLite + polarity*polarityWeightLite
	}

	return clamp(score), subjectivity
}

func (s *Scorer) neuralScore(ctx context.Context, text string) (float64, bool) {
	if !s.caps.HasSentiment() {
		return 0, false
	}

	result, err := s.caps.Sentiment.ClassifySentiment(ctx, text)
	if err != nil {
		slog.Warn("[SentimentScorer] Neural signal unavailable, omitting from blend",
			slog.String("error", err.Error()))
		return 0, false
	}

	switch strings.ToUpper(result.Label) {
	case "POSITIVE":
		return result.Score, true
	case "NEGATIVE":
		return -result.Score, true
	default:
		return 0, true
	}
}

// Label maps a score to its band. The thresholds are a strict step function.
func (s *Scorer) Label(score float64) string {
	switch {
	case score > s.cfg.VeryPositiveThreshold:
		return models.LabelVeryPositive
	case score > s.cfg.PositiveThreshold:
		return models.LabelPositive
	case score > s.cfg.NegativeThreshold:
		return models.LabelNeutral
	case score > s.cfg.VeryNegativeThreshold:
		return models.LabelNegative
	default:
		return models.LabelVeryNegative
	}
}

// Adjust blends the text score with the star rating mapped onto [-1,1] and
// relabels the result with the same thresholds.
func (s *Scorer) Adjust(score float64, rating int) (float64, string) {
	ratingScore := (float64(rating) - 3) / 2
	adjusted := score*s.cfg.RatingTextWeight + ratingScore*s.cfg.RatingWeight
	return adjusted, s.Label(adjusted)
}

// SentencePolarity scores a single sentence of an already-parsed document.
func SentencePolarity(sent prose.Sentence, tokens []prose.Token) float64 {
	return getPolarityAnalyzer().AnalyzeSentence(sent, tokens).Polarity
}

func clamp(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
