package analytics

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/spacesedan/insightflow/config"
	"github.com/spacesedan/insightflow/internal/capabilities"
	"github.com/spacesedan/insightflow/internal/models"
)

const (
	summaryTopIntents    = 3
	summaryTopAspects    = 10
	summaryTopAdjectives = 5
	summaryTopPhrases    = 5
	summaryInputComments = 5
)

// ProductSummarizer folds each product's analyzed comments into one summary.
// Products below the minimum comment count are skipped entirely rather than
// summarized partially.
type ProductSummarizer struct {
	cfg        config.Analyzer
	summarizer capabilities.Summarizer
}

func NewProductSummarizer(cfg config.Analyzer, summarizer capabilities.Summarizer) *ProductSummarizer {
	return &ProductSummarizer{cfg: cfg, summarizer: summarizer}
}

func (ps *ProductSummarizer) Summarize(ctx context.Context, analyzed []models.AnalyzedComment) map[string]*models.ProductSummary {
	groups := make(map[string][]models.AnalyzedComment)
	var order []string
	for _, ac := range analyzed {
		if _, ok := groups[ac.ProductID]; !ok {
			order = append(order, ac.ProductID)
		}
		groups[ac.ProductID] = append(groups[ac.ProductID], ac)
	}

	summaries := make(map[string]*models.ProductSummary)
	for _, productID := range order {
		group := groups[productID]
		if len(group) < ps.cfg.SummaryMinComments {
			continue
		}
		summaries[productID] = ps.summarizeProduct(ctx, productID, group)
	}
	if len(summaries) == 0 {
		return nil
	}
	return summaries
}

func (ps *ProductSummarizer) summarizeProduct(ctx context.Context, productID string, group []models.AnalyzedComment) *models.ProductSummary {
	summary := &models.ProductSummary{
		ProductID:               productID,
		ProductName:             group[0].ProductName,
		CommentCount:            len(group),
		SentimentDistribution:   make(map[string]int),
		EmotionDistribution:     make(map[string]int),
		CriticalityDistribution: make(map[string]int),
	}

	intents := make(map[string]int)
	aspects := make(map[string]*aspectAccumulator)
	var phrases []models.KeyPhrase

	var total float64
	for _, ac := range group {
		s := ac.Sentiment
		total += ac.EffectiveScore()
		summary.SentimentDistribution[s.Label]++
		summary.EmotionDistribution[s.DominantEmotion]++
		summary.CriticalityDistribution[s.Criticality]++
		intents[s.Intent]++
		phrases = append(phrases, s.KeyPhrases...)

		for name, stat := range s.Aspects {
			acc, ok := aspects[name]
			if !ok {
				acc = &aspectAccumulator{adjectives: make(map[string]int)}
				aspects[name] = acc
			}
			acc.mentions += stat.Mentions
			acc.sentimentSum += stat.Sentiment * float64(stat.Mentions)
			for _, adj := range stat.Adjectives {
				acc.adjectives[adj]++
			}
		}
	}
	summary.AvgSentiment = total / float64(len(group))

	summary.TopIntents = topIntents(intents, summaryTopIntents)
	summary.TopAspects = topAspects(aspects, summaryTopAspects)

	sort.SliceStable(phrases, func(a, b int) bool {
		return math.Abs(phrases[a].Sentiment) > math.Abs(phrases[b].Sentiment)
	})
	if len(phrases) > summaryTopPhrases {
		phrases = phrases[:summaryTopPhrases]
	}
	summary.KeyPhrases = phrases

	summary.Summary = ps.abstractiveSummary(ctx, group)
	return summary
}

type aspectAccumulator struct {
	mentions     int
	sentimentSum float64
	adjectives   map[string]int
}

func topIntents(counts map[string]int, limit int) []models.IntentCount {
	ranked := make([]models.IntentCount, 0, len(counts))
	for intent, count := range counts {
		ranked = append(ranked, models.IntentCount{Intent: intent, Count: count})
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].Count != ranked[b].Count {
			return ranked[a].Count > ranked[b].Count
		}
		return ranked[a].Intent < ranked[b].Intent
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func topAspects(aspects map[string]*aspectAccumulator, limit int) []models.AspectSummary {
	ranked := make([]models.AspectSummary, 0, len(aspects))
	for name, acc := range aspects {
		ranked = append(ranked, models.AspectSummary{
			Aspect:     name,
			Mentions:   acc.mentions,
			Sentiment:  acc.sentimentSum / float64(acc.mentions),
			Adjectives: topAdjectives(acc.adjectives, summaryTopAdjectives),
		})
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].Mentions != ranked[b].Mentions {
			return ranked[a].Mentions > ranked[b].Mentions
		}
		return ranked[a].Aspect < ranked[b].Aspect
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func topAdjectives(counts map[string]int, limit int) []models.AdjectiveCount {
	ranked := make([]models.AdjectiveCount, 0, len(counts))
	for adj, count := range counts {
		ranked = append(ranked, models.AdjectiveCount{Adjective: adj, Count: count})
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].Count != ranked[b].Count {
			return ranked[a].Count > ranked[b].Count
		}
		return ranked[a].Adjective < ranked[b].Adjective
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// abstractiveSummary condenses the most sentiment-intense comments through
// the optional summarization capability. Absence or failure omits the field.
func (ps *ProductSummarizer) abstractiveSummary(ctx context.Context, group []models.AnalyzedComment) string {
	if ps.summarizer == nil || !ps.summarizer.Available() {
		return ""
	}

	intense := make([]models.AnalyzedComment, len(group))
	copy(intense, group)
	sort.SliceStable(intense, func(a, b int) bool {
		return math.Abs(intense[a].Sentiment.Score) > math.Abs(intense[b].Sentiment.Score)
	})
	if len(intense) > summaryInputComments {
		intense = intense[:summaryInputComments]
	}

	texts := make([]string, len(intense))
	for i, ac := range intense {
		texts[i] = ac.Text
	}

	out, err := ps.summarizer.Summarize(ctx, strings.Join(texts, "\n"))
	if err != nil {
		slog.Warn("[ProductSummarizer] Abstractive summary failed, omitting",
			slog.String("productId", group[0].ProductID),
			slog.String("error", err.Error()))
		return ""
	}
	return out
}
