package analytics

import (
	"fmt"
	"sort"

	"github.com/spacesedan/insightflow/internal/models"
)

// Insight importance scores. The overall statement always leads; the rest
// rank below it in a fixed scheme so output order is reproducible.
const (
	insightOverallScore    = 1.0
	insightCriticalScore   = 0.9
	insightMixedFactor     = 0.8
	insightComparisonScore = 0.7
	insightAnomalyScore    = 0.6

	insightTopicThreshold = 0.3
)

// GenerateInsights synthesizes scored findings from every reduction. Order
// is descending by score; ties keep generation order, which is fixed.
func GenerateInsights(analyzed []models.AnalyzedComment, summaries map[string]*models.ProductSummary, drivers models.DriverSet, topics []models.Topic, anomalies []models.Anomaly) []models.Insight {
	var insights []models.Insight

	if len(analyzed) > 0 {
		var sum float64
		for _, ac := range analyzed {
			sum += ac.EffectiveScore()
		}
		avg := sum / float64(len(analyzed))

		desc := "neutral"
		switch {
		case avg > 0.5:
			desc = "very positive"
		case avg > 0.2:
			desc = "positive"
		case avg < -0.5:
			desc = "very negative"
		case avg < -0.2:
			desc = "negative"
		}

		insights = append(insights, models.Insight{
			Type:  "overall_sentiment",
			Text:  fmt.Sprintf("Overall sentiment is %s with an average score of %.2f.", desc, avg),
			Score: insightOverallScore,
		})
	}

	if len(drivers.Positive) > 0 {
		top := drivers.Positive[0]
		insights = append(insights, models.Insight{
			Type:  "positive_driver",
			Text:  fmt.Sprintf("'%s' is the top positive aspect with %d mentions and %.2f sentiment.", top.Aspect, top.Mentions, top.AvgSentiment),
			Score: top.Impact,
		})
	}
	if len(drivers.Negative) > 0 {
		top := drivers.Negative[0]
		insights = append(insights, models.Insight{
			Type:  "negative_driver",
			Text:  fmt.Sprintf("'%s' is the top concern with %d mentions and %.2f sentiment.", top.Aspect, top.Mentions, top.AvgSentiment),
			Score: top.Impact,
		})
	}
	if len(drivers.Mixed) > 0 {
		top := drivers.Mixed[0]
		insights = append(insights, models.Insight{
			Type:  "mixed_sentiment",
			Text:  fmt.Sprintf("'%s' has mixed reception with %d positive and %d negative mentions.", top.Aspect, top.Positive, top.Negative),
			Score: top.Impact * insightMixedFactor,
		})
	}

	critical := 0
	for _, ac := range analyzed {
		if ac.Sentiment.Criticality == models.CriticalityCritical || ac.Sentiment.Criticality == models.CriticalityHigh {
			critical++
		}
	}
	if critical > 0 {
		insights = append(insights, models.Insight{
			Type:  "critical_issues",
			Text:  fmt.Sprintf("Found %d high-priority comments requiring attention.", critical),
			Score: insightCriticalScore,
		})
	}

	if len(topics) > 0 {
		byScore := make([]models.Topic, len(topics))
		copy(byScore, topics)
		sort.SliceStable(byScore, func(a, b int) bool {
			return byScore[a].Sentiment < byScore[b].Sentiment
		})

		mostNegative := byScore[0]
		mostPositive := byScore[len(byScore)-1]

		if mostNegative.Sentiment < -insightTopicThreshold {
			insights = append(insights, models.Insight{
				Type:  "negative_topic",
				Text:  fmt.Sprintf("The topic '%s' has the most negative sentiment at %.2f.", mostNegative.Label, mostNegative.Sentiment),
				Score: -mostNegative.Sentiment,
			})
		}
		if mostPositive.Sentiment > insightTopicThreshold {
			insights = append(insights, models.Insight{
				Type:  "positive_topic",
				Text:  fmt.Sprintf("The topic '%s' has the most positive sentiment at %.2f.", mostPositive.Label, mostPositive.Sentiment),
				Score: mostPositive.Sentiment,
			})
		}
	}

	if len(summaries) >= 2 {
		ids := make([]string, 0, len(summaries))
		for id := range summaries {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		best, worst := summaries[ids[0]], summaries[ids[0]]
		for _, id := range ids[1:] {
			s := summaries[id]
			if s.AvgSentiment > best.AvgSentiment {
				best = s
			}
			if s.AvgSentiment < worst.AvgSentiment {
				worst = s
			}
		}

		insights = append(insights, models.Insight{
			Type:  "product_comparison",
			Text:  fmt.Sprintf("'%s' has the highest sentiment (%.2f), while '%s' has the lowest (%.2f).", best.ProductName, best.AvgSentiment, worst.ProductName, worst.AvgSentiment),
			Score: insightComparisonScore,
		})
	}

	if len(anomalies) > 0 {
		insights = append(insights, models.Insight{
			Type:  "anomalies",
			Text:  fmt.Sprintf("Detected %d unusual comments that may need special attention.", len(anomalies)),
			Score: insightAnomalyScore,
		})
	}

	sort.SliceStable(insights, func(a, b int) bool {
		return insights[a].Score > insights[b].Score
	})
	return insights
}
