package analytics

import (
	"math"
	"sort"

	"github.com/spacesedan/insightflow/config"
	"github.com/spacesedan/insightflow/internal/models"
)

const driverMaxExamples = 2

// DriverRanker aggregates aspect statistics across the whole corpus and
// ranks the aspects that explain overall sentiment.
type DriverRanker struct {
	cfg config.Analyzer
}

func NewDriverRanker(cfg config.Analyzer) *DriverRanker {
	return &DriverRanker{cfg: cfg}
}

type driverAccumulator struct {
	mentions     int
	sentimentSum float64
	positive     int
	negative     int
	examples     []models.DriverExample
}

// Rank classifies every aspect with enough mentions into a sentiment
// category and sorts each category descending by impact.
func (dr *DriverRanker) Rank(analyzed []models.AnalyzedComment) models.DriverSet {
	acc := make(map[string]*driverAccumulator)

	for _, ac := range analyzed {
		for name, stat := range ac.Sentiment.Aspects {
			a, ok := acc[name]
			if !ok {
				a = &driverAccumulator{}
				acc[name] = a
			}
			a.mentions += stat.Mentions
			a.sentimentSum += stat.Sentiment * float64(stat.Mentions)
			if stat.Sentiment > dr.cfg.DriverNeutralThreshold {
				a.positive += stat.Mentions
			} else if stat.Sentiment < -dr.cfg.DriverNeutralThreshold {
				a.negative += stat.Mentions
			}
			a.examples = append(a.examples, models.DriverExample{
				CommentID: ac.ID,
				Text:      ac.Text,
				Sentiment: stat.Sentiment,
			})
		}
	}

	var set models.DriverSet
	for name, a := range acc {
		if a.mentions < dr.cfg.DriverMinMentions {
			continue
		}
		avg := a.sentimentSum / float64(a.mentions)

		driver := models.Driver{
			Aspect:       name,
			Mentions:     a.mentions,
			AvgSentiment: avg,
			Impact:       float64(a.mentions) * math.Abs(avg),
			Positive:     a.positive,
			Negative:     a.negative,
			Examples:     polarExamples(a.examples),
		}

		switch {
		case avg > dr.cfg.DriverStrongThreshold:
			set.Positive = append(set.Positive, driver)
		case avg < -dr.cfg.DriverStrongThreshold:
			set.Negative = append(set.Negative, driver)
		case math.Abs(avg) <= dr.cfg.DriverNeutralThreshold:
			set.Neutral = append(set.Neutral, driver)
		case a.positive > 0 && a.negative > 0:
			set.Mixed = append(set.Mixed, driver)
		}
	}

	sortDrivers(set.Positive)
	sortDrivers(set.Negative)
	sortDrivers(set.Mixed)
	sortDrivers(set.Neutral)
	return set
}

// polarExamples keeps the two polarity extremes among an aspect's comments.
func polarExamples(examples []models.DriverExample) []models.DriverExample {
	if len(examples) <= driverMaxExamples {
		return examples
	}
	sort.SliceStable(examples, func(a, b int) bool {
		return examples[a].Sentiment > examples[b].Sentiment
	})
	return []models.DriverExample{examples[0], examples[len(examples)-1]}
}

func sortDrivers(drivers []models.Driver) {
	sort.Slice(drivers, func(a, b int) bool {
		if drivers[a].Impact != drivers[b].Impact {
			return drivers[a].Impact > drivers[b].Impact
		}
		return drivers[a].Aspect < drivers[b].Aspect
	})
}
