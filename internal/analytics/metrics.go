package analytics

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/spacesedan/insightflow/internal/models"
)

// ComputeMetrics derives corpus-level descriptive statistics. Rating and
// temporal blocks are omitted when the corpus carries no ratings or no
// usable timestamps.
func ComputeMetrics(analyzed []models.AnalyzedComment) models.Metrics {
	var metrics models.Metrics
	if len(analyzed) == 0 {
		return metrics
	}

	scores := make([]float64, len(analyzed))
	for i, ac := range analyzed {
		scores[i] = ac.EffectiveScore()
	}
	metrics.SentimentStats = distributionStats(scores)

	var ratings []float64
	distribution := make(map[int]int)
	for _, ac := range analyzed {
		if ac.Rating == nil {
			continue
		}
		ratings = append(ratings, float64(*ac.Rating))
		distribution[*ac.Rating]++
	}
	if len(ratings) > 0 {
		metrics.RatingStats = &models.RatingStats{
			DistributionStats: *distributionStats(ratings),
			Distribution:      distribution,
		}
	}

	metrics.TemporalStats = temporalStats(analyzed)
	return metrics
}

func distributionStats(values []float64) *models.DistributionStats {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		std = 0
	}

	return &models.DistributionStats{
		Mean:   mean,
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		StdDev: std,
	}
}

func temporalStats(analyzed []models.AnalyzedComment) *models.TemporalStats {
	var oldest, newest time.Time
	hours := make([]int, 24)
	days := make([]int, 7)

	seen := 0
	for _, ac := range analyzed {
		if ac.CreatedAt.IsZero() {
			continue
		}
		if seen == 0 || ac.CreatedAt.Before(oldest) {
			oldest = ac.CreatedAt
		}
		if seen == 0 || ac.CreatedAt.After(newest) {
			newest = ac.CreatedAt
		}
		hours[ac.CreatedAt.Hour()]++
		days[int(ac.CreatedAt.Weekday())]++
		seen++
	}
	if seen == 0 {
		return nil
	}

	return &models.TemporalStats{
		Oldest:           oldest.UTC().Format(time.RFC3339),
		Newest:           newest.UTC().Format(time.RFC3339),
		TimespanDays:     int(newest.Sub(oldest).Hours() / 24),
		HourDistribution: hours,
		DayDistribution:  days,
	}
}
