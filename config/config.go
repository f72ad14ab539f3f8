package config

import (
	"os"
	"runtime"
	"strconv"
)

// Analyzer holds every tunable of the analysis pipeline. The minimum-sample
// gates are explicit fields so tests can exercise both sides of each boundary.
type Analyzer struct {
	// Sentiment label thresholds applied to the fused score.
	VeryPositiveThreshold float64
	PositiveThreshold     float64
	NegativeThreshold     float64
	VeryNegativeThreshold float64

	// Rating blend weights: adjusted = score*TextWeight + ratingScore*RatingWeight.
	RatingTextWeight float64
	RatingWeight     float64

	// Topic modeling.
	TopicCount     int
	TopicMinCorpus int

	// Anomaly detection.
	AnomalyMinCorpus        int
	AnomalyDistanceLimit    float64
	AnomalyClusterEps       float64
	AnomalyClusterMinPoints int

	// Aggregation gates.
	SummaryMinComments int
	DriverMinMentions  int

	// Driver category thresholds.
	DriverStrongThreshold  float64
	DriverNeutralThreshold float64

	// Per-comment stage parallelism.
	Workers int
}

func DefaultAnalyzer() Analyzer {
	return Analyzer{
		VeryPositiveThreshold: 0.6,
		PositiveThreshold:     0.2,
		NegativeThreshold:     -0.2,
		VeryNegativeThreshold: -0.6,

		RatingTextWeight: 0.3,
		RatingWeight:     0.7,

		TopicCount:     5,
		TopicMinCorpus: 10,

		AnomalyMinCorpus:        20,
		AnomalyDistanceLimit:    10,
		AnomalyClusterEps:       1.5,
		AnomalyClusterMinPoints: 3,

		SummaryMinComments: 3,
		DriverMinMentions:  2,

		DriverStrongThreshold:  0.4,
		DriverNeutralThreshold: 0.2,

		Workers: runtime.NumCPU(),
	}
}

// AnalyzerFromEnv layers environment overrides on top of the defaults.
func AnalyzerFromEnv() Analyzer {
	cfg := DefaultAnalyzer()

	cfg.TopicCount = getEnvInt("ANALYZER_TOPIC_COUNT", cfg.TopicCount)
	cfg.TopicMinCorpus = getEnvInt("ANALYZER_TOPIC_MIN_CORPUS", cfg.TopicMinCorpus)
	cfg.AnomalyMinCorpus = getEnvInt("ANALYZER_ANOMALY_MIN_CORPUS", cfg.AnomalyMinCorpus)
	cfg.AnomalyDistanceLimit = getEnvFloat("ANALYZER_ANOMALY_DISTANCE", cfg.AnomalyDistanceLimit)
	cfg.SummaryMinComments = getEnvInt("ANALYZER_SUMMARY_MIN_COMMENTS", cfg.SummaryMinComments)
	cfg.DriverMinMentions = getEnvInt("ANALYZER_DRIVER_MIN_MENTIONS", cfg.DriverMinMentions)
	cfg.Workers = getEnvInt("ANALYZER_WORKERS", cfg.Workers)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
