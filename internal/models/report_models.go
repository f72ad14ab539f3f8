package models

// Report is the root aggregate, a pure function of the input batch plus
// configuration. Immutable once assembled.
type Report struct {
	Date             string  `json:"date"`
	TotalComments    int     `json:"totalComments"`
	OverallSentiment float64 `json:"overallSentiment"`

	Analyses              []AnalyzedComment          `json:"analyses"`
	ProductSummaries      map[string]*ProductSummary `json:"productSummaries"`
	SentimentDrivers      DriverSet                  `json:"sentimentDrivers"`
	Topics                []Topic                    `json:"topics"`
	Anomalies             []Anomaly                  `json:"anomalies"`
	RecommendationNetwork Network                    `json:"recommendationNetwork"`
	Insights              []Insight                  `json:"insights"`
	Metrics               Metrics                    `json:"metrics"`
}

// ProductSummary aggregates a single product's analyzed comments. Only emitted
// for products at or above the configured minimum comment count.
type ProductSummary struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`

	CommentCount int     `json:"commentCount"`
	AvgSentiment float64 `json:"avgSentiment"`

	SentimentDistribution   map[string]int `json:"sentimentDistribution"`
	EmotionDistribution     map[string]int `json:"emotionDistribution"`
	CriticalityDistribution map[string]int `json:"criticalityDistribution"`

	TopIntents []IntentCount   `json:"topIntents"`
	TopAspects []AspectSummary `json:"topAspects"`
	KeyPhrases []KeyPhrase     `json:"keyPhrases"`

	// Abstractive summary of the most sentiment-intense comments; absent when
	// no summarization capability was available.
	Summary string `json:"summary,omitempty"`
}

type IntentCount struct {
	Intent string `json:"intent"`
	Count  int    `json:"count"`
}

// AspectSummary is one aspect of a product, ranked by mention volume.
type AspectSummary struct {
	Aspect     string           `json:"aspect"`
	Mentions   int              `json:"mentions"`
	Sentiment  float64          `json:"sentiment"`
	Adjectives []AdjectiveCount `json:"adjectives,omitempty"`
}

type AdjectiveCount struct {
	Adjective string `json:"adjective"`
	Count     int    `json:"count"`
}

// Topic is a latent theme discovered by matrix factorization over the corpus.
type Topic struct {
	ID        int            `json:"id"`
	Terms     []string       `json:"terms"`
	Label     string         `json:"label"`
	Sentiment float64        `json:"sentiment"`
	Comments  []TopicComment `json:"comments"`
}

// TopicComment is a representative comment attributed to a topic.
type TopicComment struct {
	CommentID string  `json:"commentId"`
	Text      string  `json:"text"`
	Weight    float64 `json:"weight"`
}

// DriverSet groups corpus-wide aspect drivers by sentiment category, each list
// sorted descending by impact.
type DriverSet struct {
	Positive []Driver `json:"positive"`
	Negative []Driver `json:"negative"`
	Mixed    []Driver `json:"mixed"`
	Neutral  []Driver `json:"neutral"`
}

// Driver is an aspect whose mention volume and aggregate sentiment explain
// overall sentiment. Impact = mentions x |avgSentiment|.
type Driver struct {
	Aspect       string          `json:"aspect"`
	Mentions     int             `json:"mentions"`
	AvgSentiment float64         `json:"avgSentiment"`
	Impact       float64         `json:"impact"`
	Positive     int             `json:"positive"`
	Negative     int             `json:"negative"`
	Examples     []DriverExample `json:"examples,omitempty"`
}

type DriverExample struct {
	CommentID string  `json:"commentId"`
	Text      string  `json:"text"`
	Sentiment float64 `json:"sentiment"`
}

// Anomaly flags a comment whose feature profile is statistically atypical.
type Anomaly struct {
	CommentID string    `json:"commentId"`
	Text      string    `json:"text"`
	Sentiment float64   `json:"sentiment"`
	Distance  float64   `json:"distance,omitempty"`
	Features  []float64 `json:"features"`
	Reason    string    `json:"reason"`
}

// Network is the undirected product co-mention graph. Matching is by product
// name substring against comment text, which is precision-fragile for short or
// common product names; that limitation is inherited deliberately.
type Network struct {
	Nodes []NetworkNode `json:"nodes"`
	Links []NetworkEdge `json:"links"`
}

type NetworkNode struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Sentiment float64 `json:"sentiment"`
	Count     int     `json:"count"`
}

type NetworkEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// Insight is a scored human-readable finding, sorted descending by score with
// generation order as the stable tiebreak.
type Insight struct {
	Type  string  `json:"type"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Metrics carries corpus-level descriptive statistics.
type Metrics struct {
	SentimentStats *DistributionStats `json:"sentimentStats,omitempty"`
	RatingStats    *RatingStats       `json:"ratingStats,omitempty"`
	TemporalStats  *TemporalStats     `json:"temporalStats,omitempty"`
}

type DistributionStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"stdDev"`
}

type RatingStats struct {
	DistributionStats
	Distribution map[int]int `json:"distribution"`
}

type TemporalStats struct {
	Oldest           string `json:"oldest"`
	Newest           string `json:"newest"`
	TimespanDays     int    `json:"timespanDays"`
	HourDistribution []int  `json:"hourDistribution"`
	DayDistribution  []int  `json:"dayDistribution"`
}
