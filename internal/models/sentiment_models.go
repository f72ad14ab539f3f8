package models

// Sentiment labels produced by the fused-score step function.
const (
	LabelVeryPositive = "very_positive"
	LabelPositive     = "positive"
	LabelNeutral      = "neutral"
	LabelNegative     = "negative"
	LabelVeryNegative = "very_negative"
)

// Criticality levels, ordered.
const (
	CriticalityLow      = "low"
	CriticalityMedium   = "medium"
	CriticalityHigh     = "high"
	CriticalityCritical = "critical"
)

// Intent categories.
const (
	IntentComplaint       = "complaint"
	IntentSuggestion      = "suggestion"
	IntentPraise          = "praise"
	IntentQuestion        = "question"
	IntentComparison      = "comparison"
	IntentFeatureRequest  = "feature_request"
	IntentBugReport       = "bug_report"
	IntentGeneralFeedback = "general_feedback"
)

// SentimentResult carries everything the per-comment stage computes. It is
// written once and never mutated afterwards.
type SentimentResult struct {
	Score        float64 `json:"score"`
	Label        string  `json:"label"`
	Subjectivity float64 `json:"subjectivity"`

	Emotions        map[string]float64 `json:"emotions"`
	DominantEmotion string             `json:"dominantEmotion"`

	Aspects map[string]*AspectStat `json:"aspects,omitempty"`

	Intent      string `json:"intent"`
	Criticality string `json:"criticality"`

	Keywords   []string            `json:"keywords,omitempty"`
	KeyPhrases []KeyPhrase         `json:"keyPhrases,omitempty"`
	Entities   map[string][]string `json:"entities,omitempty"`

	Competitors []CompetitorMention `json:"competitors,omitempty"`

	TextStats TextStats `json:"textStats"`

	// Present iff the comment carried a rating.
	AdjustedScore *float64 `json:"adjustedScore,omitempty"`
	AdjustedLabel string   `json:"adjustedLabel,omitempty"`
}

// AspectStat is the per-comment sentiment of one product aspect. Sentiment is
// the mean of the polarities of the sentences attributing it.
type AspectStat struct {
	Mentions   int      `json:"mentions"`
	Sentiment  float64  `json:"sentiment"`
	Adjectives []string `json:"adjectives,omitempty"`
}

// KeyPhrase is a sentence with strong enough polarity to quote.
type KeyPhrase struct {
	Text      string  `json:"text"`
	Sentiment float64 `json:"sentiment"`
}

// CompetitorMention records comparative language or an organization entity
// that suggests the commenter is weighing an alternative product.
type CompetitorMention struct {
	Keyword string `json:"keyword"`
	Context string `json:"context,omitempty"`
	Type    string `json:"type,omitempty"`
}

type TextStats struct {
	WordCount     int     `json:"wordCount"`
	CharCount     int     `json:"characterCount"`
	AvgWordLength float64 `json:"avgWordLength"`
}
