package models

import "time"

// Comment is the immutable input record supplied by a comment source.
// Rating and ProductName are optional.
type Comment struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName,omitempty"`
	Text        string    `json:"text"`
	Rating      *int      `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AnalyzedComment is a comment plus its computed sentiment, the unit flowing
// through every aggregation stage. Flagged marks comments whose text could not
// be analyzed and received the neutral default result instead of being dropped.
type AnalyzedComment struct {
	Comment
	Sentiment SentimentResult `json:"sentiment"`
	Flagged   bool            `json:"flagged,omitempty"`
}

// EffectiveScore returns the fused sentiment score. The rating-adjusted score
// is reported alongside but aggregation stages read the text-derived score.
func (a *AnalyzedComment) EffectiveScore() float64 {
	return a.Sentiment.Score
}
