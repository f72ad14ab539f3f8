package sentiment

import (
	"regexp"
	"strings"

	prose "github.com/tsawler/prose/v3"

	"github.com/spacesedan/insightflow/internal/models"
)

var (
	suggestionPattern = regexp.MustCompile(`(?i)\b(could|should|would|wish|hope|add|improve|implement|include|consider)\b`)
	featurePattern    = regexp.MustCompile(`(?i)\b(add|new|feature|functionality|ability to|option to)\b`)
	bugPattern        = regexp.MustCompile(`(?i)(bug|issue|problem|error|crash|freeze|not working|doesn't work|broken)`)
	praisePattern     = regexp.MustCompile(`(?i)\b(great|excellent|amazing|love|perfect|awesome|fantastic|best|good|nice)\b`)
)

var urgentTerms = []string{
	"urgent", "immediately", "critical", "serious", "important",
	"broken", "unusable", "emergency", "fix", "asap", "now",
}

// Fixed evaluation order so ties resolve the same way on every run.
var intentOrder = []string{
	models.IntentComplaint,
	models.IntentSuggestion,
	models.IntentPraise,
	models.IntentQuestion,
	models.IntentComparison,
	models.IntentFeatureRequest,
	models.IntentBugReport,
}

// DetectIntent accumulates weighted pattern triggers per category and
// returns the best-scoring one, or general_feedback when nothing fires.
func DetectIntent(text string, doc *prose.Document, rating *int) string {
	scores := make(map[string]float64, len(intentOrder))

	if strings.Contains(text, "?") {
		scores[models.IntentQuestion] += 1.5
	}

	tokens := doc.Tokens()
	if len(tokens) > 0 && (tokens[0].Tag == "VBP" || tokens[0].Tag == "VBZ") {
		scores[models.IntentQuestion]++
	}
	for _, tok := range tokens {
		if tok.Tag == "JJR" || tok.Tag == "RBR" {
			scores[models.IntentComparison]++
		}
	}

	if suggestionPattern.MatchString(text) {
		scores[models.IntentSuggestion]++
		if featurePattern.MatchString(text) {
			scores[models.IntentFeatureRequest] += 1.5
		}
	}

	if bugPattern.MatchString(text) {
		scores[models.IntentBugReport] += 1.5
		scores[models.IntentComplaint]++
	}

	if praisePattern.MatchString(text) {
		scores[models.IntentPraise] += 1.5
	}

	if rating != nil {
		if *rating <= 2 {
			scores[models.IntentComplaint] += 1.5
		} else if *rating >= 4 {
			scores[models.IntentPraise]++
		}
	}

	best, bestScore := models.IntentGeneralFeedback, 0.0
	for _, intent := range intentOrder {
		if scores[intent] > bestScore {
			best, bestScore = intent, scores[intent]
		}
	}
	return best
}

// AssessCriticality maps accumulated urgency signals to an ordinal level.
func AssessCriticality(text string, score float64, intent string, rating *int) string {
	total := 0

	if score < -0.7 {
		total += 2
	} else if score < -0.4 {
		total++
	}

	switch intent {
	case models.IntentBugReport:
		total += 2
	case models.IntentComplaint:
		total++
	}

	lower := strings.ToLower(text)
	for _, term := range urgentTerms {
		if strings.Contains(lower, term) {
			total++
			break
		}
	}

	if rating != nil && *rating <= 1 {
		total++
	}

	switch {
	case total >= 4:
		return models.CriticalityCritical
	case total >= 2:
		return models.CriticalityHigh
	case total >= 1:
		return models.CriticalityMedium
	default:
		return models.CriticalityLow
	}
}
