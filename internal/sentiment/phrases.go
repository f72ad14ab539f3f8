package sentiment

import (
	"strings"

	prose "github.com/tsawler/prose/v3"

	"github.com/spacesedan/insightflow/internal/models"
)

const (
	keyPhraseMinPolarity = 0.4
	keyPhraseMinWords    = 4

	competitorContextRadius = 30
)

var competitorKeywords = []string{
	"competitor", "alternative", "instead", "switched from",
	"better than", "compared to", "vs", "versus", "unlike",
	"other product", "similar product",
}

// ExtractKeyPhrases returns the sentences with strong enough polarity to
// quote in a summary. Short fragments are skipped.
func ExtractKeyPhrases(doc *prose.Document) []models.KeyPhrase {
	tokens := doc.Tokens()

	var phrases []models.KeyPhrase
	for _, sent := range doc.Sentences() {
		if len(strings.Fields(sent.Text)) < keyPhraseMinWords {
			continue
		}
		polarity := SentencePolarity(sent, tokensWithin(tokens, sent))
		if polarity > keyPhraseMinPolarity || polarity < -keyPhraseMinPolarity {
			phrases = append(phrases, models.KeyPhrase{
				Text:      strings.TrimSpace(sent.Text),
				Sentiment: polarity,
			})
		}
	}
	return phrases
}

// DetectCompetitors finds comparative language with its surrounding context
// plus organization entities other than the product itself.
func DetectCompetitors(text, productName string, doc *prose.Document) []models.CompetitorMention {
	lower := strings.ToLower(text)

	var mentions []models.CompetitorMention
	for _, keyword := range competitorKeywords {
		from := 0
		for {
			idx := strings.Index(lower[from:], keyword)
			if idx < 0 {
				break
			}
			idx += from

			start := idx - competitorContextRadius
			if start < 0 {
				start = 0
			}
			end := idx + len(keyword) + competitorContextRadius
			if end > len(lower) {
				end = len(lower)
			}

			mentions = append(mentions, models.CompetitorMention{
				Keyword: keyword,
				Context: lower[start:end],
			})
			from = idx + len(keyword)
		}
	}

	product := strings.ToLower(productName)
	for _, ent := range doc.Entities() {
		if ent.Label != "ORG" {
			continue
		}
		if product != "" && strings.Contains(product, strings.ToLower(ent.Text)) {
			continue
		}
		mentions = append(mentions, models.CompetitorMention{
			Keyword: ent.Text,
			Type:    "organization",
		})
	}
	return mentions
}
