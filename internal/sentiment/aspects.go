package sentiment

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	prose "github.com/tsawler/prose/v3"

	"github.com/spacesedan/insightflow/internal/capabilities"
	"github.com/spacesedan/insightflow/internal/models"
	"github.com/spacesedan/insightflow/internal/textproc"
)

const (
	zeroShotAcceptThreshold = 0.7
	zeroShotMinComments     = 6
	zeroShotMaxSamples      = 10
	zeroShotMaxCandidates   = 30
)

// Vocabulary is the candidate aspect terms for one product. Built once from
// all of the product's comments, read-only afterwards.
type Vocabulary struct {
	ProductID string
	Terms     map[string]struct{}
}

// BuildVocabularies folds every product's comments into its aspect
// vocabulary: heads of noun runs, optionally enriched with compound noun
// candidates a zero-shot classifier accepts with high confidence.
func BuildVocabularies(ctx context.Context, comments []models.Comment, docs []*prose.Document, zeroShot capabilities.ZeroShotClassifier) map[string]*Vocabulary {
	vocabs := make(map[string]*Vocabulary)
	candidates := make(map[string]map[string]struct{})
	texts := make(map[string][]string)

	for i, c := range comments {
		if docs[i] == nil {
			continue
		}
		v, ok := vocabs[c.ProductID]
		if !ok {
			v = &Vocabulary{ProductID: c.ProductID, Terms: make(map[string]struct{})}
			vocabs[c.ProductID] = v
			candidates[c.ProductID] = make(map[string]struct{})
		}

		heads, compounds := nounPhrases(docs[i])
		for _, h := range heads {
			v.Terms[h] = struct{}{}
		}
		for _, cp := range compounds {
			candidates[c.ProductID][cp] = struct{}{}
		}
		if len(c.Text) > 20 {
			texts[c.ProductID] = append(texts[c.ProductID], c.Text)
		}
	}

	if zeroShot == nil || !zeroShot.Available() {
		return vocabs
	}

	for productID, v := range vocabs {
		enrichVocabulary(ctx, v, candidates[productID], texts[productID], zeroShot)
	}
	return vocabs
}

// enrichVocabulary asks the zero-shot classifier whether compound noun
// candidates really name product features, keeping only confident accepts.
func enrichVocabulary(ctx context.Context, v *Vocabulary, candidates map[string]struct{}, texts []string, zeroShot capabilities.ZeroShotClassifier) {
	if len(texts) < zeroShotMinComments || len(candidates) == 0 {
		return
	}

	labels := make([]string, 0, len(candidates))
	for c := range candidates {
		if _, seen := v.Terms[c]; !seen {
			labels = append(labels, c)
		}
	}
	sort.Strings(labels)
	if len(labels) > zeroShotMaxCandidates {
		labels = labels[:zeroShotMaxCandidates]
	}
	if len(labels) == 0 {
		return
	}

	samples := texts
	if len(samples) > zeroShotMaxSamples {
		samples = samples[:zeroShotMaxSamples]
	}

	accepted := make(map[string]struct{})
	for _, text := range samples {
		results, err := zeroShot.ClassifyZeroShot(ctx, text, labels)
		if err != nil {
			slog.Warn("[AspectExtractor] Zero-shot enrichment failed, keeping base vocabulary",
				slog.String("productId", v.ProductID),
				slog.String("error", err.Error()))
			return
		}
		for _, r := range results {
			if r.Score > zeroShotAcceptThreshold {
				accepted[strings.ToLower(r.Label)] = struct{}{}
			}
		}
	}
	for term := range accepted {
		v.Terms[term] = struct{}{}
	}
}

// nounPhrases walks the tagged tokens and returns the lemmatized heads of
// consecutive noun runs plus multiword compounds built from the runs.
func nounPhrases(doc *prose.Document) (heads, compounds []string) {
	var run []string
	flush := func() {
		if len(run) == 0 {
			return
		}
		head := run[len(run)-1]
		if len(head) > 2 {
			heads = append(heads, head)
		}
		if len(run) > 1 && len(run) <= 3 {
			compounds = append(compounds, strings.Join(run, " "))
		}
		run = run[:0]
	}

	for _, tok := range doc.Tokens() {
		if strings.HasPrefix(tok.Tag, "NN") {
			run = append(run, textproc.Lemmatize(strings.ToLower(tok.Text)))
			continue
		}
		flush()
	}
	flush()
	return heads, compounds
}

// Extractor attributes sentence-level sentiment to aspect terms.
type Extractor struct {
	vocabularies map[string]*Vocabulary
}

func NewExtractor(vocabularies map[string]*Vocabulary) *Extractor {
	return &Extractor{vocabularies: vocabularies}
}

// Extract scores every candidate aspect mentioned in the comment. A
// candidate is any noun head of this comment or any product vocabulary
// term; each sentence containing it contributes its polarity and its
// adjectives.
func (e *Extractor) Extract(doc *prose.Document, productID string) map[string]*models.AspectStat {
	candidates := make(map[string]struct{})
	heads, _ := nounPhrases(doc)
	for _, h := range heads {
		candidates[h] = struct{}{}
	}
	if v, ok := e.vocabularies[productID]; ok {
		for term := range v.Terms {
			candidates[term] = struct{}{}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	tokens := doc.Tokens()
	stats := make(map[string]*models.AspectStat)

	for _, sent := range doc.Sentences() {
		lower := strings.ToLower(sent.Text)
		sentTokens := tokensWithin(tokens, sent)

		var polarity float64
		scored := false

		for aspect := range candidates {
			if !strings.Contains(lower, aspect) {
				continue
			}
			if !scored {
				polarity = SentencePolarity(sent, sentTokens)
				scored = true
			}
			accumulateAspect(stats, aspect, polarity, sentTokens)
		}
	}

	return finalizeAspects(stats)
}

// accumulateAspect records one attributing sentence: its polarity and its
// adjectives, excluding the aspect term itself.
func accumulateAspect(stats map[string]*models.AspectStat, aspect string, polarity float64, sentTokens []prose.Token) {
	stat, ok := stats[aspect]
	if !ok {
		stat = &models.AspectStat{}
		stats[aspect] = stat
	}
	stat.Mentions++
	stat.Sentiment += polarity
	for _, tok := range sentTokens {
		if strings.HasPrefix(tok.Tag, "JJ") {
			adj := strings.ToLower(tok.Text)
			if adj != aspect {
				stat.Adjectives = append(stat.Adjectives, adj)
			}
		}
	}
}

// finalizeAspects turns each accumulated polarity sum into the mean over
// the aspect's attributing sentences.
func finalizeAspects(stats map[string]*models.AspectStat) map[string]*models.AspectStat {
	for _, stat := range stats {
		stat.Sentiment /= float64(stat.Mentions)
	}
	if len(stats) == 0 {
		return nil
	}
	return stats
}

func tokensWithin(tokens []prose.Token, sent prose.Sentence) []prose.Token {
	var out []prose.Token
	for _, tok := range tokens {
		if tok.Start >= sent.Start && tok.End <= sent.End {
			out = append(out, tok)
		}
	}
	return out
}
