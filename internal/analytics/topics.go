// Package analytics holds the corpus-wide reductions that run after the
// per-comment barrier: topics, anomalies, summaries, drivers, the co-mention
// network, insights and descriptive metrics.
package analytics

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/spacesedan/insightflow/config"
	"github.com/spacesedan/insightflow/internal/capabilities"
	"github.com/spacesedan/insightflow/internal/models"
	"github.com/spacesedan/insightflow/internal/textproc"
)

const (
	tfidfMaxFeatures = 500
	tfidfMinDocFreq  = 2

	topicTermCount       = 10
	topicLabelTerms      = 3
	topicWeightThreshold = 0.3
	topicMaxComments     = 3
	topicLabelConfidence = 0.5

	nmfIterations = 200
	nmfSeed       = 42
	nmfEpsilon    = 1e-9
)

// TopicModeler discovers latent themes over the whole corpus via
// term-weighting factorization. Below the minimum corpus size it is a no-op.
type TopicModeler struct {
	cfg      config.Analyzer
	zeroShot capabilities.ZeroShotClassifier
}

func NewTopicModeler(cfg config.Analyzer, zeroShot capabilities.ZeroShotClassifier) *TopicModeler {
	return &TopicModeler{cfg: cfg, zeroShot: zeroShot}
}

// Model factorizes the corpus into up to TopicCount topics. A comment is
// attributed to a topic when its factor weight exceeds the threshold; topic
// sentiment is the mean fused score of the attributed comments.
func (tm *TopicModeler) Model(ctx context.Context, analyzed []models.AnalyzedComment) []models.Topic {
	if len(analyzed) < tm.cfg.TopicMinCorpus {
		return nil
	}

	docs := make([][]string, len(analyzed))
	for i, ac := range analyzed {
		docs[i] = textproc.Tokenize(ac.Text)
	}

	vocab, tfidf := buildTFIDF(docs)
	if len(vocab) == 0 {
		return nil
	}

	k := tm.cfg.TopicCount
	if k > len(vocab) {
		k = len(vocab)
	}
	if k > len(analyzed) {
		k = len(analyzed)
	}
	if k < 1 {
		return nil
	}

	w, h := factorize(tfidf, k)

	topics := make([]models.Topic, 0, k)
	for t := 0; t < k; t++ {
		terms := topTerms(h, t, vocab, topicTermCount)
		if len(terms) == 0 {
			continue
		}

		topic := models.Topic{
			ID:    t,
			Terms: terms,
		}

		var sum float64
		var attributed []models.TopicComment
		for i, ac := range analyzed {
			weight := w.At(i, t)
			if weight <= topicWeightThreshold {
				continue
			}
			sum += ac.EffectiveScore()
			attributed = append(attributed, models.TopicComment{
				CommentID: ac.ID,
				Text:      ac.Text,
				Weight:    weight,
			})
		}
		if len(attributed) > 0 {
			topic.Sentiment = sum / float64(len(attributed))
		}

		sort.SliceStable(attributed, func(a, b int) bool {
			return attributed[a].Weight > attributed[b].Weight
		})
		if len(attributed) > topicMaxComments {
			attributed = attributed[:topicMaxComments]
		}
		topic.Comments = attributed

		labelCount := topicLabelTerms
		if labelCount > len(terms) {
			labelCount = len(terms)
		}
		topic.Label = strings.Join(terms[:labelCount], ", ")
		tm.refineLabel(ctx, &topic)

		topics = append(topics, topic)
	}
	return topics
}

// refineLabel asks the zero-shot capability to pick a label among groups of
// the topic's top terms, judged against the leading representative comment.
// Any failure keeps the term-join label.
func (tm *TopicModeler) refineLabel(ctx context.Context, topic *models.Topic) {
	if tm.zeroShot == nil || !tm.zeroShot.Available() || len(topic.Comments) == 0 {
		return
	}

	var candidates []string
	for i := 0; i < len(topic.Terms); i += topicLabelTerms {
		end := i + topicLabelTerms
		if end > len(topic.Terms) {
			end = len(topic.Terms)
		}
		candidates = append(candidates, strings.Join(topic.Terms[i:end], " "))
	}
	if len(candidates) < 2 {
		return
	}

	results, err := tm.zeroShot.ClassifyZeroShot(ctx, topic.Comments[0].Text, candidates)
	if err != nil {
		slog.Warn("[TopicModeler] Zero-shot labeling failed, keeping term label",
			slog.Int("topic", topic.ID),
			slog.String("error", err.Error()))
		return
	}
	if len(results) > 0 && results[0].Score > topicLabelConfidence {
		topic.Label = results[0].Label
	}
}

// buildTFIDF builds a bounded-vocabulary tf-idf matrix. Terms below the
// document-frequency floor are dropped; when the vocabulary overflows the
// feature cap, the most frequent terms win. Rows are l2-normalized.
func buildTFIDF(docs [][]string) ([]string, *mat.Dense) {
	df := make(map[string]int)
	total := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			total[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}

	vocab := make([]string, 0, len(df))
	for term, count := range df {
		if count >= tfidfMinDocFreq {
			vocab = append(vocab, term)
		}
	}
	if len(vocab) == 0 {
		return nil, nil
	}

	if len(vocab) > tfidfMaxFeatures {
		sort.Slice(vocab, func(a, b int) bool {
			if total[vocab[a]] != total[vocab[b]] {
				return total[vocab[a]] > total[vocab[b]]
			}
			return vocab[a] < vocab[b]
		})
		vocab = vocab[:tfidfMaxFeatures]
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}

	n := len(docs)
	m := len(vocab)
	tfidf := mat.NewDense(n, m, nil)

	for i, doc := range docs {
		for _, term := range doc {
			if j, ok := index[term]; ok {
				tfidf.Set(i, j, tfidf.At(i, j)+1)
			}
		}
		var norm float64
		for j := 0; j < m; j++ {
			tf := tfidf.At(i, j)
			if tf == 0 {
				continue
			}
			idf := math.Log(float64(1+n)/float64(1+df[vocab[j]])) + 1
			v := tf * idf
			tfidf.Set(i, j, v)
			norm += v * v
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := 0; j < m; j++ {
				tfidf.Set(i, j, tfidf.At(i, j)/norm)
			}
		}
	}
	return vocab, tfidf
}

// factorize runs multiplicative-update nonnegative matrix factorization with
// a fixed seed so repeated runs produce identical topics.
func factorize(v *mat.Dense, k int) (w, h *mat.Dense) {
	n, m := v.Dims()
	rng := rand.New(rand.NewSource(nmfSeed))

	w = mat.NewDense(n, k, nil)
	h = mat.NewDense(k, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			w.Set(i, j, rng.Float64()+nmfEpsilon)
		}
	}
	for i := 0; i < k; i++ {
		for j := 0; j < m; j++ {
			h.Set(i, j, rng.Float64()+nmfEpsilon)
		}
	}

	var wtV, wtW, wtWH mat.Dense
	var vHt, hHt, wHHt mat.Dense

	for iter := 0; iter < nmfIterations; iter++ {
		// H <- H * (W'V) / (W'WH)
		wtV.Mul(w.T(), v)
		wtW.Mul(w.T(), w)
		wtWH.Mul(&wtW, h)
		for i := 0; i < k; i++ {
			for j := 0; j < m; j++ {
				h.Set(i, j, h.At(i, j)*wtV.At(i, j)/(wtWH.At(i, j)+nmfEpsilon))
			}
		}

		// W <- W * (VH') / (WHH')
		vHt.Mul(v, h.T())
		hHt.Mul(h, h.T())
		wHHt.Mul(w, &hHt)
		for i := 0; i < n; i++ {
			for j := 0; j < k; j++ {
				w.Set(i, j, w.At(i, j)*vHt.At(i, j)/(wHHt.At(i, j)+nmfEpsilon))
			}
		}
	}
	return w, h
}

// topTerms returns the highest-weighted vocabulary terms for one topic row.
func topTerms(h *mat.Dense, topic int, vocab []string, limit int) []string {
	type weighted struct {
		term   string
		weight float64
	}
	ranked := make([]weighted, len(vocab))
	for j, term := range vocab {
		ranked[j] = weighted{term: term, weight: h.At(topic, j)}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].weight > ranked[b].weight
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}
	terms := make([]string, 0, limit)
	for _, r := range ranked[:limit] {
		if r.weight <= 0 {
			break
		}
		terms = append(terms, r.term)
	}
	return terms
}
