// Package analyzer runs the per-comment stage of the pipeline: every comment
// is preprocessed and scored independently, fanned out over a worker pool,
// with results reassembled in input order.
package analyzer

import (
	"context"
	"log/slog"
	"sync"

	prose "github.com/tsawler/prose/v3"

	"github.com/spacesedan/insightflow/config"
	"github.com/spacesedan/insightflow/internal/capabilities"
	"github.com/spacesedan/insightflow/internal/models"
	"github.com/spacesedan/insightflow/internal/sentiment"
	"github.com/spacesedan/insightflow/internal/textproc"
)

const (
	keywordMinLength = 3
	keywordLimit     = 10
)

type Analyzer struct {
	cfg    config.Analyzer
	caps   capabilities.Providers
	scorer *sentiment.Scorer
}

func New(cfg config.Analyzer, caps capabilities.Providers) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		caps:   caps,
		scorer: sentiment.NewScorer(cfg, caps),
	}
}

// AnalyzeBatch analyzes every comment and returns the results in input
// order. A comment whose text cannot be parsed gets a neutral default result
// and is flagged rather than dropped, so downstream counts stay honest.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, comments []models.Comment) []models.AnalyzedComment {
	procs := a.preprocessAll(comments)

	extractor := sentiment.NewExtractor(
		sentiment.BuildVocabularies(ctx, comments, docsOf(procs), a.caps.ZeroShot))

	analyzed := make([]models.AnalyzedComment, len(comments))

	var wg sync.WaitGroup
	jobs := make(chan int)

	for w := 0; w < a.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				analyzed[i] = a.analyzeOne(ctx, comments[i], procs[i], extractor)
			}
		}()
	}

	for i := range comments {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return analyzed
}

func (a *Analyzer) preprocessAll(comments []models.Comment) []*textproc.Processed {
	procs := make([]*textproc.Processed, len(comments))

	var wg sync.WaitGroup
	jobs := make(chan int)

	for w := 0; w < a.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				proc, err := textproc.Preprocess(comments[i].Text)
				if err != nil {
					slog.Warn("[Analyzer] Preprocessing failed, flagging comment",
						slog.String("commentId", comments[i].ID),
						slog.String("error", err.Error()))
					continue
				}
				procs[i] = proc
			}
		}()
	}

	for i := range comments {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return procs
}

func (a *Analyzer) analyzeOne(ctx context.Context, c models.Comment, proc *textproc.Processed, extractor *sentiment.Extractor) models.AnalyzedComment {
	if proc == nil {
		return models.AnalyzedComment{
			Comment:   c,
			Sentiment: neutralResult(c),
			Flagged:   true,
		}
	}

	doc := proc.Doc
	score, subjectivity := a.scorer.Fuse(ctx, c.Text, doc)
	emotions, dominant := a.scorer.ClassifyEmotions(ctx, c.Text, proc.RawTokens, score)
	intent := sentiment.DetectIntent(c.Text, doc, c.Rating)

	entities := make(map[string][]string)
	for _, ent := range doc.Entities() {
		entities[ent.Label] = append(entities[ent.Label], ent.Text)
	}
	if len(entities) == 0 {
		entities = nil
	}

	wordCount, charCount, avgWordLength := textproc.WordStats(c.Text)

	result := models.SentimentResult{
		Score:           score,
		Label:           a.scorer.Label(score),
		Subjectivity:    subjectivity,
		Emotions:        emotions,
		DominantEmotion: dominant,
		Aspects:         extractor.Extract(doc, c.ProductID),
		Intent:          intent,
		Criticality:     sentiment.AssessCriticality(c.Text, score, intent, c.Rating),
		Keywords:        textproc.Keywords(proc.Tokens, keywordMinLength, keywordLimit),
		KeyPhrases:      sentiment.ExtractKeyPhrases(doc),
		Entities:        entities,
		Competitors:     sentiment.DetectCompetitors(c.Text, c.ProductName, doc),
		TextStats: models.TextStats{
			WordCount:     wordCount,
			CharCount:     charCount,
			AvgWordLength: avgWordLength,
		},
	}

	if c.Rating != nil {
		adjusted, adjustedLabel := a.scorer.Adjust(score, *c.Rating)
		result.AdjustedScore = &adjusted
		result.AdjustedLabel = adjustedLabel
	}

	return models.AnalyzedComment{Comment: c, Sentiment: result}
}

func docsOf(procs []*textproc.Processed) []*prose.Document {
	docs := make([]*prose.Document, len(procs))
	for i, p := range procs {
		if p != nil {
			docs[i] = p.Doc
		}
	}
	return docs
}

// neutralResult is the placeholder for comments the parser rejected.
func neutralResult(c models.Comment) models.SentimentResult {
	wordCount, charCount, avgWordLength := textproc.WordStats(c.Text)
	return models.SentimentResult{
		Score:           0,
		Label:           models.LabelNeutral,
		Emotions:        map[string]float64{"neutral": 0.7},
		DominantEmotion: "neutral",
		Intent:          models.IntentGeneralFeedback,
		Criticality:     models.CriticalityLow,
		TextStats: models.TextStats{
			WordCount:     wordCount,
			CharCount:     charCount,
			AvgWordLength: avgWordLength,
		},
	}
}
