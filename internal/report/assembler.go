// Package report orchestrates the fixed pipeline order and composes the
// final analytics document.
package report

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spacesedan/insightflow/config"
	"github.com/spacesedan/insightflow/internal/analytics"
	"github.com/spacesedan/insightflow/internal/analyzer"
	"github.com/spacesedan/insightflow/internal/capabilities"
	"github.com/spacesedan/insightflow/internal/models"
)

// Assembler runs per-comment analysis, waits for the barrier, executes every
// corpus-wide reduction against the finished per-comment results, and merges
// the reduction outputs into one report. The assembled report is a pure
// function of the comment batch plus configuration, aside from capability
// outputs, which callers can pin through the cache layer.
type Assembler struct {
	cfg      config.Analyzer
	caps     capabilities.Providers
	analyzer *analyzer.Analyzer
}

func NewAssembler(cfg config.Analyzer, caps capabilities.Providers) *Assembler {
	return &Assembler{
		cfg:      cfg,
		caps:     caps,
		analyzer: analyzer.New(cfg, caps),
	}
}

// Assemble processes one comment batch end to end. Gated reductions below
// their minimum sample size contribute empty results rather than errors; the
// only failure mode is an empty batch.
func (a *Assembler) Assemble(ctx context.Context, comments []models.Comment) (*models.Report, error) {
	if len(comments) == 0 {
		return nil, &models.DataSourceError{Reason: "empty comment batch"}
	}

	start := time.Now()
	slog.Info("[ReportAssembler] Starting batch analysis",
		slog.Int("comments", len(comments)))

	analyzed := a.analyzer.AnalyzeBatch(ctx, comments)

	// Barrier reached. Each reduction reads only the finished per-comment
	// results and writes only its own output; they merge below once all
	// have completed.
	var (
		wg        sync.WaitGroup
		summaries map[string]*models.ProductSummary
		drivers   models.DriverSet
		topics    []models.Topic
		anomalies []models.Anomaly
		network   models.Network
		metrics   models.Metrics
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		summaries = analytics.NewProductSummarizer(a.cfg, a.caps.Summarizer).Summarize(ctx, analyzed)
		// The network only has nodes for summarized products, so it runs
		// once the summaries exist.
		network = analytics.BuildNetwork(analyzed, summaries)
	}()
	go func() {
		defer wg.Done()
		drivers = analytics.NewDriverRanker(a.cfg).Rank(analyzed)
	}()
	go func() {
		defer wg.Done()
		topics = analytics.NewTopicModeler(a.cfg, a.caps.ZeroShot).Model(ctx, analyzed)
	}()
	go func() {
		defer wg.Done()
		anomalies = analytics.NewAnomalyDetector(a.cfg).Detect(analyzed)
	}()
	go func() {
		defer wg.Done()
		metrics = analytics.ComputeMetrics(analyzed)
	}()
	wg.Wait()

	insights := analytics.GenerateInsights(analyzed, summaries, drivers, topics, anomalies)

	var total float64
	for _, ac := range analyzed {
		total += ac.EffectiveScore()
	}

	report := &models.Report{
		Date:                  batchDate(comments),
		TotalComments:         len(analyzed),
		OverallSentiment:      total / float64(len(analyzed)),
		Analyses:              analyzed,
		ProductSummaries:      summaries,
		SentimentDrivers:      drivers,
		Topics:                topics,
		Anomalies:             anomalies,
		RecommendationNetwork: network,
		Insights:              insights,
		Metrics:               metrics,
	}

	slog.Info("[ReportAssembler] Batch analysis complete",
		slog.Int("comments", len(analyzed)),
		slog.Int("insights", len(insights)),
		slog.Duration("elapsed", time.Since(start)))

	return report, nil
}

// batchDate is the newest comment timestamp, so identical batches always
// produce identical reports.
func batchDate(comments []models.Comment) string {
	var newest time.Time
	for _, c := range comments {
		if c.CreatedAt.After(newest) {
			newest = c.CreatedAt
		}
	}
	if newest.IsZero() {
		return ""
	}
	return newest.UTC().Format("2006-01-02")
}
