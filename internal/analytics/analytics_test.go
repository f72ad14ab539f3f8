package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/spacesedan/insightflow/config"
	"github.com/spacesedan/insightflow/internal/models"
)

func intPtr(v int) *int { return &v }

func analyzedComment(id, productID, productName, text string, score float64) models.AnalyzedComment {
	return models.AnalyzedComment{
		Comment: models.Comment{
			ID:          id,
			ProductID:   productID,
			ProductName: productName,
			Text:        text,
			CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		Sentiment: models.SentimentResult{
			Score:           score,
			Label:           "neutral",
			Emotions:        map[string]float64{"neutral": 0.7},
			DominantEmotion: "neutral",
			Intent:          models.IntentGeneralFeedback,
			Criticality:     models.CriticalityLow,
		},
	}
}

func corpus(n int) []models.AnalyzedComment {
	texts := []string{
		"The battery life on this phone is excellent and lasts all day long",
		"Battery drains quickly and the charging port feels loose and cheap",
		"The screen resolution is sharp and the display colors look vibrant",
		"Screen cracked after a week and the display flickers constantly now",
		"Shipping was fast and the packaging kept everything safe in transit",
		"Customer service never answered my emails about the shipping delay",
		"The camera takes beautiful photos even in low light conditions",
		"Camera app crashes whenever I try to record a longer video clip",
		"Setup was simple and the instructions were clear and easy to follow",
		"The price is reasonable for the quality you actually receive here",
	}
	out := make([]models.AnalyzedComment, n)
	for i := 0; i < n; i++ {
		score := 0.5
		if i%2 == 1 {
			score = -0.5
		}
		out[i] = analyzedComment(
			fmt.Sprintf("c%d", i),
			"p1", "Widget",
			texts[i%len(texts)],
			score,
		)
	}
	return out
}

func TestTopicModelerMinCorpusGate(t *testing.T) {
	tm := NewTopicModeler(config.DefaultAnalyzer(), nil)

	if topics := tm.Model(context.Background(), corpus(9)); topics != nil {
		t.Errorf("9-comment corpus produced %d topics, want none", len(topics))
	}

	topics := tm.Model(context.Background(), corpus(10))
	if len(topics) == 0 {
		t.Fatal("10-comment corpus produced no topics")
	}
	if len(topics) > config.DefaultAnalyzer().TopicCount {
		t.Errorf("got %d topics, want at most %d", len(topics), config.DefaultAnalyzer().TopicCount)
	}
	for _, topic := range topics {
		if len(topic.Terms) == 0 {
			t.Errorf("topic %d has no terms", topic.ID)
		}
		if topic.Label == "" {
			t.Errorf("topic %d has no label", topic.ID)
		}
	}
}

func TestTopicModelerDeterministic(t *testing.T) {
	tm := NewTopicModeler(config.DefaultAnalyzer(), nil)
	in := corpus(12)

	first := tm.Model(context.Background(), in)
	second := tm.Model(context.Background(), in)

	if len(first) != len(second) {
		t.Fatalf("topic counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Label != second[i].Label {
			t.Errorf("topic %d label differs between runs: %q vs %q", i, first[i].Label, second[i].Label)
		}
		if len(first[i].Terms) != len(second[i].Terms) {
			t.Errorf("topic %d term count differs between runs", i)
			continue
		}
		for j := range first[i].Terms {
			if first[i].Terms[j] != second[i].Terms[j] {
				t.Errorf("topic %d term %d differs between runs", i, j)
			}
		}
	}
}

func TestAnomalyDetectorMinCorpusGate(t *testing.T) {
	ad := NewAnomalyDetector(config.DefaultAnalyzer())

	if anomalies := ad.Detect(corpus(18)); anomalies != nil {
		t.Errorf("18-comment corpus produced %d anomalies, want none", len(anomalies))
	}
}

func TestAnomalyDetectorFlagsOutlier(t *testing.T) {
	cfg := config.DefaultAnalyzer()
	cfg.AnomalyDistanceLimit = 3

	in := corpus(24)
	// One comment with an extreme profile: very long, shouted, maximally
	// negative and fully subjective.
	outlier := analyzedComment("weird", "p1", "Widget", "", -1)
	for i := 0; i < 40; i++ {
		outlier.Text += "AWFUL TERRIBLE BROKEN GARBAGE DO NOT BUY EVER "
	}
	outlier.Sentiment.Subjectivity = 1
	in = append(in, outlier)

	anomalies := NewAnomalyDetector(cfg).Detect(in)
	if len(anomalies) == 0 {
		t.Fatal("expected at least one anomaly")
	}

	found := false
	for _, a := range anomalies {
		if a.CommentID == "weird" {
			found = true
			if a.Reason == "" {
				t.Error("anomaly has no reason")
			}
			if len(a.Features) != anomalyFeatureCount {
				t.Errorf("anomaly has %d features, want %d", len(a.Features), anomalyFeatureCount)
			}
		}
	}
	if !found {
		t.Errorf("outlier not flagged; got %+v", anomalies)
	}

	for i := 1; i < len(anomalies); i++ {
		if anomalies[i].Distance > anomalies[i-1].Distance {
			t.Error("anomalies not sorted descending by distance")
			break
		}
	}
}

func TestProductSummarizerMinCommentsGate(t *testing.T) {
	ps := NewProductSummarizer(config.DefaultAnalyzer(), nil)

	in := []models.AnalyzedComment{
		analyzedComment("a1", "small", "Small", "fine", 0.1),
		analyzedComment("a2", "small", "Small", "fine", 0.2),
		analyzedComment("b1", "big", "Big", "good", 0.6),
		analyzedComment("b2", "big", "Big", "good", 0.3),
		analyzedComment("b3", "big", "Big", "bad", -0.3),
	}

	summaries := ps.Summarize(context.Background(), in)

	if _, ok := summaries["small"]; ok {
		t.Error("2-comment product got a summary")
	}

	big, ok := summaries["big"]
	if !ok {
		t.Fatal("3-comment product got no summary")
	}
	if big.CommentCount != 3 {
		t.Errorf("commentCount = %d, want 3", big.CommentCount)
	}
	if diff := big.AvgSentiment - 0.2; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("avgSentiment = %v, want 0.2", big.AvgSentiment)
	}
	if big.SentimentDistribution["neutral"] != 3 {
		t.Errorf("sentiment distribution = %v", big.SentimentDistribution)
	}
	if len(big.TopIntents) == 0 || big.TopIntents[0].Intent != models.IntentGeneralFeedback {
		t.Errorf("top intents = %v", big.TopIntents)
	}
	if big.Summary != "" {
		t.Error("summary text present without a summarizer capability")
	}
}

type stubSummarizer struct{ out string }

func (s stubSummarizer) Summarize(context.Context, string) (string, error) { return s.out, nil }
func (stubSummarizer) Available() bool                                     { return true }

func TestProductSummarizerAbstractiveSummary(t *testing.T) {
	ps := NewProductSummarizer(config.DefaultAnalyzer(), stubSummarizer{out: "Customers like it."})

	in := []models.AnalyzedComment{
		analyzedComment("a", "p", "P", "good", 0.5),
		analyzedComment("b", "p", "P", "good", 0.4),
		analyzedComment("c", "p", "P", "good", 0.3),
	}

	summaries := ps.Summarize(context.Background(), in)
	if got := summaries["p"].Summary; got != "Customers like it." {
		t.Errorf("summary = %q", got)
	}
}

func TestDriverRankerCategories(t *testing.T) {
	dr := NewDriverRanker(config.DefaultAnalyzer())

	withAspect := func(id, aspect string, sentiments ...float64) models.AnalyzedComment {
		ac := analyzedComment(id, "p", "P", "text", 0)
		ac.Sentiment.Aspects = map[string]*models.AspectStat{}
		for _, s := range sentiments {
			stat := ac.Sentiment.Aspects[aspect]
			if stat == nil {
				stat = &models.AspectStat{}
				ac.Sentiment.Aspects[aspect] = stat
			}
			stat.Mentions++
			stat.Sentiment = s
		}
		return ac
	}

	in := []models.AnalyzedComment{
		// battery: two comments at 0.8 and 0.6, avg 0.7 -> positive.
		withAspect("1", "battery", 0.8),
		withAspect("2", "battery", 0.6),
		// screen: -0.9 and -0.5, avg -0.7 -> negative.
		withAspect("3", "screen", -0.9),
		withAspect("4", "screen", -0.5),
		// price: 0.1 and -0.1, avg 0 -> neutral.
		withAspect("5", "price", 0.1),
		withAspect("6", "price", -0.1),
		// camera: 0.9 and -0.3, avg 0.3 with both polarities -> mixed.
		withAspect("7", "camera", 0.9),
		withAspect("8", "camera", -0.3),
		// single mention, excluded.
		withAspect("9", "manual", -1),
		// handle: 0.35 and 0.25, avg 0.3 but no negative mentions ->
		// dropped from every category.
		withAspect("10", "handle", 0.35),
		withAspect("11", "handle", 0.25),
	}

	set := dr.Rank(in)

	if len(set.Positive) != 1 || set.Positive[0].Aspect != "battery" {
		t.Errorf("positive = %+v", set.Positive)
	}
	if len(set.Negative) != 1 || set.Negative[0].Aspect != "screen" {
		t.Errorf("negative = %+v", set.Negative)
	}
	if len(set.Neutral) != 1 || set.Neutral[0].Aspect != "price" {
		t.Errorf("neutral = %+v", set.Neutral)
	}
	if len(set.Mixed) != 1 || set.Mixed[0].Aspect != "camera" {
		t.Errorf("mixed = %+v", set.Mixed)
	}
	camera := set.Mixed[0]
	if camera.Positive != 1 || camera.Negative != 1 {
		t.Errorf("camera polarity counts = %d/%d, want 1/1", camera.Positive, camera.Negative)
	}

	battery := set.Positive[0]
	if battery.Mentions != 2 {
		t.Errorf("battery mentions = %d, want 2", battery.Mentions)
	}
	if diff := battery.Impact - 2*0.7; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("battery impact = %v, want 1.4", battery.Impact)
	}
	if len(battery.Examples) != 2 {
		t.Errorf("battery examples = %d, want 2", len(battery.Examples))
	}
}

func TestBuildNetworkCoMentions(t *testing.T) {
	in := []models.AnalyzedComment{
		analyzedComment("1", "p1", "Alpha", "Alpha is much better than Beta in every way", 0.5),
		analyzedComment("2", "p1", "Alpha", "Alpha works fine", 0.3),
		analyzedComment("3", "p1", "Alpha", "Alpha is solid", 0.4),
		analyzedComment("4", "p2", "Beta", "Beta keeps crashing, switched to Alpha", -0.6),
		analyzedComment("5", "p2", "Beta", "Beta is slow", -0.2),
		analyzedComment("6", "p2", "Beta", "Beta support never answers", -0.4),
		analyzedComment("7", "p3", "Gamma", "Gamma beats Alpha and Beta combined", 0.7),
	}

	summaries := NewProductSummarizer(config.DefaultAnalyzer(), nil).Summarize(context.Background(), in)
	network := BuildNetwork(in, summaries)

	// Gamma sits below the summary gate, so it gets no node and no edges
	// even though its comment co-mentions the others.
	if len(network.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2: %+v", len(network.Nodes), network.Nodes)
	}
	for _, node := range network.Nodes {
		if node.ID == "p3" {
			t.Error("unsummarized product got a node")
		}
	}
	if len(network.Links) != 1 {
		t.Fatalf("got %d links, want 1", len(network.Links))
	}
	link := network.Links[0]
	if link.Weight != 3 {
		t.Errorf("link weight = %d, want 3", link.Weight)
	}
	if link.Source != "p1" || link.Target != "p2" {
		t.Errorf("link = %+v", link)
	}
}

func TestGenerateInsightsTopIsOverall(t *testing.T) {
	in := []models.AnalyzedComment{
		analyzedComment("1", "p", "P", "fix this asap it is broken", -0.9),
		analyzedComment("2", "p", "P", "nice", 0.5),
	}
	in[0].Sentiment.Criticality = models.CriticalityCritical

	insights := GenerateInsights(in, nil, models.DriverSet{}, nil, nil)

	if len(insights) < 2 {
		t.Fatalf("got %d insights, want at least 2", len(insights))
	}
	if insights[0].Type != "overall_sentiment" {
		t.Errorf("top insight = %q, want overall_sentiment", insights[0].Type)
	}
	for i := 1; i < len(insights); i++ {
		if insights[i].Score > insights[i-1].Score {
			t.Error("insights not sorted descending by score")
			break
		}
	}
}

func TestComputeMetrics(t *testing.T) {
	in := []models.AnalyzedComment{
		analyzedComment("1", "p", "P", "a", -0.5),
		analyzedComment("2", "p", "P", "b", 0.5),
		analyzedComment("3", "p", "P", "c", 0.5),
	}
	in[0].Rating = intPtr(1)
	in[1].Rating = intPtr(5)

	metrics := ComputeMetrics(in)

	if metrics.SentimentStats == nil {
		t.Fatal("missing sentiment stats")
	}
	if metrics.SentimentStats.Min != -0.5 || metrics.SentimentStats.Max != 0.5 {
		t.Errorf("sentiment min/max = %v/%v", metrics.SentimentStats.Min, metrics.SentimentStats.Max)
	}
	if metrics.RatingStats == nil {
		t.Fatal("missing rating stats")
	}
	if metrics.RatingStats.Distribution[1] != 1 || metrics.RatingStats.Distribution[5] != 1 {
		t.Errorf("rating distribution = %v", metrics.RatingStats.Distribution)
	}
	if metrics.TemporalStats == nil {
		t.Fatal("missing temporal stats")
	}
	if metrics.TemporalStats.TimespanDays != 0 {
		t.Errorf("timespan = %d, want 0", metrics.TemporalStats.TimespanDays)
	}
}
