package capabilities

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/spacesedan/insightflow/internal/clients"
)

// WithCache wraps every present provider with a valkey-backed cache. Cached
// outputs pin nondeterministic model responses, so rerunning the pipeline on
// an identical batch reproduces the identical report.
func WithCache(p Providers, vc *clients.ValkeyClient) Providers {
	if vc == nil {
		return p
	}
	cached := p
	if p.Sentiment != nil {
		cached.Sentiment = &cachedSentiment{inner: p.Sentiment, vc: vc}
	}
	if p.Emotions != nil {
		cached.Emotions = &cachedEmotions{inner: p.Emotions, vc: vc}
	}
	if p.ZeroShot != nil {
		cached.ZeroShot = &cachedZeroShot{inner: p.ZeroShot, vc: vc}
	}
	if p.Summarizer != nil {
		cached.Summarizer = &cachedSummarizer{inner: p.Summarizer, vc: vc}
	}
	return cached
}

func cacheKey(kind string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "capcache:" + kind + ":" + hex.EncodeToString(hash[:])
}

// lookup deserializes a cached payload into out, reporting whether it hit.
func lookup(ctx context.Context, vc *clients.ValkeyClient, key string, out interface{}) bool {
	payload, ok := vc.GetCached(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		slog.Warn("[CapabilityCache] Dropping unreadable cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false
	}
	return true
}

func store(ctx context.Context, vc *clients.ValkeyClient, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := vc.SetCached(ctx, key, payload); err != nil {
		slog.Warn("[CapabilityCache] Failed to store cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

type cachedSentiment struct {
	inner SentimentClassifier
	vc    *clients.ValkeyClient
}

func (c *cachedSentiment) Available() bool { return c.inner.Available() }

func (c *cachedSentiment) ClassifySentiment(ctx context.Context, text string) (Classification, error) {
	key := cacheKey("sentiment", text)
	var result Classification
	if lookup(ctx, c.vc, key, &result) {
		return result, nil
	}

	result, err := c.inner.ClassifySentiment(ctx, text)
	if err != nil {
		return result, err
	}
	store(ctx, c.vc, key, result)
	return result, nil
}

type cachedEmotions struct {
	inner EmotionClassifier
	vc    *clients.ValkeyClient
}

func (c *cachedEmotions) Available() bool { return c.inner.Available() }

func (c *cachedEmotions) ClassifyEmotions(ctx context.Context, text string) ([]Classification, error) {
	key := cacheKey("emotions", text)
	var results []Classification
	if lookup(ctx, c.vc, key, &results) {
		return results, nil
	}

	results, err := c.inner.ClassifyEmotions(ctx, text)
	if err != nil {
		return nil, err
	}
	store(ctx, c.vc, key, results)
	return results, nil
}

type cachedZeroShot struct {
	inner ZeroShotClassifier
	vc    *clients.ValkeyClient
}

func (c *cachedZeroShot) Available() bool { return c.inner.Available() }

func (c *cachedZeroShot) ClassifyZeroShot(ctx context.Context, text string, candidates []string) ([]Classification, error) {
	parts := append([]string{text}, candidates...)
	key := cacheKey("zeroshot", parts...)
	var results []Classification
	if lookup(ctx, c.vc, key, &results) {
		return results, nil
	}

	results, err := c.inner.ClassifyZeroShot(ctx, text, candidates)
	if err != nil {
		return nil, err
	}
	store(ctx, c.vc, key, results)
	return results, nil
}

type cachedSummarizer struct {
	inner Summarizer
	vc    *clients.ValkeyClient
}

func (c *cachedSummarizer) Available() bool { return c.inner.Available() }

func (c *cachedSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	key := cacheKey("summary", text)
	var result string
	if lookup(ctx, c.vc, key, &result) {
		return result, nil
	}

	result, err := c.inner.Summarize(ctx, text)
	if err != nil {
		return "", err
	}
	store(ctx, c.vc, key, result)
	return result, nil
}
