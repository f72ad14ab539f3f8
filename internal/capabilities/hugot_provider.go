package capabilities

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/spacesedan/insightflow/internal/models"
)

const (
	sentimentModelID = "distilbert/distilbert-base-uncased-finetuned-sst-2-english"
	emotionModelID   = "SamLowe/roberta-base-go-emotions"
)

// HugotProvider runs the local ONNX classification pipelines. Construction
// downloads models on first use; a construction failure leaves the pipeline
// nil and the capability reports unavailable.
type HugotProvider struct {
	session       *hugot.Session
	sentimentPipe *pipelines.TextClassificationPipeline
	emotionPipe   *pipelines.TextClassificationPipeline
	mu            sync.Mutex
}

func NewHugotProvider(modelDir string) (*HugotProvider, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("[HugotProvider] failed to create model directory: %w", err)
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("[HugotProvider] failed to initialize session: %w", err)
	}

	p := &HugotProvider{session: session}

	p.sentimentPipe = initClassificationPipeline(session, modelDir, sentimentModelID, "sentimentPipeline")
	p.emotionPipe = initClassificationPipeline(session, modelDir, emotionModelID, "emotionPipeline")

	return p, nil
}

func initClassificationPipeline(session *hugot.Session, modelDir, modelID, name string) *pipelines.TextClassificationPipeline {
	modelPath := filepath.Join(modelDir, filepath.Base(modelID))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		slog.Info("[HugotProvider] Model not found, downloading...",
			slog.String("model", modelID))
		downloaded, err := hugot.DownloadModel(modelID, modelDir, hugot.NewDownloadOptions())
		if err != nil {
			slog.Error("[HugotProvider] Failed to download model",
				slog.String("model", modelID),
				slog.String("error", err.Error()))
			return nil
		}
		modelPath = downloaded
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      name,
	}
	pipe, err := hugot.NewPipeline(session, config)
	if err != nil {
		slog.Error("[HugotProvider] Failed to initialize pipeline",
			slog.String("model", modelID),
			slog.String("error", err.Error()))
		return nil
	}
	return pipe
}

func (p *HugotProvider) Close() {
	if p.session != nil {
		p.session.Destroy()
	}
}

func (p *HugotProvider) Available() bool {
	return p != nil && p.sentimentPipe != nil
}

func (p *HugotProvider) ClassifySentiment(ctx context.Context, text string) (Classification, error) {
	var result Classification
	if p.sentimentPipe == nil {
		return result, models.ErrCapabilityUnavailable
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	outputs, err := p.runPipeline(p.sentimentPipe, text)
	if err != nil || len(outputs) == 0 {
		return result, fmt.Errorf("%w: %v", models.ErrCapabilityUnavailable, err)
	}
	return outputs[0], nil
}

// EmotionProvider exposes the emotion pipeline as its own capability so the
// two can be wired and degraded independently.
type EmotionProvider struct {
	hugot *HugotProvider
}

func (p *HugotProvider) Emotions() *EmotionProvider {
	return &EmotionProvider{hugot: p}
}

func (e *EmotionProvider) Available() bool {
	return e != nil && e.hugot != nil && e.hugot.emotionPipe != nil
}

func (e *EmotionProvider) ClassifyEmotions(ctx context.Context, text string) ([]Classification, error) {
	if !e.Available() {
		return nil, models.ErrCapabilityUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outputs, err := e.hugot.runPipeline(e.hugot.emotionPipe, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCapabilityUnavailable, err)
	}
	return outputs, nil
}

// The ONNX runtime session is not safe for concurrent pipeline runs.
func (p *HugotProvider) runPipeline(pipe *pipelines.TextClassificationPipeline, text string) ([]Classification, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	output, err := pipe.RunPipeline([]string{truncate(text, 512)})
	if err != nil {
		return nil, err
	}

	raw := output.GetOutput()
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty pipeline output")
	}
	return decodeClassifications(raw[0])
}

// decodeClassifications converts one batch entry of a text classification
// pipeline. GetOutput wraps each input's scored labels in an any value.
func decodeClassifications(entry any) ([]Classification, error) {
	scored, ok := entry.([]pipelines.ClassificationOutput)
	if !ok {
		return nil, fmt.Errorf("unexpected pipeline output type %T", entry)
	}

	outputs := make([]Classification, 0, len(scored))
	for _, c := range scored {
		outputs = append(outputs, Classification{
			Label: c.Label,
			Score: float64(c.Score),
		})
	}
	return outputs, nil
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
