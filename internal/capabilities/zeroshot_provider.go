package capabilities

import (
	"context"
	"fmt"

	"github.com/spacesedan/insightflow/internal/clients"
	"github.com/spacesedan/insightflow/internal/models"
)

// RemoteZeroShotProvider classifies against caller-supplied labels via the
// hosted zero-shot space. The label set changes per request, so this stays a
// remote call rather than a baked local pipeline.
type RemoteZeroShotProvider struct {
	client *clients.HuggingFaceClient
}

func NewRemoteZeroShotProvider() *RemoteZeroShotProvider {
	return &RemoteZeroShotProvider{client: clients.GetHuggingFaceClient()}
}

func (p *RemoteZeroShotProvider) Available() bool {
	return p != nil && p.client.HasZeroShot()
}

func (p *RemoteZeroShotProvider) ClassifyZeroShot(ctx context.Context, text string, candidates []string) ([]Classification, error) {
	if !p.Available() {
		return nil, models.ErrCapabilityUnavailable
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	resp, err := p.client.GetZeroShotClassification(ctx, clients.ZeroShotRequest{
		Text:            text,
		CandidateLabels: candidates,
		MultiLabel:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCapabilityUnavailable, err)
	}

	results := make([]Classification, 0, len(resp.Labels))
	for i, label := range resp.Labels {
		if i >= len(resp.Scores) {
			break
		}
		results = append(results, Classification{Label: label, Score: resp.Scores[i]})
	}
	return results, nil
}
