package capabilities

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/spacesedan/insightflow/internal/clients"
	"github.com/spacesedan/insightflow/internal/models"
)

const (
	summarizerModel         = openai.GPT3Dot5Turbo1106
	summarizerRetryAttempts = 3
	summarizerMaxInputChars = 4000
)

const summarizerSystemMessage = `You summarize customer product feedback.
Produce a single short paragraph (at most 60 words) capturing what customers
praise and what they complain about. Respond with the summary only, no
preamble and no quotation marks.`

// OpenAISummarizer produces the optional abstractive product summaries.
type OpenAISummarizer struct {
	client *clients.OpenAIClient
}

func NewOpenAISummarizer() *OpenAISummarizer {
	client, err := clients.GetOpenAIClient()
	if err != nil {
		slog.Warn("[OpenAISummarizer] Summarization capability disabled",
			slog.String("error", err.Error()))
		return &OpenAISummarizer{}
	}
	return &OpenAISummarizer{client: client}
}

func (s *OpenAISummarizer) Available() bool {
	return s != nil && s.client != nil
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if !s.Available() {
		return "", models.ErrCapabilityUnavailable
	}

	if len(text) > summarizerMaxInputChars {
		text = text[:summarizerMaxInputChars]
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: summarizerSystemMessage},
		{Role: openai.ChatMessageRoleUser, Content: text},
	}

	var resp openai.ChatCompletionResponse
	var completionErr error
	for i := 0; i < summarizerRetryAttempts; i++ {
		start := time.Now()
		resp, completionErr = s.client.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    summarizerModel,
			Messages: messages,
		})
		if completionErr == nil {
			break
		}
		slog.Warn("[OpenAISummarizer] Failed to get a response from OpenAI, retrying...",
			slog.String("error", completionErr.Error()),
			slog.Int("attempt", i+1),
			slog.Duration("elapsed", time.Since(start)))
	}
	if completionErr != nil {
		return "", fmt.Errorf("%w: %v", models.ErrCapabilityUnavailable, completionErr)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", models.ErrCapabilityUnavailable)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
