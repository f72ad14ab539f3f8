package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"
)

var (
	huggingFaceInstance *HuggingFaceClient
	huggingFaceOnce     sync.Once
)

// HuggingFaceClient talks to the hosted zero-shot classification space. The
// local ONNX pipelines cover sentiment and emotions; open-vocabulary
// classification stays remote because the label set changes per request.
type HuggingFaceClient struct {
	Client   *http.Client
	endpoint string
}

type ZeroShotRequest struct {
	Text            string   `json:"text"`
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type ZeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

func GetHuggingFaceClient() *HuggingFaceClient {
	var timeout time.Duration
	env := os.Getenv("APP_ENV")
	if env == "production" {
		timeout = 10 * time.Second
	} else {
		timeout = 60 * time.Second
	}
	huggingFaceOnce.Do(func() {
		slog.Info("[HuggingFaceClient] Initializing Client",
			slog.Duration("timeout", timeout),
			slog.String("env", env))
		huggingFaceInstance = &HuggingFaceClient{
			Client: &http.Client{
				Timeout: timeout,
			},
			endpoint: os.Getenv("HF_ZEROSHOT_ENDPOINT"),
		}
	})
	return huggingFaceInstance
}

func (h *HuggingFaceClient) HasZeroShot() bool {
	return h.endpoint != ""
}

func (h *HuggingFaceClient) GetZeroShotClassification(ctx context.Context, input ZeroShotRequest) (ZeroShotResponse, error) {
	var result ZeroShotResponse
	start := time.Now()

	err := h.postJSON(ctx, h.endpoint, input, &result)
	if err != nil {
		slog.Error("[HuggingFaceClient] Zero-shot request failed",
			slog.Duration("elapsed", time.Since(start)))
		return result, err
	}

	slog.Debug("[HuggingFaceClient] Zero-shot request successful",
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (h *HuggingFaceClient) DoWithRetry(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := INITIAL_BACKOFF

	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		resp, err = h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if resp != nil {
			resp.Body.Close()
		}

		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		time.Sleep(backoff)
		backoff *= 2
	}

	return resp, err
}

// helper function for posting data to the AI services
func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.DoWithRetry(req)
	if err != nil {
		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
