package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/json-oracle/oracle_engine/config"
)

// Inferrer is the single external AI capability the pipeline consumes.
// Exactly one invocation per submission; no retry or backoff lives here or
// in any caller.
type Inferrer interface {
	Infer(ctx context.Context, model, prompt string) (string, error)
}

// OllamaClient talks to Ollama's /api/generate endpoint.
type OllamaClient struct {
	baseURL string
	client  *http.Client
	log     *zap.SugaredLogger
}

func NewOllamaClient(cfg config.Ollama, log *zap.SugaredLogger) *OllamaClient {
	return &OllamaClient{
		baseURL: fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:     log,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Infer sends one non-streaming generate call and returns the raw response
// text.
func (c *OllamaClient) Infer(ctx context.Context, model, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{Model: model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorw("ollama request failed", "model", model, "err", err)
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.log.Errorw("ollama returned non-200", "model", model, "status", resp.Status, "body", string(body))
		return "", fmt.Errorf("inference failed with status: %s", resp.Status)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("inference error: %s", out.Error)
	}
	return out.Response, nil
}
