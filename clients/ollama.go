package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const defaultOllamaModel = "llama3.2"

// OllamaClient talks to a local model server for advisory-only summaries.
// The pipeline must function fully without it, so construction returns nil
// when no server is configured and every caller checks for that.
type OllamaClient struct {
	BaseURL string
	Model   string
	http    *retryablehttp.Client
}

// NewOllamaClientFromEnv returns a client configured from OLLAMA_URL and
// OLLAMA_MODEL, or nil when OLLAMA_URL is unset.
func NewOllamaClientFromEnv() *OllamaClient {
	baseURL := os.Getenv("OLLAMA_URL")
	if baseURL == "" {
		return nil
	}
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = defaultOllamaModel
	}
	client := newHTTPClient()
	// Local generation is slow; give it more room than the registry calls.
	client.HTTPClient.Timeout = 60 * time.Second
	return &OllamaClient{BaseURL: baseURL, Model: model, http: client}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Generate sends a prompt and returns the raw completion text. The caller is
// responsible for strict parsing; the text is untrusted.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:  c.Model,
		Prompt: prompt,
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return "", err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	body, err := readBody(resp)
	if err != nil {
		return "", err
	}

	var result ollamaResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("malformed model response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("model error: %s", result.Error)
	}
	if result.Response == "" {
		return "", fmt.Errorf("model returned no text")
	}
	return result.Response, nil
}
