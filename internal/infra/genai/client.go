package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds the completion call. The generative step is the
// dominant-latency stage of the pipeline, commonly tens of seconds to minutes.
const DefaultTimeout = 5 * time.Minute

// Client calls an Ollama-compatible generate endpoint and returns the raw
// completion text. The engine treats that text as untrusted input; all
// structure is imposed downstream by the parser and validator.
type Client struct {
	HTTP        *http.Client
	Endpoint    string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Logger      *slog.Logger
}

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
	Stream      bool    `json:"stream"`
	Format      string  `json:"format,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Complete sends the contract text and returns the model's raw reply.
func (c *Client) Complete(ctx context.Context, promptText string) (string, error) {
	if c == nil || c.HTTP == nil {
		return "", errors.New("genai: http client not configured")
	}
	if c.Endpoint == "" {
		return "", errors.New("genai: endpoint not configured")
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:       c.Model,
		Prompt:      promptText,
		Temperature: c.Temperature,
		NumPredict:  c.MaxTokens,
		Stream:      false,
		Format:      "json",
	})
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.HTTP.Do(request)
	if err != nil {
		return "", fmt.Errorf("genai: completion call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("genai: completion returned status %d: %s", resp.StatusCode, snippet)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("genai: decoding completion response: %w", err)
	}
	if c.Logger != nil {
		c.Logger.Info("completion received",
			"model", c.Model,
			"duration", time.Since(started),
			"chars", len(decoded.Response))
	}
	return decoded.Response, nil
}
