package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prensalab/prensa/internal/config"
)

// OpenAIClient is an HTTP client for the OpenAI Responses API.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAIClient creates an OpenAIClient from configuration.
func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Model returns ModelOpenAI.
func (c *OpenAIClient) Model() Model {
	return ModelOpenAI
}

// openaiRequest is the JSON body sent to /v1/responses.
type openaiRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// openaiResponse is the envelope the Responses API wraps its reply in. The
// generated text sits at output[0].content[0].text.
type openaiResponse struct {
	Output []struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Generate performs one blocking call to /v1/responses and unwraps the reply.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (*Invocation, error) {
	body, err := json.Marshal(openaiRequest{
		Model: c.model,
		Input: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/responses", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start).Seconds()
	if err != nil {
		return nil, fmt.Errorf("openai: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{
			Model:      ModelOpenAI,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	var envelope openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &PayloadError{Model: ModelOpenAI, Reason: fmt.Sprintf("decode envelope: %v", err)}
	}

	if len(envelope.Output) == 0 || len(envelope.Output[0].Content) == 0 {
		return nil, &PayloadError{Model: ModelOpenAI, Reason: "empty output"}
	}

	return &Invocation{
		Model:      ModelOpenAI,
		Text:       envelope.Output[0].Content[0].Text,
		StatusCode: resp.StatusCode,
		Latency:    latency,
		Timestamp:  time.Now().UTC(),
		TokensUsed: envelope.Usage.TotalTokens,
	}, nil
}

// Analyze runs one article analysis through OpenAI.
func (c *OpenAIClient) Analyze(ctx context.Context, prompt string) (*Result, error) {
	return analyzeWith(ctx, c, prompt)
}
