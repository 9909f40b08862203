package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prensalab/prensa/internal/config"
)

const requestTimeout = 60 * time.Second

// GeminiClient is an HTTP client for the Gemini generateContent API.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewGeminiClient creates a GeminiClient from configuration.
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	return &GeminiClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Model returns ModelGemini.
func (c *GeminiClient) Model() Model {
	return ModelGemini
}

// geminiRequest is the JSON body sent to :generateContent.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the envelope Gemini wraps its reply in. The generated
// text sits at candidates[0].content.parts[0].text.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Generate performs one blocking generateContent call and unwraps the reply.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (*Invocation, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, c.model, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start).Seconds()
	if err != nil {
		return nil, fmt.Errorf("gemini: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{
			Model:      ModelGemini,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	var envelope geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &PayloadError{Model: ModelGemini, Reason: fmt.Sprintf("decode envelope: %v", err)}
	}

	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return nil, &PayloadError{Model: ModelGemini, Reason: "empty candidates"}
	}

	return &Invocation{
		Model:      ModelGemini,
		Text:       envelope.Candidates[0].Content.Parts[0].Text,
		StatusCode: resp.StatusCode,
		Latency:    latency,
		Timestamp:  time.Now().UTC(),
		TokensUsed: envelope.UsageMetadata.TotalTokenCount,
	}, nil
}

// Analyze runs one article analysis through Gemini.
func (c *GeminiClient) Analyze(ctx context.Context, prompt string) (*Result, error) {
	return analyzeWith(ctx, c, prompt)
}
