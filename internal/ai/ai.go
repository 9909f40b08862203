// Package ai provides clients for the LLM providers used to analyze articles.
// Each client speaks its provider's own HTTP protocol but converges on the
// same analysis schema, normalized once at this boundary.
package ai

import (
	"context"
	"fmt"
	"time"
)

// Model identifies one of the supported AI backends. The set is closed: an
// unsupported value is a configuration error, rejected before any article is
// fetched, never a runtime fallback.
type Model string

const (
	ModelGemini Model = "GEMINI"
	ModelOpenAI Model = "OPENAI"
)

// ParseModel validates a model selector.
func ParseModel(s string) (Model, error) {
	switch Model(s) {
	case ModelGemini, ModelOpenAI:
		return Model(s), nil
	}
	return "", fmt.Errorf("ai: unsupported model %q (supported: %s, %s)", s, ModelGemini, ModelOpenAI)
}

// Invocation is the unwrapped outcome of one provider call: the text the
// model produced plus call metadata. Schema interpretation happens on top of
// this.
type Invocation struct {
	Model      Model
	Text       string
	StatusCode int
	Latency    float64 // wall-clock seconds
	Timestamp  time.Time
	TokensUsed int
}

// Generator is the raw capability each provider client implements: one
// blocking call, provider envelope unwrapped to plain text. Failures are
// raised as errors, never returned as a degraded Invocation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Invocation, error)
	Model() Model
}

// Analyzer is the article-analysis capability: one blocking call returning a
// structured Result matching the fixed analysis schema, or an error.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (*Result, error)
	Model() Model
}

// StatusError reports a non-2xx provider response.
type StatusError struct {
	Model      Model
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ai: %s: status %d: %s", e.Model, e.StatusCode, e.Body)
}

// PayloadError reports a provider reply that could not be interpreted: a
// malformed envelope, unparseable interior JSON, or a missing required field.
type PayloadError struct {
	Model  Model
	Reason string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("ai: %s: bad payload: %s", e.Model, e.Reason)
}

// analyzeWith runs a generation and interprets the reply against the article
// analysis schema. Shared by every provider client's Analyze method.
func analyzeWith(ctx context.Context, g Generator, prompt string) (*Result, error) {
	inv, err := g.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseAnalysis(inv)
}
