package ai

import (
	"fmt"

	"github.com/prensalab/prensa/internal/config"
)

// Backends builds one Analyzer per configured model name, preserving the
// configured order. An unknown name fails the whole build: a bad model
// selector is a configuration error, caught before anything runs.
func Backends(cfg config.Config, modelList []string) ([]Analyzer, error) {
	backends := make([]Analyzer, 0, len(modelList))
	for _, name := range modelList {
		model, err := ParseModel(name)
		if err != nil {
			return nil, err
		}
		switch model {
		case ModelGemini:
			backends = append(backends, NewGeminiClient(cfg.Gemini))
		case ModelOpenAI:
			backends = append(backends, NewOpenAIClient(cfg.OpenAI))
		default:
			return nil, fmt.Errorf("ai: model %s has no backend", model)
		}
	}
	return backends, nil
}
