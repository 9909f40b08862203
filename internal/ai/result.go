package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prensalab/prensa/internal/models"
)

// Result is the structured output of one article-analysis invocation. It is
// transient: on success its Analysis is projected onto the article, and its
// metadata into the attempt log. It is never persisted directly.
type Result struct {
	Analysis models.Analysis

	Model      Model
	StatusCode int
	Processed  bool
	Latency    float64 // wall-clock seconds
	Timestamp  time.Time
	TokensUsed int
	Raw        string
}

// analysisPayload mirrors the JSON schema the analysis prompt demands.
// Rating arrives sometimes as a number and sometimes as a quoted string,
// depending on the model's mood; json.RawMessage absorbs both.
type analysisPayload struct {
	EtiquetasIA        []string        `json:"etiquetas_ia"`
	Sentimiento        string          `json:"sentimiento"`
	Rating             json.RawMessage `json:"rating"`
	NivelRiesgo        string          `json:"nivel_riesgo"`
	IndicadorViolencia string          `json:"indicador_violencia"`
	EdadRecomendada    string          `json:"edad_recomendada"`
}

// parseAnalysis interprets an invocation's text against the analysis schema.
// Any parse failure or missing required field is a hard failure: no partial
// Result is ever returned.
func parseAnalysis(inv *Invocation) (*Result, error) {
	body := ExtractJSON(inv.Text)
	if body == "" {
		return nil, &PayloadError{Model: inv.Model, Reason: "no JSON document in response"}
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, &PayloadError{Model: inv.Model, Reason: fmt.Sprintf("unmarshal: %v", err)}
	}

	analysis, err := normalizeAnalysis(payload)
	if err != nil {
		return nil, &PayloadError{Model: inv.Model, Reason: err.Error()}
	}

	return &Result{
		Analysis:   analysis,
		Model:      inv.Model,
		StatusCode: inv.StatusCode,
		Processed:  true,
		Latency:    inv.Latency,
		Timestamp:  inv.Timestamp,
		TokensUsed: inv.TokensUsed,
		Raw:        inv.Text,
	}, nil
}

// normalizeAnalysis maps the loosely-typed payload fields onto their canonical
// representations. This is the only place wire values are interpreted;
// downstream code sees the typed enums only.
func normalizeAnalysis(p analysisPayload) (models.Analysis, error) {
	var a models.Analysis

	if len(p.EtiquetasIA) == 0 {
		return a, fmt.Errorf("missing etiquetas_ia")
	}
	tags := make([]string, 0, len(p.EtiquetasIA))
	for _, t := range p.EtiquetasIA {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	a.Tags = tags

	sentiment, err := parseSentiment(p.Sentimiento)
	if err != nil {
		return a, err
	}
	a.Sentiment = sentiment

	rating, err := parseRating(p.Rating)
	if err != nil {
		return a, err
	}
	a.Rating = rating

	risk, err := parseRisk(p.NivelRiesgo)
	if err != nil {
		return a, err
	}
	a.Risk = risk

	violence, err := parseViolence(p.IndicadorViolencia)
	if err != nil {
		return a, err
	}
	a.Violence = violence

	if p.EdadRecomendada == "" {
		return a, fmt.Errorf("missing edad_recomendada")
	}
	a.RecommendedAge = strings.TrimSpace(p.EdadRecomendada)

	return a, nil
}

func parseSentiment(s string) (models.Sentiment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positivo", "positiva":
		return models.SentimentPositive, nil
	case "negativo", "negativa":
		return models.SentimentNegative, nil
	case "neutro", "neutral":
		return models.SentimentNeutral, nil
	case "":
		return "", fmt.Errorf("missing sentimiento")
	}
	return "", fmt.Errorf("invalid sentimiento %q", s)
}

func parseRisk(s string) (models.RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bajo", "baja":
		return models.RiskLow, nil
	case "medio", "media", "moderado":
		return models.RiskMedium, nil
	case "alto", "alta":
		return models.RiskHigh, nil
	case "":
		return "", fmt.Errorf("missing nivel_riesgo")
	}
	return "", fmt.Errorf("invalid nivel_riesgo %q", s)
}

func parseViolence(s string) (models.ViolenceIndicator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no":
		return models.ViolenceNo, nil
	case "sí", "si", "yes":
		return models.ViolenceYes, nil
	case "moderado", "moderada":
		return models.ViolenceModerate, nil
	case "":
		return "", fmt.Errorf("missing indicador_violencia")
	}
	return "", fmt.Errorf("invalid indicador_violencia %q", s)
}

// parseRating accepts the rating either as a JSON number or a quoted string
// and clamps it into the [1.0, 5.0] scale.
func parseRating(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing rating")
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("invalid rating %s", string(raw))
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid rating %q", s)
		}
		f = parsed
	}

	if f < 1.0 {
		f = 1.0
	}
	if f > 5.0 {
		f = 5.0
	}
	return f, nil
}

// ExtractJSON strips code-block fencing from a model reply and returns the
// interior JSON document. Model replies wrap the JSON in ```json fences more
// often than not; some skip the fences, some add prose around them.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```"); idx != -1 {
		rest := text[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end != -1 {
			rest = rest[:end]
		}
		text = strings.TrimSpace(rest)
	}

	// Fall back to the outermost braces for replies with surrounding prose.
	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return ""
	}
	var end int
	if text[start] == '{' {
		end = strings.LastIndex(text, "}")
	} else {
		end = strings.LastIndex(text, "]")
	}
	if end <= start {
		return ""
	}
	return text[start : end+1]
}
