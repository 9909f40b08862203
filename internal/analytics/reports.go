package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/prensalab/prensa/internal/ai"
	"github.com/prensalab/prensa/internal/models"
)

// Summary is the structured executive summary a model writes over the
// aggregates. It is presented directly and never persisted.
type Summary struct {
	Title        string   `json:"titulo"`
	Summary      string   `json:"resumen"`
	KeyElements  []string `json:"elementos_clave"`
	Implications []string `json:"posibles_implicaciones"`
	OpenQuests   []string `json:"preguntas_pendientes"`
}

// Reporter turns aggregates into AI-written reports using any configured
// backend.
type Reporter struct {
	gen ai.Generator
}

// NewReporter creates a Reporter over the given backend.
func NewReporter(gen ai.Generator) *Reporter {
	return &Reporter{gen: gen}
}

// ExecutiveSummary asks the model for a structured editorial summary of the
// aggregates.
func (r *Reporter) ExecutiveSummary(ctx context.Context, agg Aggregates) (*Summary, error) {
	prompt := fmt.Sprintf(summaryTemplate,
		formatSourceCounts(agg),
		formatCounts(agg.Sentiments),
		formatSourceRatings(agg),
		formatCounts(agg.Risks),
	)

	inv, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	body := ai.ExtractJSON(inv.Text)
	if body == "" {
		return nil, fmt.Errorf("analytics: no JSON in summary response")
	}

	var summary Summary
	if err := json.Unmarshal([]byte(body), &summary); err != nil {
		return nil, fmt.Errorf("analytics: unmarshal summary: %w", err)
	}
	if summary.Title == "" {
		summary.Title = "Resumen Ejecutivo"
	}
	return &summary, nil
}

// RiskEvaluation is the structured social-impact hypothesis a model writes
// over the negative-sentiment, high-risk, and violence aggregates.
type RiskEvaluation struct {
	OverallRisk     string   `json:"riesgo_general"`
	Triggers        []string `json:"factores_detonantes"`
	Recommendations []string `json:"recomendaciones"`
}

// SocialRiskEvaluation asks the model what social impact the aggregated
// negative content could have on readers.
func (r *Reporter) SocialRiskEvaluation(ctx context.Context, agg Aggregates) (*RiskEvaluation, error) {
	prompt := fmt.Sprintf(riesgosTemplate,
		agg.Sentiments[models.SentimentNegative],
		agg.Risks[models.RiskHigh],
		formatCounts(agg.Violence),
	)

	inv, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	body := ai.ExtractJSON(inv.Text)
	if body == "" {
		return nil, fmt.Errorf("analytics: no JSON in risk evaluation response")
	}

	var eval RiskEvaluation
	if err := json.Unmarshal([]byte(body), &eval); err != nil {
		return nil, fmt.Errorf("analytics: unmarshal risk evaluation: %w", err)
	}
	return &eval, nil
}

// SentimentTrends asks the model for a free-text read of the emotional
// tendency in the sentiment distribution.
func (r *Reporter) SentimentTrends(ctx context.Context, agg Aggregates) (string, error) {
	prompt := fmt.Sprintf(trendsTemplate, formatCounts(agg.Sentiments))

	inv, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(inv.Text), nil
}

// SourceComparison asks the model for a comparative report on editorial
// style, tone, and risk across the aggregated sources.
func (r *Reporter) SourceComparison(ctx context.Context, agg Aggregates) (string, error) {
	prompt := fmt.Sprintf(comparisonTemplate, formatSourceProfiles(agg))

	inv, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(inv.Text), nil
}

// AudienceAdvice asks the model which audiences the aggregated content suits.
func (r *Reporter) AudienceAdvice(ctx context.Context, agg Aggregates) (string, error) {
	prompt := fmt.Sprintf(audienceTemplate,
		agg.TopAge(),
		formatCounts(agg.Risks),
		formatCounts(agg.Violence),
	)

	inv, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(inv.Text), nil
}

// formatCounts renders a count map as sorted "  clave: n" lines.
func formatCounts[K ~string](counts map[K]int) string {
	keys := make([]K, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %s: %d\n", string(k), counts[k])
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatSourceCounts(agg Aggregates) string {
	var sb strings.Builder
	for _, source := range sortedSources(agg) {
		fmt.Fprintf(&sb, "  %s: %d\n", source, agg.Sources[source].Count)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatSourceRatings(agg Aggregates) string {
	var sb strings.Builder
	for _, source := range sortedSources(agg) {
		fmt.Fprintf(&sb, "  %s: %.2f\n", source, agg.Sources[source].MeanRating)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatSourceProfiles(agg Aggregates) string {
	var sb strings.Builder
	for _, source := range sortedSources(agg) {
		stats := agg.Sources[source]
		fmt.Fprintf(&sb, "%s:\n", source)
		fmt.Fprintf(&sb, "- Rating promedio: %.2f\n", stats.MeanRating)
		fmt.Fprintf(&sb, "- Sentimiento predominante: %s\n", stats.TopSentiment)
		fmt.Fprintf(&sb, "- Nivel de riesgo más frecuente: %s\n\n", stats.TopRisk)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func sortedSources(agg Aggregates) []string {
	sources := make([]string, 0, len(agg.Sources))
	for s := range agg.Sources {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	return sources
}
