package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prensalab/prensa/internal/ai"
	"github.com/prensalab/prensa/internal/models"
)

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (*ai.Invocation, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return nil, g.err
	}
	return &ai.Invocation{
		Model:      ai.ModelGemini,
		Text:       g.reply,
		StatusCode: 200,
		Timestamp:  time.Now().UTC(),
	}, nil
}

func (g *fakeGenerator) Model() ai.Model { return ai.ModelGemini }

func sampleAggregates() Aggregates {
	return Aggregate([]models.Article{
		processedArticle("Araucanía Diario", models.SentimentNegative, 2.5, models.RiskHigh, "+18"),
		processedArticle("El Periódico", models.SentimentNeutral, 3.5, models.RiskLow, "+14"),
	})
}

func TestExecutiveSummary(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n" + `{
  "titulo": "Semana tensa en La Araucanía",
  "resumen": "Predomina la cobertura negativa.",
  "elementos_clave": ["seguridad", "salud"],
  "posibles_implicaciones": ["mayor fiscalización"],
  "preguntas_pendientes": ["¿qué dice la autoridad regional?"]
}` + "\n```"}

	summary, err := NewReporter(gen).ExecutiveSummary(context.Background(), sampleAggregates())
	require.NoError(t, err)

	assert.Equal(t, "Semana tensa en La Araucanía", summary.Title)
	assert.Equal(t, "Predomina la cobertura negativa.", summary.Summary)
	assert.Equal(t, []string{"seguridad", "salud"}, summary.KeyElements)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Araucanía Diario")
	assert.Contains(t, gen.prompts[0], "negativo")
}

func TestExecutiveSummary_DefaultTitle(t *testing.T) {
	gen := &fakeGenerator{reply: `{"resumen": "Sin novedades mayores."}`}

	summary, err := NewReporter(gen).ExecutiveSummary(context.Background(), sampleAggregates())
	require.NoError(t, err)
	assert.Equal(t, "Resumen Ejecutivo", summary.Title)
}

func TestExecutiveSummary_NoJSON(t *testing.T) {
	gen := &fakeGenerator{reply: "no tengo un resumen para ti"}

	_, err := NewReporter(gen).ExecutiveSummary(context.Background(), sampleAggregates())
	assert.Error(t, err)
}

func TestExecutiveSummary_GeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider down")}

	_, err := NewReporter(gen).ExecutiveSummary(context.Background(), sampleAggregates())
	assert.Error(t, err)
}

func TestSocialRiskEvaluation(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n" + `{
  "riesgo_general": "alto",
  "factores_detonantes": ["cobertura de hechos violentos", "sensacionalismo"],
  "recomendaciones": ["contextualizar las cifras", "moderar titulares"]
}` + "\n```"}

	eval, err := NewReporter(gen).SocialRiskEvaluation(context.Background(), sampleAggregates())
	require.NoError(t, err)

	assert.Equal(t, "alto", eval.OverallRisk)
	assert.Len(t, eval.Triggers, 2)
	assert.Equal(t, []string{"contextualizar las cifras", "moderar titulares"}, eval.Recommendations)

	// The prompt carries the negative, high-risk, and violence aggregates.
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Sentimientos negativos: 1")
	assert.Contains(t, gen.prompts[0], "Nivel de riesgo alto: 1")
	assert.Contains(t, gen.prompts[0], "no: 2")
}

func TestSocialRiskEvaluation_NoJSON(t *testing.T) {
	gen := &fakeGenerator{reply: "sin datos suficientes"}

	_, err := NewReporter(gen).SocialRiskEvaluation(context.Background(), sampleAggregates())
	assert.Error(t, err)
}

func TestFreeTextReports(t *testing.T) {
	gen := &fakeGenerator{reply: "  La tendencia emocional es mayormente negativa.  "}
	reporter := NewReporter(gen)
	agg := sampleAggregates()

	trends, err := reporter.SentimentTrends(context.Background(), agg)
	require.NoError(t, err)
	assert.Equal(t, "La tendencia emocional es mayormente negativa.", trends)

	comparison, err := reporter.SourceComparison(context.Background(), agg)
	require.NoError(t, err)
	assert.NotEmpty(t, comparison)

	advice, err := reporter.AudienceAdvice(context.Background(), agg)
	require.NoError(t, err)
	assert.NotEmpty(t, advice)

	// Each report builds its own prompt from the aggregates.
	require.Len(t, gen.prompts, 3)
	assert.Contains(t, gen.prompts[1], "Rating promedio")
	assert.Contains(t, gen.prompts[2], "+14")
}
