package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prensalab/prensa/internal/models"
)

func processedArticle(source string, sentiment models.Sentiment, rating float64, risk models.RiskLevel, age string) models.Article {
	return models.Article{
		Source: source,
		Analysis: models.Analysis{
			Tags:           []string{"actualidad"},
			Sentiment:      sentiment,
			Rating:         rating,
			Risk:           risk,
			Violence:       models.ViolenceNo,
			RecommendedAge: age,
		},
	}
}

func TestAggregate(t *testing.T) {
	articles := []models.Article{
		processedArticle("Araucanía Diario", models.SentimentPositive, 4.0, models.RiskLow, "+14"),
		processedArticle("Araucanía Diario", models.SentimentNegative, 2.0, models.RiskHigh, "+18"),
		processedArticle("El Periódico", models.SentimentNegative, 3.0, models.RiskMedium, "+18"),
	}

	agg := Aggregate(articles)

	assert.Equal(t, 3, agg.Total)
	assert.Equal(t, 1, agg.Sentiments[models.SentimentPositive])
	assert.Equal(t, 2, agg.Sentiments[models.SentimentNegative])
	assert.Equal(t, 3, agg.Violence[models.ViolenceNo])
	assert.Equal(t, 2, agg.Ages["+18"])
	assert.Equal(t, "+18", agg.TopAge())

	require.Contains(t, agg.Sources, "Araucanía Diario")
	diario := agg.Sources["Araucanía Diario"]
	assert.Equal(t, 2, diario.Count)
	assert.InDelta(t, 3.0, diario.MeanRating, 0.001)

	periodico := agg.Sources["El Periódico"]
	assert.Equal(t, 1, periodico.Count)
	assert.Equal(t, models.SentimentNegative, periodico.TopSentiment)
	assert.Equal(t, models.RiskMedium, periodico.TopRisk)
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil)

	assert.Equal(t, 0, agg.Total)
	assert.Empty(t, agg.Sources)
	assert.Equal(t, "", agg.TopAge())
}

func TestTopKey_TieBreaksByKeyOrder(t *testing.T) {
	counts := map[string]int{"b": 2, "a": 2, "c": 1}
	assert.Equal(t, "a", topKey(counts))
}
