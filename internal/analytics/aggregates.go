// Package analytics computes aggregate metrics over processed articles and
// turns them into AI-written reports. It reads, aggregates, and presents —
// nothing here touches processing state.
package analytics

import (
	"sort"

	"github.com/prensalab/prensa/internal/models"
)

// SourceStats holds the per-source rollup.
type SourceStats struct {
	Count        int              `json:"count"`
	MeanRating   float64          `json:"mean_rating"`
	TopSentiment models.Sentiment `json:"top_sentiment"`
	TopRisk      models.RiskLevel `json:"top_risk"`
}

// Aggregates holds every metric the reports are built from.
type Aggregates struct {
	Total      int                              `json:"total"`
	Sources    map[string]SourceStats           `json:"sources"`
	Sentiments map[models.Sentiment]int         `json:"sentiments"`
	Risks      map[models.RiskLevel]int         `json:"risks"`
	Violence   map[models.ViolenceIndicator]int `json:"violence"`
	Ages       map[string]int                   `json:"ages"`
}

// Aggregate computes distributions and per-source rollups over a set of
// processed articles.
func Aggregate(articles []models.Article) Aggregates {
	agg := Aggregates{
		Total:      len(articles),
		Sources:    make(map[string]SourceStats),
		Sentiments: make(map[models.Sentiment]int),
		Risks:      make(map[models.RiskLevel]int),
		Violence:   make(map[models.ViolenceIndicator]int),
		Ages:       make(map[string]int),
	}

	type sourceAcc struct {
		count      int
		ratingSum  float64
		sentiments map[models.Sentiment]int
		risks      map[models.RiskLevel]int
	}
	perSource := make(map[string]*sourceAcc)

	for _, a := range articles {
		agg.Sentiments[a.Analysis.Sentiment]++
		agg.Risks[a.Analysis.Risk]++
		agg.Violence[a.Analysis.Violence]++
		if a.Analysis.RecommendedAge != "" {
			agg.Ages[a.Analysis.RecommendedAge]++
		}

		acc := perSource[a.Source]
		if acc == nil {
			acc = &sourceAcc{
				sentiments: make(map[models.Sentiment]int),
				risks:      make(map[models.RiskLevel]int),
			}
			perSource[a.Source] = acc
		}
		acc.count++
		acc.ratingSum += a.Analysis.Rating
		acc.sentiments[a.Analysis.Sentiment]++
		acc.risks[a.Analysis.Risk]++
	}

	for source, acc := range perSource {
		agg.Sources[source] = SourceStats{
			Count:        acc.count,
			MeanRating:   acc.ratingSum / float64(acc.count),
			TopSentiment: topKey(acc.sentiments),
			TopRisk:      topKey(acc.risks),
		}
	}

	return agg
}

// TopAge returns the most frequent recommended age, empty when nothing is
// aggregated.
func (a Aggregates) TopAge() string {
	return topKey(a.Ages)
}

// topKey returns the most frequent key in a count map, breaking ties by key
// order so output is deterministic.
func topKey[K ~string](counts map[K]int) K {
	keys := make([]K, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var best K
	bestCount := -1
	for _, k := range keys {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}
