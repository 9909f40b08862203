package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prensalab/prensa/internal/ai"
	"github.com/prensalab/prensa/internal/analytics"
	"github.com/prensalab/prensa/internal/models"
)

// AnalyticsHandler groups the analysis report endpoints. Reports are built
// from one model's processed corpus and narrated by the configured reporter.
type AnalyticsHandler struct {
	Articles *models.ArticleStore
	Reporter *analytics.Reporter
}

// aggregates loads the processed corpus for the model named in the URL and
// reduces it. A nil return means the response has already been written.
func (h *AnalyticsHandler) aggregates(w http.ResponseWriter, r *http.Request) *analytics.Aggregates {
	model, err := ai.ParseModel(chi.URLParam(r, "model"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil
	}

	articles, err := h.Articles.FetchProcessed(r.Context(), string(model))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch processed articles"})
		return nil
	}
	if len(articles) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no processed articles for model"})
		return nil
	}

	agg := analytics.Aggregate(articles)
	return &agg
}

// Overview handles GET /api/analytics/{model}. Returns the raw aggregates.
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	agg := h.aggregates(w, r)
	if agg == nil {
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// Summary handles POST /api/analytics/{model}/summary.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	agg := h.aggregates(w, r)
	if agg == nil {
		return
	}

	summary, err := h.Reporter.ExecutiveSummary(r.Context(), *agg)
	if err != nil {
		slog.Error("analytics: executive summary", "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "summary generation failed"})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Risks handles POST /api/analytics/{model}/risks.
func (h *AnalyticsHandler) Risks(w http.ResponseWriter, r *http.Request) {
	agg := h.aggregates(w, r)
	if agg == nil {
		return
	}

	eval, err := h.Reporter.SocialRiskEvaluation(r.Context(), *agg)
	if err != nil {
		slog.Error("analytics: risk evaluation", "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "risk evaluation failed"})
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

// Trends handles POST /api/analytics/{model}/trends.
func (h *AnalyticsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	h.narrate(w, r, "trends", h.Reporter.SentimentTrends)
}

// Comparison handles POST /api/analytics/{model}/comparison.
func (h *AnalyticsHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	h.narrate(w, r, "comparison", h.Reporter.SourceComparison)
}

// Audience handles POST /api/analytics/{model}/audience.
func (h *AnalyticsHandler) Audience(w http.ResponseWriter, r *http.Request) {
	h.narrate(w, r, "audience", h.Reporter.AudienceAdvice)
}

func (h *AnalyticsHandler) narrate(w http.ResponseWriter, r *http.Request, kind string, report func(ctx context.Context, agg analytics.Aggregates) (string, error)) {
	agg := h.aggregates(w, r)
	if agg == nil {
		return
	}

	text, err := report(r.Context(), *agg)
	if err != nil {
		slog.Error("analytics: report", "kind", kind, "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "report generation failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"report": kind, "text": text})
}
