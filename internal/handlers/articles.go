package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prensalab/prensa/internal/ai"
	"github.com/prensalab/prensa/internal/models"
)

// ArticlesHandler groups article read endpoints.
type ArticlesHandler struct {
	Articles *models.ArticleStore
	Logs     *models.LogStore
}

// ListArticles handles GET /api/articles?model=GEMINI&state=processed.
// The model selector is required; state defaults to processed.
func (h *ArticlesHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	model, err := ai.ParseModel(r.URL.Query().Get("model"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var articles []models.Article
	switch r.URL.Query().Get("state") {
	case "", "processed":
		articles, err = h.Articles.FetchProcessed(r.Context(), string(model))
	case "pending":
		articles, err = h.Articles.FetchUnprocessed(r.Context(), string(model))
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "state must be processed or pending"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list articles"})
		return
	}

	if articles == nil {
		articles = []models.Article{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"model":    model,
		"count":    len(articles),
		"articles": articles,
	})
}

// GetArticle handles GET /api/articles/{id}.
func (h *ArticlesHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid article id"})
		return
	}

	article, err := h.Articles.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "article not found"})
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// ListLogs handles GET /api/articles/{id}/logs. Returns every analysis
// attempt recorded for the article, newest first.
func (h *ArticlesHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid article id"})
		return
	}

	logs, err := h.Logs.ListByArticle(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list logs"})
		return
	}
	if logs == nil {
		logs = []models.LogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"article_id": id,
		"count":      len(logs),
		"logs":       logs,
	})
}
