package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prensalab/prensa/internal/pipeline"
)

// AdminHandler groups the manual trigger endpoints for ingestion and
// processing runs that otherwise happen on the worker's schedule.
type AdminHandler struct {
	Runner   *pipeline.Runner
	Scraper  pipeline.NewsSource
	Articles pipeline.ArticleInserter
	Statuses pipeline.StatusIniter
	Ingest   pipeline.IngestConfig
}

// TriggerIngest handles POST /api/admin/ingest.
// Kicks off a scrape-and-load run in the background.
func (h *AdminHandler) TriggerIngest(w http.ResponseWriter, _ *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		stats := pipeline.RunIngestion(ctx, h.Scraper, h.Articles, h.Statuses, h.Ingest)
		slog.Info("admin: ingestion finished", "inserted", stats.Inserted, "skipped", stats.Skipped)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "Ingestion started. Articles will be loaded in the background.",
	})
}

// TriggerProcess handles POST /api/admin/process.
// Runs every configured model in order and reports combined stats.
func (h *AdminHandler) TriggerProcess(w http.ResponseWriter, r *http.Request) {
	stats := h.Runner.Run(r.Context())
	writeJSON(w, http.StatusOK, stats)
}

// TriggerProcessModel handles POST /api/admin/process/{model}.
// An unknown model name is rejected before any article is touched.
func (h *AdminHandler) TriggerProcessModel(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Runner.RunModel(r.Context(), chi.URLParam(r, "model"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
