package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prensalab/prensa/internal/ai"
	"github.com/prensalab/prensa/internal/export"
	"github.com/prensalab/prensa/internal/models"
	"github.com/prensalab/prensa/internal/storage"
)

// ExportHandler groups CSV export endpoints.
type ExportHandler struct {
	Articles *models.ArticleStore
	Storage  *storage.Client
}

// ExportProcessed handles GET /api/export/{model}.
// Returns the model's processed articles as a CSV attachment. With
// ?archive=true the same CSV is also pushed to the S3 archive.
func (h *ExportHandler) ExportProcessed(w http.ResponseWriter, r *http.Request) {
	model, err := ai.ParseModel(chi.URLParam(r, "model"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	articles, err := h.Articles.FetchProcessed(r.Context(), string(model))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch processed articles"})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteProcessed(&buf, articles); err != nil {
		slog.Error("export processed: write csv", "model", model, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to build csv"})
		return
	}

	name := fmt.Sprintf("noticias-%s-%s.csv", model, time.Now().Format("2006-01-02"))

	if r.URL.Query().Get("archive") == "true" {
		if h.Storage != nil && h.Storage.Configured() {
			key, err := h.Storage.StoreExport(r.Context(), name, buf.Bytes())
			if err != nil {
				slog.Error("export processed: archive", "model", model, "err", err)
			} else {
				slog.Info("export processed: archived", "model", model, "key", key)
			}
		} else {
			slog.Warn("export processed: archive requested but storage not configured")
		}
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("export processed: write response", "model", model, "err", err)
	}
}
