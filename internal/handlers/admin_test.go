package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prensalab/prensa/internal/ai"
	"github.com/prensalab/prensa/internal/models"
	"github.com/prensalab/prensa/internal/pipeline"
)

type stubRepo struct{}

func (stubRepo) FetchUnprocessed(context.Context, string) ([]models.Article, error) {
	return nil, nil
}

func (stubRepo) WriteAIResult(context.Context, int64, string, models.Analysis, string) error {
	return nil
}

type stubLog struct{}

func (stubLog) Insert(context.Context, *models.LogEntry) (int64, error) { return 1, nil }

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(context.Context, string) (*ai.Result, error) {
	return &ai.Result{StatusCode: 200, Processed: true}, nil
}

func (stubAnalyzer) Model() ai.Model { return ai.ModelGemini }

func newAdminRouter() *chi.Mux {
	h := &AdminHandler{
		Runner: pipeline.New(stubRepo{}, stubLog{}, []ai.Analyzer{stubAnalyzer{}}),
	}
	r := chi.NewRouter()
	r.Post("/api/admin/process", h.TriggerProcess)
	r.Post("/api/admin/process/{model}", h.TriggerProcessModel)
	return r
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestTriggerProcess(t *testing.T) {
	rec := httptest.NewRecorder()
	newAdminRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/process", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"processed": 0, "failed": 0}`, rec.Body.String())
}

func TestTriggerProcessModel_Unsupported(t *testing.T) {
	rec := httptest.NewRecorder()
	newAdminRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/process/MISTRAL", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported model")
}

func TestTriggerProcessModel(t *testing.T) {
	rec := httptest.NewRecorder()
	newAdminRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/process/GEMINI", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"processed": 0, "failed": 0}`, rec.Body.String())
}
