// Command api starts the Prensa HTTP API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/prensalab/prensa/internal/ai"
	"github.com/prensalab/prensa/internal/analytics"
	"github.com/prensalab/prensa/internal/config"
	"github.com/prensalab/prensa/internal/db"
	"github.com/prensalab/prensa/internal/handlers"
	"github.com/prensalab/prensa/internal/models"
	"github.com/prensalab/prensa/internal/pipeline"
	"github.com/prensalab/prensa/internal/scraper"
	"github.com/prensalab/prensa/internal/storage"
)

func main() {
	// Structured logging.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Database connection.
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Data stores.
	articleStore := models.NewArticleStore(pool)
	statusStore := models.NewStatusStore(pool)
	logStore := models.NewLogStore(pool)

	// AI backends in configured processing order.
	backends, err := ai.Backends(cfg, cfg.Pipeline.Models)
	if err != nil {
		slog.Error("invalid model configuration", "err", err)
		os.Exit(1)
	}
	runner := pipeline.New(articleStore, logStore, backends)

	// S3 storage client (for export archiving).
	storageClient, storageErr := storage.NewClient(ctx, cfg.Archive)
	if storageErr != nil {
		slog.Warn("S3 storage not available for export", "err", storageErr)
		storageClient = nil
	}

	// Handlers.
	articlesHandler := &handlers.ArticlesHandler{
		Articles: articleStore,
		Logs:     logStore,
	}
	exportHandler := &handlers.ExportHandler{
		Articles: articleStore,
		Storage:  storageClient,
	}
	analyticsHandler := &handlers.AnalyticsHandler{
		Articles: articleStore,
		Reporter: analytics.NewReporter(ai.NewGeminiClient(cfg.Gemini)),
	}
	adminHandler := &handlers.AdminHandler{
		Runner:   runner,
		Scraper:  scraper.NewScraper(),
		Articles: articleStore,
		Statuses: statusStore,
		Ingest: pipeline.IngestConfig{
			MaxPerSource: cfg.Pipeline.MaxPerSource,
			CSVDir:       cfg.Pipeline.CSVDir,
			Models:       cfg.Pipeline.Models,
		},
	}

	// Router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/health", handlers.Health)

	// Articles.
	r.Get("/api/articles", articlesHandler.ListArticles)
	r.Get("/api/articles/{id}", articlesHandler.GetArticle)
	r.Get("/api/articles/{id}/logs", articlesHandler.ListLogs)

	// Export.
	r.Get("/api/export/{model}", exportHandler.ExportProcessed)

	// Analytics.
	r.Route("/api/analytics/{model}", func(r chi.Router) {
		r.Get("/", analyticsHandler.Overview)
		r.Post("/summary", analyticsHandler.Summary)
		r.Post("/risks", analyticsHandler.Risks)
		r.Post("/trends", analyticsHandler.Trends)
		r.Post("/comparison", analyticsHandler.Comparison)
		r.Post("/audience", analyticsHandler.Audience)
	})

	// Admin actions.
	r.Post("/api/admin/ingest", adminHandler.TriggerIngest)
	r.Post("/api/admin/process", adminHandler.TriggerProcess)
	r.Post("/api/admin/process/{model}", adminHandler.TriggerProcessModel)

	// Start server.
	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
	}

	slog.Info("server stopped")
}
