// Command worker runs the Prensa background pipeline. It periodically scrapes
// both newspapers, stages the results as CSV, loads them into the database,
// runs the AI analysis over the pending queue, and archives CSV exports.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/prensalab/prensa/internal/ai"
	"github.com/prensalab/prensa/internal/config"
	"github.com/prensalab/prensa/internal/db"
	"github.com/prensalab/prensa/internal/export"
	"github.com/prensalab/prensa/internal/models"
	"github.com/prensalab/prensa/internal/pipeline"
	"github.com/prensalab/prensa/internal/scraper"
	"github.com/prensalab/prensa/internal/storage"
)

func main() {
	// Structured JSON logging.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("worker: starting prensa worker")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("worker: invalid configuration", "err", err)
		os.Exit(1)
	}

	// Create a root context that is cancelled on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the database.
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		slog.Error("worker: database connection failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Create stores.
	articleStore := models.NewArticleStore(pool)
	statusStore := models.NewStatusStore(pool)
	logStore := models.NewLogStore(pool)

	// Create scraper.
	sc := scraper.NewScraper()

	// AI backends in configured processing order.
	backends, err := ai.Backends(cfg, cfg.Pipeline.Models)
	if err != nil {
		slog.Error("worker: invalid model configuration", "err", err)
		os.Exit(1)
	}
	runner := pipeline.New(articleStore, logStore, backends)

	ingestCfg := pipeline.IngestConfig{
		MaxPerSource: cfg.Pipeline.MaxPerSource,
		CSVDir:       cfg.Pipeline.CSVDir,
		Models:       cfg.Pipeline.Models,
	}

	// Create S3 storage client.
	storageClient, err := storage.NewClient(ctx, cfg.Archive)
	if err != nil {
		slog.Error("worker: storage client creation failed", "err", err)
		os.Exit(1)
	}

	// Track in-flight jobs for graceful shutdown.
	var wg sync.WaitGroup

	// Set up cron scheduler (standard 5-field cron expressions).
	c := cron.New()

	// Ingestion: every 6 hours.
	_, err = c.AddFunc("0 */6 * * *", func() {
		wg.Add(1)
		defer wg.Done()

		jobCtx, jobCancel := context.WithTimeout(ctx, 30*time.Minute)
		defer jobCancel()

		slog.Info("cron: ingestion job triggered")
		pipeline.RunIngestion(jobCtx, sc, articleStore, statusStore, ingestCfg)
	})
	if err != nil {
		slog.Error("worker: add ingestion cron", "err", err)
		os.Exit(1)
	}

	// Analysis: hourly, at 30 past so a fresh ingestion has settled.
	_, err = c.AddFunc("30 * * * *", func() {
		wg.Add(1)
		defer wg.Done()

		jobCtx, jobCancel := context.WithTimeout(ctx, 2*time.Hour)
		defer jobCancel()

		slog.Info("cron: analysis job triggered")
		runner.Run(jobCtx)
	})
	if err != nil {
		slog.Error("worker: add analysis cron", "err", err)
		os.Exit(1)
	}

	// Export archive: daily at 2am.
	_, err = c.AddFunc("0 2 * * *", func() {
		wg.Add(1)
		defer wg.Done()

		jobCtx, jobCancel := context.WithTimeout(ctx, 10*time.Minute)
		defer jobCancel()

		slog.Info("cron: export archive job triggered")
		archiveExports(jobCtx, articleStore, storageClient, cfg.Pipeline.Models)
	})
	if err != nil {
		slog.Error("worker: add export archive cron", "err", err)
		os.Exit(1)
	}

	// Start the cron scheduler.
	c.Start()
	slog.Info("worker: cron scheduler started", "jobs", len(c.Entries()))

	// Run an initial ingestion and analysis pass on startup so we don't wait
	// hours for the first run.
	wg.Add(1)
	go func() {
		defer wg.Done()

		// Small delay to let everything settle.
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
			return
		}

		jobCtx, jobCancel := context.WithTimeout(ctx, 2*time.Hour)
		defer jobCancel()

		slog.Info("worker: running initial ingestion on startup")
		pipeline.RunIngestion(jobCtx, sc, articleStore, statusStore, ingestCfg)
		runner.Run(jobCtx)
	}()

	// ── Graceful Shutdown ──────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	slog.Info("worker: received shutdown signal", "signal", sig.String())

	// Stop accepting new cron jobs.
	slog.Info("worker: stopping cron scheduler")
	cronCtx := c.Stop()

	// Cancel the root context to signal all in-flight jobs to stop.
	cancel()

	// Wait for the cron scheduler to finish its currently running jobs.
	select {
	case <-cronCtx.Done():
		slog.Info("worker: cron scheduler stopped")
	case <-time.After(30 * time.Second):
		slog.Warn("worker: cron scheduler stop timed out")
	}

	// Wait for all in-flight goroutines.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("worker: all in-flight jobs complete")
	case <-time.After(60 * time.Second):
		slog.Warn("worker: timed out waiting for in-flight jobs")
	}

	// Close the database pool.
	pool.Close()
	slog.Info("worker: shutdown complete")
}

// archiveExports builds one processed-article CSV per model and pushes each to
// the S3 archive. Skipped entirely when storage is not configured.
func archiveExports(ctx context.Context, articles *models.ArticleStore, storageClient *storage.Client, modelList []string) {
	if storageClient == nil || !storageClient.Configured() {
		slog.Info("archive: storage not configured, skipping")
		return
	}

	for _, model := range modelList {
		processed, err := articles.FetchProcessed(ctx, model)
		if err != nil {
			slog.Error("archive: fetch processed", "model", model, "err", err)
			continue
		}
		if len(processed) == 0 {
			slog.Info("archive: nothing processed", "model", model)
			continue
		}

		var buf bytes.Buffer
		if err := export.WriteProcessed(&buf, processed); err != nil {
			slog.Error("archive: write csv", "model", model, "err", err)
			continue
		}

		name := fmt.Sprintf("noticias-%s-%s.csv", model, time.Now().Format("2006-01-02"))
		key, err := storageClient.StoreExport(ctx, name, buf.Bytes())
		if err != nil {
			slog.Error("archive: store export", "model", model, "err", err)
			continue
		}
		slog.Info("archive: export stored", "model", model, "key", key, "articles", len(processed))
	}
}
