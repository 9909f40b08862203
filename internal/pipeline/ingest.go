package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/prensalab/prensa/internal/export"
	"github.com/prensalab/prensa/internal/models"
)

// NewsSource produces raw news records from the two newspapers.
type NewsSource interface {
	ScrapeAraucania(ctx context.Context, maxArticles int) ([]models.Noticia, error)
	ScrapePeriodico(ctx context.Context, maxArticles int) ([]models.Noticia, error)
}

// IngestConfig tunes one ingestion run.
type IngestConfig struct {
	MaxPerSource int
	// CSVDir is where the staging files land. The CSV step is the durable
	// hand-off between scraping and the database load.
	CSVDir string
	Models []string
}

// Staging file names, one per newspaper.
const (
	araucaniaCSV = "noticias.csv"
	periodicoCSV = "noticias2.csv"
)

// RunIngestion scrapes both newspapers, stages the records as CSV, and loads
// the staged files into the database with one pending status row per model.
// A source that fails to scrape contributes nothing but does not stop the
// other source from being ingested.
func RunIngestion(ctx context.Context, src NewsSource, articles ArticleInserter, statuses StatusIniter, cfg IngestConfig) LoadStats {
	slog.Info("ingestion: starting run", "max_per_source", cfg.MaxPerSource)

	stageSource(ctx, cfg, araucaniaCSV, func() ([]models.Noticia, error) {
		return src.ScrapeAraucania(ctx, cfg.MaxPerSource)
	})
	stageSource(ctx, cfg, periodicoCSV, func() ([]models.Noticia, error) {
		return src.ScrapePeriodico(ctx, cfg.MaxPerSource)
	})

	var staged []models.Noticia
	for _, name := range []string{araucaniaCSV, periodicoCSV} {
		noticias, err := export.LoadNoticias(filepath.Join(cfg.CSVDir, name))
		if err != nil {
			slog.Error("ingestion: read staging file", "file", name, "err", err)
			continue
		}
		staged = append(staged, noticias...)
	}

	if len(staged) == 0 {
		slog.Info("ingestion: nothing staged, run complete")
		return LoadStats{}
	}

	stats := LoadNoticias(ctx, articles, statuses, staged, cfg.Models)
	slog.Info("ingestion: run complete", "inserted", stats.Inserted, "skipped", stats.Skipped)
	return stats
}

// stageSource scrapes one newspaper and writes its staging CSV. Scrape
// failures leave any previous staging file untouched.
func stageSource(ctx context.Context, cfg IngestConfig, name string, scrape func() ([]models.Noticia, error)) {
	noticias, err := scrape()
	if err != nil {
		slog.Error("ingestion: scrape source", "file", name, "err", err)
		return
	}
	if len(noticias) == 0 {
		slog.Info("ingestion: source returned nothing", "file", name)
		return
	}

	path := filepath.Join(cfg.CSVDir, name)
	if err := export.SaveNoticias(path, noticias); err != nil {
		slog.Error("ingestion: write staging file", "file", name, "err", err)
		return
	}
	slog.Info("ingestion: source staged", "file", name, "count", len(noticias))
}
