package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/prensalab/prensa/internal/models"
)

// ArticleInserter is the slice of the article store the loader needs.
type ArticleInserter interface {
	Insert(ctx context.Context, n models.Noticia) (int64, error)
}

// StatusIniter creates the pending status row for an (article, model) pair.
type StatusIniter interface {
	Init(ctx context.Context, articleID int64, model string) error
}

// santiago is the publication timezone of both newspapers; load timestamps
// are stamped in it.
var santiago = mustLoadLocation("America/Santiago")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadStats summarizes one load batch.
type LoadStats struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// LoadNoticias inserts staged news records and initializes one pending status
// row per configured model for each. A failed insert skips status
// initialization for that record and the batch carries on; a failed status
// init is reported and the remaining models still get their row.
func LoadNoticias(ctx context.Context, articles ArticleInserter, statuses StatusIniter, noticias []models.Noticia, modelList []string) LoadStats {
	loadTime := time.Now().In(santiago).Format("2006-01-02 15:04:05")
	slog.Info("loader: starting batch", "records", len(noticias), "load_time", loadTime)

	var stats LoadStats
	for _, n := range noticias {
		if ctx.Err() != nil {
			break
		}

		n.Date = loadTime
		id, err := articles.Insert(ctx, n)
		if err != nil {
			slog.Error("loader: insert article", "title", n.Title, "err", err)
			stats.Skipped++
			continue
		}

		for _, model := range modelList {
			if err := statuses.Init(ctx, id, model); err != nil {
				slog.Error("loader: init status", "article_id", id, "model", model, "err", err)
			}
		}

		stats.Inserted++
		slog.Debug("loader: article inserted", "article_id", id, "title", n.Title)
	}

	slog.Info("loader: batch complete", "inserted", stats.Inserted, "skipped", stats.Skipped)
	return stats
}
