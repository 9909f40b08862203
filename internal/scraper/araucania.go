package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gocolly/colly/v2"

	"github.com/prensalab/prensa/internal/models"
)

const araucaniaSource = "Araucanía Diario"

// ScrapeAraucania walks the Araucanía Diario listing pages and extracts news
// records until maxArticles are collected or a page comes back empty.
func (s *Scraper) ScrapeAraucania(ctx context.Context, maxArticles int) ([]models.Noticia, error) {
	if maxArticles <= 0 {
		maxArticles = defaultMaxArticles
	}

	var noticias []models.Noticia
	for page := 1; len(noticias) < maxArticles; page++ {
		pageURL := fmt.Sprintf("%s%d", s.AraucaniaBase, page)
		slog.Debug("scraper: fetching listing", "source", araucaniaSource, "page", page)

		found, err := s.scrapeAraucaniaPage(ctx, pageURL)
		if err != nil {
			// A page failure ends the walk with whatever was collected so
			// far; the first page failing is a real error.
			if page == 1 {
				return nil, err
			}
			slog.Warn("scraper: page failed, stopping", "source", araucaniaSource, "page", page, "err", err)
			break
		}
		if len(found) == 0 {
			break
		}

		noticias = append(noticias, found...)
	}

	if len(noticias) > maxArticles {
		noticias = noticias[:maxArticles]
	}

	slog.Info("scraper: listing complete", "source", araucaniaSource, "count", len(noticias))
	return noticias, nil
}

func (s *Scraper) scrapeAraucaniaPage(ctx context.Context, pageURL string) ([]models.Noticia, error) {
	c := s.newCollector()

	var (
		mu    sync.Mutex
		found []models.Noticia
	)

	c.OnHTML("div.lista-contenido article.post__noticia", func(e *colly.HTMLElement) {
		n := models.Noticia{
			Title:       textOr(e.ChildText("h2.post__titulo a"), "Sin título"),
			Date:        textOr(e.ChildText("span.fecha"), "Sin fecha"),
			Description: textOr(e.ChildText("p.post__detalle"), "Sin descripción"),
			URL:         pageURL,
			Source:      araucaniaSource,
		}
		if href := e.ChildAttr("h2.post__titulo a", "href"); href != "" {
			n.URL = e.Request.AbsoluteURL(href)
		}

		mu.Lock()
		found = append(found, n)
		mu.Unlock()
	})

	if err := s.visit(ctx, c, pageURL); err != nil {
		return nil, err
	}
	return found, nil
}

// textOr trims the extracted text and falls back to a placeholder when the
// selector matched nothing.
func textOr(text, fallback string) string {
	if t := strings.TrimSpace(text); t != "" {
		return t
	}
	return fallback
}
