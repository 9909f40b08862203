package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/prensalab/prensa/internal/models"
)

const periodicoSource = "El Periódico"

// ScrapePeriodico walks the El Periódico category pages and extracts news
// records until maxArticles are collected or a page comes back empty.
func (s *Scraper) ScrapePeriodico(ctx context.Context, maxArticles int) ([]models.Noticia, error) {
	if maxArticles <= 0 {
		maxArticles = defaultMaxArticles
	}

	var noticias []models.Noticia
	for page := 1; len(noticias) < maxArticles; page++ {
		pageURL := fmt.Sprintf("%s%d", s.PeriodicoBase, page)
		slog.Debug("scraper: fetching listing", "source", periodicoSource, "page", page)

		found, err := s.scrapePeriodicoPage(ctx, pageURL)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			slog.Warn("scraper: page failed, stopping", "source", periodicoSource, "page", page, "err", err)
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

	slog.Info("scraper: listing complete", "source", periodicoSource, "count", len(noticias))
	return noticias, nil
}

func (s *Scraper) scrapePeriodicoPage(ctx context.Context, pageURL string) ([]models.Noticia, error) {
	c := s.newCollector()

	var (
		mu    sync.Mutex
		found []models.Noticia
	)

	c.OnHTML("div.post-col", func(e *colly.HTMLElement) {
		n := parsePeriodicoEntry(e.DOM, pageURL)
		if href, ok := e.DOM.Find("h2.entry-title a").First().Attr("href"); ok && href != "" {
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

// parsePeriodicoEntry extracts one news record from a div.post-col entry. The
// entry markup nests the teaser under entry-content; only the first paragraph
// is the teaser text.
func parsePeriodicoEntry(sel *goquery.Selection, pageURL string) models.Noticia {
	return models.Noticia{
		Title:       textOr(sel.Find("h2.entry-title a").First().Text(), "Sin título"),
		Date:        textOr(sel.Find("div.date a").First().Text(), "Sin fecha"),
		Description: textOr(sel.Find("div.entry-content p").First().Text(), "Sin descripción"),
		URL:         pageURL,
		Source:      periodicoSource,
	}
}
