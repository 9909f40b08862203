// Package scraper extracts news records from the two supported newspapers.
package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
)

const defaultMaxArticles = 50

// Scraper wraps Colly collectors configured with polite rate limiting. Base
// URLs are exported so tests can point at a local server.
type Scraper struct {
	AraucaniaBase string
	PeriodicoBase string

	userAgent string
}

// NewScraper creates a Scraper against the production newspaper sites.
func NewScraper() *Scraper {
	return &Scraper{
		AraucaniaBase: "https://araucaniadiario.cl/default/listar_contenido?p=",
		PeriodicoBase: "https://www.elperiodico.cl/category/temuco/page/",
		userAgent:     "Prensa/1.0",
	}
}

// newCollector creates a fresh Colly collector with standard settings and
// rate limiting. Each page fetch gets its own collector to avoid state
// leakage.
func (s *Scraper) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(s.userAgent),
		colly.AllowURLRevisit(),
		colly.MaxDepth(1),
	)

	// Rate limit: 1 request per second per domain.
	_ = c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       1 * time.Second,
		RandomDelay: 500 * time.Millisecond,
	})

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "es-CL,es;q=0.9,en;q=0.8")
	})

	return c
}

// visit runs a collector against one URL, respecting context cancellation.
func (s *Scraper) visit(ctx context.Context, c *colly.Collector, pageURL string) error {
	var (
		mu     sync.Mutex
		scrErr error
	)

	c.OnError(func(r *colly.Response, err error) {
		mu.Lock()
		if scrErr == nil {
			scrErr = fmt.Errorf("scraper: fetch %s: %w", pageURL, err)
		}
		mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := c.Visit(pageURL); err != nil {
			mu.Lock()
			if scrErr == nil {
				scrErr = fmt.Errorf("scraper: visit %s: %w", pageURL, err)
			}
			mu.Unlock()
		}
		c.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}

	mu.Lock()
	defer mu.Unlock()
	return scrErr
}
