package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const araucaniaListing = `
<div class="lista-contenido">
  <article class="post__noticia">
    <h2 class="post__titulo"><a href="/contenido/nuevo-hospital">Anuncian nuevo hospital</a></h2>
    <span class="fecha">29 de agosto de 2026</span>
    <p class="post__detalle">El proyecto contempla 200 camas.</p>
  </article>
  <article class="post__noticia">
    <h2 class="post__titulo"><a href="/contenido/feria-costumbrista">Feria costumbrista este fin de semana</a></h2>
    <span class="fecha">29 de agosto de 2026</span>
    <p class="post__detalle"></p>
  </article>
</div>`

func newAraucaniaServer(t *testing.T, pages map[string]string) *Scraper {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Query().Get("p")]
		if !ok {
			w.Write([]byte(`<div class="lista-contenido"></div>`))
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	s := NewScraper()
	s.AraucaniaBase = srv.URL + "/default/listar_contenido?p="
	return s
}

func TestScrapeAraucania(t *testing.T) {
	s := newAraucaniaServer(t, map[string]string{"1": araucaniaListing})

	noticias, err := s.ScrapeAraucania(context.Background(), 10)
	if err != nil {
		t.Fatalf("ScrapeAraucania error: %v", err)
	}

	if len(noticias) != 2 {
		t.Fatalf("expected 2 noticias, got %d", len(noticias))
	}

	first := noticias[0]
	if first.Title != "Anuncian nuevo hospital" {
		t.Errorf("unexpected title: %q", first.Title)
	}
	if first.Date != "29 de agosto de 2026" {
		t.Errorf("unexpected date: %q", first.Date)
	}
	if first.Description != "El proyecto contempla 200 camas." {
		t.Errorf("unexpected description: %q", first.Description)
	}
	if first.Source != "Araucanía Diario" {
		t.Errorf("unexpected source: %q", first.Source)
	}
	if !strings.HasSuffix(first.URL, "/contenido/nuevo-hospital") {
		t.Errorf("href not resolved: %q", first.URL)
	}

	// An empty detail paragraph falls back to the placeholder.
	if noticias[1].Description != "Sin descripción" {
		t.Errorf("unexpected description fallback: %q", noticias[1].Description)
	}
}

func TestScrapeAraucania_MaxArticles(t *testing.T) {
	pages := map[string]string{"1": araucaniaListing, "2": araucaniaListing}
	s := newAraucaniaServer(t, pages)

	noticias, err := s.ScrapeAraucania(context.Background(), 3)
	if err != nil {
		t.Fatalf("ScrapeAraucania error: %v", err)
	}
	if len(noticias) != 3 {
		t.Errorf("expected cap at 3 noticias, got %d", len(noticias))
	}
}

func TestScrapeAraucania_FirstPageDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewScraper()
	s.AraucaniaBase = srv.URL + "/default/listar_contenido?p="

	if _, err := s.ScrapeAraucania(context.Background(), 10); err == nil {
		t.Error("expected error when the first listing page fails, got nil")
	}
}

func TestScrapeAraucania_ContextCancelled(t *testing.T) {
	s := newAraucaniaServer(t, map[string]string{"1": araucaniaListing})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.ScrapeAraucania(ctx, 10); err == nil {
		t.Error("expected error for cancelled context, got nil")
	}
}

func TestScrapePeriodico_EmptyPageStopsWalk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<div class="content"></div>`))
	}))
	defer srv.Close()

	s := NewScraper()
	s.PeriodicoBase = srv.URL + "/category/temuco/page/"

	noticias, err := s.ScrapePeriodico(context.Background(), 10)
	if err != nil {
		t.Fatalf("ScrapePeriodico error: %v", err)
	}
	if len(noticias) != 0 {
		t.Errorf("expected no noticias from empty listing, got %d", len(noticias))
	}
}
