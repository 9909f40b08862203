package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestParsePeriodicoEntry(t *testing.T) {
	t.Parallel()

	html := `
	<div class="post-col">
	  <h2 class="entry-title"><a href="https://www.elperiodico.cl/2026/08/corte-agua/">Corte de agua en Temuco</a></h2>
	  <div class="date"><a href="#">29 agosto, 2026</a></div>
	  <div class="entry-content">
	    <p>El corte afectará a tres comunas durante la mañana.</p>
	    <p>Leer más</p>
	  </div>
	</div>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	n := parsePeriodicoEntry(doc.Find("div.post-col").First(), "https://www.elperiodico.cl/category/temuco/page/1")

	if n.Title != "Corte de agua en Temuco" {
		t.Errorf("unexpected title: %q", n.Title)
	}
	if n.Date != "29 agosto, 2026" {
		t.Errorf("unexpected date: %q", n.Date)
	}
	if n.Description != "El corte afectará a tres comunas durante la mañana." {
		t.Errorf("unexpected description: %q", n.Description)
	}
	if n.Source != "El Periódico" {
		t.Errorf("unexpected source: %q", n.Source)
	}
}

func TestParsePeriodicoEntry_Fallbacks(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div class="post-col"></div>`))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	n := parsePeriodicoEntry(doc.Find("div.post-col").First(), "https://www.elperiodico.cl/category/temuco/page/1")

	if n.Title != "Sin título" {
		t.Errorf("unexpected title fallback: %q", n.Title)
	}
	if n.Date != "Sin fecha" {
		t.Errorf("unexpected date fallback: %q", n.Date)
	}
	if n.Description != "Sin descripción" {
		t.Errorf("unexpected description fallback: %q", n.Description)
	}
	if n.URL != "https://www.elperiodico.cl/category/temuco/page/1" {
		t.Errorf("missing page URL fallback: %q", n.URL)
	}
}
