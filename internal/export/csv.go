// Package export reads and writes the CSV staging and export formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/prensalab/prensa/internal/models"
)

// noticiaHeaders is the fixed staging schema. Readers and writers must
// round-trip these exact column headers.
var noticiaHeaders = []string{"Título", "Fecha", "Descripción", "URL", "Fuente"}

// processedHeaders extends the staging schema with every AI-derived column
// for fully processed articles.
var processedHeaders = []string{
	"Título", "Fecha", "Descripción", "URL", "Fuente",
	"Etiquetas IA", "Sentimiento", "Rating", "Nivel Riesgo",
	"Indicador Violencia", "Edad Recomendada", "Modelo", "Fecha Análisis",
}

// WriteNoticias writes staged news records in the minimal CSV schema.
func WriteNoticias(w io.Writer, noticias []models.Noticia) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(noticiaHeaders); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, n := range noticias {
		record := []string{n.Title, n.Date, n.Description, n.URL, n.Source}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveNoticias writes staged news records to a CSV file, replacing any
// previous staging file of the same name.
func SaveNoticias(path string, noticias []models.Noticia) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteNoticias(f, noticias); err != nil {
		return err
	}
	return f.Close()
}

// ReadNoticias parses a staging CSV, validating the exact header row.
func ReadNoticias(r io.Reader) ([]models.Noticia, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(noticiaHeaders)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("export: read header: %w", err)
	}
	for i, want := range noticiaHeaders {
		if header[i] != want {
			return nil, fmt.Errorf("export: unexpected header %q (want %q)", header[i], want)
		}
	}

	var noticias []models.Noticia
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("export: read record: %w", err)
		}
		noticias = append(noticias, models.Noticia{
			Title:       record[0],
			Date:        record[1],
			Description: record[2],
			URL:         record[3],
			Source:      record[4],
		})
	}
	return noticias, nil
}

// LoadNoticias reads a staging CSV file. A missing file is not an error — it
// reads as an empty batch, so a staging step that produced nothing does not
// break the load.
func LoadNoticias(path string) ([]models.Noticia, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("export: open %s: %w", path, err)
	}
	defer f.Close()

	return ReadNoticias(f)
}

// WriteProcessed writes fully processed articles with every AI-derived
// column.
func WriteProcessed(w io.Writer, articles []models.Article) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(processedHeaders); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, a := range articles {
		record := []string{
			a.Title,
			a.Date,
			a.Description,
			a.URL,
			a.Source,
			strings.Join(a.Analysis.Tags, ", "),
			string(a.Analysis.Sentiment),
			strconv.FormatFloat(a.Analysis.Rating, 'f', 1, 64),
			string(a.Analysis.Risk),
			string(a.Analysis.Violence),
			a.Analysis.RecommendedAge,
			a.ModelUsed,
			a.ExecutionTime,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
