package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentiment is the canonical sentiment classification produced by a model.
type Sentiment string

const (
	SentimentPositive Sentiment = "positivo"
	SentimentNegative Sentiment = "negativo"
	SentimentNeutral  Sentiment = "neutro"
)

// RiskLevel is the canonical risk classification produced by a model.
type RiskLevel string

const (
	RiskLow    RiskLevel = "bajo"
	RiskMedium RiskLevel = "medio"
	RiskHigh   RiskLevel = "alto"
)

// ViolenceIndicator is the canonical violence classification produced by a model.
type ViolenceIndicator string

const (
	ViolenceNo       ViolenceIndicator = "no"
	ViolenceYes      ViolenceIndicator = "sí"
	ViolenceModerate ViolenceIndicator = "moderado"
)

// Noticia is a raw scraped news record, staged in CSV files before being
// loaded into the database.
type Noticia struct {
	Title       string `json:"titulo"`
	Date        string `json:"fecha"`
	Description string `json:"descripcion"`
	URL         string `json:"url"`
	Source      string `json:"fuente"`
}

// Analysis holds the AI-derived fields for one article. Enum fields use the
// canonical Spanish tokens the analysis prompt demands; normalization happens
// once at the AI client boundary, never downstream.
type Analysis struct {
	Tags           []string          `json:"etiquetas_ia"`
	Sentiment      Sentiment         `json:"sentimiento"`
	Rating         float64           `json:"rating"`
	Risk           RiskLevel         `json:"nivel_riesgo"`
	Violence       ViolenceIndicator `json:"indicador_violencia"`
	RecommendedAge string            `json:"edad_recomendada"`
}

// Article is a news item with immutable source fields and AI-derived analysis
// fields. Source fields are written once by the loader; analysis fields are
// written exactly once per model by the processing pipeline.
type Article struct {
	ID          int64  `json:"id"`
	Title       string `json:"titulo"`
	Date        string `json:"fecha"`
	URL         string `json:"url"`
	Source      string `json:"fuente"`
	Description string `json:"descripcion"`

	Analysis      Analysis `json:"analysis"`
	ModelUsed     string   `json:"model_used,omitempty"`
	ExecutionTime string   `json:"execution_time,omitempty"`

	// Processed reflects the model_process_status row for the model the
	// article was queried under. A missing status row reads as false.
	Processed bool   `json:"is_processed"`
	ModelName string `json:"model_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ArticleStore provides data access for articles and their per-model
// processing state.
type ArticleStore struct {
	pool *pgxpool.Pool
}

// NewArticleStore creates a new ArticleStore.
func NewArticleStore(pool *pgxpool.Pool) *ArticleStore {
	return &ArticleStore{pool: pool}
}

// Pool returns the underlying connection pool for direct queries.
func (s *ArticleStore) Pool() *pgxpool.Pool {
	return s.pool
}

// Insert stores the immutable source fields of a news record and returns the
// generated article id. Callers treat an error as "skip status
// initialization" — a failed insert never aborts a load batch.
func (s *ArticleStore) Insert(ctx context.Context, n Noticia) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO articles (titulo, fecha, url, fuente, descripcion)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, n.Title, n.Date, n.URL, n.Source, n.Description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("article insert: %w", err)
	}
	return id, nil
}

const articleColumns = `
	a.id, a.titulo, a.fecha, a.url, a.fuente, a.descripcion,
	a.etiquetas_ia, a.sentimiento, a.rating, a.nivel_riesgo,
	a.indicador_violencia, a.edad_recomendada, a.model_used,
	a.execution_time, a.created_at`

// scannable is an interface for pgx Row and Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanArticle scans one article row, handling the nullable AI columns.
func scanArticle(row scannable, extra ...any) (*Article, error) {
	var a Article
	var tags, sentiment, risk, violence, age, modelUsed, execTime *string
	var rating *float64

	dest := []any{
		&a.ID, &a.Title, &a.Date, &a.URL, &a.Source, &a.Description,
		&tags, &sentiment, &rating, &risk, &violence, &age,
		&modelUsed, &execTime, &a.CreatedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if tags != nil {
		a.Analysis.Tags = splitTags(*tags)
	}
	if sentiment != nil {
		a.Analysis.Sentiment = Sentiment(*sentiment)
	}
	if rating != nil {
		a.Analysis.Rating = *rating
	}
	if risk != nil {
		a.Analysis.Risk = RiskLevel(*risk)
	}
	if violence != nil {
		a.Analysis.Violence = ViolenceIndicator(*violence)
	}
	if age != nil {
		a.Analysis.RecommendedAge = *age
	}
	if modelUsed != nil {
		a.ModelUsed = *modelUsed
	}
	if execTime != nil {
		a.ExecutionTime = *execTime
	}

	return &a, nil
}

// FetchUnprocessed returns all articles whose processing status for the given
// model is false or absent. The left join plus COALESCE makes the fallback
// explicit: an article with no status row for the model is still unprocessed.
func (s *ArticleStore) FetchUnprocessed(ctx context.Context, model string) ([]Article, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+articleColumns+`, COALESCE(st.is_processed, FALSE), COALESCE(st.model_name, $1)
		FROM articles a
		LEFT JOIN model_process_status st
		       ON st.article_id = a.id AND st.model_name = $1
		WHERE COALESCE(st.is_processed, FALSE) = FALSE
		ORDER BY a.id
	`, model)
	if err != nil {
		return nil, fmt.Errorf("article fetch unprocessed: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// FetchProcessed returns all articles whose processing status for the given
// model is true, used by export and analytics.
func (s *ArticleStore) FetchProcessed(ctx context.Context, model string) ([]Article, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+articleColumns+`, st.is_processed, st.model_name
		FROM articles a
		JOIN model_process_status st
		  ON st.article_id = a.id AND st.model_name = $1
		WHERE st.is_processed = TRUE
		ORDER BY a.id
	`, model)
	if err != nil {
		return nil, fmt.Errorf("article fetch processed: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func collectArticles(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]Article, error) {
	var articles []Article
	for rows.Next() {
		var processed bool
		var modelName string
		a, err := scanArticle(rows, &processed, &modelName)
		if err != nil {
			return nil, fmt.Errorf("article scan: %w", err)
		}
		a.Processed = processed
		a.ModelName = modelName
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}

// GetByID returns a single article by id.
func (s *ArticleStore) GetByID(ctx context.Context, id int64) (*Article, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		WHERE a.id = $1
	`, id)
	a, err := scanArticle(row)
	if err != nil {
		return nil, fmt.Errorf("article get: %w", err)
	}
	return a, nil
}

// WriteAIResult projects an analysis result onto the article's AI fields and
// flips the processing status for (article, model) to true. Both writes run
// in a single transaction: either the fields and the flag both change, or
// neither does.
func (s *ArticleStore) WriteAIResult(ctx context.Context, articleID int64, model string, analysis Analysis, executionTime string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("article write result: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE articles
		SET etiquetas_ia = $1, sentimiento = $2, rating = $3,
		    nivel_riesgo = $4, indicador_violencia = $5, edad_recomendada = $6,
		    model_used = $7, execution_time = $8
		WHERE id = $9
	`,
		strings.Join(analysis.Tags, ", "), string(analysis.Sentiment),
		analysis.Rating, string(analysis.Risk), string(analysis.Violence),
		analysis.RecommendedAge, model, executionTime, articleID,
	)
	if err != nil {
		return fmt.Errorf("article write result: update fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("article write result: article not found: %d", articleID)
	}

	// Upsert so an article that was never status-initialized still lands on
	// processed=true together with its fields.
	_, err = tx.Exec(ctx, `
		INSERT INTO model_process_status (article_id, model_name, is_processed, updated_at)
		VALUES ($1, $2, TRUE, now())
		ON CONFLICT (article_id, model_name)
		DO UPDATE SET is_processed = TRUE, updated_at = now()
	`, articleID, model)
	if err != nil {
		return fmt.Errorf("article write result: update status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("article write result: commit: %w", err)
	}
	return nil
}

// splitTags reverses the comma-joined TEXT representation of the tags column.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
