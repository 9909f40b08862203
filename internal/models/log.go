package models

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LogEntry is an append-only audit record of one processing attempt, written
// whether the attempt succeeded or failed.
type LogEntry struct {
	ID               int64     `json:"id"`
	ArticleID        int64     `json:"article_id"`
	Model            string    `json:"model_name"`
	Prompt           string    `json:"prompt"`
	Response         string    `json:"response_text"`
	FilteredResponse string    `json:"filtered_response,omitempty"`
	StatusCode       int       `json:"status_code"`
	ResponseTime     *float64  `json:"response_time_sec,omitempty"`
	TokensUsed       *int      `json:"tokens_used,omitempty"`
	LogDate          time.Time `json:"log_date"`
}

// LogStore provides append access to the processing attempt log.
type LogStore struct {
	pool *pgxpool.Pool
}

// NewLogStore creates a new LogStore.
func NewLogStore(pool *pgxpool.Pool) *LogStore {
	return &LogStore{pool: pool}
}

// Insert appends one log entry and returns its generated id.
func (s *LogStore) Insert(ctx context.Context, entry *LogEntry) (int64, error) {
	if entry.LogDate.IsZero() {
		entry.LogDate = time.Now().UTC()
	}

	var filtered *string
	if entry.FilteredResponse != "" {
		filtered = &entry.FilteredResponse
	}

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO ia_response_log (article_id, model_name, prompt,
		                             response_text, filtered_response,
		                             status_code, response_time_sec,
		                             tokens_used, log_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`,
		entry.ArticleID, entry.Model, entry.Prompt, entry.Response, filtered,
		entry.StatusCode, entry.ResponseTime, entry.TokensUsed, entry.LogDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("log insert: %w", err)
	}
	entry.ID = id
	return id, nil
}

// ListByArticle returns the attempt log for one article, newest first.
func (s *LogStore) ListByArticle(ctx context.Context, articleID int64) ([]LogEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, article_id, model_name, prompt, response_text,
		       filtered_response, status_code, response_time_sec,
		       tokens_used, log_date
		FROM ia_response_log
		WHERE article_id = $1
		ORDER BY log_date DESC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("log list: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		var filtered *string
		if err := rows.Scan(
			&e.ID, &e.ArticleID, &e.Model, &e.Prompt, &e.Response,
			&filtered, &e.StatusCode, &e.ResponseTime, &e.TokensUsed, &e.LogDate,
		); err != nil {
			return nil, fmt.Errorf("log scan: %w", err)
		}
		if filtered != nil {
			e.FilteredResponse = *filtered
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
