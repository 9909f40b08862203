package models

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatusStore provides data access for per-(article, model) processing state.
type StatusStore struct {
	pool *pgxpool.Pool
}

// NewStatusStore creates a new StatusStore.
func NewStatusStore(pool *pgxpool.Pool) *StatusStore {
	return &StatusStore{pool: pool}
}

// Init creates the processing status row for (article, model) with
// is_processed=false. It is idempotent: re-initializing an existing pair is a
// no-op, so a pair that already reached processed=true is never reset.
func (s *StatusStore) Init(ctx context.Context, articleID int64, model string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO model_process_status (article_id, model_name, is_processed)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (article_id, model_name) DO NOTHING
	`, articleID, model)
	if err != nil {
		return fmt.Errorf("status init: %w", err)
	}
	return nil
}

// IsProcessed reports the processing flag for (article, model). A missing row
// reads as false — the documented fallback, not an accident of the query.
func (s *StatusStore) IsProcessed(ctx context.Context, articleID int64, model string) (bool, error) {
	var processed bool
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(
			(SELECT is_processed FROM model_process_status
			 WHERE article_id = $1 AND model_name = $2),
			FALSE)
	`, articleID, model).Scan(&processed)
	if err != nil {
		return false, fmt.Errorf("status check: %w", err)
	}
	return processed, nil
}
