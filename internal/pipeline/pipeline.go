// Package pipeline orchestrates article analysis: it drains the unprocessed
// queue per model, invokes the AI backend, and reconciles the outcome with
// durable status and log records.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/prensalab/prensa/internal/ai"
	"github.com/prensalab/prensa/internal/models"
)

// ArticleRepo is the slice of the article store the pipeline needs.
type ArticleRepo interface {
	FetchUnprocessed(ctx context.Context, model string) ([]models.Article, error)
	WriteAIResult(ctx context.Context, articleID int64, model string, analysis models.Analysis, executionTime string) error
}

// AttemptLog records every processing attempt, success or failure.
type AttemptLog interface {
	Insert(ctx context.Context, entry *models.LogEntry) (int64, error)
}

// Stats summarizes one pipeline pass.
type Stats struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// Runner drives the per-(article, model) state machine. Articles move from
// pending (is_processed=false) to done (is_processed=true) only after a
// successful analysis has been durably written back. A failed attempt leaves
// the pair pending: there is no failed terminal state, and a later run
// naturally retries whatever is still pending.
type Runner struct {
	articles ArticleRepo
	log      AttemptLog
	backends []ai.Analyzer
}

// New creates a Runner over the given backends. Backends run in the order
// given, one model fully drained before the next starts.
func New(articles ArticleRepo, log AttemptLog, backends []ai.Analyzer) *Runner {
	return &Runner{
		articles: articles,
		log:      log,
		backends: backends,
	}
}

// Run processes every configured model in order, strictly sequentially.
func (r *Runner) Run(ctx context.Context) Stats {
	runID := uuid.New()
	slog.Info("pipeline: starting run", "run_id", runID, "models", len(r.backends))

	var total Stats
	for _, backend := range r.backends {
		if ctx.Err() != nil {
			break
		}
		stats := r.runModel(ctx, backend)
		total.Processed += stats.Processed
		total.Failed += stats.Failed
	}

	slog.Info("pipeline: run complete",
		"run_id", runID,
		"processed", total.Processed,
		"failed", total.Failed,
	)
	return total
}

// RunModel processes a single model selected by name. An unsupported selector
// is a configuration error, rejected before any article is fetched.
func (r *Runner) RunModel(ctx context.Context, model string) (Stats, error) {
	if _, err := ai.ParseModel(model); err != nil {
		return Stats{}, err
	}
	for _, backend := range r.backends {
		if string(backend.Model()) == model {
			return r.runModel(ctx, backend), nil
		}
	}
	return Stats{}, fmt.Errorf("pipeline: model %s not configured", model)
}

// runModel drains the unprocessed queue for one model. A repository failure
// reads as "nothing to do": the pass ends without side effects and without
// crashing the batch.
func (r *Runner) runModel(ctx context.Context, backend ai.Analyzer) Stats {
	model := string(backend.Model())

	articles, err := r.articles.FetchUnprocessed(ctx, model)
	if err != nil {
		slog.Error("pipeline: fetch unprocessed", "model", model, "err", err)
		return Stats{}
	}

	if len(articles) == 0 {
		slog.Info("pipeline: no unprocessed articles", "model", model)
		return Stats{}
	}

	slog.Info("pipeline: processing articles", "model", model, "count", len(articles))

	var stats Stats
	for _, article := range articles {
		if ctx.Err() != nil {
			break
		}
		if r.processArticle(ctx, backend, article) {
			stats.Processed++
		} else {
			stats.Failed++
		}
	}

	slog.Info("pipeline: model pass complete",
		"model", model,
		"processed", stats.Processed,
		"failed", stats.Failed,
	)
	return stats
}

// processArticle runs one analysis attempt. Every outcome is logged; only a
// fully successful attempt flips the status. Errors are contained here so one
// bad article can never block the rest of the model's queue.
func (r *Runner) processArticle(ctx context.Context, backend ai.Analyzer, article models.Article) bool {
	model := string(backend.Model())
	prompt := ai.AnalysisPrompt(article.Title, article.Description)

	result, err := backend.Analyze(ctx, prompt)
	if err != nil {
		slog.Error("pipeline: analyze", "model", model, "article_id", article.ID, "err", err)
		r.logAttempt(ctx, &models.LogEntry{
			ArticleID:  article.ID,
			Model:      model,
			Prompt:     prompt,
			Response:   "ERROR: " + err.Error(),
			StatusCode: 500,
		})
		return false
	}

	// The adapter did not error, but its own indicators may still disagree.
	// Treat that as a failed attempt: log the embedded code, leave pending.
	if result.StatusCode != 200 || !result.Processed {
		slog.Warn("pipeline: analysis not accepted",
			"model", model,
			"article_id", article.ID,
			"status_code", result.StatusCode,
		)
		r.logAttempt(ctx, &models.LogEntry{
			ArticleID:  article.ID,
			Model:      model,
			Prompt:     prompt,
			Response:   fmt.Sprintf("analysis rejected: status %d, processed=%t", result.StatusCode, result.Processed),
			StatusCode: result.StatusCode,
		})
		return false
	}

	execTime := result.Timestamp.Format("2006-01-02 15:04:05")
	if err := r.articles.WriteAIResult(ctx, article.ID, model, result.Analysis, execTime); err != nil {
		slog.Error("pipeline: write result", "model", model, "article_id", article.ID, "err", err)
		r.logAttempt(ctx, &models.LogEntry{
			ArticleID:  article.ID,
			Model:      model,
			Prompt:     prompt,
			Response:   "ERROR: " + err.Error(),
			StatusCode: 500,
		})
		return false
	}

	latency := result.Latency
	tokens := result.TokensUsed
	r.logAttempt(ctx, &models.LogEntry{
		ArticleID:        article.ID,
		Model:            model,
		Prompt:           prompt,
		Response:         result.Raw,
		FilteredResponse: ai.ExtractJSON(result.Raw),
		StatusCode:       result.StatusCode,
		ResponseTime:     &latency,
		TokensUsed:       &tokens,
	})

	slog.Info("pipeline: article processed",
		"model", model,
		"article_id", article.ID,
		"latency_sec", result.Latency,
	)
	return true
}

// logAttempt appends the audit record for one attempt. The log itself failing
// is reported but never propagated: the attempt's status outcome stands.
func (r *Runner) logAttempt(ctx context.Context, entry *models.LogEntry) {
	if _, err := r.log.Insert(ctx, entry); err != nil {
		slog.Error("pipeline: log attempt", "article_id", entry.ArticleID, "err", err)
	}
}
