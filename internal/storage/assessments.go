package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/issuesift/issuesift/internal/core/domain"
)

// NewRunID returns a fresh identifier grouping the outcomes of one crawl run.
func NewRunID() string {
	return uuid.NewString()
}

// SaveOutcome persists one assessment outcome. Re-assessments of the same
// issue in later runs insert new rows, so history is preserved.
func (db *DB) SaveOutcome(ctx context.Context, runID string, outcome domain.Outcome) error {
	var errText string

	if outcome.Err != nil {
		errText = outcome.Err.Error()
	}

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO assessments (
			run_id, issue_id, issue_number, issue_url, issue_title,
			issue_updated_at, kind, answered, model, skip_reason, error, elapsed_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		runID,
		outcome.Issue.ID,
		outcome.Issue.Number,
		outcome.Issue.URL,
		outcome.Issue.Title,
		outcome.Issue.UpdatedAt,
		outcome.Kind,
		outcome.Verdict.Answered,
		outcome.Verdict.Model,
		outcome.SkipReason,
		errText,
		outcome.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("save outcome for issue #%d: %w", outcome.Issue.Number, err)
	}

	return nil
}

// RunCounts summarizes the stored outcomes of one run, by kind.
func (db *DB) RunCounts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT kind, COUNT(*) FROM assessments WHERE run_id = $1 GROUP BY kind`, runID)
	if err != nil {
		return nil, fmt.Errorf("count run outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)

	for rows.Next() {
		var (
			kind  string
			count int
		)

		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scan run counts: %w", err)
		}

		counts[kind] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run counts: %w", err)
	}

	return counts, nil
}

// PruneBefore removes assessments recorded before cutoff, returning the
// number of deleted rows.
func (db *DB) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM assessments WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune assessments: %w", err)
	}

	return tag.RowsAffected(), nil
}
