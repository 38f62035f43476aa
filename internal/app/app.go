// Package app wires the GitHub source, the assessor and the pipeline into
// one crawl run.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/issuesift/issuesift/internal/assess"
	"github.com/issuesift/issuesift/internal/core/domain"
	"github.com/issuesift/issuesift/internal/llm"
	"github.com/issuesift/issuesift/internal/pipeline"
	"github.com/issuesift/issuesift/internal/platform/config"
	"github.com/issuesift/issuesift/internal/report"
	"github.com/issuesift/issuesift/internal/source/github"
	"github.com/issuesift/issuesift/internal/storage"
)

// App holds the assembled components of one crawler instance.
type App struct {
	cfg      *config.Config
	logger   *zerolog.Logger
	github   *github.Client
	assessor *assess.Assessor
	db       *storage.DB
}

// New assembles the crawler from configuration. The database is optional and
// only connected when a DSN is configured.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	ghClient, err := github.NewClient(github.Config{
		Repo:         cfg.GitHub.Repo,
		Token:        cfg.GitHub.Token,
		BaseURL:      cfg.GitHub.BaseURL,
		Timeout:      cfg.GitHub.Timeout,
		RateLimitRPS: cfg.GitHub.RateLimitRPS,
		PageSize:     cfg.GitHub.PageSize,
		UpdatedSince: cfg.GitHub.UpdatedSince,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create github client: %w", err)
	}

	llmClient := llm.New(cfg.LLM, logger)
	assessor := assess.New(ghClient, llmClient, cfg.LLM.Timeout, logger)

	app := &App{
		cfg:      cfg,
		logger:   logger,
		github:   ghClient,
		assessor: assessor,
	}

	if cfg.Storage.PostgresDSN != "" {
		db, err := storage.New(ctx, cfg.Storage.PostgresDSN, logger)
		if err != nil {
			return nil, fmt.Errorf("connect storage: %w", err)
		}

		if err := db.Migrate(ctx); err != nil {
			db.Close()

			return nil, fmt.Errorf("migrate storage: %w", err)
		}

		app.db = db
	}

	return app, nil
}

// DB returns the storage handle, or nil when persistence is disabled.
func (a *App) DB() *storage.DB {
	return a.db
}

// Close releases held resources.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// Run crawls closed issues, assesses them concurrently and consumes the
// outcome stream until it closes.
func (a *App) Run(ctx context.Context) error {
	pump, err := pipeline.New(a.github.Issues(), a.assessor, pipeline.Config{
		Concurrency:   a.cfg.Assess.Concurrency,
		MaxIssues:     a.cfg.Assess.MaxIssues,
		DrainOnCancel: a.cfg.Assess.CancelDrain,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	a.logger.Info().
		Str("repo", a.cfg.GitHub.Repo).
		Int("concurrency", a.cfg.Assess.Concurrency).
		Int("max_issues", a.cfg.Assess.MaxIssues).
		Msg("Starting crawl")

	var runID string

	if a.db != nil {
		runID = storage.NewRunID()
	}

	rep := report.New()

	for outcome := range pump.Run(ctx) {
		a.logOutcome(outcome)
		rep.Add(outcome)

		if a.db != nil {
			// Persistence failures must not stop the crawl.
			if err := a.db.SaveOutcome(ctx, runID, outcome); err != nil {
				a.logger.Error().Err(err).Int("issue", outcome.Issue.Number).Msg("Failed to persist outcome")
			}
		}
	}

	stats := pump.Stats()
	summary := rep.Summary()

	a.logger.Info().
		Uint64("pulled", stats.Pulled).
		Uint64("yielded", stats.Yielded).
		Bool("source_failed", stats.SourceFailed).
		Int("answered", summary.Answered).
		Int("not_answered", summary.NotAnswered).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("Crawl finished")

	if a.db != nil {
		a.logStoredRun(ctx, runID)
		a.pruneStored(ctx)
	}

	if a.cfg.ReportPath != "" {
		if err := rep.WriteFile(a.cfg.ReportPath); err != nil {
			return err
		}

		a.logger.Info().Str("path", a.cfg.ReportPath).Msg("Report written")
	}

	return nil
}

// logStoredRun cross-checks the persisted rows of this run against what the
// stream delivered.
func (a *App) logStoredRun(ctx context.Context, runID string) {
	counts, err := a.db.RunCounts(ctx, runID)
	if err != nil {
		a.logger.Error().Err(err).Str("run_id", runID).Msg("Failed to read stored run counts")

		return
	}

	a.logger.Info().
		Str("run_id", runID).
		Int("assessed", counts[domain.OutcomeAssessed]).
		Int("skipped", counts[domain.OutcomeSkipped]).
		Int("failed", counts[domain.OutcomeFailed]).
		Msg("Run outcomes persisted")
}

// pruneStored applies the configured retention window.
func (a *App) pruneStored(ctx context.Context) {
	if a.cfg.Storage.Retention <= 0 {
		return
	}

	cutoff := time.Now().Add(-a.cfg.Storage.Retention)

	pruned, err := a.db.PruneBefore(ctx, cutoff)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to prune old assessments")

		return
	}

	if pruned > 0 {
		a.logger.Info().Int64("pruned", pruned).Time("cutoff", cutoff).Msg("Pruned old assessments")
	}
}

func (a *App) logOutcome(outcome domain.Outcome) {
	event := a.logger.Info().
		Int("issue", outcome.Issue.Number).
		Str("url", outcome.Issue.URL).
		Dur("elapsed", outcome.Elapsed)

	switch outcome.Kind {
	case domain.OutcomeAssessed:
		event.Bool("answered", outcome.Verdict.Answered).Msg("Issue assessed")
	case domain.OutcomeSkipped:
		event.Str("reason", outcome.SkipReason).Msg("Issue skipped")
	case domain.OutcomeFailed:
		event.Err(outcome.Err).Msg("Issue assessment failed")
	}
}
