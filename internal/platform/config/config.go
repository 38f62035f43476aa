// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	errConcurrencyTooLow = errors.New("ASSESS_CONCURRENCY must be at least 1")
	errBadSince          = errors.New("invalid ISSUES_UPDATED_SINCE")
)

// Config holds all settings for one issuesift run.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"local"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	GitHub  GitHubConfig
	LLM     LLMConfig
	Assess  AssessConfig
	Storage StorageConfig

	// Report output. Empty disables the text report.
	ReportPath string `env:"REPORT_PATH" envDefault:""`

	// CrawlInterval re-runs the crawl periodically. Zero means one shot.
	CrawlInterval time.Duration `env:"CRAWL_INTERVAL" envDefault:"0"`

	HealthPort int `env:"HEALTH_PORT" envDefault:"8080"`
}

// GitHubConfig holds settings for the issue source.
type GitHubConfig struct {
	Repo         string        `env:"GITHUB_REPO" envDefault:"pytorch/pytorch"`
	Token        string        `env:"GITHUB_TOKEN"`
	BaseURL      string        `env:"GITHUB_BASE_URL" envDefault:"https://api.github.com"`
	Timeout      time.Duration `env:"GITHUB_TIMEOUT" envDefault:"30s"`
	RateLimitRPS float64       `env:"GITHUB_RATE_LIMIT_RPS" envDefault:"2"`
	PageSize     int           `env:"GITHUB_PAGE_SIZE" envDefault:"30"`

	// Free-form timestamp, parsed with dateparse. Empty means no lower bound.
	UpdatedSinceRaw string `env:"ISSUES_UPDATED_SINCE" envDefault:""`
	UpdatedSince    time.Time
}

// LLMConfig holds settings for the assessment model client.
type LLMConfig struct {
	// APIKey selects the real client. Empty or "mock" runs offline.
	APIKey       string        `env:"LLM_API_KEY"`
	Model        string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	RateLimitRPS float64       `env:"LLM_RATE_LIMIT_RPS" envDefault:"1"`
	Timeout      time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
}

// AssessConfig holds pipeline settings.
type AssessConfig struct {
	Concurrency int  `env:"ASSESS_CONCURRENCY" envDefault:"10"`
	MaxIssues   int  `env:"MAX_ISSUES" envDefault:"100"`
	CancelDrain bool `env:"CANCEL_DRAIN" envDefault:"true"`
}

// StorageConfig holds optional Postgres persistence settings.
// An empty DSN disables persistence entirely.
type StorageConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN" envDefault:""`

	// Retention prunes stored assessments older than this after each run.
	// Zero keeps everything.
	Retention time.Duration `env:"STORAGE_RETENTION" envDefault:"0"`
}

// Load loads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	if cfg.Assess.Concurrency < 1 {
		return nil, fmt.Errorf("%w: got %d", errConcurrencyTooLow, cfg.Assess.Concurrency)
	}

	if cfg.GitHub.UpdatedSinceRaw != "" {
		since, err := dateparse.ParseAny(cfg.GitHub.UpdatedSinceRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", errBadSince, cfg.GitHub.UpdatedSinceRaw, err)
		}

		cfg.GitHub.UpdatedSince = since
	}

	return cfg, nil
}
