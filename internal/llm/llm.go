// Package llm provides the model client used for answer assessment.
package llm

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/issuesift/issuesift/internal/platform/config"
)

// Client is the assessment model interface. AssessAnswer reports whether the
// supplied comment text contains an unambiguous, verifiable answer to the
// issue described in the prompt.
type Client interface {
	AssessAnswer(ctx context.Context, prompt string) (bool, error)
	Model() string
}

// New selects a client implementation from configuration. A missing API key
// or one set to "mock" yields the offline client, useful for dry runs.
func New(cfg config.LLMConfig, logger *zerolog.Logger) Client {
	if cfg.APIKey == "" || cfg.APIKey == "mock" {
		logger.Warn().Msg("No LLM API key configured, using offline mock client")

		return &mockClient{model: cfg.Model}
	}

	return newOpenAI(cfg, logger)
}
