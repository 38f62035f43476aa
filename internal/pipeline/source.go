package pipeline

import (
	"context"
	"errors"

	"github.com/issuesift/issuesift/internal/core/domain"
)

// ErrSourceExhausted is the normal end-of-source signal. Any other error from
// a Source ends iteration for the run but is not itself fatal.
var ErrSourceExhausted = errors.New("issue source exhausted")

// Source yields issues one at a time, on demand.
type Source interface {
	Next(ctx context.Context) (domain.Issue, error)
}

// cappedSource stops after max issues even if the inner source has more.
type cappedSource struct {
	inner Source
	max   int
	seen  int
}

// WithCap limits a source to at most max issues. max <= 0 means no cap.
func WithCap(src Source, max int) Source {
	if max <= 0 {
		return src
	}

	return &cappedSource{inner: src, max: max}
}

func (s *cappedSource) Next(ctx context.Context) (domain.Issue, error) {
	if s.seen >= s.max {
		return domain.Issue{}, ErrSourceExhausted
	}

	issue, err := s.inner.Next(ctx)
	if err != nil {
		return domain.Issue{}, err
	}

	s.seen++

	return issue, nil
}
