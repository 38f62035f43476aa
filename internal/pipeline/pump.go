// Package pipeline implements the bounded-concurrency assessment loop.
//
// The Pump pulls issues lazily from a Source, keeps at most Concurrency
// assessments in flight, and emits one Outcome per pulled issue on a result
// stream, in completion order. A single coordinator goroutine owns all run
// state; per-issue goroutines only report completions back to it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/issuesift/issuesift/internal/core/domain"
	"github.com/issuesift/issuesift/internal/platform/observability"
)

var errAssessorPanic = errors.New("assessor panicked")

// Assessor renders a verdict for one issue. Returning a *SkipError marks the
// issue as having nothing to assess; any other error marks it failed. Either
// way the pipeline keeps going.
type Assessor interface {
	Assess(ctx context.Context, issue domain.Issue) (domain.Verdict, error)
}

// SkipError marks an issue that cannot be assessed (e.g. no comments).
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "skipped: " + e.Reason
}

// Skip returns a SkipError with the given reason.
func Skip(reason string) error {
	return &SkipError{Reason: reason}
}

// Config controls one pipeline run.
type Config struct {
	// Concurrency is the maximum number of assessments in flight. Must be >= 1.
	Concurrency int

	// MaxIssues caps how many issues are pulled from the source. 0 means no cap.
	MaxIssues int

	// DrainOnCancel selects the cancellation behavior: when true, in-flight
	// assessments finish and their outcomes are emitted before the stream
	// closes; when false they are abandoned.
	DrainOnCancel bool
}

// Stats are the counters of one run. Valid once the result stream is closed.
type Stats struct {
	Pulled       uint64
	Yielded      uint64
	SourceFailed bool
}

// Pump coordinates pulls, admission, and completion draining for one run.
// A Pump is single-use: create a new one for each run.
type Pump struct {
	source   Source
	assessor Assessor
	limiter  *Limiter
	cfg      Config
	logger   *zerolog.Logger

	stats Stats
}

// New creates a Pump. Concurrency < 1 is a construction error.
func New(source Source, assessor Assessor, cfg Config, logger *zerolog.Logger) (*Pump, error) {
	limiter, err := NewLimiter(cfg.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	return &Pump{
		source:   WithCap(source, cfg.MaxIssues),
		assessor: assessor,
		limiter:  limiter,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Run starts the pipeline and returns its result stream. The stream is closed
// when the source is exhausted and no assessment remains in flight, or when
// the context is cancelled (after draining, if configured). The caller must
// consume the stream to completion.
func (p *Pump) Run(ctx context.Context) <-chan domain.Outcome {
	out := make(chan domain.Outcome, p.cfg.Concurrency)

	go p.run(ctx, out)

	return out
}

// Stats returns the run counters. Only meaningful after the result stream
// returned by Run has been closed.
func (p *Pump) Stats() Stats {
	return p.stats
}

type pumpState struct {
	inflight  int
	exhausted bool
	cancelled bool
	seq       uint64
}

func (p *Pump) run(ctx context.Context, out chan<- domain.Outcome) {
	defer close(out)

	// Completions are buffered to Concurrency so abandoned tasks can always
	// report and exit without leaking.
	done := make(chan domain.Outcome, p.cfg.Concurrency)
	state := &pumpState{}

	for {
		p.admit(ctx, state, done)

		if state.inflight == 0 {
			if state.exhausted || state.cancelled {
				p.logger.Info().
					Uint64("pulled", p.stats.Pulled).
					Uint64("yielded", p.stats.Yielded).
					Msg("Pipeline complete")

				return
			}

			continue
		}

		outcome, ok := p.awaitCompletion(ctx, state, done)
		if !ok {
			if state.cancelled && !p.cfg.DrainOnCancel {
				p.logger.Info().Int("abandoned", state.inflight).Msg("Cancelled, abandoning in-flight assessments")
				return
			}

			continue
		}

		p.settle(state, outcome, out)

		// Resolve everything else from this wait batch before pulling more.
		for drained := true; drained && state.inflight > 0; {
			select {
			case extra := <-done:
				p.settle(state, extra, out)
			default:
				drained = false
			}
		}
	}
}

// admit pulls issues and launches assessments until the concurrency bound is
// reached, the source ends, or the run is cancelled.
func (p *Pump) admit(ctx context.Context, state *pumpState, done chan<- domain.Outcome) {
	for !state.cancelled && !state.exhausted && state.inflight < p.cfg.Concurrency {
		if ctx.Err() != nil {
			state.cancelled = true
			return
		}

		issue, err := p.source.Next(ctx)
		if err != nil {
			state.exhausted = true

			switch {
			case errors.Is(err, ErrSourceExhausted):
				p.logger.Debug().Msg("Issue source exhausted")
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				state.cancelled = true
			default:
				// Treated as end-of-source for this run; in-flight work drains.
				p.stats.SourceFailed = true
				observability.SourceErrors.Inc()
				p.logger.Warn().Err(err).Msg("Issue source failed, finishing in-flight assessments")
			}

			return
		}

		// Guaranteed available: the loop bound matches the permit count.
		// Kept for safety only.
		if err := p.limiter.Acquire(ctx); err != nil {
			state.cancelled = true
			return
		}

		state.seq++
		state.inflight++
		p.stats.Pulled++
		observability.IssuesPulled.Inc()
		observability.AssessmentsInFlight.Set(float64(state.inflight))

		go p.assess(ctx, issue, state.seq, done)
	}
}

// awaitCompletion blocks until one assessment finishes. The second return is
// false when the wait was interrupted by cancellation instead.
func (p *Pump) awaitCompletion(ctx context.Context, state *pumpState, done <-chan domain.Outcome) (domain.Outcome, bool) {
	if state.cancelled {
		// Cancellation already observed, possibly during a source pull. Only
		// drain mode waits for completions; abandon mode must not block on
		// tasks that may never honor cancellation.
		if !p.cfg.DrainOnCancel {
			return domain.Outcome{}, false
		}

		return <-done, true
	}

	select {
	case outcome := <-done:
		return outcome, true
	case <-ctx.Done():
		state.cancelled = true
		return domain.Outcome{}, false
	}
}

// settle removes a finished task from the in-flight set, releases its permit,
// and emits its outcome.
func (p *Pump) settle(state *pumpState, outcome domain.Outcome, out chan<- domain.Outcome) {
	state.inflight--
	p.limiter.Release()
	p.stats.Yielded++

	observability.AssessmentsInFlight.Set(float64(state.inflight))
	observability.Outcomes.WithLabelValues(outcome.Kind).Inc()

	out <- outcome
}

// assess runs one assessment and reports its terminal outcome. Errors and
// panics from the assessor never escape; they become failed outcomes.
func (p *Pump) assess(ctx context.Context, issue domain.Issue, seq uint64, done chan<- domain.Outcome) {
	start := time.Now()
	outcome := domain.Outcome{Issue: issue, Seq: seq}

	defer func() {
		if r := recover(); r != nil {
			outcome.Kind = domain.OutcomeFailed
			outcome.Err = fmt.Errorf("%w: %v", errAssessorPanic, r)
		}

		outcome.Elapsed = time.Since(start)
		observability.AssessmentDuration.WithLabelValues(outcome.Kind).Observe(outcome.Elapsed.Seconds())

		done <- outcome
	}()

	verdict, err := p.assessor.Assess(ctx, issue)

	var skip *SkipError

	switch {
	case err == nil:
		outcome.Kind = domain.OutcomeAssessed
		outcome.Verdict = verdict
	case errors.As(err, &skip):
		outcome.Kind = domain.OutcomeSkipped
		outcome.SkipReason = skip.Reason
	default:
		outcome.Kind = domain.OutcomeFailed
		outcome.Err = err
	}
}
