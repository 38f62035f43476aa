// Package domain holds the core types shared across the assessment pipeline.
package domain

import "time"

// Outcome kinds. Every issue pulled from the source resolves to exactly one.
const (
	OutcomeAssessed = "assessed"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// Issue is one unit of work pulled from the issue source. Immutable once
// produced; owned by the task that processes it until that task completes.
type Issue struct {
	ID        int64
	Number    int
	URL       string
	Title     string
	Body      string
	UpdatedAt time.Time
}

// Verdict is the structured result of one LLM assessment.
type Verdict struct {
	Answered bool
	Model    string
}

// Outcome is the terminal result of processing one issue.
// Exactly one of Verdict, SkipReason, or Err is meaningful, selected by Kind.
type Outcome struct {
	Kind       string
	Issue      Issue
	Seq        uint64
	Verdict    Verdict
	SkipReason string
	Err        error
	Elapsed    time.Duration
}
