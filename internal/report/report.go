// Package report accumulates assessment outcomes and renders a plain-text
// summary of answered versus unanswered issues.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/issuesift/issuesift/internal/core/domain"
)

type entry struct {
	url   string
	title string
}

// Report buckets outcomes as they arrive. It is not safe for concurrent use;
// feed it from the single goroutine consuming the outcome stream.
type Report struct {
	answered    []entry
	notAnswered []entry
	skipped     int
	failed      int
}

func New() *Report {
	return &Report{}
}

// Add records one outcome.
func (r *Report) Add(outcome domain.Outcome) {
	switch outcome.Kind {
	case domain.OutcomeAssessed:
		e := entry{url: outcome.Issue.URL, title: outcome.Issue.Title}

		if outcome.Verdict.Answered {
			r.answered = append(r.answered, e)
		} else {
			r.notAnswered = append(r.notAnswered, e)
		}
	case domain.OutcomeSkipped:
		r.skipped++
	case domain.OutcomeFailed:
		r.failed++
	}
}

// Summary holds the final counts.
type Summary struct {
	Answered    int
	NotAnswered int
	Skipped     int
	Failed      int
}

func (r *Report) Summary() Summary {
	return Summary{
		Answered:    len(r.answered),
		NotAnswered: len(r.notAnswered),
		Skipped:     r.skipped,
		Failed:      r.failed,
	}
}

// Render produces the text report.
func (r *Report) Render() string {
	var b strings.Builder

	b.WriteString("--- Answered Issues ---\n")
	writeEntries(&b, r.answered)

	b.WriteString("\n--- Not Clearly Answered Issues ---\n")
	writeEntries(&b, r.notAnswered)

	s := r.Summary()

	b.WriteString(fmt.Sprintf(
		"\nTotal: %d answered, %d not clearly answered, %d skipped, %d failed\n",
		s.Answered, s.NotAnswered, s.Skipped, s.Failed,
	))

	return b.String()
}

// WriteFile writes the rendered report to path.
func (r *Report) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(r.Render()), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func writeEntries(b *strings.Builder, entries []entry) {
	if len(entries) == 0 {
		b.WriteString("(none)\n")

		return
	}

	for _, e := range entries {
		b.WriteString(fmt.Sprintf("- %s : %s\n", e.url, e.title))
	}
}
