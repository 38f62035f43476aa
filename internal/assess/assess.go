// Package assess decides whether a closed issue was actually answered by
// its final comments.
package assess

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/issuesift/issuesift/internal/core/domain"
	"github.com/issuesift/issuesift/internal/llm"
	"github.com/issuesift/issuesift/internal/pipeline"
	"github.com/issuesift/issuesift/internal/platform/htmlutils"
)

const (
	// maxCommentChars bounds the amount of comment text fed to the model.
	maxCommentChars = 4000

	skipNoComments = "no comments"
)

// CommentsFetcher supplies the trailing comments of an issue.
type CommentsFetcher interface {
	LastComments(ctx context.Context, issueNumber int) ([]string, error)
}

// Assessor asks the language model whether the last comments of an issue
// answer it. It implements pipeline.Assessor.
type Assessor struct {
	comments CommentsFetcher
	client   llm.Client
	timeout  time.Duration
	logger   *zerolog.Logger
}

func New(comments CommentsFetcher, client llm.Client, timeout time.Duration, logger *zerolog.Logger) *Assessor {
	return &Assessor{
		comments: comments,
		client:   client,
		timeout:  timeout,
		logger:   logger,
	}
}

// Assess fetches the issue's trailing comments and asks the model for a
// verdict. Issues without comments are skipped rather than failed.
func (a *Assessor) Assess(ctx context.Context, issue domain.Issue) (domain.Verdict, error) {
	comments, err := a.comments.LastComments(ctx, issue.Number)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("fetch comments: %w", err)
	}

	if len(comments) == 0 {
		return domain.Verdict{}, pipeline.Skip(skipNoComments)
	}

	prompt := llm.BuildAssessmentPrompt(issue.Title, issue.Body, answerText(comments))

	callCtx := ctx

	if a.timeout > 0 {
		var cancel context.CancelFunc

		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	answered, err := a.client.AssessAnswer(callCtx, prompt)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("assess issue #%d: %w", issue.Number, err)
	}

	a.logger.Debug().
		Int("issue", issue.Number).
		Bool("answered", answered).
		Msg("Issue assessed")

	return domain.Verdict{
		Answered: answered,
		Model:    a.client.Model(),
	}, nil
}

// answerText renders the trailing comments, most recent first, with any HTML
// markup stripped.
func answerText(comments []string) string {
	var b strings.Builder

	last := cleanComment(comments[len(comments)-1])
	b.WriteString("Last comment:\n")
	b.WriteString(last)

	if len(comments) > 1 {
		previous := cleanComment(comments[len(comments)-2])
		b.WriteString("\n\n---\nSecond-to-last comment:\n")
		b.WriteString(previous)
	}

	return b.String()
}

func cleanComment(body string) string {
	text := htmlutils.CollapseBlankLines(htmlutils.StripTags(body))

	return htmlutils.Truncate(strings.TrimSpace(text), maxCommentChars)
}
