package assess

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuesift/issuesift/internal/core/domain"
	"github.com/issuesift/issuesift/internal/pipeline"
)

type stubComments struct {
	comments []string
	err      error
}

func (s *stubComments) LastComments(_ context.Context, _ int) ([]string, error) {
	return s.comments, s.err
}

type stubLLM struct {
	answered   bool
	err        error
	lastPrompt string
	waitForCtx bool
}

func (s *stubLLM) AssessAnswer(ctx context.Context, prompt string) (bool, error) {
	s.lastPrompt = prompt

	if s.waitForCtx {
		<-ctx.Done()

		return false, ctx.Err()
	}

	return s.answered, s.err
}

func (s *stubLLM) Model() string {
	return "stub-model"
}

func newAssessor(comments *stubComments, client *stubLLM, timeout time.Duration) *Assessor {
	logger := zerolog.Nop()

	return New(comments, client, timeout, &logger)
}

func testIssue() domain.Issue {
	return domain.Issue{Number: 42, Title: "crash on startup", Body: "it crashes"}
}

func TestAssess_Answered(t *testing.T) {
	client := &stubLLM{answered: true}
	assessor := newAssessor(&stubComments{comments: []string{"try upgrading", "that fixed it, thanks"}}, client, 0)

	verdict, err := assessor.Assess(context.Background(), testIssue())
	require.NoError(t, err)

	assert.True(t, verdict.Answered)
	assert.Equal(t, "stub-model", verdict.Model)
	assert.Contains(t, client.lastPrompt, "crash on startup")
	assert.Contains(t, client.lastPrompt, "Last comment:\nthat fixed it, thanks")
	assert.Contains(t, client.lastPrompt, "Second-to-last comment:\ntry upgrading")
}

func TestAssess_NoCommentsSkips(t *testing.T) {
	assessor := newAssessor(&stubComments{}, &stubLLM{}, 0)

	_, err := assessor.Assess(context.Background(), testIssue())

	var skip *pipeline.SkipError

	require.ErrorAs(t, err, &skip)
	assert.Equal(t, skipNoComments, skip.Reason)
}

func TestAssess_StripsMarkup(t *testing.T) {
	client := &stubLLM{}
	assessor := newAssessor(&stubComments{comments: []string{"<p>use <b>v2.1</b></p>"}}, client, 0)

	_, err := assessor.Assess(context.Background(), testIssue())
	require.NoError(t, err)

	assert.Contains(t, client.lastPrompt, "use v2.1")
	assert.NotContains(t, client.lastPrompt, "<b>")
}

func TestAssess_CommentsFetchError(t *testing.T) {
	errBoom := errors.New("boom")
	assessor := newAssessor(&stubComments{err: errBoom}, &stubLLM{}, 0)

	_, err := assessor.Assess(context.Background(), testIssue())
	assert.ErrorIs(t, err, errBoom)
}

func TestAssess_LLMError(t *testing.T) {
	errModel := errors.New("model unavailable")
	assessor := newAssessor(&stubComments{comments: []string{"maybe"}}, &stubLLM{err: errModel}, 0)

	_, err := assessor.Assess(context.Background(), testIssue())
	assert.ErrorIs(t, err, errModel)
}

func TestAssess_Timeout(t *testing.T) {
	assessor := newAssessor(&stubComments{comments: []string{"slow answer"}}, &stubLLM{waitForCtx: true}, 20*time.Millisecond)

	_, err := assessor.Assess(context.Background(), testIssue())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
