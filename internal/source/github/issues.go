package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/issuesift/issuesift/internal/core/domain"
	"github.com/issuesift/issuesift/internal/pipeline"
	"github.com/issuesift/issuesift/internal/platform/observability"
)

// apiIssue is the subset of the issue payload we care about. Pull requests
// come back from the same endpoint and are distinguished by the pull_request
// key.
type apiIssue struct {
	ID          int64     `json:"id"`
	Number      int       `json:"number"`
	HTMLURL     string    `json:"html_url"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	UpdatedAt   time.Time `json:"updated_at"`
	PullRequest *struct{} `json:"pull_request,omitempty"`
}

// IssueSource walks closed issues of the repository, most recently updated
// first, one API page at a time. It implements pipeline.Source.
type IssueSource struct {
	client *Client

	buf  []domain.Issue
	page int
	done bool
}

// Issues returns a lazy source over the repository's closed issues.
func (c *Client) Issues() *IssueSource {
	return &IssueSource{
		client: c,
		page:   1,
	}
}

// Next returns the next closed issue, fetching a fresh page when the buffer
// runs dry. It returns pipeline.ErrSourceExhausted once the listing ends or
// the updated-since bound is crossed.
func (s *IssueSource) Next(ctx context.Context) (domain.Issue, error) {
	for len(s.buf) == 0 {
		if s.done {
			return domain.Issue{}, pipeline.ErrSourceExhausted
		}

		if err := s.fetchPage(ctx); err != nil {
			return domain.Issue{}, err
		}
	}

	issue := s.buf[0]
	s.buf = s.buf[1:]

	return issue, nil
}

func (s *IssueSource) fetchPage(ctx context.Context) error {
	query := url.Values{}
	query.Set("state", "closed")
	query.Set("sort", "updated")
	query.Set("direction", "desc")
	query.Set("per_page", strconv.Itoa(s.client.cfg.PageSize))
	query.Set("page", strconv.Itoa(s.page))

	var raw []apiIssue

	path := fmt.Sprintf("/repos/%s/issues", s.client.cfg.Repo)
	if err := s.client.get(ctx, path, query, &raw); err != nil {
		observability.SourcePages.WithLabelValues("error").Inc()

		return fmt.Errorf("list issues page %d: %w", s.page, err)
	}

	observability.SourcePages.WithLabelValues("ok").Inc()

	s.client.logger.Debug().
		Int("page", s.page).
		Int("items", len(raw)).
		Msg("Fetched issues page")

	if len(raw) < s.client.cfg.PageSize {
		s.done = true
	}

	s.page++

	since := s.client.cfg.UpdatedSince

	for _, item := range raw {
		if item.PullRequest != nil {
			continue
		}

		// Results are sorted by update time descending, so the first issue
		// older than the bound ends the walk.
		if !since.IsZero() && item.UpdatedAt.Before(since) {
			s.done = true

			break
		}

		s.buf = append(s.buf, domain.Issue{
			ID:        item.ID,
			Number:    item.Number,
			URL:       item.HTMLURL,
			Title:     item.Title,
			Body:      item.Body,
			UpdatedAt: item.UpdatedAt,
		})
	}

	return nil
}
