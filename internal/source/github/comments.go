package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type apiComment struct {
	Body string `json:"body"`
}

// LastComments returns up to the last two comment bodies of an issue, most
// recent last. An issue with no comments yields an empty slice.
func (c *Client) LastComments(ctx context.Context, issueNumber int) ([]string, error) {
	var tail []apiComment

	page := 1

	for {
		query := url.Values{}
		query.Set("per_page", strconv.Itoa(maxPageSize))
		query.Set("page", strconv.Itoa(page))

		var raw []apiComment

		path := fmt.Sprintf("/repos/%s/issues/%d/comments", c.cfg.Repo, issueNumber)
		if err := c.get(ctx, path, query, &raw); err != nil {
			return nil, fmt.Errorf("list comments for issue %d: %w", issueNumber, err)
		}

		tail = append(tail, raw...)
		if len(tail) > 2 {
			tail = tail[len(tail)-2:]
		}

		if len(raw) < maxPageSize {
			break
		}

		page++
	}

	bodies := make([]string, 0, len(tail))

	for _, comment := range tail {
		if body := strings.TrimSpace(comment.Body); body != "" {
			bodies = append(bodies, body)
		}
	}

	return bodies, nil
}
