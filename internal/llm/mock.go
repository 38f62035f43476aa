package llm

import (
	"context"
	"strings"
)

// mockClient is an offline Client for dry runs and tests. It answers true
// when the comment text looks like a resolution, without calling any API.
type mockClient struct {
	model string
}

func (m *mockClient) Model() string {
	return m.model
}

func (m *mockClient) AssessAnswer(_ context.Context, prompt string) (bool, error) {
	lower := strings.ToLower(prompt)

	for _, marker := range []string{"fixed", "resolved", "works now", "solution"} {
		if strings.Contains(lower, marker) {
			return true, nil
		}
	}

	return false, nil
}
