package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAssessmentPrompt_EmptyBody(t *testing.T) {
	prompt := BuildAssessmentPrompt("crash on import", "  ", "try reinstalling")

	assert.Contains(t, prompt, "crash on import")
	assert.Contains(t, prompt, noBodyPlaceholder)
	assert.Contains(t, prompt, "try reinstalling")
}

func TestParseBoolVerdict(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"True.", true},
		{"  FALSE\n", false},
		{"false", false},
		{"yes", true},
		{"no, it does not", false},
		{"True, the last comment resolves it", true},
	}

	for _, tt := range tests {
		got, err := parseBoolVerdict(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseBoolVerdict_Unparseable(t *testing.T) {
	_, err := parseBoolVerdict("the comment explains a workaround")
	require.ErrorIs(t, err, errUnparseableVerdict)
}
