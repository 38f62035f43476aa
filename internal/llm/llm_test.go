package llm

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuesift/issuesift/internal/platform/config"
)

func TestNew_KeylessSelectsMock(t *testing.T) {
	logger := zerolog.Nop()

	for _, key := range []string{"", "mock"} {
		client := New(config.LLMConfig{APIKey: key, Model: "gpt-4o-mini"}, &logger)

		_, ok := client.(*mockClient)
		assert.True(t, ok, "key %q should select the mock client", key)
		assert.Equal(t, "gpt-4o-mini", client.Model())
	}
}

func TestNew_RealKeySelectsOpenAI(t *testing.T) {
	logger := zerolog.Nop()

	client := New(config.LLMConfig{APIKey: "sk-test", Model: "gpt-4o-mini", RateLimitRPS: 1}, &logger)

	_, ok := client.(*openaiClient)
	assert.True(t, ok)
}

func TestMockClient_AssessAnswer(t *testing.T) {
	logger := zerolog.Nop()
	client := New(config.LLMConfig{Model: "gpt-4o-mini"}, &logger)

	answered, err := client.AssessAnswer(context.Background(), "Upgrading to v2.1 fixed it for me")
	require.NoError(t, err)
	assert.True(t, answered)

	answered, err = client.AssessAnswer(context.Background(), "Any update on this?")
	require.NoError(t, err)
	assert.False(t, answered)
}
