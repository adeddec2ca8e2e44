package ai

import (
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFactsJSON(t *testing.T) {
	facts, err := ParseFactsJSON(`{"date":"2025-03-15","venue":"City Hall","topic":"Launch event"}`)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15", facts["date"])
	assert.Equal(t, "City Hall", facts["venue"])
}

func TestParseFactsJSONWithFences(t *testing.T) {
	raw := "```json\n{\"date\":\"Unknown\",\"topic\":\"Behind the scenes\"}\n```"
	facts, err := ParseFactsJSON(raw)
	require.NoError(t, err)

	// unknown values are dropped, not stored
	_, ok := facts["date"]
	assert.False(t, ok)
	assert.Equal(t, "Behind the scenes", facts["topic"])
}

func TestParseFactsJSONNoObject(t *testing.T) {
	_, err := ParseFactsJSON("sorry, I cannot help with that")
	assert.Error(t, err)
}

func TestCountTokens(t *testing.T) {
	n := CountTokens("When is the next event happening?", "gpt-4o-mini")
	assert.Greater(t, n, 0)
	assert.Less(t, n, 20)
}

func TestNumTokensGrowsWithContent(t *testing.T) {
	short, err := NumTokens([]openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: "hi"},
	}, "gpt-4o-mini")
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}

	long, err := NumTokens([]openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: "hi, I was wondering when the next community event is and where it will be held"},
	}, "gpt-4o-mini")
	require.NoError(t, err)

	assert.Greater(t, long, short)
}
