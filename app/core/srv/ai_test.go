package srv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postpilot-ai/postpilot/pkg/ai"
)

func TestSetupAIEmptyConfig(t *testing.T) {
	a, err := SetupAI(AIConfig{})
	require.NoError(t, err)
	assert.Nil(t, a.GetChatAI())
	assert.Nil(t, a.GetEmbedAI())
	assert.Nil(t, a.GetVisionAI())
}

func TestSetupAIProviderDefaults(t *testing.T) {
	a, err := SetupAI(AIConfig{
		Providers: []ProviderConfig{
			{
				Name:   "groq",
				Driver: "openai",
				Token:  "test-token",
				Models: ai.ModelName{ChatModel: "llama-3.1-8b-instant"},
			},
			{
				Name:      "openai",
				Driver:    "openai",
				Token:     "test-token",
				Dimension: 768,
			},
		},
		Usage: Usage{
			Chat:      "groq",
			Embedding: "openai",
			Vision:    "openai",
		},
	})
	require.NoError(t, err)
	assert.NotNil(t, a.GetChatAI())
	assert.NotNil(t, a.GetEmbedAI())
	assert.NotNil(t, a.GetVisionAI())
	assert.Equal(t, 768, a.GetEmbedAI().Dimension())
}

func TestSetupAIUnknownUsageProvider(t *testing.T) {
	_, err := SetupAI(AIConfig{
		Providers: []ProviderConfig{
			{Name: "openai", Driver: "openai", Token: "t"},
		},
		Usage: Usage{Chat: "missing"},
	})
	assert.Error(t, err)
}

func TestSetupAIUnknownDriver(t *testing.T) {
	_, err := SetupAI(AIConfig{
		Providers: []ProviderConfig{
			{Name: "x", Driver: "weird"},
		},
	})
	assert.Error(t, err)
}
