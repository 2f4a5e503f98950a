package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Run("openai defaults", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("sk-test"))
		assert.Equal(t, ServiceOpenAI, cfg.Service)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
		assert.Equal(t, 1536, cfg.EmbeddingDimensions)
		assert.Empty(t, cfg.Host)
	})

	t.Run("googleai defaults", func(t *testing.T) {
		cfg := NewConfig(WithService(ServiceGoogleAI), WithAPIKey("g-test"))
		assert.Equal(t, "text-embedding-004", cfg.EmbeddingModel)
		assert.Equal(t, "gemini-2.0-flash", cfg.ChatModel)
		assert.Equal(t, 768, cfg.EmbeddingDimensions)
		assert.Equal(t, googleAIHost, cfg.Host)
	})

	t.Run("options override defaults", func(t *testing.T) {
		cfg := NewConfig(
			WithAPIKey("sk-test"),
			WithEmbeddingModel("custom-embed"),
			WithChatModel("custom-chat"),
			WithEmbeddingDimensions(512),
		)
		assert.Equal(t, "custom-embed", cfg.EmbeddingModel)
		assert.Equal(t, "custom-chat", cfg.ChatModel)
		assert.Equal(t, 512, cfg.EmbeddingDimensions)
	})
}

func TestConfig_Normalize(t *testing.T) {
	t.Run("adds v1 suffix for openai hosts", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("keeps existing v1 suffix", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/v1"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("strips trailing slash", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("gemini endpoint untouched", func(t *testing.T) {
		cfg := NewConfig(WithService(ServiceGoogleAI), WithAPIKey("g-test"))
		cfg.Normalize()
		assert.Equal(t, googleAIHost, cfg.Host)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid openai with key", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("sk-test"))
		require.NoError(t, cfg.Validate())
	})

	t.Run("valid openai local host without key", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		require.NoError(t, cfg.Validate())
	})

	t.Run("openai without key or host", func(t *testing.T) {
		cfg := NewConfig()
		assert.Error(t, cfg.Validate())
	})

	t.Run("googleai requires key", func(t *testing.T) {
		cfg := NewConfig(WithService(ServiceGoogleAI))
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown service", func(t *testing.T) {
		cfg := NewConfig(WithService(Service("mystery")), WithAPIKey("x"))
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid dimensions", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("sk-test"))
		cfg.EmbeddingDimensions = -1
		assert.Error(t, cfg.Validate())
	})
}
