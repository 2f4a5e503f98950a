// Copyright 2025 Grimorio Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Service identifies an AI service backend.
// It is resolved once at construction and passed down explicitly;
// nothing reads it from ambient state mid-call.
type Service string

const (
	// ServiceOpenAI selects an OpenAI or OpenAI-compatible backend.
	ServiceOpenAI Service = "openai"

	// ServiceGoogleAI selects the Google Gemini backend, reached through
	// its OpenAI-compatible endpoint.
	ServiceGoogleAI Service = "googleai"
)

// googleAIHost is the OpenAI-compatible endpoint of the Gemini API.
const googleAIHost = "https://generativelanguage.googleapis.com/v1beta/openai"

// Config holds configuration for AI service providers.
type Config struct {
	// Service selects the backend. Default: ServiceOpenAI.
	Service Service

	// APIKey authenticates against the backend.
	// Optional for OpenAI-compatible local services reached via Host.
	APIKey string

	// Host overrides the base URL of the backend API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server.
	Host string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-3-small", "text-embedding-004"
	EmbeddingModel string

	// ChatModel is the model identifier to use for answer generation.
	// Example: "gpt-4o-mini", "gemini-2.0-flash"
	ChatModel string

	// EmbeddingDimensions is the vector length produced by EmbeddingModel.
	// Must match the dimensionality the chunk store was populated with.
	EmbeddingDimensions int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithService selects the AI service backend.
func WithService(service Service) ConfigOption {
	return func(c *Config) {
		c.Service = service
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithHost overrides the backend base URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithChatModel sets the chat model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithEmbeddingDimensions sets the embedding vector length.
func WithEmbeddingDimensions(dim int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingDimensions = dim
	}
}

// DefaultConfig returns a Config with OpenAI defaults.
func DefaultConfig() *Config {
	return NewConfig()
}

// NewConfig creates a Config, applies the provided options, and fills in
// service-specific defaults for anything left unset.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithService(ai.ServiceGoogleAI),
//	    ai.WithAPIKey(os.Getenv("GOOGLE_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := &Config{Service: ServiceOpenAI}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	switch c.Service {
	case ServiceGoogleAI:
		if c.Host == "" {
			c.Host = googleAIHost
		}
		if c.EmbeddingModel == "" {
			c.EmbeddingModel = "text-embedding-004"
		}
		if c.ChatModel == "" {
			c.ChatModel = "gemini-2.0-flash"
		}
		if c.EmbeddingDimensions == 0 {
			c.EmbeddingDimensions = 768
		}
	default:
		if c.EmbeddingModel == "" {
			c.EmbeddingModel = "text-embedding-3-small"
		}
		if c.ChatModel == "" {
			c.ChatModel = "gpt-4o-mini"
		}
		if c.EmbeddingDimensions == 0 {
			c.EmbeddingDimensions = 1536
		}
	}
}

// Normalize ensures the configuration is in a canonical form.
// For OpenAI-compatible hosts it adds the /v1 suffix if missing, which is
// required by most such APIs (Ollama, LocalAI, vLLM, etc). The Gemini
// OpenAI-compatible endpoint has its own path and is left untouched.
func (c *Config) Normalize() {
	if c.Service == ServiceOpenAI && c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
// Configuration problems surface here, at construction time, never mid-search.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Service {
	case ServiceOpenAI, ServiceGoogleAI:
	default:
		return fmt.Errorf("ai config: unknown service %q", c.Service)
	}

	if c.Service == ServiceGoogleAI && c.APIKey == "" {
		return errors.New("ai config: APIKey is required for the googleai service")
	}
	if c.Service == ServiceOpenAI && c.APIKey == "" && c.Host == "" {
		return errors.New("ai config: APIKey is required unless a local Host is set")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.ChatModel == "" {
		return errors.New("ai config: ChatModel is required")
	}
	if c.EmbeddingDimensions <= 0 {
		return errors.New("ai config: EmbeddingDimensions must be positive")
	}
	return nil
}
