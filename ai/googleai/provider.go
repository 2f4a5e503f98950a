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


package googleai

import (
	"fmt"
	"log/slog"

	"github.com/grimorio/docsearch/ai"
)

// Provider implements ai.Provider using the Google Gemini API.
// It manages embedder and generator instances.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	generator *Generator
	logger    *slog.Logger
}

// NewProvider creates a new AI provider backed by Google Gemini.
// The config is validated and normalized before use; its Service must be
// ai.ServiceGoogleAI so that Gemini defaults and endpoint are applied.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if config.Service != ai.ServiceGoogleAI {
		return nil, fmt.Errorf("googleai provider requires service %q, got %q", ai.ServiceGoogleAI, config.Service)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	generator, err := newGenerator(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		generator: generator,
		logger:    slog.Default().With("component", "googleai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the answer generation service.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing Google AI provider")
	return nil
}
