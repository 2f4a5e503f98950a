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


package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/grimorio/docsearch/ai"
)

// Generation parameters. Low temperature keeps answers grounded in the
// provided context instead of inventing detail.
const (
	generationTemperature = 0.1
	generationMaxTokens   = 1000
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication.
	token := config.APIKey
	if token == "" {
		token = "none"
	}

	clientOpts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(config.ChatModel),
	}
	if config.Host != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(config.Host))
	}

	client, err := openai.New(clientOpts...)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new answer generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate returns the model's response for the given prompt.
// The prompt is sent as-is; callers own prompt assembly and budgeting.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating answer", "promptLength", len(prompt))

	response, err := llms.GenerateFromSinglePrompt(ctx, g.client, prompt,
		llms.WithTemperature(generationTemperature),
		llms.WithMaxTokens(generationMaxTokens),
	)
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	return strings.TrimSpace(response), nil
}
