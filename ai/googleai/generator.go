package googleai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/grimorio/docsearch/ai"
)

// Generation parameters mirror the OpenAI provider so switching backends
// doesn't change answer behavior.
const (
	generationTemperature = 0.1
	generationMaxTokens   = 1000
)

// Generator implements ai.Generator using the Gemini chat API, reached
// through its OpenAI-compatible endpoint.
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

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "googleai-generator"),
	}, nil
}

// NewGenerator creates a new answer generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate returns the model's response for the given prompt.
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
