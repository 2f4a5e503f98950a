// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Generator,
// and ai.Provider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockGenerator := mock.NewMockGenerator()
//	mockGenerator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
//	    return "canned answer", nil
//	}
//
//	// Check call counts
//	count := mockGenerator.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockGenerator: Returns a fixed canned answer
//   - MockProvider: Aggregates mock embedder and generator
package mock
