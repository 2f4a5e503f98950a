package mock

import "context"

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, returns a fixed canned answer.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	callCount int
}

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a canned answer, or delegates to GenerateFunc if set.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount++

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}

	return "mock answer", nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateFunc = nil
}
