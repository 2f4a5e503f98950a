package search

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimorio/docsearch/ai/mock"
	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/storage"
	"github.com/grimorio/docsearch/storage/badger"
)

func TestNewSearcher(t *testing.T) {
	chunkRepo, documentRepo, historyRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		historyRepo.Close()
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(chunkRepo, historyRepo, provider)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil history disables logging", func(t *testing.T) {
		searcher, err := NewSearcher(chunkRepo, nil, provider)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with custom logger", func(t *testing.T) {
		searcher, err := NewSearcher(chunkRepo, historyRepo, provider, WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil chunk repository", func(t *testing.T) {
		_, err := NewSearcher(nil, historyRepo, provider)
		assert.Equal(t, ErrChunkRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewSearcher(chunkRepo, historyRepo, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})
}

func TestAsk_EmptyQuestion(t *testing.T) {
	chunkRepo, documentRepo, historyRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		historyRepo.Close()
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	provider := mock.NewMockProvider()
	searcher, err := NewSearcher(chunkRepo, historyRepo, provider)
	require.NoError(t, err)

	ctx := context.Background()

	for _, question := range []string{"", "   ", "\t\n"} {
		_, err := searcher.Ask(ctx, question)
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	}
}

func TestAsk_FallbackWithoutGeneratorCall(t *testing.T) {
	chunkRepo, documentRepo, historyRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		historyRepo.Close()
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	mockGenerator := mock.NewMockGenerator()
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), mockGenerator)

	searcher, err := NewSearcher(chunkRepo, historyRepo, provider)
	require.NoError(t, err)

	ctx := context.Background()

	// Empty database: nothing can be retrieved
	response, err := searcher.Ask(ctx, "Qual o faturamento da empresa?")
	require.NoError(t, err)

	assert.Equal(t, FallbackAnswer, response.Answer)
	assert.Empty(t, response.Results)
	// The generation model is never consulted on the fallback path
	assert.Equal(t, 0, mockGenerator.CallCount())

	// The fallback run is still recorded in history
	records, err := historyRepo.GetRecentSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, FallbackAnswer, records[0].Answer)
	assert.Equal(t, 0, records[0].ResultCount)
}

func TestAsk_AnswersFromContext(t *testing.T) {
	chunkRepo, documentRepo, historyRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		historyRepo.Close()
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	_, err = chunkRepo.AddChunks(ctx,
		&core.Chunk{
			DocumentId: 1, Index: 0, PageNumber: 3,
			Contents: "O faturamento da empresa Alfa foi de R$ 10 milhões.",
			Vector:   core.NormalizeVector([]float32{0.9, 0.1, 0}),
		},
		&core.Chunk{
			DocumentId: 1, Index: 1, PageNumber: 4,
			Contents: "A empresa Alfa possui 200 funcionários.",
			Vector:   core.NormalizeVector([]float32{0.7, 0.3, 0}),
		},
	)
	require.NoError(t, err)

	mockEmbedder := mock.NewMockEmbedder()
	mockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return core.NormalizeVector([]float32{1, 0, 0}), nil
	}

	var capturedPrompt string
	mockGenerator := mock.NewMockGenerator()
	mockGenerator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		capturedPrompt = prompt
		return "O faturamento foi de R$ 10 milhões.", nil
	}

	provider := mock.NewMockProviderWithServices(mockEmbedder, mockGenerator)
	searcher, err := NewSearcher(chunkRepo, historyRepo, provider)
	require.NoError(t, err)

	response, err := searcher.Ask(ctx, "Qual o faturamento da empresa Alfa?")
	require.NoError(t, err)

	assert.Equal(t, "O faturamento foi de R$ 10 milhões.", response.Answer)
	assert.NotEmpty(t, response.Results)
	assert.Equal(t, 1, mockGenerator.CallCount())

	// The prompt carries the retrieved context and the question
	assert.Contains(t, capturedPrompt, "R$ 10 milhões")
	assert.Contains(t, capturedPrompt, "Qual o faturamento da empresa Alfa?")

	// History records the run
	records, err := historyRepo.GetRecentSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Qual o faturamento da empresa Alfa?", records[0].Question)
	assert.Equal(t, len(response.Results), records[0].ResultCount)
}

// failingHistory always errors on writes.
type failingHistory struct {
	storage.HistoryRepository
}

func (f *failingHistory) AddSearchRecord(ctx context.Context, record *core.SearchRecord) (*core.SearchRecord, error) {
	return nil, errors.New("history unavailable")
}

func TestAsk_HistoryFailureIsNotFatal(t *testing.T) {
	chunkRepo, documentRepo, historyRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		historyRepo.Close()
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	provider := mock.NewMockProvider()
	searcher, err := NewSearcher(chunkRepo, &failingHistory{}, provider)
	require.NoError(t, err)

	response, err := searcher.Ask(context.Background(), "uma pergunta qualquer")
	require.NoError(t, err)
	assert.Equal(t, FallbackAnswer, response.Answer)
}

type recordingMonitor struct {
	started   bool
	fallback  bool
	finished  string
	retrieved int
}

func (m *recordingMonitor) Start(_ string)                            { m.started = true }
func (m *recordingMonitor) AfterEmbedding(_ []float32)                {}
func (m *recordingMonitor) AfterTermExtraction(_ []string)            {}
func (m *recordingMonitor) AfterRetrieval(r []*core.RetrievalResult)  { m.retrieved = len(r) }
func (m *recordingMonitor) AfterTruncation(_ []core.ContextItem)      {}
func (m *recordingMonitor) FallbackTaken(_ string)                    { m.fallback = true }
func (m *recordingMonitor) Finish(answer string)                      { m.finished = answer }

func TestAskWithMonitor(t *testing.T) {
	chunkRepo, documentRepo, historyRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		historyRepo.Close()
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	provider := mock.NewMockProvider()
	searcher, err := NewSearcher(chunkRepo, historyRepo, provider)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	response, err := searcher.AskWithMonitor(context.Background(), "pergunta", monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.True(t, monitor.fallback)
	assert.Equal(t, 0, monitor.retrieved)
	assert.Equal(t, response.Answer, monitor.finished)
}
