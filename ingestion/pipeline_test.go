package ingestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimorio/docsearch/ai/mock"
	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/storage/badger"
)

func TestNewPipeline(t *testing.T) {
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
		pipeline, err := NewPipeline(chunkRepo, documentRepo, provider)
		require.NoError(t, err)
		defer pipeline.Release()
		assert.NotNil(t, pipeline)
	})

	t.Run("with pool size", func(t *testing.T) {
		pipeline, err := NewPipeline(chunkRepo, documentRepo, provider, WithPoolSize(2))
		require.NoError(t, err)
		defer pipeline.Release()
		assert.NotNil(t, pipeline)
	})

	t.Run("nil chunk repository", func(t *testing.T) {
		_, err := NewPipeline(nil, documentRepo, provider)
		assert.Equal(t, ErrChunkRepositoryRequired, err)
	})

	t.Run("nil document repository", func(t *testing.T) {
		_, err := NewPipeline(chunkRepo, nil, provider)
		assert.Equal(t, ErrDocumentRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewPipeline(chunkRepo, documentRepo, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})
}

func TestIngestDocument(t *testing.T) {
	chunkRepo, documentRepo, historyRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		historyRepo.Close()
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	provider := mock.NewMockProvider()

	pipeline, err := NewPipeline(chunkRepo, documentRepo, provider)
	require.NoError(t, err)
	defer pipeline.Release()

	inputs := []ChunkInput{
		{Contents: "O prazo de entrega é de 30 dias.", PageNumber: 1},
		{Contents: "A multa por atraso é de 2% ao mês.", PageNumber: 2},
	}

	document, added, err := pipeline.IngestDocument(ctx, "contrato.pdf", "/docs/contrato.pdf", 2, inputs)
	require.NoError(t, err)
	require.NotNil(t, document)
	assert.NotZero(t, document.Id)
	require.Len(t, added, 2)

	// Wait for async embedding to land
	pipeline.Wait()

	chunks, err := chunkRepo.GetChunksByDocument(ctx, document.Id)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk.Vector, "chunk %d should be embedded", chunk.Id)
		assert.NotZero(t, chunk.Fingerprint)
	}
}

func TestIngestDocument_SkipsDuplicates(t *testing.T) {
	chunkRepo, documentRepo, historyRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		historyRepo.Close()
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	provider := mock.NewMockProvider()

	pipeline, err := NewPipeline(chunkRepo, documentRepo, provider)
	require.NoError(t, err)
	defer pipeline.Release()

	inputs := []ChunkInput{{Contents: "conteúdo repetido", PageNumber: 1}}

	_, added, err := pipeline.IngestDocument(ctx, "original.pdf", "", 1, inputs)
	require.NoError(t, err)
	require.Len(t, added, 1)
	pipeline.Wait()

	// Re-ingesting the same content adds nothing
	_, added, err = pipeline.IngestDocument(ctx, "reenvio.pdf", "", 1, inputs)
	require.NoError(t, err)
	assert.Empty(t, added)

	count, err := chunkRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngestDocument_Validation(t *testing.T) {
	chunkRepo, documentRepo, historyRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		historyRepo.Close()
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	provider := mock.NewMockProvider()

	pipeline, err := NewPipeline(chunkRepo, documentRepo, provider)
	require.NoError(t, err)
	defer pipeline.Release()

	t.Run("empty document name", func(t *testing.T) {
		_, _, err := pipeline.IngestDocument(ctx, "", "", 1, nil)
		assert.ErrorIs(t, err, core.ErrInvalidDocument)
	})

	t.Run("empty chunk contents", func(t *testing.T) {
		_, _, err := pipeline.IngestDocument(ctx, "doc.pdf", "", 1, []ChunkInput{{Contents: ""}})
		assert.ErrorIs(t, err, core.ErrInvalidChunk)
	})
}
