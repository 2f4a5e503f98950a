package reembed

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimorio/docsearch/ai/mock"
	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/storage/badger"
)

func TestReembedder_Run(t *testing.T) {
	chunkRepo, documentRepo, historyRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		historyRepo.Close()
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	document, err := documentRepo.AddDocument(ctx, &core.Document{Name: "manual.pdf"})
	require.NoError(t, err)

	_, err = chunkRepo.AddChunks(ctx,
		&core.Chunk{DocumentId: document.Id, Index: 0, Contents: "primeiro trecho", Vector: []float32{1, 0}},
		&core.Chunk{DocumentId: document.Id, Index: 1, Contents: "segundo trecho", Vector: []float32{0, 1}},
	)
	require.NoError(t, err)

	// New embedder produces a different, fixed vector
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{3, 4, 0}
		}
		return vectors, nil
	}

	var buf bytes.Buffer
	config := &Config{BatchSize: 1, ReportInterval: 1, MaxRetries: 2, RetryDelay: time.Millisecond}
	reembedder := NewReembedder(chunkRepo, documentRepo, embedder, config, &buf)

	require.NoError(t, reembedder.Run(ctx))

	chunks, err := chunkRepo.GetChunksByDocument(ctx, document.Id)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, chunk := range chunks {
		// Vectors are replaced and normalized
		require.Len(t, chunk.Vector, 3)
		assert.InDelta(t, 0.6, chunk.Vector[0], 1e-6)
		assert.InDelta(t, 0.8, chunk.Vector[1], 1e-6)
	}

	assert.Contains(t, buf.String(), "Reembedding complete")
}

func TestReembedder_Run_EmptyDatabase(t *testing.T) {
	chunkRepo, documentRepo, historyRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		historyRepo.Close()
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	var buf bytes.Buffer
	reembedder := NewReembedder(chunkRepo, documentRepo, mock.NewMockEmbedder(), nil, &buf)

	require.NoError(t, reembedder.Run(context.Background()))
	assert.Contains(t, buf.String(), "No chunks found")
}
