package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/grimorio/docsearch/ai"
	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/storage"
)

// embeddingProcessor generates embeddings for stored chunks.
type embeddingProcessor struct {
	chunkRepository storage.ChunkRepository
	embedder        ai.Embedder
	lastID          core.ID
	logger          *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

// newEmbeddingProcessor creates a new embedding processor.
func newEmbeddingProcessor(chunkRepository storage.ChunkRepository, embedder ai.Embedder, logger *slog.Logger) (processor, error) {
	if chunkRepository == nil {
		return nil, fmt.Errorf("chunk repository required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		chunkRepository: chunkRepository,
		embedder:        embedder,
		logger:          logger.With("processor", "embeddings"),
	}, nil
}

// process generates embeddings for the specified chunks.
// Vectors are normalized to unit length so similarity search can use a
// plain dot product.
func (ep *embeddingProcessor) process(ctx context.Context, ids ...core.ID) error {
	ep.logger.Info("processing chunks for embeddings", "chunks", len(ids))

	// Sort first so checkpointing works correctly
	slices.Sort(ids)

	chunks, err := ep.chunkRepository.GetChunks(ctx, ids...)
	if err != nil {
		ep.logger.Error("error retrieving chunks", "err", err)
		return err
	}

	// Chunks can disappear between ingest and the async embed
	if len(chunks) == 0 {
		ep.logger.Debug("no chunks left to embed")
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Contents
	}

	ep.logger.Debug("generating embeddings for chunks", "chunks", len(texts))
	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return err
	}

	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(chunks), len(embeddings))
	}

	for i := range embeddings {
		chunks[i].Vector = core.NormalizeVector(embeddings[i])
	}

	updated, err := ep.chunkRepository.UpdateChunks(ctx, chunks...)
	if err != nil {
		return err
	}

	highestID := updated[len(updated)-1].Id
	if highestID > ep.lastID {
		ep.lastID = highestID
	}

	return nil
}

// checkpoint saves the processor's current state.
// Currently unimplemented - reserved for future checkpointing support.
func (ep *embeddingProcessor) checkpoint() error {
	return nil
}
