package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/grimorio/docsearch/ai"
	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/storage"
)

// BatchProcessor handles embedding generation for batches of chunks.
type BatchProcessor struct {
	repo           storage.ChunkRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.ChunkRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of chunks and updates them in the database.
// Vectors are normalized after embedding to ensure compatibility with cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, chunks []*core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	// Extract text content
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Contents
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	// Normalize vectors and assign to chunks
	for i := range chunks {
		chunks[i].Vector = core.NormalizeVector(embeddings[i])
	}

	// Update chunks in database
	_, err = bp.repo.UpdateChunks(ctx, chunks...)
	if err != nil {
		return fmt.Errorf("failed to update chunks: %w", err)
	}

	return nil
}
