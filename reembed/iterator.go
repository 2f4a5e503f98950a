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


package reembed

import (
	"context"

	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/storage"
)

const (
	// DefaultBatchSize is the default number of chunks to process in each batch
	DefaultBatchSize = 100
)

// ChunkIterator iterates over all stored chunks in batches, document by
// document.
type ChunkIterator struct {
	chunks    storage.ChunkRepository
	documents storage.DocumentRepository
	batchSize int
}

// NewChunkIterator creates a new chunk iterator.
// batchSize: number of chunks to process in each batch (must be > 0)
func NewChunkIterator(chunks storage.ChunkRepository, documents storage.DocumentRepository, batchSize int) *ChunkIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ChunkIterator{
		chunks:    chunks,
		documents: documents,
		batchSize: batchSize,
	}
}

// ForEach iterates over all chunks, calling fn for each batch.
// Iteration stops on first error from fn or when all chunks are processed.
// Context cancellation is checked between batches.
func (it *ChunkIterator) ForEach(ctx context.Context, fn func([]*core.Chunk) error) error {
	// Check context before starting
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	documents, err := it.documents.ListDocuments(ctx)
	if err != nil {
		return err
	}

	for _, document := range documents {
		chunks, err := it.chunks.GetChunksByDocument(ctx, document.Id)
		if err != nil {
			return err
		}

		// Process the document's chunks in batches of batchSize
		for i := 0; i < len(chunks); i += it.batchSize {
			end := i + it.batchSize
			if end > len(chunks) {
				end = len(chunks)
			}

			if err := fn(chunks[i:end]); err != nil {
				return err
			}

			// Check context after each batch
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	}

	return nil
}
