package storage

import (
	"context"

	"github.com/grimorio/docsearch/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkRepository provides operations for managing document chunks,
// including the two retrieval primitives composed by hybrid search.
type ChunkRepository interface {
	Repository

	// AddChunks adds one or more chunks to storage.
	// For chunks with ID=0, generates new IDs from sequence.
	// Computes the content fingerprint if unset and sets the InsertedAt
	// timestamp. Returns the chunks with IDs and timestamps populated.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// UpdateChunks updates existing chunks.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// DeleteChunks removes chunks by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any chunk doesn't exist.
	DeleteChunks(ctx context.Context, ids ...core.ID) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunks retrieves multiple chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error)

	// GetChunksByDocument retrieves all chunks of a document, ordered by
	// their ordinal index.
	GetChunksByDocument(ctx context.Context, documentID core.ID) ([]*core.Chunk, error)

	// HasFingerprint reports whether a chunk with the given content
	// fingerprint is already stored.
	HasFingerprint(ctx context.Context, fingerprint core.ID) (bool, error)

	// CountChunks returns the total number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// FindSimilar finds chunks whose embedding vectors are similar to the
	// given vector. Returns chunks with similarity >= minSimilarity, up to
	// limit results, ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.RetrievalResult, error)

	// FindByKeywords finds chunks whose contents contain any of the given
	// key terms. The score of each result is the fraction of terms matched
	// (matched/total). Returns up to limit results ordered by score
	// (highest first). An empty term list yields an empty result.
	FindByKeywords(ctx context.Context, terms []string, limit int) ([]*core.RetrievalResult, error)
}

// DocumentRepository provides operations for managing documents.
type DocumentRepository interface {
	Repository

	// AddDocument adds a document to storage.
	// Generates an ID from sequence and sets the InsertedAt timestamp.
	AddDocument(ctx context.Context, document *core.Document) (*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// ListDocuments retrieves all documents ordered by insertion time.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// DeleteDocument removes a document by ID.
	// Chunks of the document are removed by the caller via ChunkRepository.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id core.ID) error

	// CountDocuments returns the total number of stored documents.
	CountDocuments(ctx context.Context) (int, error)
}

// HistoryRepository provides operations for the search-history log.
// History is observability, not correctness: callers treat failures here
// as non-fatal.
type HistoryRepository interface {
	Repository

	// AddSearchRecord appends a search record to the history log.
	// Generates an ID from sequence and sets the InsertedAt timestamp.
	AddSearchRecord(ctx context.Context, record *core.SearchRecord) (*core.SearchRecord, error)

	// GetRecentSearches retrieves the N most recent search records,
	// most recent first.
	GetRecentSearches(ctx context.Context, limit int) ([]*core.SearchRecord, error)
}
