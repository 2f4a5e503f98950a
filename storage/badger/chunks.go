package badger

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	idSeq, err := backend.GetSequence(chunkIDSeq)
	if err != nil {
		return nil, err
	}

	return &ChunkRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ChunkRepository) Close() error {
	return r.idSeq.Release()
}

// FindSimilar delegates to the backend.
func (r *ChunkRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.RetrievalResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// FindByKeywords delegates to the backend.
func (r *ChunkRepository) FindByKeywords(ctx context.Context, terms []string, limit int) ([]*core.RetrievalResult, error) {
	return r.backend.FindByKeywords(ctx, terms, limit)
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddChunks adds one or more chunks to storage.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			// Always generate new ID from sequence
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			chunk.Id = core.ID(nextID)
			chunk.EnsureFingerprint()

			chunk.InsertedAt = time.Now().UTC()
			chunk.UpdatedAt = chunk.InsertedAt

			// Store primary record
			key := makeChunkKey(chunk.Id)
			value := storage.MarshalChunk(chunk)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update document index
			docKey := makeChunkDocumentKey(chunk.DocumentId, chunk.Index, chunk.Id)
			if err := tx.Set(docKey, storage.MarshalID(chunk.Id)); err != nil {
				return err
			}

			// Update fingerprint index
			fpKey := makeChunkFingerprintKey(chunk.Fingerprint)
			if err := tx.Set(fpKey, storage.MarshalID(chunk.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// UpdateChunks updates existing chunks.
// Chunk contents are immutable, so the fingerprint and document indices
// never move; only the record itself is rewritten.
func (r *ChunkRepository) UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			key := makeChunkKey(chunk.Id)

			old, err := r.readChunk(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			chunk.UpdatedAt = time.Now().UTC()

			value := storage.MarshalChunk(chunk)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// DeleteChunks removes chunks by their IDs.
func (r *ChunkRepository) DeleteChunks(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeChunkKey(id)

			old, err := r.readChunk(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
			if err := tx.Delete(makeChunkDocumentKey(old.DocumentId, old.Index, old.Id)); err != nil {
				return err
			}
			if err := tx.Delete(makeChunkFingerprintKey(old.Fingerprint)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error) {
	var chunk *core.Chunk

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		chunk, err = r.readChunk(tx, makeChunkKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, storage.ErrNotFound
	}

	return chunk, nil
}

// GetChunks retrieves multiple chunks by their IDs.
// Missing chunks are skipped without error.
func (r *ChunkRepository) GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error) {
	chunks := make([]*core.Chunk, 0, len(ids))

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			chunk, err := r.readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk != nil {
				chunks = append(chunks, chunk)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return chunks, nil
}

// GetChunksByDocument retrieves all chunks of a document ordered by index.
// The document index key embeds the ordinal index in BigEndian, so key
// order is index order.
func (r *ChunkRepository) GetChunksByDocument(ctx context.Context, documentID core.ID) ([]*core.Chunk, error) {
	var chunks []*core.Chunk

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialChunkDocumentKey(documentID)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunkID core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunkID, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			chunk, err := r.readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			if chunk != nil {
				chunks = append(chunks, chunk)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return chunks, nil
}

// HasFingerprint reports whether a chunk with the given fingerprint exists.
func (r *ChunkRepository) HasFingerprint(ctx context.Context, fingerprint core.ID) (bool, error) {
	var found bool

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeChunkFingerprintKey(fingerprint))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	}, false)
	if err != nil {
		return false, err
	}

	return found, nil
}

// CountChunks returns the total number of stored chunks.
func (r *ChunkRepository) CountChunks(ctx context.Context) (int, error) {
	count := 0

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			// The sequence key shares the record prefix
			if bytes.Equal(iter.Item().Key(), []byte(chunkIDSeq)) {
				continue
			}
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// readChunk reads and unmarshals a chunk from the transaction.
// Returns nil (no error) if the key doesn't exist.
func (r *ChunkRepository) readChunk(tx *badger.Txn, key []byte) (*core.Chunk, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var chunk *core.Chunk
	err = item.Value(func(val []byte) error {
		var err error
		chunk, err = storage.UnmarshalChunk(val)
		return err
	})
	if err != nil {
		return nil, err
	}

	return chunk, nil
}
