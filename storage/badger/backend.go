package badger

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/storage"
)

const (
	defaultSequenceBandwidth = 100
)

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Backend{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// GetSequence returns a BadgerDB sequence for generating sequential IDs.
func (b *Backend) GetSequence(name string) (*badger.Sequence, error) {
	return b.db.GetSequence([]byte(name), defaultSequenceBandwidth)
}

// WithTransaction executes a function within a transaction.
// Implements the storage.Repository transaction contract.
func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return b.WithTx(func(tx *badger.Txn) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// FindSimilar finds chunks whose embedding vectors are similar to the given
// vector. Stored vectors are normalized at ingestion and the query vector is
// normalized here, so the dot product is the cosine similarity.
func (b *Backend) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.RetrievalResult, error) {
	vector = core.NormalizeVector(vector)

	var results []*core.RetrievalResult

	err := b.forEachChunk(func(chunk *core.Chunk) error {
		// Skip chunks without embeddings
		if len(chunk.Vector) == 0 {
			return nil
		}

		similarity := core.DotProduct(vector, chunk.Vector)
		if similarity >= minSimilarity {
			results = append(results, &core.RetrievalResult{
				Chunk: chunk,
				Score: similarity,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortByScore(results)

	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// FindByKeywords finds chunks whose contents contain any of the given key
// terms. The score is the fraction of terms present in the chunk.
func (b *Backend) FindByKeywords(ctx context.Context, terms []string, limit int) ([]*core.RetrievalResult, error) {
	if len(terms) == 0 {
		return []*core.RetrievalResult{}, nil
	}

	lowered := make([]string, len(terms))
	for i, term := range terms {
		lowered[i] = strings.ToLower(term)
	}

	var results []*core.RetrievalResult

	err := b.forEachChunk(func(chunk *core.Chunk) error {
		contents := strings.ToLower(chunk.Contents)

		matches := 0
		for _, term := range lowered {
			if strings.Contains(contents, term) {
				matches++
			}
		}
		if matches == 0 {
			return nil
		}

		results = append(results, &core.RetrievalResult{
			Chunk: chunk,
			Score: float32(matches) / float32(len(lowered)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortByScore(results)

	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// forEachChunk iterates over all stored chunk records.
func (b *Backend) forEachChunk(fn func(chunk *core.Chunk) error) error {
	return b.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			key := item.Key()

			// Skip the sequence key, which shares the record prefix
			if bytes.Equal(key, []byte(chunkIDSeq)) {
				continue
			}

			var chunk *core.Chunk
			err := item.Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk == nil {
				continue
			}

			if err := fn(chunk); err != nil {
				return err
			}
		}

		return nil
	}, false)
}

// sortByScore sorts retrieval results by score descending.
func sortByScore(results []*core.RetrievalResult) {
	slices.SortFunc(results, func(a, b *core.RetrievalResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
}
