package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	idSeq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		return nil, err
	}

	return &DocumentRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *DocumentRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddDocument adds a document to storage.
func (r *DocumentRepository) AddDocument(ctx context.Context, document *core.Document) (*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
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
		document.Id = core.ID(nextID)

		document.InsertedAt = time.Now().UTC()
		document.UpdatedAt = document.InsertedAt

		key := makeDocumentKey(document.Id)
		if err := tx.Set(key, storage.MarshalDocument(document)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return document, err
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var document *core.Document

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		document, err = r.readDocument(tx, makeDocumentKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, storage.ErrNotFound
	}

	return document, nil
}

// ListDocuments retrieves all documents ordered by insertion time.
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]*core.Document, error) {
	var documents []*core.Document

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			// The sequence key shares the record prefix
			if string(item.Key()) == documentIDSeq {
				continue
			}

			var document *core.Document
			err := item.Value(func(val []byte) error {
				var err error
				document, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if document != nil {
				documents = append(documents, document)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(documents, func(a, b *core.Document) int {
		return a.InsertedAt.Compare(b.InsertedAt)
	})

	return documents, nil
}

// DeleteDocument removes a document by ID.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)

		old, err := r.readDocument(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// CountDocuments returns the total number of stored documents.
func (r *DocumentRepository) CountDocuments(ctx context.Context) (int, error) {
	count := 0

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if string(iter.Item().Key()) == documentIDSeq {
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

// readDocument reads and unmarshals a document from the transaction.
// Returns nil (no error) if the key doesn't exist.
func (r *DocumentRepository) readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var document *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		document, err = storage.UnmarshalDocument(val)
		return err
	})
	if err != nil {
		return nil, err
	}

	return document, nil
}
