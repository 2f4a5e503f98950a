package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/storage"
)

// HistoryRepository implements storage.HistoryRepository for BadgerDB.
type HistoryRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(backend *Backend) (*HistoryRepository, error) {
	idSeq, err := backend.GetSequence(historyIDSeq)
	if err != nil {
		return nil, err
	}

	return &HistoryRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *HistoryRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *HistoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddSearchRecord appends a search record to the history log.
func (r *HistoryRepository) AddSearchRecord(ctx context.Context, record *core.SearchRecord) (*core.SearchRecord, error) {
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
		record.Id = core.ID(nextID)
		record.InsertedAt = time.Now().UTC()

		key := makeHistoryKey(record.Id)
		if err := tx.Set(key, storage.MarshalSearchRecord(record)); err != nil {
			return err
		}

		// Update date index
		dateKey := makeHistoryDateKey(record.InsertedAt, record.Id)
		if err := tx.Set(dateKey, storage.MarshalID(record.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return record, err
}

// GetRecentSearches retrieves the N most recent search records.
// The date index embeds the timestamp in BigEndian, so reverse key order
// is recency order.
func (r *HistoryRepository) GetRecentSearches(ctx context.Context, limit int) ([]*core.SearchRecord, error) {
	if limit <= 0 {
		return []*core.SearchRecord{}, nil
	}

	var records []*core.SearchRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(historyDatePrefix + ":")
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Reverse iteration starts past the last key of the prefix
		seekKey := append([]byte(historyDatePrefix+":"), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)

		for iter.Seek(seekKey); iter.Valid() && len(records) < limit; iter.Next() {
			var recordID core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			record, err := r.readSearchRecord(tx, makeHistoryKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				records = append(records, record)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// readSearchRecord reads and unmarshals a search record from the transaction.
// Returns nil (no error) if the key doesn't exist.
func (r *HistoryRepository) readSearchRecord(tx *badger.Txn, key []byte) (*core.SearchRecord, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record *core.SearchRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalSearchRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}
