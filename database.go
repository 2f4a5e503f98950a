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


package docsearch

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/grimorio/docsearch/ai"
	"github.com/grimorio/docsearch/ai/googleai"
	"github.com/grimorio/docsearch/ai/openai"
	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/ingestion"
	"github.com/grimorio/docsearch/reembed"
	"github.com/grimorio/docsearch/search"
	"github.com/grimorio/docsearch/storage"
	"github.com/grimorio/docsearch/storage/badger"
)

type Database struct {
	backend      *badger.Backend
	chunkRepo    storage.ChunkRepository
	documentRepo storage.DocumentRepository
	historyRepo  storage.HistoryRepository
	provider     ai.Provider
	logger       *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig sets the AI service configuration.
// Default is ai.DefaultConfig() (OpenAI).
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create chunk repository
	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create document repository
	documentRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create history repository
	historyRepo, err := badger.NewHistoryRepository(backend)
	if err != nil {
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create AI provider for the configured service
	provider, err := newProvider(options.aiConfig)
	if err != nil {
		historyRepo.Close()
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:      backend,
		chunkRepo:    chunkRepo,
		documentRepo: documentRepo,
		historyRepo:  historyRepo,
		provider:     provider,
		logger:       slog.Default(),
	}, nil
}

// newProvider selects the provider implementation for the configured service.
func newProvider(config *ai.Config) (ai.Provider, error) {
	switch config.Service {
	case ai.ServiceGoogleAI:
		return googleai.NewProvider(config)
	case ai.ServiceOpenAI:
		return openai.NewProvider(config)
	default:
		return nil, fmt.Errorf("unknown AI service %q", config.Service)
	}
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := db.historyRepo.Close(); err != nil {
		db.logger.Error("error closing history repository", "err", err)
		return err
	}
	if err := db.documentRepo.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := db.chunkRepo.Close(); err != nil {
		db.logger.Error("error closing chunk repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.documentRepo
}

func (db *Database) HistoryRepository() storage.HistoryRepository {
	return db.historyRepo
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.chunkRepo, db.historyRepo, db.provider, opts...)
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.chunkRepo, db.documentRepo, db.provider, opts...)
}

func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(db.chunkRepo, db.documentRepo, db.provider.Embedder(), config, progress)
}

// DeleteDocument removes a document and all of its chunks.
func (db *Database) DeleteDocument(ctx context.Context, id core.ID) error {
	chunks, err := db.chunkRepo.GetChunksByDocument(ctx, id)
	if err != nil {
		return err
	}

	if len(chunks) > 0 {
		ids := make([]core.ID, len(chunks))
		for i, chunk := range chunks {
			ids[i] = chunk.Id
		}
		if err := db.chunkRepo.DeleteChunks(ctx, ids...); err != nil {
			return err
		}
	}

	return db.documentRepo.DeleteDocument(ctx, id)
}

// Stats holds storage counters.
type Stats struct {
	Documents int
	Chunks    int
}

// Stats returns document and chunk counts.
func (db *Database) Stats(ctx context.Context) (*Stats, error) {
	documents, err := db.documentRepo.CountDocuments(ctx)
	if err != nil {
		return nil, err
	}
	chunks, err := db.chunkRepo.CountChunks(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Documents: documents, Chunks: chunks}, nil
}
