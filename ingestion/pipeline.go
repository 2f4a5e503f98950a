package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/grimorio/docsearch/ai"
	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/storage"
)

// Pipeline orchestrates the ingestion of documents and their chunks.
// It manages concurrent embedding generation for newly stored chunks.
type Pipeline struct {
	chunkRepository    storage.ChunkRepository
	documentRepository storage.DocumentRepository
	embeddingPool      *ants.Pool
	embeddingProc      processor
	pending            sync.WaitGroup
	logger             *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		embeddingPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.embeddingPool = embeddingPool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	chunkRepository storage.ChunkRepository,
	documentRepository storage.DocumentRepository,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if documentRepository == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		chunkRepository:    chunkRepository,
		documentRepository: documentRepository,
		embeddingPool:      embeddingPool,
		logger:             slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Create processor after options are applied (so it gets final config)
	embeddingProc, err := newEmbeddingProcessor(chunkRepository, provider.Embedder(), p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embeddingProc = embeddingProc

	return p, nil
}

// ChunkInput is one chunk of text to ingest.
type ChunkInput struct {
	// Contents is the chunk text.
	Contents string

	// PageNumber is the source page the text was extracted from.
	PageNumber int

	// Metadata holds optional key-value pairs attached to the chunk.
	Metadata map[string]string
}

// IngestDocument stores a document and its chunks, then generates embeddings
// asynchronously. Chunks whose content fingerprint already exists in storage
// are skipped, so re-ingesting a document never duplicates chunks.
// Errors during async embedding are logged but do not fail the ingestion.
// Returns the stored document and the chunks that were actually added.
func (p *Pipeline) IngestDocument(ctx context.Context, name, source string, pageCount int, inputs []ChunkInput) (*core.Document, []*core.Chunk, error) {
	document := &core.Document{
		Name:      name,
		Source:    source,
		PageCount: pageCount,
	}
	if err := core.ValidateDocument(document); err != nil {
		return nil, nil, err
	}

	document, err := p.documentRepository.AddDocument(ctx, document)
	if err != nil {
		return nil, nil, err
	}

	// Build chunks, skipping content already stored
	chunks := make([]*core.Chunk, 0, len(inputs))
	index := 0
	for _, input := range inputs {
		chunk := &core.Chunk{
			DocumentId: document.Id,
			Index:      index,
			Contents:   input.Contents,
			PageNumber: input.PageNumber,
			Metadata:   input.Metadata,
		}
		if err := core.ValidateChunk(chunk); err != nil {
			return nil, nil, err
		}
		chunk.EnsureFingerprint()

		exists, err := p.chunkRepository.HasFingerprint(ctx, chunk.Fingerprint)
		if err != nil {
			return nil, nil, err
		}
		if exists {
			p.logger.Debug("skipping duplicate chunk", "fingerprint", chunk.Fingerprint)
			continue
		}

		chunks = append(chunks, chunk)
		index++
	}

	if len(chunks) == 0 {
		p.logger.Info("document had no new chunks", "document", document.Name)
		return document, nil, nil
	}

	added, err := p.chunkRepository.AddChunks(ctx, chunks...)
	if err != nil {
		return nil, nil, err
	}

	// Extract IDs
	ids := make([]core.ID, len(added))
	for i, chunk := range added {
		ids[i] = chunk.Id
	}

	// Submit for async embedding
	p.pending.Add(1)
	err = p.embeddingPool.Submit(func() {
		defer p.pending.Done()
		if err := p.embeddingProc.process(context.Background(), ids...); err != nil {
			p.logger.Error("error processing embeddings", "err", err)
			return
		}
		if err := p.embeddingProc.checkpoint(); err != nil {
			p.logger.Error("error applying embedding checkpoint", "err", err)
		}
	})
	if err != nil {
		p.pending.Done()
		return nil, nil, err
	}

	p.logger.Info("document ingested",
		"document", document.Name,
		"chunks", len(added),
	)

	return document, added, nil
}

// Wait blocks until all submitted embedding work has finished.
func (p *Pipeline) Wait() {
	p.pending.Wait()
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
