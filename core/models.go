package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document represents a source document whose text has been split into chunks.
type Document struct {
	Id         ID
	Name       string
	Source     string // Original file path or URL the document was loaded from
	PageCount  int
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Chunk represents a contiguous span of document text stored as a retrievable unit.
// It may be enriched with an embedding vector after creation; its contents are
// immutable once ingested.
type Chunk struct {
	Id          ID
	DocumentId  ID
	Index       int // Ordinal position within the parent document
	Contents    string
	Fingerprint ID                // Content fingerprint, the deduplication and equality key
	Vector      []float32         // Embedding vector for semantic search (populated by processors)
	Metadata    map[string]string // Optional metadata (e.g., "source", "section")
	PageNumber  int               // Page the chunk was extracted from, 0 if unknown
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// ComputeFingerprint returns the content fingerprint for the chunk's contents.
func (c *Chunk) ComputeFingerprint() ID {
	return IDFromContent(c.Contents)
}

// EnsureFingerprint populates the Fingerprint field if it is unset.
func (c *Chunk) EnsureFingerprint() {
	if c.Fingerprint == 0 && c.Contents != "" {
		c.Fingerprint = c.ComputeFingerprint()
	}
}

// Equal reports whether two chunks carry the same content.
// Chunks are identical if and only if their fingerprints match, regardless
// of differing IDs or indices.
func (c *Chunk) Equal(other *Chunk) bool {
	if other == nil {
		return false
	}
	return c.Fingerprint == other.Fingerprint
}

// RetrievalResult represents a retrieved chunk with a relevance score.
// Score semantics depend on the retrieval signal: cosine similarity for
// semantic search, matched/total key terms for keyword search.
type RetrievalResult struct {
	Chunk *Chunk
	Score float32
}

// ContextItem is a chunk re-projected for prompt inclusion.
type ContextItem struct {
	Content    string
	PageNumber int
	Index      int     // Ordinal position of the chunk within its document
	Score      float32 // Relevance score rounded to 4 decimal places
}

// SearchRecord captures one executed search for the history log.
type SearchRecord struct {
	Id             ID
	Question       string
	QuestionVector []float32
	Answer         string
	ResultCount    int
	ElapsedMillis  int64
	InsertedAt     time.Time
}
