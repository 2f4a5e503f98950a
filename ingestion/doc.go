// Package ingestion provides pipeline orchestration for storing documents.
//
// The Pipeline type manages the ingestion workflow for documents and their
// chunks, including:
//   - Adding documents and chunks to storage
//   - Skipping chunks whose content fingerprint is already stored
//   - Generating embeddings asynchronously
//
// Embedding is performed concurrently using a worker pool to maximize
// throughput. Errors during async processing are logged but do not fail
// the ingestion operation.
package ingestion
