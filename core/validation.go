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


package core

import (
	"fmt"
	"time"
)

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Contents must not be empty
//   - Index must not be negative
//
// NOT validated (populated by processors or storage):
//   - Vector (can be empty until the embedding processor runs)
//   - Fingerprint (derived from Contents on ingestion)
//   - ID (0 is valid before persistence)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Contents == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.Index < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeIndex)
	}

	return nil
}

// ValidateDocument validates a Document according to domain rules.
func ValidateDocument(document *Document) error {
	if document == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if document.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentName)
	}

	return nil
}

// ValidateSearchRecord validates a SearchRecord according to domain rules.
func ValidateSearchRecord(record *SearchRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidSearchRecord)
	}

	if record.Question == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSearchRecord, ErrEmptyQuestion)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
