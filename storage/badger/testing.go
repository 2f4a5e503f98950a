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


package badger

import "github.com/grimorio/docsearch/storage"

// NewMemoryRepositories creates in-memory chunk, document, and history
// repositories for testing.
// Returns chunkRepo, documentRepo, historyRepo, backend, and error.
// Caller must close all repos and the backend when done.
func NewMemoryRepositories() (storage.ChunkRepository, storage.DocumentRepository, storage.HistoryRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	chunkRepo, err := NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	documentRepo, err := NewDocumentRepository(backend)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	historyRepo, err := NewHistoryRepository(backend)
	if err != nil {
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	return chunkRepo, documentRepo, historyRepo, backend, nil
}
