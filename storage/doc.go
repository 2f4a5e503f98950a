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


// Package storage provides the storage abstraction layer for docsearch.
//
// This package defines repository interfaces that decouple storage implementation
// from business logic. It allows for different storage backends (BadgerDB, in-memory,
// etc.) to be used interchangeably.
//
// Backend constructors such as badger.NewChunkRepository return their
// concrete types; consumers accept the interfaces defined here, so test
// code can swap in alternate implementations without touching callers.
//
// # Retrieval Primitives
//
// ChunkRepository exposes the two retrieval primitives composed by hybrid
// search: FindSimilar (vector similarity) and FindByKeywords (lexical term
// matching). Both guarantee score-descending order as a postcondition.
package storage
