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


// Package ai provides abstractions for AI services used in docsearch.
//
// This package defines interfaces for AI operations including text embeddings
// and answer generation. It follows the dependency inversion principle,
// allowing the core domain and business logic to depend on abstractions
// rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Generator: Produces answers from assembled prompts
//   - Provider: Aggregates AI services for convenient initialization
//
// Two provider implementations exist: openai (OpenAI and OpenAI-compatible
// services) and googleai (Google Gemini via its OpenAI-compatible endpoint).
// Which one is used is an explicit Config decision made once at startup;
// the search path never consults ambient state to pick a backend.
//
// The mock subpackage provides test doubles with injectable behavior and
// call counting.
package ai
