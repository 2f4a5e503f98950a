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


// Package search provides retrieval-augmented question answering over
// document chunks.
//
// The Searcher type implements the full pipeline:
//   - Hybrid retrieval combining a semantic (vector similarity) leg and a
//     lexical (keyword) leg, deduplicated by content fingerprint
//   - Context assembly under an estimated-token budget, truncating the
//     lowest-ranked items first
//   - Answer generation grounded strictly in the retrieved context, with a
//     fixed fallback answer when nothing is retrieved
//
// Retrieval and context assembly are exported separately (Retriever,
// FormatAsContext, TruncateContext, BuildPrompt) so callers can run the
// stages independently.
package search
