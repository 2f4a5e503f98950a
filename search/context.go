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


package search

import (
	"fmt"
	"math"
	"strings"

	"github.com/grimorio/docsearch/core"
)

// maxPromptTokens is the estimated-token ceiling for an assembled prompt.
// Sized well below common model context windows to leave room for the answer.
const maxPromptTokens = 30000

// charsPerToken is the estimation ratio: one token per four characters.
// Crude but stable, and it only has to be consistent with itself.
const charsPerToken = 4

// EstimateTokens estimates the token count of a text as len/4.
func EstimateTokens(text string) int {
	return len(text) / charsPerToken
}

// FormatAsContext converts retrieval results into context items for prompt
// assembly, preserving result order. Scores are rounded to four decimal
// places; formatting already-formatted items is a no-op.
func FormatAsContext(results []*core.RetrievalResult) []core.ContextItem {
	items := make([]core.ContextItem, 0, len(results))
	for _, result := range results {
		items = append(items, core.ContextItem{
			Content:    result.Chunk.Contents,
			PageNumber: result.Chunk.PageNumber,
			Index:      result.Chunk.Index,
			Score:      roundScore(result.Score),
		})
	}
	return items
}

// roundScore rounds to four decimal places. Applying it twice gives the
// same value, which keeps context formatting idempotent.
func roundScore(score float32) float32 {
	return float32(math.Round(float64(score)*10000) / 10000)
}

// renderContext renders context items as a numbered block for the prompt.
// Each item carries its page and chunk position so answers can cite them.
func renderContext(items []core.ContextItem) string {
	if len(items) == 0 {
		return "Nenhum contexto fornecido."
	}

	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s (Página %d, Trecho %d)", i+1, item.Content, item.PageNumber, item.Index)
	}
	return b.String()
}

// IsWithinLimits reports whether a prompt assembled from the question and
// context items fits the estimated-token ceiling.
func IsWithinLimits(question string, items []core.ContextItem) bool {
	return EstimateTokens(BuildPrompt(question, items)) <= maxPromptTokens
}

// TruncateContext drops the lowest-ranked context items until the assembled
// prompt fits the token ceiling. Items arrive ranked best-first, so removal
// proceeds from the tail. The loop strictly shrinks the slice each pass and
// stops at empty, so it always terminates; if even an empty context doesn't
// fit, the empty slice is returned.
func TruncateContext(question string, items []core.ContextItem) []core.ContextItem {
	for len(items) > 0 && !IsWithinLimits(question, items) {
		items = items[:len(items)-1]
	}
	return items
}
