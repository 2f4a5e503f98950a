package search

import (
	"context"
	"log/slog"
	"slices"

	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/storage"
)

// Split of the result budget between the two retrieval legs. Semantic
// similarity gets the larger share; the keyword leg fills whatever the
// semantic leg left open.
const semanticShare = 0.7

// Retriever performs hybrid retrieval over document chunks, combining a
// semantic (vector similarity) leg with a lexical (keyword) leg.
type Retriever struct {
	chunks storage.ChunkRepository
	logger *slog.Logger
}

// NewRetriever creates a retriever over the given chunk repository.
func NewRetriever(chunks storage.ChunkRepository) (*Retriever, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	return &Retriever{
		chunks: chunks,
		logger: slog.Default().With("component", "retriever"),
	}, nil
}

// Retrieve runs both retrieval legs and merges their results.
//
// The semantic leg receives max(1, floor(limit*0.7)) slots with no minimum
// similarity threshold. The keyword leg then receives max(1, limit minus the
// semantic hit count), so a weak semantic leg widens the lexical net. Results
// appearing in both legs are deduplicated by content fingerprint, keeping the
// semantic entry and its score. The merged set is sorted by score descending
// and truncated to limit.
//
// A limit of zero or less yields an empty result without touching storage.
func (r *Retriever) Retrieve(ctx context.Context, vector []float32, terms []string, limit int) ([]*core.RetrievalResult, error) {
	if limit <= 0 {
		return []*core.RetrievalResult{}, nil
	}

	semanticLimit := int(float64(limit) * semanticShare)
	if semanticLimit < 1 {
		semanticLimit = 1
	}

	semantic, err := r.chunks.FindSimilar(ctx, vector, 0, semanticLimit)
	if err != nil {
		r.logger.Error("semantic retrieval failed", "err", err)
		return nil, err
	}

	keywordLimit := limit - len(semantic)
	if keywordLimit < 1 {
		keywordLimit = 1
	}

	keyword, err := r.chunks.FindByKeywords(ctx, terms, keywordLimit)
	if err != nil {
		r.logger.Error("keyword retrieval failed", "err", err)
		return nil, err
	}

	r.logger.Debug("retrieval legs complete",
		"semanticHits", len(semantic),
		"keywordHits", len(keyword),
	)

	merged := mergeResults(semantic, keyword)

	slices.SortFunc(merged, func(a, b *core.RetrievalResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}

	return merged, nil
}

// mergeResults combines the two legs, deduplicating by content fingerprint.
// Semantic results win collisions: a chunk found by both legs keeps its
// similarity score, not its keyword score.
func mergeResults(semantic, keyword []*core.RetrievalResult) []*core.RetrievalResult {
	merged := make([]*core.RetrievalResult, 0, len(semantic)+len(keyword))
	seen := make(map[core.ID]bool, len(semantic)+len(keyword))

	for _, result := range semantic {
		fp := result.Chunk.Fingerprint
		if seen[fp] {
			continue
		}
		seen[fp] = true
		merged = append(merged, result)
	}

	for _, result := range keyword {
		fp := result.Chunk.Fingerprint
		if seen[fp] {
			continue
		}
		seen[fp] = true
		merged = append(merged, result)
	}

	return merged
}
