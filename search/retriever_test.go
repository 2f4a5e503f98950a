package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/storage"
)

// fakeChunkRepo provides canned retrieval legs for retriever tests.
// The embedded interface panics on anything the retriever shouldn't touch.
type fakeChunkRepo struct {
	storage.ChunkRepository

	similar       []*core.RetrievalResult
	keyword       []*core.RetrievalResult
	similarLimits []int
	keywordLimits []int
}

func (f *fakeChunkRepo) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.RetrievalResult, error) {
	f.similarLimits = append(f.similarLimits, limit)
	results := f.similar
	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (f *fakeChunkRepo) FindByKeywords(ctx context.Context, terms []string, limit int) ([]*core.RetrievalResult, error) {
	f.keywordLimits = append(f.keywordLimits, limit)
	if len(terms) == 0 {
		return []*core.RetrievalResult{}, nil
	}
	results := f.keyword
	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func result(contents string, score float32) *core.RetrievalResult {
	chunk := &core.Chunk{Contents: contents}
	chunk.EnsureFingerprint()
	return &core.RetrievalResult{Chunk: chunk, Score: score}
}

func TestNewRetriever(t *testing.T) {
	t.Run("nil repository", func(t *testing.T) {
		_, err := NewRetriever(nil)
		assert.Equal(t, ErrChunkRepositoryRequired, err)
	})

	t.Run("valid", func(t *testing.T) {
		retriever, err := NewRetriever(&fakeChunkRepo{})
		require.NoError(t, err)
		assert.NotNil(t, retriever)
	})
}

func TestRetrieve_LimitZero(t *testing.T) {
	repo := &fakeChunkRepo{similar: []*core.RetrievalResult{result("a", 0.9)}}
	retriever, err := NewRetriever(repo)
	require.NoError(t, err)

	results, err := retriever.Retrieve(context.Background(), []float32{1}, []string{"term"}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
	// Storage is never consulted
	assert.Empty(t, repo.similarLimits)
	assert.Empty(t, repo.keywordLimits)
}

func TestRetrieve_LegBudgets(t *testing.T) {
	t.Run("semantic gets seventy percent", func(t *testing.T) {
		repo := &fakeChunkRepo{}
		retriever, err := NewRetriever(repo)
		require.NoError(t, err)

		_, err = retriever.Retrieve(context.Background(), []float32{1}, []string{"term"}, 10)
		require.NoError(t, err)

		require.Len(t, repo.similarLimits, 1)
		assert.Equal(t, 7, repo.similarLimits[0])
	})

	t.Run("both legs get at least one slot", func(t *testing.T) {
		repo := &fakeChunkRepo{
			similar: []*core.RetrievalResult{result("a", 0.9)},
		}
		retriever, err := NewRetriever(repo)
		require.NoError(t, err)

		_, err = retriever.Retrieve(context.Background(), []float32{1}, []string{"term"}, 1)
		require.NoError(t, err)

		assert.Equal(t, []int{1}, repo.similarLimits)
		assert.Equal(t, []int{1}, repo.keywordLimits)
	})

	t.Run("keyword leg widens when semantic underdelivers", func(t *testing.T) {
		repo := &fakeChunkRepo{
			similar: []*core.RetrievalResult{result("a", 0.9), result("b", 0.8)},
		}
		retriever, err := NewRetriever(repo)
		require.NoError(t, err)

		_, err = retriever.Retrieve(context.Background(), []float32{1}, []string{"term"}, 10)
		require.NoError(t, err)

		// Semantic returned 2 of its 7 slots, so keywords get 10-2=8
		assert.Equal(t, []int{8}, repo.keywordLimits)
	})
}

func TestRetrieve_MergeAndSort(t *testing.T) {
	repo := &fakeChunkRepo{
		similar: []*core.RetrievalResult{result("alpha", 0.9), result("beta", 0.8)},
		keyword: []*core.RetrievalResult{result("beta", 1.0), result("gamma", 0.5)},
	}
	retriever, err := NewRetriever(repo)
	require.NoError(t, err)

	results, err := retriever.Retrieve(context.Background(), []float32{1}, []string{"term"}, 3)
	require.NoError(t, err)

	// beta appears in both legs: the semantic entry wins, keeping its score
	require.Len(t, results, 3)
	assert.Equal(t, "alpha", results[0].Chunk.Contents)
	assert.Equal(t, "beta", results[1].Chunk.Contents)
	assert.InDelta(t, 0.8, results[1].Score, 1e-6)
	assert.Equal(t, "gamma", results[2].Chunk.Contents)

	for i := 0; i < len(results)-1; i++ {
		assert.GreaterOrEqual(t, results[i].Score, results[i+1].Score)
	}
}

func TestRetrieve_LimitRespected(t *testing.T) {
	repo := &fakeChunkRepo{
		similar: []*core.RetrievalResult{result("a", 0.9), result("b", 0.8)},
		keyword: []*core.RetrievalResult{result("c", 0.7), result("d", 0.6), result("e", 0.5)},
	}
	retriever, err := NewRetriever(repo)
	require.NoError(t, err)

	results, err := retriever.Retrieve(context.Background(), []float32{1}, []string{"term"}, 4)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, "a", results[0].Chunk.Contents)
	assert.Equal(t, "d", results[3].Chunk.Contents)
}
