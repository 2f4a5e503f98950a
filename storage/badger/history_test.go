package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimorio/docsearch/core"
)

func TestHistoryRepository(t *testing.T) {
	chunkRepo, documentRepo, historyRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		historyRepo.Close()
		documentRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		record := &core.SearchRecord{
			Question:      fmt.Sprintf("pergunta %d", i),
			Answer:        fmt.Sprintf("resposta %d", i),
			ResultCount:   i,
			ElapsedMillis: int64(i * 10),
		}
		added, err := historyRepo.AddSearchRecord(ctx, record)
		require.NoError(t, err)
		assert.NotZero(t, added.Id)
		assert.False(t, added.InsertedAt.IsZero())
	}

	t.Run("most recent first", func(t *testing.T) {
		records, err := historyRepo.GetRecentSearches(ctx, 3)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "pergunta 5", records[0].Question)
		assert.Equal(t, "pergunta 4", records[1].Question)
		assert.Equal(t, "pergunta 3", records[2].Question)
	})

	t.Run("limit larger than log", func(t *testing.T) {
		records, err := historyRepo.GetRecentSearches(ctx, 100)
		require.NoError(t, err)
		assert.Len(t, records, 5)
	})

	t.Run("non-positive limit", func(t *testing.T) {
		records, err := historyRepo.GetRecentSearches(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
