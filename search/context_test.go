package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimorio/docsearch/core"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 0, EstimateTokens("abc"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 25, EstimateTokens(strings.Repeat("x", 100)))
}

func TestFormatAsContext(t *testing.T) {
	results := []*core.RetrievalResult{
		{Chunk: &core.Chunk{Contents: "first", PageNumber: 2, Index: 0}, Score: 0.987654},
		{Chunk: &core.Chunk{Contents: "second", PageNumber: 3, Index: 1}, Score: 0.5},
	}

	items := FormatAsContext(results)
	require.Len(t, items, 2)

	assert.Equal(t, "first", items[0].Content)
	assert.Equal(t, 2, items[0].PageNumber)
	assert.InDelta(t, 0.9877, items[0].Score, 1e-6)
	assert.InDelta(t, 0.5, items[1].Score, 1e-6)
}

func TestRoundScore_Idempotent(t *testing.T) {
	scores := []float32{0.987654, 0.123456, 0.999999, 0.0001, 1.0, 0}
	for _, score := range scores {
		once := roundScore(score)
		assert.Equal(t, once, roundScore(once))
	}
}

func TestRenderContext(t *testing.T) {
	t.Run("numbered with page and position", func(t *testing.T) {
		rendered := renderContext([]core.ContextItem{
			{Content: "o prazo é 30 dias", PageNumber: 4, Index: 2},
			{Content: "a multa é 2%", PageNumber: 7, Index: 0},
		})
		assert.Contains(t, rendered, "1. o prazo é 30 dias (Página 4, Trecho 2)")
		assert.Contains(t, rendered, "2. a multa é 2% (Página 7, Trecho 0)")
	})

	t.Run("empty context placeholder", func(t *testing.T) {
		assert.Equal(t, "Nenhum contexto fornecido.", renderContext(nil))
	})
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Qual o prazo?", []core.ContextItem{
		{Content: "o prazo é 30 dias", PageNumber: 1, Index: 0},
	})

	assert.Contains(t, prompt, "CONTEXTO:")
	assert.Contains(t, prompt, "REGRAS:")
	assert.Contains(t, prompt, "PERGUNTA DO USUÁRIO:")
	assert.Contains(t, prompt, "o prazo é 30 dias")
	assert.Contains(t, prompt, "Qual o prazo?")
	assert.Contains(t, prompt, FallbackAnswer)
}

func TestTruncateContext(t *testing.T) {
	t.Run("fits untouched", func(t *testing.T) {
		items := []core.ContextItem{
			{Content: "small", PageNumber: 1},
			{Content: "also small", PageNumber: 1},
		}
		kept := TruncateContext("question", items)
		assert.Len(t, kept, 2)
	})

	t.Run("drops lowest ranked first", func(t *testing.T) {
		// Each item is ~40k characters = ~10k estimated tokens; four of them
		// exceed the 30k ceiling, so the tail items go first
		big := strings.Repeat("x", 40000)
		items := []core.ContextItem{
			{Content: big, Score: 0.9},
			{Content: big, Score: 0.8},
			{Content: big, Score: 0.7},
			{Content: big, Score: 0.6},
		}

		kept := TruncateContext("question", items)
		require.NotEmpty(t, kept)
		assert.Less(t, len(kept), 4)
		// The best-ranked item survives
		assert.InDelta(t, 0.9, kept[0].Score, 1e-6)
		assert.True(t, IsWithinLimits("question", kept))
	})

	t.Run("terminates even when nothing fits", func(t *testing.T) {
		huge := strings.Repeat("x", 200000)
		items := []core.ContextItem{{Content: huge}}

		kept := TruncateContext("question", items)
		assert.Empty(t, kept)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, TruncateContext("question", nil))
	})
}
