package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeyTerms(t *testing.T) {
	t.Run("filters stop words and short tokens", func(t *testing.T) {
		terms := ExtractKeyTerms("Qual o faturamento da empresa Alfa?")
		assert.Equal(t, []string{"faturamento", "empresa", "alfa"}, terms)
	})

	t.Run("lowercases terms", func(t *testing.T) {
		terms := ExtractKeyTerms("PRAZO de Entrega")
		assert.Equal(t, []string{"prazo", "entrega"}, terms)
	})

	t.Run("keeps accented words whole", func(t *testing.T) {
		terms := ExtractKeyTerms("Quais informações sobre relatórios?")
		assert.Equal(t, []string{"quais", "informações", "sobre", "relatórios"}, terms)
	})

	t.Run("deduplicates preserving order", func(t *testing.T) {
		terms := ExtractKeyTerms("empresa empresa cliente empresa")
		assert.Equal(t, []string{"empresa", "cliente"}, terms)
	})

	t.Run("all stop words yields empty", func(t *testing.T) {
		assert.Empty(t, ExtractKeyTerms("qual o que de um uma"))
	})

	t.Run("empty question", func(t *testing.T) {
		assert.Empty(t, ExtractKeyTerms(""))
	})
}
