package search

import (
	"fmt"

	"github.com/grimorio/docsearch/core"
)

// FallbackAnswer is returned verbatim when retrieval finds nothing, and is
// the answer the model is instructed to give for out-of-context questions.
const FallbackAnswer = "Não tenho informações necessárias para responder sua pergunta."

// promptTemplate grounds the model strictly in the retrieved context.
// Placeholders: rendered context block, then the user question.
const promptTemplate = `Você é um assistente que responde perguntas exclusivamente com base no contexto fornecido abaixo.

CONTEXTO:
%s

REGRAS:
1. Responda somente com informações presentes no CONTEXTO acima.
2. Se o contexto não contiver a informação necessária, responda exatamente: "%s"
3. Não invente informações e não use conhecimento externo ao contexto.
4. Sempre que possível, indique a página e o trecho de onde a informação foi retirada.

EXEMPLOS DE PERGUNTAS FORA DO CONTEXTO:
- "Qual a previsão do tempo para amanhã?" (assunto ausente do contexto)
- "O que você acha desse resultado?" (pedido de opinião)

PERGUNTA DO USUÁRIO:
%s`

// BuildPrompt assembles the final prompt from the question and context items.
func BuildPrompt(question string, items []core.ContextItem) string {
	return fmt.Sprintf(promptTemplate, renderContext(items), FallbackAnswer, question)
}
