package search

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Portuguese stop words filtered out of keyword queries. Articles,
// prepositions, and interrogatives carry no lexical signal.
var stopWords = map[string]bool{
	"qual": true, "o": true, "da": true, "de": true, "do": true,
	"das": true, "dos": true, "a": true, "as": true, "e": true,
	"em": true, "na": true, "no": true, "nas": true, "nos": true,
	"para": true, "com": true, "por": true, "que": true, "se": true,
	"um": true, "uma": true, "uns": true, "umas": true,
}

// minTermLength filters out residual short tokens ("é", "ao") that survive
// the stop-word list.
const minTermLength = 3

// wordPattern matches runs of letters, digits, and underscores.
// \pL covers accented characters, so "informações" stays a single token.
var wordPattern = regexp.MustCompile(`[\pL\pN_]+`)

// ExtractKeyTerms tokenizes a question into lowercase keyword terms for the
// lexical search leg. Stop words and tokens shorter than three runes are
// dropped, and duplicates are removed preserving first-occurrence order.
// A question made entirely of stop words yields an empty slice.
func ExtractKeyTerms(question string) []string {
	tokens := wordPattern.FindAllString(strings.ToLower(question), -1)

	seen := make(map[string]bool, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if stopWords[token] || utf8.RuneCountInString(token) < minTermLength {
			continue
		}
		if seen[token] {
			continue
		}
		seen[token] = true
		terms = append(terms, token)
	}

	return terms
}
