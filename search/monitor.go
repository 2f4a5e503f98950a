package search

import "github.com/grimorio/docsearch/core"

// SearchMonitor provides hooks to observe the question-answering pipeline.
// Implement this interface to track intermediate steps during a search.
type SearchMonitor interface {
	Start(question string)
	AfterEmbedding(vector []float32)
	AfterTermExtraction(terms []string)
	AfterRetrieval(results []*core.RetrievalResult)
	AfterTruncation(items []core.ContextItem)
	FallbackTaken(question string)
	Finish(answer string)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                           {}
func (n *noopMonitor) AfterEmbedding(_ []float32)               {}
func (n *noopMonitor) AfterTermExtraction(_ []string)           {}
func (n *noopMonitor) AfterRetrieval(_ []*core.RetrievalResult) {}
func (n *noopMonitor) AfterTruncation(_ []core.ContextItem)     {}
func (n *noopMonitor) FallbackTaken(_ string)                   {}
func (n *noopMonitor) Finish(_ string)                          {}
