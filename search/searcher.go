package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/grimorio/docsearch/ai"
	"github.com/grimorio/docsearch/core"
	"github.com/grimorio/docsearch/storage"
)

// defaultMaxResults is the retrieval budget used when no option overrides it.
const defaultMaxResults = 10

// Searcher orchestrates retrieval-augmented question answering over
// document chunks: hybrid retrieval, context assembly, and generation.
type Searcher struct {
	chunks     storage.ChunkRepository
	history    storage.HistoryRepository
	embedder   ai.Embedder
	generator  ai.Generator
	retriever  *Retriever
	maxResults int
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMaxResults sets the retrieval budget shared by both search legs.
// Default is 10.
func WithMaxResults(n int) Option {
	return func(s *Searcher) error {
		s.maxResults = n
		return nil
	}
}

// NewSearcher creates a new searcher.
// The history repository may be nil, which disables search-history logging.
func NewSearcher(
	chunkRepository storage.ChunkRepository,
	historyRepository storage.HistoryRepository,
	provider ai.Provider,
	opts ...Option,
) (*Searcher, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	retriever, err := NewRetriever(chunkRepository)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		chunks:     chunkRepository,
		history:    historyRepository,
		embedder:   provider.Embedder(),
		generator:  provider.Generator(),
		retriever:  retriever,
		maxResults: defaultMaxResults,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Response is the outcome of a question-answering run.
type Response struct {
	// Answer is the generated answer, or the fixed fallback text when
	// retrieval found nothing.
	Answer string

	// Results are the retrieval results the answer was grounded on,
	// ranked by score.
	Results []*core.RetrievalResult

	// ElapsedMillis is the wall-clock duration of the whole run.
	ElapsedMillis int64
}

// Ask answers a question grounded in the stored document chunks.
// Returns ErrEmptyQuestion for empty or whitespace-only questions.
func (s *Searcher) Ask(ctx context.Context, question string) (*Response, error) {
	return s.AskWithMonitor(ctx, question, nil)
}

// AskWithMonitor answers a question with pipeline monitoring.
// The monitor receives callbacks at each stage of the run.
//
// When retrieval returns no results the fixed fallback answer is returned
// directly; the generation model is not called.
func (s *Searcher) AskWithMonitor(ctx context.Context, question string, monitor SearchMonitor) (*Response, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	started := time.Now()
	monitor.Start(question)

	// 1. Embed the question for the semantic leg
	vector, err := s.embedder.EmbedText(ctx, question)
	if err != nil {
		s.logger.Error("error generating embedding for question", "err", err)
		return nil, err
	}
	monitor.AfterEmbedding(vector)

	// 2. Extract key terms for the lexical leg
	terms := ExtractKeyTerms(question)
	monitor.AfterTermExtraction(terms)

	// 3. Hybrid retrieval
	results, err := s.retriever.Retrieve(ctx, vector, terms, s.maxResults)
	if err != nil {
		s.logger.Error("retrieval failed", "err", err)
		return nil, err
	}
	monitor.AfterRetrieval(results)

	// 4. Nothing retrieved: answer with the fallback, skip generation
	if len(results) == 0 {
		s.logger.Info("no results retrieved, returning fallback answer")
		monitor.FallbackTaken(question)

		response := &Response{
			Answer:        FallbackAnswer,
			Results:       []*core.RetrievalResult{},
			ElapsedMillis: time.Since(started).Milliseconds(),
		}
		s.recordHistory(ctx, question, vector, response)
		monitor.Finish(response.Answer)
		return response, nil
	}

	// 5. Assemble context within the token budget
	items := FormatAsContext(results)
	items = TruncateContext(question, items)
	monitor.AfterTruncation(items)

	if dropped := len(results) - len(items); dropped > 0 {
		s.logger.Warn("context truncated to fit token budget",
			"retrieved", len(results),
			"kept", len(items),
		)
	}

	// 6. Generate the answer
	prompt := BuildPrompt(question, items)
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("answer generation failed", "err", err)
		return nil, err
	}

	response := &Response{
		Answer:        answer,
		Results:       results,
		ElapsedMillis: time.Since(started).Milliseconds(),
	}
	s.recordHistory(ctx, question, vector, response)
	monitor.Finish(response.Answer)

	return response, nil
}

// recordHistory appends the run to the search-history log.
// History is best-effort: failures are logged and never fail the search.
func (s *Searcher) recordHistory(ctx context.Context, question string, vector []float32, response *Response) {
	if s.history == nil {
		return
	}

	record := &core.SearchRecord{
		Question:       question,
		QuestionVector: vector,
		Answer:         response.Answer,
		ResultCount:    len(response.Results),
		ElapsedMillis:  response.ElapsedMillis,
	}
	if _, err := s.history.AddSearchRecord(ctx, record); err != nil {
		s.logger.Warn("failed to record search history", "err", err)
	}
}
