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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/grimorio/docsearch"
	"github.com/grimorio/docsearch/ai"
	"github.com/grimorio/docsearch/ingestion"
	"github.com/grimorio/docsearch/reembed"
)

func main() {
	app := &cli.App{
		Name:  "docsearch",
		Usage: "Question answering over ingested documents using hybrid search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Answer a question grounded in the ingested documents",
				Action:    askCommand,
				ArgsUsage: "<question>",
				Flags:     append(databaseFlags(), serviceFlags()...),
			},
			{
				Name:      "ingest",
				Usage:     "Ingest a text file as a document",
				Action:    ingestCommand,
				ArgsUsage: "<file>",
				Flags: append(append(databaseFlags(), serviceFlags()...),
					&cli.StringFlag{
						Name:  "name",
						Usage: "Document name (defaults to the file name)",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Maximum characters per chunk",
						Value: 2000,
					},
				),
			},
			{
				Name:   "history",
				Usage:  "Show recent searches",
				Action: historyCommand,
				Flags: append(append(databaseFlags(), serviceFlags()...),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of recent searches to show",
						Value: 10,
					},
				),
			},
			{
				Name:   "stats",
				Usage:  "Show document and chunk counts",
				Action: statsCommand,
				Flags:  append(databaseFlags(), serviceFlags()...),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all chunks with new embeddings",
				Action: reembedCommand,
				Flags: append(append(databaseFlags(), serviceFlags()...),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
	}
}

func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "service",
			Usage: "AI service to use (openai, googleai)",
			Value: "openai",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the AI service",
			EnvVars: []string{"DOCSEARCH_API_KEY", "OPENAI_API_KEY", "GOOGLE_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Override AI service base URL (e.g. a local OpenAI-compatible server)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name (defaults per service)",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model name (defaults per service)",
		},
	}
}

// aiConfigFromFlags builds the AI config from CLI flags.
func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	service := ai.Service(strings.ToLower(c.String("service")))

	opts := []ai.ConfigOption{
		ai.WithService(service),
		ai.WithAPIKey(c.String("api-key")),
	}
	if host := c.String("host"); host != "" {
		opts = append(opts, ai.WithHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("chat-model"); model != "" {
		opts = append(opts, ai.WithChatModel(model))
	}

	config := ai.NewConfig(opts...)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

func openDatabase(c *cli.Context) (*docsearch.Database, error) {
	config, err := aiConfigFromFlags(c)
	if err != nil {
		return nil, err
	}
	return docsearch.NewDatabase(c.String("db"), docsearch.WithAIConfig(config))
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	response, err := searcher.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Println(response.Answer)
	fmt.Fprintf(os.Stderr, "\n%d results, %dms\n", len(response.Results), response.ElapsedMillis)

	return nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	filePath := c.Args().First()
	if filePath == "" {
		return fmt.Errorf("a file to ingest is required")
	}

	contents, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	name := c.String("name")
	if name == "" {
		name = filePath
	}

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	inputs := splitIntoChunks(string(contents), c.Int("chunk-size"))

	document, added, err := pipeline.IngestDocument(ctx, name, filePath, 1, inputs)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	// Block until embeddings are stored so the CLI exits with a usable index
	pipeline.Wait()

	fmt.Fprintf(os.Stderr, "Ingested %q: %d new chunks (%d supplied)\n",
		document.Name, len(added), len(inputs))

	return nil
}

func historyCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	records, err := db.HistoryRepository().GetRecentSearches(ctx, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No searches recorded.")
		return nil
	}

	for _, record := range records {
		fmt.Printf("[%s] %s\n", record.InsertedAt.Local().Format(time.DateTime), record.Question)
		fmt.Printf("    %s\n", record.Answer)
		fmt.Printf("    (%d results, %dms)\n", record.ResultCount, record.ElapsedMillis)
	}

	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	stats, err := db.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Printf("Documents: %d\n", stats.Documents)
	fmt.Printf("Chunks:    %d\n", stats.Chunks)

	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	// Validate config
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := db.NewReembedder(reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Service: %s\n", c.String("service"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
}

// splitIntoChunks cuts text into chunks of at most chunkSize characters,
// breaking at paragraph boundaries when possible.
func splitIntoChunks(text string, chunkSize int) []ingestion.ChunkInput {
	if chunkSize < 1 {
		chunkSize = 1
	}

	paragraphs := strings.Split(text, "\n\n")

	var inputs []ingestion.ChunkInput
	var current strings.Builder

	flush := func() {
		chunk := strings.TrimSpace(current.String())
		current.Reset()
		if chunk != "" {
			inputs = append(inputs, ingestion.ChunkInput{Contents: chunk, PageNumber: 1})
		}
	}

	for _, paragraph := range paragraphs {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		// Oversized paragraph: hard-split it
		for len(paragraph) > chunkSize {
			flush()
			inputs = append(inputs, ingestion.ChunkInput{Contents: paragraph[:chunkSize], PageNumber: 1})
			paragraph = strings.TrimSpace(paragraph[chunkSize:])
		}
		if paragraph == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+2+len(paragraph) > chunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(paragraph)
	}
	flush()

	return inputs
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
