package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/clausecheck/internal/classifier"
	"github.com/fyrsmithlabs/clausecheck/internal/config"
	"github.com/fyrsmithlabs/clausecheck/internal/corpus"
	"github.com/fyrsmithlabs/clausecheck/internal/dataset"
	"github.com/fyrsmithlabs/clausecheck/internal/logging"
	"github.com/fyrsmithlabs/clausecheck/internal/processor"
	"github.com/fyrsmithlabs/clausecheck/internal/vectorstore"
)

// runClassify is the top-level flow. Anything it returns is reported
// once by main as a generic error message.
func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// Missing credential aborts before any work begins.
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return err
	}
	defer logging.Sync(logger) //nolint:errcheck

	if inputPath != "" {
		return runBatch(ctx, cfg, logger)
	}
	return runInteractive(ctx, cfg, logger)
}

// runInteractive drives the sequential console protocol: file path,
// column selection, classification, table dump, optional save.
func runInteractive(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	in := bufio.NewReader(os.Stdin)

	fmt.Println("Contract Risk Classification System")
	fmt.Println("----------------------------------")
	fmt.Println("This system analyzes contract text and classifies risk based on guidelines.")
	fmt.Println()

	path, err := promptLine(in, "Enter the path to your CSV file: ")
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("Error: File '%s' not found.\n", path)
		return nil
	}

	table, err := dataset.Load(path)
	if err != nil {
		return err
	}

	fmt.Println("\nAvailable columns:")
	for i, col := range table.Columns {
		fmt.Printf("%d. %s\n", i+1, col)
	}

	selection, err := promptLine(in, "\nEnter the numbers of text columns to analyze (comma-separated): ")
	if err != nil {
		return err
	}
	columns, err := selectColumns(table.Columns, selection)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		fmt.Println("No valid columns selected.")
		return nil
	}
	fmt.Printf("\nAnalyzing columns: %s\n", strings.Join(columns, ", "))

	result, err := classify(ctx, cfg, logger, table, columns)
	if err != nil {
		return err
	}

	fmt.Println("\nClassification Complete!")
	fmt.Print(table.String())
	reportWarnings(result)

	savePath, err := promptLine(in, "\nEnter a file path to save results (or press Enter to skip): ")
	if err != nil {
		return err
	}
	if savePath != "" {
		if err := table.Save(savePath); err != nil {
			return err
		}
		fmt.Printf("Results saved to %s\n", savePath)
	}

	return nil
}

// runBatch runs the same core non-interactively from flags.
func runBatch(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if columnNames == "" {
		return fmt.Errorf("--columns is required with --input")
	}

	if _, err := os.Stat(inputPath); err != nil {
		fmt.Printf("Error: File '%s' not found.\n", inputPath)
		return nil
	}

	table, err := dataset.Load(inputPath)
	if err != nil {
		return err
	}

	var columns []string
	for _, name := range strings.Split(columnNames, ",") {
		if name = strings.TrimSpace(name); name != "" {
			columns = append(columns, name)
		}
	}

	result, err := classify(ctx, cfg, logger, table, columns)
	if err != nil {
		return err
	}

	fmt.Println("Classification Complete!")
	fmt.Print(table.String())
	reportWarnings(result)

	if outputPath != "" {
		if err := table.Save(outputPath); err != nil {
			return err
		}
		fmt.Printf("Results saved to %s\n", outputPath)
	}

	return nil
}

// classify builds the grounded agent and runs the column processor.
// The agent (and the corpus embedding pass it triggers) is built only
// after column selection, so an aborted selection costs no API calls.
func classify(ctx context.Context, cfg *config.Config, logger *zap.Logger, table *dataset.Table, columns []string) (*processor.Result, error) {
	agent, err := buildAgent(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return processor.Process(ctx, table, columns, agent, logger)
}

// buildAgent wires the OpenAI chat model, the embedder, the vector
// store seeded with the chunked reference corpus, and the classifier
// agent on top.
func buildAgent(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*classifier.Agent, error) {
	chatOpts := []openai.Option{
		openai.WithToken(cfg.OpenAI.APIKey),
		openai.WithModel(cfg.OpenAI.Model),
	}
	embedOpts := []openai.Option{
		openai.WithToken(cfg.OpenAI.APIKey),
		openai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
	}
	if cfg.OpenAI.BaseURL != "" {
		chatOpts = append(chatOpts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
		embedOpts = append(embedOpts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
	}

	chatModel, err := openai.New(chatOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}
	embedClient, err := openai.New(embedOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI embedding client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(embedClient)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	store, err := vectorstore.New(vectorstore.Config{
		Path:       cfg.VectorStore.Path,
		Compress:   cfg.VectorStore.Compress,
		Collection: cfg.VectorStore.Collection,
	}, embedder, logger)
	if err != nil {
		return nil, err
	}

	docs, err := corpus.Load(ctx, corpus.Config{
		Dir:          cfg.Corpus.Dir,
		Files:        cfg.Corpus.Files,
		ChunkSize:    cfg.Corpus.ChunkSize,
		ChunkOverlap: cfg.Corpus.ChunkOverlap,
	}, logger)
	if err != nil {
		return nil, err
	}
	if err := store.AddDocuments(ctx, docs); err != nil {
		return nil, err
	}
	logger.Info("reference corpus indexed", zap.Int("chunks", store.Count()))

	return classifier.New(classifier.Config{
		Persona:     classifier.DefaultPersona(),
		Temperature: cfg.OpenAI.Temperature,
		TopK:        cfg.VectorStore.TopK,
	}, chatModel, store, logger)
}

// selectColumns resolves comma-separated 1-based indices to column
// names. Out-of-range indices are dropped silently; an unparsable token
// is an error that surfaces through the generic top-level handler.
func selectColumns(available []string, input string) ([]string, error) {
	var columns []string
	for _, tok := range strings.Split(input, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid column number %q: %w", tok, err)
		}
		if n >= 1 && n <= len(available) {
			columns = append(columns, available[n-1])
		}
	}
	return columns, nil
}

// reportWarnings summarizes processing warnings on the console; the
// detail was already logged as each warning occurred.
func reportWarnings(result *processor.Result) {
	if len(result.Warnings) > 0 {
		fmt.Printf("\n%d warning(s) during classification; see log output.\n", len(result.Warnings))
	}
}

// promptLine prints a prompt and reads one trimmed line from the reader.
func promptLine(in *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
