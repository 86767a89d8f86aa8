// Package vectorstore provides the embedded grounding store backed by
// chromem-go.
//
// chromem-go is an embeddable vector database with no external service
// dependency, which fits a single-operator batch run: the reference
// corpus is ingested once at startup and queried per classified cell.
package vectorstore

import (
	"context"
	"errors"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"
)

var (
	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyDocuments indicates empty or nil documents.
	ErrEmptyDocuments = errors.New("empty or nil documents")

	// ErrEmbeddingFailed indicates the embedder rejected the input.
	ErrEmbeddingFailed = errors.New("embedding failed")
)

// Embedder generates vector embeddings for documents and queries.
// langchaingo's embeddings.Embedder satisfies this interface.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Document is a chunk of reference text to be stored.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// SearchResult is a retrieved chunk with its similarity score.
type SearchResult struct {
	ID       string
	Content  string
	Score    float32
	Metadata map[string]string
}

// Config holds configuration for the store.
type Config struct {
	// Path is the directory for persistent storage. Empty keeps the
	// store in memory.
	Path string

	// Compress enables gzip compression for persisted data.
	Compress bool

	// Collection is the single collection holding the corpus chunks.
	Collection string
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Collection == "" {
		return fmt.Errorf("%w: collection name required", ErrInvalidConfig)
	}
	return nil
}

// Store wraps a chromem-go collection with batch ingestion and
// similarity search.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   Embedder
	config     Config
	logger     *zap.Logger
}

// New creates a Store with the given configuration.
func New(cfg Config, embedder Embedder, logger *zap.Logger) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	var db *chromem.DB
	if cfg.Path == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("creating chromem DB at %s: %w", cfg.Path, err)
		}
	}

	embeddingFunc := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("getting/creating collection %s: %w", cfg.Collection, err)
	}

	logger.Debug("vector store initialized",
		zap.String("collection", cfg.Collection),
		zap.Bool("persistent", cfg.Path != ""),
	)

	return &Store{
		db:         db,
		collection: collection,
		embedder:   embedder,
		config:     cfg,
		logger:     logger,
	}, nil
}

// AddDocuments embeds and stores documents in the collection.
func (s *Store) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return ErrEmptyDocuments
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("document at index %d has no ID", i)
		}
		texts[i] = doc.Content
	}

	// Embed in one batch rather than per document inside chromem.
	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromemDocs[i] = chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: embeddings[i],
		}
	}

	// Concurrency of 1: the embeddings already exist, chromem only stores.
	if err := s.collection.AddDocuments(ctx, chromemDocs, 1); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}

	s.logger.Debug("added documents to vector store",
		zap.String("collection", s.config.Collection),
		zap.Int("count", len(docs)),
	)

	return nil
}

// Query performs similarity search and returns up to k chunks.
// k is capped at the collection size; an empty collection yields no
// results rather than an error.
func (s *Store) Query(ctx context.Context, query string, k int) ([]SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	count := s.collection.Count()
	if count == 0 {
		return []SearchResult{}, nil
	}
	if k > count {
		k = count
	}

	results, err := s.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", s.config.Collection, err)
	}

	searchResults := make([]SearchResult, len(results))
	for i, r := range results {
		searchResults[i] = SearchResult{
			ID:       r.ID,
			Content:  r.Content,
			Score:    r.Similarity,
			Metadata: r.Metadata,
		}
	}

	return searchResults, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count() int {
	return s.collection.Count()
}
