// Package config provides configuration loading for clausecheck.
//
// Configuration is loaded from an optional YAML file, then overridden
// with CLAUSECHECK_* environment variables. The OpenAI API key may also
// be supplied through the conventional OPENAI_API_KEY variable.
package config

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey indicates no OpenAI API key was supplied.
// It is a fatal startup condition: nothing can run without it.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable is not set")

// ErrInvalidConfig indicates invalid configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the complete clausecheck configuration.
type Config struct {
	OpenAI      OpenAIConfig      `koanf:"openai"`
	Corpus      CorpusConfig      `koanf:"corpus"`
	VectorStore VectorStoreConfig `koanf:"vectorstore"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// OpenAIConfig holds credentials and model selection for the OpenAI backend.
type OpenAIConfig struct {
	// APIKey authenticates against the OpenAI API. Required.
	APIKey string `koanf:"api_key"`

	// Model is the chat model used for classification (default: gpt-4o).
	Model string `koanf:"model"`

	// EmbeddingModel is used to embed the reference corpus and queries
	// (default: text-embedding-3-large).
	EmbeddingModel string `koanf:"embedding_model"`

	// Temperature is the sampling temperature for classification calls.
	// Kept low so replies stay deterministic (default: 0.1).
	Temperature float64 `koanf:"temperature"`

	// BaseURL overrides the API endpoint. Empty means api.openai.com.
	BaseURL string `koanf:"base_url"`
}

// CorpusConfig describes the fixed reference document set the agent is
// grounded in.
type CorpusConfig struct {
	// Dir is the directory holding the reference documents, relative to
	// the working directory (default: knowledge).
	Dir string `koanf:"dir"`

	// Files is the fixed list of reference document filenames.
	Files []string `koanf:"files"`

	// ChunkSize is the chunk window size in characters (default: 1000).
	ChunkSize int `koanf:"chunk_size"`

	// ChunkOverlap is the overlap between adjacent chunks in characters
	// (default: 100).
	ChunkOverlap int `koanf:"chunk_overlap"`
}

// VectorStoreConfig holds settings for the embedded chromem-go store.
type VectorStoreConfig struct {
	// Path is the directory for persistent storage. Empty keeps the
	// store in memory, which suits a single classification run.
	Path string `koanf:"path"`

	// Compress enables gzip compression for persisted data.
	Compress bool `koanf:"compress"`

	// Collection is the collection name holding the guideline chunks.
	Collection string `koanf:"collection"`

	// TopK is how many guideline chunks are retrieved per cell.
	TopK int `koanf:"top_k"`
}

// LoggingConfig selects log verbosity and encoding.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DefaultCorpusFiles is the fixed reference document set. The grounding
// corpus is known at build time; operators override it via config only
// when the guideline documents themselves change.
func DefaultCorpusFiles() []string {
	return []string{
		"2015_UGC_09-16-15.pdf",
		"3560-1Chapter09.pdf",
		"ContractTypes.pdf",
		"Contracts-for-Contractors.pdf",
		"Guide-Construction-Contracts.pdf",
		"construction-contracting-options-4-pg.pdf",
	}
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o"
	}
	if cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = "text-embedding-3-large"
	}
	if cfg.OpenAI.Temperature == 0 {
		cfg.OpenAI.Temperature = 0.1
	}

	if cfg.Corpus.Dir == "" {
		cfg.Corpus.Dir = "knowledge"
	}
	if len(cfg.Corpus.Files) == 0 {
		cfg.Corpus.Files = DefaultCorpusFiles()
	}
	if cfg.Corpus.ChunkSize == 0 {
		cfg.Corpus.ChunkSize = 1000
	}
	if cfg.Corpus.ChunkOverlap == 0 {
		cfg.Corpus.ChunkOverlap = 100
	}

	if cfg.VectorStore.Collection == "" {
		cfg.VectorStore.Collection = "contract_guidelines"
	}
	if cfg.VectorStore.TopK == 0 {
		cfg.VectorStore.TopK = 5
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// Validate validates the configuration.
//
// Returns ErrMissingAPIKey if no API key is configured, or an
// ErrInvalidConfig-wrapped error for out-of-range values.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.OpenAI.Model == "" {
		return fmt.Errorf("%w: openai model required", ErrInvalidConfig)
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		return fmt.Errorf("%w: temperature %v out of range [0, 2]", ErrInvalidConfig, c.OpenAI.Temperature)
	}
	if len(c.Corpus.Files) == 0 {
		return fmt.Errorf("%w: corpus file list is empty", ErrInvalidConfig)
	}
	if c.Corpus.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, c.Corpus.ChunkSize)
	}
	if c.Corpus.ChunkOverlap < 0 || c.Corpus.ChunkOverlap >= c.Corpus.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be in [0, chunk size)", ErrInvalidConfig, c.Corpus.ChunkOverlap)
	}
	if c.VectorStore.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidConfig, c.VectorStore.TopK)
	}
	return nil
}
