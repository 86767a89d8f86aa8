// Package corpus loads the fixed reference document set the classifier
// agent is grounded in.
//
// Documents are read once at agent-construction time, split into
// overlapping character windows, and handed to the vector store. The
// set is immutable for the lifetime of the process.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/clausecheck/internal/vectorstore"
)

// ErrEmptyCorpus indicates the configured file list produced no chunks.
var ErrEmptyCorpus = errors.New("reference corpus produced no chunks")

// Config describes the document set and chunking parameters.
type Config struct {
	// Dir is the directory holding the reference documents.
	Dir string

	// Files is the fixed list of document filenames inside Dir.
	Files []string

	// ChunkSize and ChunkOverlap are measured in characters.
	ChunkSize    int
	ChunkOverlap int
}

// Load reads every configured document, splits it into overlapping
// chunks, and returns store documents carrying source metadata.
//
// A missing or unreadable document is an error: the corpus is fixed,
// and silently classifying against a partial corpus would weaken the
// grounding without the operator noticing.
func Load(ctx context.Context, cfg Config, logger *zap.Logger) ([]vectorstore.Document, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.ChunkSize),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
	)

	var docs []vectorstore.Document
	for _, name := range cfg.Files {
		path := filepath.Join(cfg.Dir, name)

		chunks, err := loadAndSplit(ctx, path, splitter)
		if err != nil {
			return nil, fmt.Errorf("loading reference document %s: %w", path, err)
		}

		for i, chunk := range chunks {
			docs = append(docs, vectorstore.Document{
				ID:      uuid.NewString(),
				Content: chunk.PageContent,
				Metadata: map[string]string{
					"source": name,
					"chunk":  fmt.Sprintf("%d", i),
				},
			})
		}

		logger.Info("loaded reference document",
			zap.String("file", name),
			zap.Int("chunks", len(chunks)),
		)
	}

	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	return docs, nil
}

// loadAndSplit picks a loader by file extension and runs the splitter.
func loadAndSplit(ctx context.Context, path string, splitter textsplitter.TextSplitter) ([]schema.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		return documentloaders.NewPDF(f, info.Size()).LoadAndSplit(ctx, splitter)
	}

	return documentloaders.NewText(f).LoadAndSplit(ctx, splitter)
}
